package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

// runCLI executes the root command with args against a config directory in
// a fresh temporary directory, and returns the command output.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	ResetGlobalState()
	t.Cleanup(ResetGlobalState)
	color.NoColor = true
	t.Setenv("NO_COLOR", "1")

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"--config-dir", dir}, args...))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return out.String(), err
}
