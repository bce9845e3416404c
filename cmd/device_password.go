package cmd

import (
	"fmt"

	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/PolarWolf314/deskvault/internal/utils"
	"github.com/spf13/cobra"
)

var (
	devicePasswordSet      bool
	devicePasswordClear    bool
	devicePasswordGenerate int
	devicePasswordReveal   bool
)

func init() {
	devicePasswordCmd.Flags().BoolVar(&devicePasswordSet, "set", false, "read a new password from stdin or prompt for it")
	devicePasswordCmd.Flags().BoolVar(&devicePasswordClear, "clear", false, "remove the permanent password")
	devicePasswordCmd.Flags().IntVar(&devicePasswordGenerate, "generate", 0, "set a random password of this length")
	devicePasswordCmd.Flags().BoolVar(&devicePasswordReveal, "reveal", false, "print the password instead of a masked form")
	devicePasswordCmd.MarkFlagsMutuallyExclusive("set", "clear", "generate")
	DeviceCmd.AddCommand(devicePasswordCmd)
}

func resetDevicePasswordState() {
	devicePasswordSet = false
	devicePasswordClear = false
	devicePasswordGenerate = 0
	devicePasswordReveal = false
}

var devicePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Show or change the permanent password",
	Long: `Shows whether a permanent password is set, or changes it.

The password is encrypted before it is written to disk.

Examples:
  deskvault device password
  echo "s3cret" | deskvault device password --set
  deskvault device password --generate 8 --reveal
  deskvault device password --clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting device password command")
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch {
		case devicePasswordSet:
			password, err := readNewPassword()
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to read password: %v", err)
			}
			if err := s.SetPermanentPassword(password); err != nil {
				return Logger.ErrorfAndReturn("Failed to store password: %v", err)
			}
			fmt.Fprintln(out, ui.Success.Sprint("✓")+" Permanent password updated")
		case devicePasswordGenerate > 0:
			password, err := s.GetAutoPassword(devicePasswordGenerate)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to generate password: %v", err)
			}
			if err := s.SetPermanentPassword(password); err != nil {
				return Logger.ErrorfAndReturn("Failed to store password: %v", err)
			}
			fmt.Fprintln(out, ui.Success.Sprint("✓")+" Permanent password set to "+displayPassword(password))
		case devicePasswordClear:
			if err := s.SetPermanentPassword(""); err != nil {
				return Logger.ErrorfAndReturn("Failed to clear password: %v", err)
			}
			fmt.Fprintln(out, ui.Success.Sprint("✓")+" Permanent password removed")
		default:
			password := s.GetPermanentPassword()
			if password == "" {
				fmt.Fprintln(out, ui.Warning.Sprint("⚠")+" No permanent password set")
				return nil
			}
			fmt.Fprintln(out, displayPassword(password))
		}
		return nil
	},
}

func displayPassword(password string) string {
	if devicePasswordReveal {
		return ui.Highlight.Sprint(password)
	}
	return utils.MaskSecret(password, 0)
}

// readNewPassword reads piped input, or prompts twice on a terminal.
func readNewPassword() (string, error) {
	if !utils.IsTerminal() {
		return utils.ReadStdin()
	}

	password, err := utils.ReadPassphrase("New password: ")
	if err != nil {
		return "", err
	}
	confirm, err := utils.ReadPassphrase("Repeat password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}
