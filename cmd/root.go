package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/deskvault/internal/configs"
	logger "github.com/PolarWolf314/deskvault/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose   bool
	debug     bool
	configDir string
	Logger    logger.Logger

	store *configs.Store

	RootCmd = &cobra.Command{
		Use:   "deskvault",
		Short: "DeskVault - inspect and manage the local remote-desktop configuration",
		Long: `DeskVault keeps the device identity, keypair, trusted hosts, peer records
and rendezvous server choice of a remote-desktop client.

Usage:
  deskvault <command> [flags]

Available Commands:
  device     Show and change the device identity, password, keypair and trust
  peers      List, inspect and remove remembered peers
  servers    Show and probe rendezvous servers
  version    Print version information

Run 'deskvault help <command>' for more details on a specific command.
`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t, config-dir=%q", cmd.CommandPath(), verbose, debug, configDir)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if store != nil {
				store.Wait()
			}
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "use this config directory instead of the platform default (env "+configs.ConfigDirEnv+")")

	RootCmd.AddCommand(DeviceCmd)
	RootCmd.AddCommand(PeersCmd)
	RootCmd.AddCommand(ServersCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore returns the Store for this invocation, creating it on first use.
func openStore() (*configs.Store, error) {
	if store != nil {
		return store, nil
	}

	opts := configs.Options{Logger: Logger}
	if configDir != "" {
		opts.Paths = &configs.Paths{ConfigDir: configDir}
	}

	s, err := configs.New(opts)
	if err != nil {
		return nil, Logger.ErrorfAndReturn("Failed to open configuration: %v", err)
	}
	Logger.Debugf("Using config directory %s", s.Paths().ConfigDir)
	store = s
	return store, nil
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	if store != nil {
		store.Wait()
	}
	store = nil
	verbose = false
	debug = false
	configDir = ""
	Logger = logger.Logger{}
	resetDeviceState()
	resetPeersState()
	resetServersState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed marker of every flag to prevent test pollution.
func resetCobraFlagState(c *cobra.Command) {
	c.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
