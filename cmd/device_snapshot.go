package cmd

import (
	"fmt"

	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	deviceSnapshotCmd.AddCommand(deviceSnapshotSaveCmd)
	deviceSnapshotCmd.AddCommand(deviceSnapshotImportCmd)
	DeviceCmd.AddCommand(deviceSnapshotCmd)
}

var deviceSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the identity and options to or from another account",
	Long: `Saves a copy of the identity and options files next to the originals, or
replaces them with such a copy. Used to hand the configuration of a user
session to the service account on the same machine.

Examples:
  deskvault device snapshot save
  deskvault device snapshot import /home/alice/.config/DeskVault/DeskVault_tmp.toml`,
}

var deviceSnapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write DeskVault_tmp.toml and DeskVault2_tmp.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		path, err := s.SaveTmp()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to save snapshot: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Snapshot written to "+ui.Path.Sprint(path))
		return nil
	},
}

var deviceSnapshotImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the identity and options with a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		if err := s.Import(args[0]); err != nil {
			return Logger.ErrorfAndReturn("Failed to import snapshot: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Imported device "+ui.Highlight.Sprint(s.GetID()))
		return nil
	},
}
