package cmd

import (
	"fmt"

	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/spf13/cobra"
)

var deviceIDRegenerate bool

func init() {
	deviceIDCmd.Flags().BoolVar(&deviceIDRegenerate, "regenerate", false, "replace the device ID with a new random one")
	DeviceCmd.AddCommand(deviceIDCmd)
}

func resetDeviceIDState() {
	deviceIDRegenerate = false
}

var deviceIDCmd = &cobra.Command{
	Use:   "id [new-id]",
	Short: "Show or change the device ID",
	Long: `Prints the device ID. With an argument, replaces it.

A device ID is 6 to 16 letters, digits, '-' or '_' and starts with a letter
or digit. Peers that remembered the old ID will no longer find this device.

Examples:
  deskvault device id
  deskvault device id my-workstation
  deskvault device id --regenerate`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting device id command")
		Logger.Debugf("Flags: regenerate=%t, args=%v", deviceIDRegenerate, args)

		if deviceIDRegenerate && len(args) > 0 {
			return fmt.Errorf("cannot use --regenerate together with a new ID")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch {
		case deviceIDRegenerate:
			old := s.GetID()
			newID, err := s.UpdateID()
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to regenerate device ID: %v", err)
			}
			fmt.Fprintf(out, "%s Device ID changed from %s to %s\n", ui.Success.Sprint("✓"), ui.Muted.Sprint(old), ui.Highlight.Sprint(newID))
		case len(args) == 1:
			if err := s.SetID(args[0]); err != nil {
				return Logger.ErrorfAndReturn("Failed to set device ID: %v", err)
			}
			fmt.Fprintf(out, "%s Device ID set to %s\n", ui.Success.Sprint("✓"), ui.Highlight.Sprint(args[0]))
		default:
			id := s.GetID()
			if id == "" {
				return Logger.ErrorfAndReturn("No device ID available")
			}
			fmt.Fprintln(out, id)
		}
		return nil
	},
}
