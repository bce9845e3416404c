package cmd

import (
	"github.com/spf13/cobra"
)

// DeviceCmd is the top-level device command.
var DeviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage the device identity",
	Long: `Provides commands for the identity of this device.

Use these commands to:
  - Show the device ID, key fingerprint and trust state (device show)
  - Change or regenerate the device ID (device id)
  - Set, generate or clear the permanent password (device password)
  - Show or import the device keypair (device keypair)
  - Review and change host key confirmations (device trust)
  - Re-encrypt values written by older releases (device migrate)
  - Copy the configuration to or from another account (device snapshot)
  - View the trust audit log (device log)

Examples:
  # Show the device identity
  deskvault device show

  # Pick a new random device ID
  deskvault device id --regenerate

  # Set the permanent password from stdin
  echo "s3cret" | deskvault device password --set`,
}

func resetDeviceState() {
	resetDeviceShowState()
	resetDeviceIDState()
	resetDevicePasswordState()
	resetDeviceKeypairState()
	resetDeviceMigrateState()
	resetDeviceLogState()
}
