package cmd

import (
	"fmt"
	"sort"

	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	deviceTrustCmd.AddCommand(deviceTrustListCmd)
	deviceTrustCmd.AddCommand(deviceTrustConfirmCmd)
	deviceTrustCmd.AddCommand(deviceTrustRevokeCmd)
	deviceTrustCmd.AddCommand(deviceTrustResetCmd)
	DeviceCmd.AddCommand(deviceTrustCmd)
}

var deviceTrustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Manage host key confirmations",
	Long: `Each rendezvous host that has confirmed the device key is remembered.
Unknown hosts count as unconfirmed.

Examples:
  deskvault device trust list
  deskvault device trust confirm rs-ny.deskvault.net
  deskvault device trust revoke rs-ny.deskvault.net
  deskvault device trust reset`,
}

var deviceTrustListCmd = &cobra.Command{
	Use:   "list",
	Short: "List host key confirmations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		field(out, "Device key", ui.Trust(s.GetKeyConfirmed()))

		hosts := s.HostKeyConfirmations()
		if len(hosts) == 0 {
			fmt.Fprintln(out, ui.Muted.Sprint("  No host confirmations recorded"))
			return nil
		}
		names := make([]string, 0, len(hosts))
		for host := range hosts {
			names = append(names, host)
		}
		sort.Strings(names)
		for _, host := range names {
			field(out, host, ui.Trust(hosts[host]))
		}
		return nil
	},
}

var deviceTrustConfirmCmd = &cobra.Command{
	Use:   "confirm <host>",
	Short: "Mark a host as having confirmed the device key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHostTrust(cmd, args[0], true)
	},
}

var deviceTrustRevokeCmd = &cobra.Command{
	Use:   "revoke <host>",
	Short: "Forget the confirmation of a host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHostTrust(cmd, args[0], false)
	},
}

var deviceTrustResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Revoke key confirmation and every host confirmation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		if err := s.ResetTrust(); err != nil {
			return Logger.ErrorfAndReturn("Failed to reset trust: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Key confirmation and host confirmations cleared")
		return nil
	},
}

func setHostTrust(cmd *cobra.Command, host string, confirmed bool) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	if err := s.SetHostKeyConfirmed(host, confirmed); err != nil {
		return Logger.ErrorfAndReturn("Failed to update %s: %v", host, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Highlight.Sprint(host), ui.Trust(confirmed))
	return nil
}
