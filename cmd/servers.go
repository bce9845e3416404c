package cmd

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/PolarWolf314/deskvault/internal/configs"
	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serversProbeTimeout time.Duration
	serversCustomClear  bool
)

// ServersCmd is the top-level servers command.
var ServersCmd = &cobra.Command{
	Use:   "servers",
	Short: "Show and choose rendezvous servers",
	Long: `The client registers with one rendezvous server. Unless a custom server is
configured, the reachable candidate with the lowest latency is used.

Examples:
  deskvault servers list
  deskvault servers probe
  deskvault servers custom rs.example.com:21116
  deskvault servers custom --clear`,
}

func init() {
	serversProbeCmd.Flags().DurationVar(&serversProbeTimeout, "timeout", 3*time.Second, "connect timeout per server")
	serversCustomCmd.Flags().BoolVar(&serversCustomClear, "clear", false, "remove the custom server")

	ServersCmd.AddCommand(serversListCmd)
	ServersCmd.AddCommand(serversProbeCmd)
	ServersCmd.AddCommand(serversCustomCmd)
}

func resetServersState() {
	serversProbeTimeout = 3 * time.Second
	serversCustomClear = false
}

// probeDialer is replaced in tests.
var probeDialer = func(timeout time.Duration) configs.Dialer {
	return &net.Dialer{Timeout: timeout}
}

var serversListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the candidate servers and the one in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		field(out, "In use", ui.Highlight.Sprint(s.GetRendezvousServer()))
		if relay := s.GetRelayServer(); relay != "" {
			field(out, "Relay", relay)
		}
		if custom := s.GetOption(configs.OptionCustomRendezvousServer); custom != "" {
			field(out, "Custom", custom)
		}
		field(out, "Serial", fmt.Sprintf("%d", s.GetSerial()))
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Info.Sprint("Candidates:"))
		for _, host := range s.GetRendezvousServers() {
			fmt.Fprintln(out, "  - "+host)
		}
		return nil
	},
}

var serversProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Measure latency to every candidate and pick the fastest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting servers probe command")
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		hosts := s.GetRendezvousServers()

		spinner, cleanup := startSpinner(out, fmt.Sprintf("Probing %d rendezvous servers...", len(hosts)))
		ctx, cancel := context.WithTimeout(cmd.Context(), serversProbeTimeout*time.Duration(len(hosts)+1))
		defer cancel()

		results, err := s.Probe(ctx, probeDialer(serversProbeTimeout), hosts)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Probe failed: " + err.Error()
			cleanup()
			return err
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Using " + ui.Highlight.Sprint(s.GetRendezvousServer())
		cleanup()

		for _, r := range results {
			fmt.Fprintf(out, "  %-32s %s\n", r.Host, ui.Latency(r.Ms))
		}
		return nil
	},
}

var serversCustomCmd = &cobra.Command{
	Use:   "custom [host[:port]]",
	Short: "Set or clear a custom rendezvous server",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if serversCustomClear == (len(args) == 1) {
			return fmt.Errorf("give either a server or --clear")
		}
		s, err := openStore()
		if err != nil {
			return err
		}

		value := ""
		if len(args) == 1 {
			value = args[0]
		}
		if err := s.SetOption(configs.OptionCustomRendezvousServer, value); err != nil {
			return Logger.ErrorfAndReturn("Failed to store custom server: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Rendezvous server is now "+ui.Highlight.Sprint(s.GetRendezvousServer()))
		return nil
	},
}
