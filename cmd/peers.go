package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/deskvault/internal/configs"
	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/PolarWolf314/deskvault/internal/utils"
	"github.com/spf13/cobra"
)

var (
	peersListJSON   bool
	peersShowReveal bool
)

// PeersCmd is the top-level peers command.
var PeersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Manage remembered peers",
	Long: `Every remote device this client connected to is remembered with its
window layout, display preferences and saved credentials.

Examples:
  deskvault peers list
  deskvault peers show 123456789
  deskvault peers remove 123456789`,
}

func init() {
	peersListCmd.Flags().BoolVar(&peersListJSON, "json", false, "output in JSON format")
	peersShowCmd.Flags().BoolVar(&peersShowReveal, "reveal", false, "print saved credentials instead of masking them")

	PeersCmd.AddCommand(peersListCmd)
	PeersCmd.AddCommand(peersShowCmd)
	PeersCmd.AddCommand(peersRemoveCmd)
}

func resetPeersState() {
	peersListJSON = false
	peersShowReveal = false
}

type peerSummary struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Hostname string    `json:"hostname"`
	Platform string    `json:"platform"`
	Modified time.Time `json:"modified"`
}

var peersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered peers, most recent first",
	Long: `Lists remembered peers, most recently used first. Records left behind by
connections that never completed are deleted while listing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting peers list command")
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		spinner, cleanup := startSpinner(out, "Loading peers...")
		peers := s.Peers()
		spinner.FinalMSG = ""
		cleanup()

		summaries := make([]peerSummary, 0, len(peers))
		for _, p := range peers {
			summaries = append(summaries, peerSummary{
				ID:       p.ID,
				Username: p.Config.Info.Username,
				Hostname: p.Config.Info.Hostname,
				Platform: p.Config.Info.Platform,
				Modified: p.Modified,
			})
		}

		if peersListJSON {
			return printJSON(out, summaries)
		}
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No peers found.")
			return nil
		}
		for _, p := range summaries {
			fmt.Fprintf(out, "%-16s  %-24s  %-10s  %s\n",
				ui.Highlight.Sprint(p.ID), p.Username+"@"+p.Hostname, p.Platform, ui.Muted.Sprint(p.Modified.Format("2006-01-02 15:04")))
		}
		return nil
	},
}

var peersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the stored settings of a peer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		id := args[0]
		if !s.PeerExists(id) {
			return Logger.ErrorfAndReturn("Peer %s not found", id)
		}

		cfg := s.LoadPeer(id)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Info.Sprint("Peer")+" "+ui.Highlight.Sprint(id)+":")
		fmt.Fprintln(out)
		field(out, "Host", cfg.Info.Username+"@"+cfg.Info.Hostname)
		field(out, "Platform", cfg.Info.Platform)
		field(out, "Password", peerSecret(string(cfg.Password)))
		field(out, "View style", cfg.ViewStyle)
		field(out, "Image quality", cfg.ImageQuality)
		field(out, "Codec", cfg.CodecPreference)
		field(out, "Window", formatSize(cfg.Size))
		field(out, "Direct failures", fmt.Sprintf("%d", cfg.DirectFailures))
		for _, pf := range cfg.PortForwards {
			field(out, "Port forward", fmt.Sprintf("%d -> %s:%d", pf.LocalPort, pf.RemoteHost, pf.RemotePort))
		}
		for _, k := range []string{configs.OptionRDPPassword, configs.OptionOSPassword} {
			if v, ok := cfg.Options[k]; ok {
				field(out, k, peerSecret(v))
			}
		}
		return nil
	},
}

var peersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Forget a peer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		if err := s.RemovePeer(args[0]); err != nil {
			return Logger.ErrorfAndReturn("Failed to remove peer: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Removed peer "+ui.Highlight.Sprint(args[0]))
		return nil
	},
}

func peerSecret(v string) string {
	if v == "" {
		return ui.Muted.Sprint("not set")
	}
	if peersShowReveal {
		return v
	}
	return utils.MaskSecret(v, 0)
}

func formatSize(size configs.Size) string {
	if size == (configs.Size{}) {
		return ui.Muted.Sprint("default")
	}
	return strings.Join([]string{
		fmt.Sprintf("%dx%d", size[2], size[3]),
		fmt.Sprintf("at %d,%d", size[0], size[1]),
	}, " ")
}
