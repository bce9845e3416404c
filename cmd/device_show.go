package cmd

import (
	"fmt"

	"github.com/PolarWolf314/deskvault/internal/configs"
	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/PolarWolf314/deskvault/internal/utils"
	"github.com/spf13/cobra"
)

var deviceShowJSON bool

func init() {
	deviceShowCmd.Flags().BoolVar(&deviceShowJSON, "json", false, "output in JSON format")
	DeviceCmd.AddCommand(deviceShowCmd)
}

func resetDeviceShowState() {
	deviceShowJSON = false
}

type deviceSummary struct {
	ID               string `json:"id"`
	Fingerprint      string `json:"fingerprint"`
	KeyConfirmed     bool   `json:"key_confirmed"`
	PasswordSet      bool   `json:"password_set"`
	ConfirmedHosts   int    `json:"confirmed_hosts"`
	RendezvousServer string `json:"rendezvous_server"`
	ConfigDir        string `json:"config_dir"`
	Hostname         string `json:"hostname"`
	Username         string `json:"username"`
	NeedsMigration   bool   `json:"needs_migration"`
}

var deviceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the device identity",
	Long: `Displays the device ID, the fingerprint of the device key, whether the key
has been confirmed by the rendezvous service and which server is in use.

A keypair is generated on first use.

Examples:
  deskvault device show
  deskvault device show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting device show command")
		s, err := openStore()
		if err != nil {
			return err
		}

		summary := summarizeDevice(s)
		if deviceShowJSON {
			return printJSON(cmd.OutOrStdout(), summary)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.Info.Sprint("Device")+" ("+ui.Path.Sprint(summary.ConfigDir)+"):")
		fmt.Fprintln(out)
		field(out, "ID", ui.Highlight.Sprint(summary.ID))
		field(out, "Key", summary.Fingerprint)
		field(out, "Key status", ui.Trust(summary.KeyConfirmed))
		password := ui.Muted.Sprint("not set")
		if summary.PasswordSet {
			password = utils.MaskSecret(s.GetPermanentPassword(), 0)
		}
		field(out, "Password", password)
		field(out, "Confirmed hosts", fmt.Sprintf("%d", summary.ConfirmedHosts))
		field(out, "Rendezvous server", summary.RendezvousServer)
		field(out, "Host", summary.Username+"@"+summary.Hostname)

		if summary.NeedsMigration {
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.Warning.Sprint("⚠")+" Some values are stored in a legacy form. Run "+ui.Code.Sprint("deskvault device migrate")+" to re-encrypt them.")
		}
		return nil
	},
}

func summarizeDevice(s *configs.Store) deviceSummary {
	summary := deviceSummary{
		ID:               s.GetID(),
		KeyConfirmed:     s.GetKeyConfirmed(),
		PasswordSet:      s.GetPermanentPassword() != "",
		RendezvousServer: s.GetRendezvousServer(),
		ConfigDir:        s.Paths().ConfigDir,
	}

	pair := s.GetKeyPair()
	if fingerprint, err := configs.Fingerprint(pair.PublicKey); err == nil {
		summary.Fingerprint = fingerprint
	} else {
		Logger.Warnf("Device key unavailable: %v", err)
	}

	for _, confirmed := range s.HostKeyConfirmations() {
		if confirmed {
			summary.ConfirmedHosts++
		}
	}

	if hostname, err := utils.GetHostname(); err == nil {
		summary.Hostname = hostname
	}
	if username, err := utils.GetUsername(); err == nil {
		summary.Username = username
	}

	if report, err := s.CheckMigration(); err == nil {
		summary.NeedsMigration = !report.Clean()
	}
	return summary
}
