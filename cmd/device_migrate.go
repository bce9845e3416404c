package cmd

import (
	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/PolarWolf314/deskvault/internal/utils"
	"github.com/spf13/cobra"
)

var deviceMigrateCheck bool

func init() {
	deviceMigrateCmd.Flags().BoolVar(&deviceMigrateCheck, "check", false, "only report what would be migrated")
	DeviceCmd.AddCommand(deviceMigrateCmd)
}

func resetDeviceMigrateState() {
	deviceMigrateCheck = false
}

var deviceMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Re-encrypt values stored by older releases",
	Long: `Older releases stored the device ID, passwords and keys in plaintext or
with an older cipher. Those values are re-encrypted on first use; this
command does it for the identity and every peer at once.

Examples:
  deskvault device migrate --check
  deskvault device migrate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting device migrate command")
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		spinner, cleanup := startSpinner(out, "Checking stored values...")
		defer cleanup()

		if deviceMigrateCheck {
			report, err := s.CheckMigration()
			if err != nil {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to inspect configuration: " + err.Error()
				return err
			}
			if report.Clean() {
				spinner.FinalMSG = ui.Success.Sprint("✓") + " Nothing to migrate"
				return nil
			}
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Legacy values found:" + describeMigration(report.PlaintextFields, report.Peers)
			return nil
		}

		report, err := s.Migrate()
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Migration failed: " + err.Error()
			return err
		}
		if report.Clean() {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Nothing to migrate"
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Migrated:" + describeMigration(report.PlaintextFields, report.Peers)
		return nil
	},
}

func describeMigration(fields, peers []string) string {
	var items []string
	for _, f := range fields {
		items = append(items, "identity "+f)
	}
	for _, p := range peers {
		items = append(items, "peer "+p)
	}
	return utils.FormatPaths(items)
}
