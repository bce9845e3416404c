package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PolarWolf314/deskvault/internal/audit"
	"github.com/PolarWolf314/deskvault/internal/ui"
	"github.com/spf13/cobra"
)

var (
	deviceLogLimit     int
	deviceLogReverse   bool
	deviceLogOperation string
	deviceLogJSON      bool
)

func init() {
	deviceLogCmd.Flags().IntVarP(&deviceLogLimit, "number", "n", 0, "limit number of entries shown")
	deviceLogCmd.Flags().BoolVar(&deviceLogReverse, "reverse", false, "show most recent entries first")
	deviceLogCmd.Flags().StringVar(&deviceLogOperation, "operation", "", "filter by operation type (comma-separated)")
	deviceLogCmd.Flags().BoolVar(&deviceLogJSON, "json", false, "output as JSON array")
	DeviceCmd.AddCommand(deviceLogCmd)
}

func resetDeviceLogState() {
	deviceLogLimit = 0
	deviceLogReverse = false
	deviceLogOperation = ""
	deviceLogJSON = false
}

var deviceLogCmd = &cobra.Command{
	Use:   "log",
	Short: "View the trust audit log",
	Long: `Displays the audit log of identity and trust changes: ID changes, key
generation, host confirmations, removed peers and rendezvous server choices.

Examples:
  deskvault device log                              # View full log
  deskvault device log -n 10                        # Last 10 entries
  deskvault device log --reverse                    # Most recent first
  deskvault device log --operation host-confirmed   # Filter by operation
  deskvault device log --json                       # JSON output`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting device log command")
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		entries, err := s.Audit().ReadEntries()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read audit log: %v", err)
		}
		total := len(entries)
		entries = filterLogEntries(entries, deviceLogOperation, deviceLogLimit, deviceLogReverse)
		Logger.Debugf("Parsed %d entries from audit log, %d after filtering", total, len(entries))

		if len(entries) == 0 {
			if total == 0 {
				fmt.Fprintln(out, "No audit log entries found.")
			} else {
				fmt.Fprintln(out, "No audit log entries found matching the filters.")
			}
			return nil
		}

		if deviceLogJSON {
			return printJSON(out, entries)
		}
		outputLogDefault(out, entries)
		return nil
	},
}

// filterLogEntries keeps entries whose operation is listed in operations,
// keeps the last limit of them and optionally reverses the order.
func filterLogEntries(entries []audit.Entry, operations string, limit int, reverse bool) []audit.Entry {
	if operations != "" {
		wanted := make(map[string]bool)
		for _, op := range strings.Split(operations, ",") {
			wanted[strings.TrimSpace(op)] = true
		}
		filtered := entries[:0:0]
		for _, e := range entries {
			if wanted[e.Operation] {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	if reverse {
		reversed := make([]audit.Entry, len(entries))
		for i, e := range entries {
			reversed[len(entries)-1-i] = e
		}
		entries = reversed
	}
	return entries
}

func outputLogDefault(out io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(out, "%-19s  %-20s  %s\n", formatLogTime(e.Timestamp), e.Operation, formatLogDetails(e))
	}
}

func formatLogTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatLogDetails(e audit.Entry) string {
	var parts []string
	if e.DeviceID != "" {
		parts = append(parts, "id="+e.DeviceID)
	}
	if e.Host != "" {
		parts = append(parts, "host="+e.Host)
	}
	if e.Peer != "" {
		parts = append(parts, "peer="+e.Peer)
	}
	if e.Fingerprint != "" {
		parts = append(parts, "key="+e.Fingerprint)
	}
	if e.Detail != "" {
		parts = append(parts, ui.Muted.Sprint(e.Detail))
	}
	return strings.Join(parts, " ")
}
