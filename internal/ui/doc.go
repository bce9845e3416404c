// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content (commands, paths, identifiers, status marks)
// with color when the terminal supports it, and fall back to plain text
// decorations when NO_COLOR is set or color is unavailable.
//
//	ui.Code.Sprint("deskvault device show")   // Commands and code
//	ui.Path.Sprint("DeskVault2.toml")         // File paths
//	ui.Success.Sprint("✓")                     // Success indicators
//	ui.Error.Sprint("✗")                       // Error indicators
//	ui.Highlight.Sprint("1234567890")         // IDs and user values
//	ui.Muted.Sprint("unreachable")            // De-emphasized text
//	ui.Latency(42)                            // Latency with a traffic-light color
package ui
