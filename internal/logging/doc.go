// Package logger provides leveled, structured logging for DeskVault.
//
// Logger is a small value type carrying the verbosity flags of the current
// command. Messages are emitted through logrus with a formatter that renders
// the semantic prefixes and colors used by the CLI.
//
// # Verbosity Levels
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Always shown
//	Logger.Errorf()          // Always shown
//	Logger.ErrorfAndReturn() // Errorf, then returns the message as an error
//
// # Fields
//
// Attach context with WithFields; fields render as key=value after the
// message:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.WithFields(logrus.Fields{"partition": "2"}).Debugf("loaded")
package logger
