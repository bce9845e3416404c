// Package utils provides shared utility functions for DeskVault.
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//   - MachineID: returns a stable per-machine seed for key derivation
//   - ExecutableModTime: returns the modification time of the running binary
//   - PatchHome: maps service-account home directories to the real user's
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - MaskSecret: hides all but the tail of a secret
//
// # I/O Utilities
//
//   - ReadStdin: reads all data from standard input
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts for a secret without echo
//   - IsTerminal: checks if stdin is a terminal
package utils
