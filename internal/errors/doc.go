// Package errors provides typed error values for DeskVault.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Storage errors: a partition or peer file could not be read or written
//     (ErrStoreFailed, ErrDecodeFailed)
//   - Identity errors: invalid device or peer identifiers (ErrInvalidID,
//     ErrInvalidPeerID, ErrIDExhausted)
//   - Key errors: keypair generation or replacement problems (ErrKeyGenFailed,
//     ErrKeyPairLocked)
//
// Most of these never reach the user. The configs package logs them and
// substitutes defaults at its boundary, so only explicit store calls and the
// CLI layer see them:
//
//	if err := store.SetID(id); errors.Is(err, kerrors.ErrInvalidID) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("storing partition %q: %w", name, errors.ErrStoreFailed)
package errors
