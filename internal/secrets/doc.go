// Package secrets implements the versioned field codec used to keep
// sensitive configuration values encrypted at rest.
//
// Every encrypted value carries a two-character version tag in front of its
// payload. Strings are stored as tag + base64(nonce || box), byte slices as
// tag || nonce || box.
//
// # Versions
//
//   - "00": NaCl secretbox (XSalsa20-Poly1305). Still readable, never written
//     by default.
//   - "01": XChaCha20-Poly1305 with the tag as associated data. Current.
//
// # Decryption never fails
//
// Decrypt returns the input unchanged when it cannot be authenticated, and
// reports two flags:
//
//	value, wasEncrypted, needsRewrite := codec.DecryptString(stored, secrets.VersionCurrent)
//
// wasEncrypted is true only for data that authenticated under a known
// version. needsRewrite is true when the caller should store the value again:
// the input was legacy plaintext or used an older version. An empty input
// needs no rewrite.
//
// The key is derived with HKDF-SHA256 from a per-machine seed, so a copied
// config file does not decrypt on another machine.
//
// ParseOpenSSHPrivateKey reads ed25519 key files so an existing SSH key can
// be imported as the device key.
package secrets
