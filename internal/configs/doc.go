// Package configs owns DeskVault's persistent state: the device identity, its
// keypair, host trust decisions, per-peer settings and rendezvous server
// selection.
//
// State is stored in TOML partitions in the platform config directory:
//
//   - DeskVault.toml: identity (device ID, password, salt, keypair, trust)
//   - DeskVault2.toml: options, persisted rendezvous server, NAT type, serial
//   - DeskVault_local.toml: local UI state (last remote ID, window size, favorites)
//   - DeskVault_hwcodec.toml: hardware codec capabilities
//   - DeskVault_lan_peers.toml: last LAN discovery snapshot
//   - peers/<id>.toml: one file per remote peer
//
// # The Store
//
// A Store is the application context. It owns one lock-guarded, lazily
// loaded instance of every partition, and every mutation is flushed to disk
// synchronously under the partition's write lock. Setters skip the write when
// the value does not change.
//
// Load failures never surface: a missing or corrupt file yields the zero
// value and a logged error. Explicit store calls return their error.
//
// # Encryption at rest
//
// The device ID, permanent password, secret key, peer passwords and peer
// credential options are written only in encrypted form. Plaintext found on
// disk is accepted once and replaced by the next store.
//
// # Initialization order
//
// The identity partition is loaded by its own loader, which must never call
// GetKeyPair. GetKeyPair reads the identity file directly (bypassing the
// partition) and persists a newly generated keypair from a background
// goroutine, so it never waits on the identity lock from the caller's
// goroutine.
package configs
