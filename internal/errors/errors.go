package errors

import "errors"

// Storage errors indicate a persisted file could not be read or written.
var (
	// ErrStoreFailed indicates a partition or peer file could not be written.
	ErrStoreFailed = errors.New("failed to store configuration")

	// ErrDecodeFailed indicates a persisted file exists but could not be decoded.
	ErrDecodeFailed = errors.New("failed to decode configuration")

	// ErrNoConfigDir indicates the platform config directory could not be resolved.
	ErrNoConfigDir = errors.New("config directory could not be resolved")
)

// Identity errors indicate invalid or unavailable identifiers.
var (
	// ErrInvalidID indicates a device ID does not satisfy the ID format.
	ErrInvalidID = errors.New("invalid device id")

	// ErrInvalidPeerID indicates a peer ID cannot be used as a file name.
	ErrInvalidPeerID = errors.New("invalid peer id")

	// ErrIDExhausted indicates no device ID could be generated.
	ErrIDExhausted = errors.New("device id generation exhausted")

	// ErrPeerNotFound indicates the peer has no record on disk.
	ErrPeerNotFound = errors.New("peer not found")
)

// Key errors indicate failures around the device keypair.
var (
	// ErrKeyGenFailed indicates keypair generation failed.
	ErrKeyGenFailed = errors.New("failed to generate keypair")

	// ErrKeyPairLocked indicates the keypair is already in use by this process
	// or persisted for this installation, and can no longer be replaced.
	ErrKeyPairLocked = errors.New("keypair already in use")

	// ErrInvalidKeyPair indicates the supplied key material has the wrong shape.
	ErrInvalidKeyPair = errors.New("invalid keypair")
)

// Rendezvous errors.
var (
	// ErrNoRendezvousServer indicates no candidate server is configured.
	ErrNoRendezvousServer = errors.New("no rendezvous server configured")
)
