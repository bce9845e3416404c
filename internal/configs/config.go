package configs

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/PolarWolf314/deskvault/internal/audit"
	logger "github.com/PolarWolf314/deskvault/internal/logging"
	"github.com/PolarWolf314/deskvault/internal/secrets"
	"github.com/PolarWolf314/deskvault/internal/utils"
)

const (
	// AppName is the base name of every partition file.
	AppName = "DeskVault"

	// RendezvousPort is appended to rendezvous servers given without a port.
	RendezvousPort = 21116
	// RelayPort is appended to relay servers given without a port.
	RelayPort = 21117

	// Serial is the candidate-list revision compiled into this binary. A
	// persisted serial above it activates the rendezvous-servers option.
	Serial = 1

	// legacyIDGrace is how much older than the binary an identity file must be
	// before a plaintext ID in it is trusted.
	legacyIDGrace = 30 * time.Second
)

// RendezvousServers is the static candidate list shipped with the product.
var RendezvousServers = []string{
	"rs-ny.deskvault.net",
	"rs-sg.deskvault.net",
	"rs-cn.deskvault.net",
}

// ProdRendezvousServer pins the rendezvous server for production builds:
//
//	go build -ldflags "-X github.com/PolarWolf314/deskvault/internal/configs.ProdRendezvousServer=rs.example.com"
var ProdRendezvousServer = ""

// Options configures a Store. The zero value resolves everything from the
// environment.
type Options struct {
	// Paths overrides the platform config directory.
	Paths *Paths
	// Seed is the key-derivation seed of the field codec. Defaults to the
	// machine ID.
	Seed []byte
	// Logger receives load and store failures.
	Logger logger.Logger
	// KeyGen generates the device keypair. Defaults to ed25519.
	KeyGen KeyGenerator
	// Rand is the randomness source for device IDs and salts.
	Rand io.Reader
	// ExeTime returns the binary's build time for the legacy ID check.
	// Defaults to the modification time of the executable.
	ExeTime func() time.Time
	// SkipExeTimeCheck trusts any plaintext legacy ID regardless of file age.
	SkipExeTimeCheck bool
	// ProdServer overrides ProdRendezvousServer.
	ProdServer string
}

// Store is the application context holding every partition.
type Store struct {
	paths Paths
	codec *secrets.Codec
	log   logger.Logger
	audit *audit.Trail
	rand  io.Reader

	exeTime          func() time.Time
	skipExeTimeCheck bool
	prodServer       string

	identity *Partition[Identity]
	options  *Partition[Config2]
	local    *Partition[LocalConfig]
	hwcodec  *Partition[HwCodecConfig]
	lanPeers *Partition[LanPeersConfig]

	// keypairMu serialises first-time keypair generation. It guards nothing
	// but keypairCell.
	keypairMu   sync.Mutex
	keypairCell *KeyPair
	keyGen      KeyGenerator
	pending     sync.WaitGroup

	// peerFence serialises peer file I/O.
	peerFence sync.Mutex

	onlineMu sync.Mutex
	online   latencyTable
}

// New creates a Store. Partitions are not read until first access.
func New(opts Options) (*Store, error) {
	var paths Paths
	if opts.Paths != nil {
		paths = *opts.Paths
	} else {
		var err error
		if paths, err = DefaultPaths(); err != nil {
			return nil, err
		}
	}

	seed := opts.Seed
	if len(seed) == 0 {
		seed = utils.MachineID()
	}
	codec, err := secrets.NewCodec(seed, AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise field codec: %w", err)
	}

	s := &Store{
		paths:            paths,
		codec:            codec,
		log:              opts.Logger,
		audit:            audit.New(paths.AuditLog()),
		rand:             opts.Rand,
		exeTime:          opts.ExeTime,
		skipExeTimeCheck: opts.SkipExeTimeCheck,
		prodServer:       opts.ProdServer,
		keyGen:           opts.KeyGen,
		online:           newLatencyTable(),
	}
	if s.rand == nil {
		s.rand = rand.Reader
	}
	if s.exeTime == nil {
		s.exeTime = utils.ExecutableModTime
	}
	if s.prodServer == "" {
		s.prodServer = ProdRendezvousServer
	}
	if s.keyGen == nil {
		s.keyGen = GenerateEd25519
	}

	s.identity = newPartition[Identity](paths, "", s.log)
	s.identity.decode = s.decodeIdentity
	s.identity.encode = s.encodeIdentity
	s.options = newPartition[Config2](paths, "2", s.log)
	s.local = newPartition[LocalConfig](paths, "_local", s.log)
	s.hwcodec = newPartition[HwCodecConfig](paths, "_hwcodec", s.log)
	s.lanPeers = newPartition[LanPeersConfig](paths, "_lan_peers", s.log)

	return s, nil
}

// Paths returns the resolved file locations.
func (s *Store) Paths() Paths {
	return s.paths
}

// Audit returns the trust audit trail.
func (s *Store) Audit() *audit.Trail {
	return s.audit
}

// IdentityPartition exposes the identity partition, mainly for its write
// counter.
func (s *Store) IdentityPartition() *Partition[Identity] {
	return s.identity
}

// OptionsPartition exposes the options partition.
func (s *Store) OptionsPartition() *Partition[Config2] {
	return s.options
}

// Wait blocks until background writes started by GetKeyPair have finished.
func (s *Store) Wait() {
	s.pending.Wait()
}
