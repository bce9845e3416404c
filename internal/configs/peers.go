package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PolarWolf314/deskvault/internal/audit"
	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/PolarWolf314/deskvault/internal/secrets"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Peer options holding credentials. They are encrypted at rest like the
// peer password.
const (
	OptionRDPPassword = "rdp_password"
	OptionOSPassword  = "os-password"
)

var peerSecretOptions = []string{OptionRDPPassword, OptionOSPassword}

// PortForward maps a local port to a port reachable from the peer.
type PortForward struct {
	LocalPort  int    `toml:"local_port"`
	RemoteHost string `toml:"remote_host"`
	RemotePort int    `toml:"remote_port"`
}

// PeerInfo describes the remote machine as last reported by it.
type PeerInfo struct {
	Username string `toml:"username"`
	Hostname string `toml:"hostname"`
	Platform string `toml:"platform"`
}

// PeerConfig holds everything remembered about one remote peer.
type PeerConfig struct {
	Password            Key      `toml:"password"`
	Size                Size     `toml:"size"`
	SizeFT              Size     `toml:"size_ft"`
	SizePF              Size     `toml:"size_pf"`
	ViewStyle           string   `toml:"view_style"`
	ImageQuality        string   `toml:"image_quality"`
	CustomImageQuality  []int    `toml:"custom_image_quality"`
	ShowRemoteCursor    bool     `toml:"show_remote_cursor"`
	LockAfterSessionEnd bool     `toml:"lock_after_session_end"`
	PrivacyMode         bool     `toml:"privacy_mode"`
	DirectFailures      int      `toml:"direct_failures"`
	DisableAudio        bool     `toml:"disable_audio"`
	DisableClipboard    bool     `toml:"disable_clipboard"`
	CodecPreference     string   `toml:"codec_preference"`
	TransferJobs        []string `toml:"transfer_jobs"`

	// the other scalar value must before this
	PortForwards []PortForward     `toml:"port_forwards"`
	Options      map[string]string `toml:"options"`
	Info         PeerInfo          `toml:"info"`
}

// AddTransferJob records a file transfer for path and returns its job ID.
func (c *PeerConfig) AddTransferJob(path string) string {
	id := uuid.New().String()
	c.TransferJobs = append(c.TransferJobs, id+":"+path)
	return id
}

// PeerEntry is one peer as returned by Peers.
type PeerEntry struct {
	ID       string
	Modified time.Time
	Config   PeerConfig
}

// validatePeerID rejects IDs that cannot name a file inside the peers
// directory.
func validatePeerID(id string) error {
	if id == "" || id == "." || id == ".." ||
		strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidPeerID, id)
	}
	return nil
}

// decryptPeer turns secrets in c into plaintext. It reports whether any of
// them was stored in a legacy form.
func (s *Store) decryptPeer(c *PeerConfig) bool {
	dirty := false

	password, _, rewrite := s.codec.DecryptBytes(c.Password, secrets.VersionCurrent)
	c.Password = password
	dirty = dirty || rewrite

	for _, k := range peerSecretOptions {
		v, ok := c.Options[k]
		if !ok {
			continue
		}
		plain, _, rewrite := s.codec.DecryptString(v, secrets.VersionCurrent)
		c.Options[k] = plain
		dirty = dirty || rewrite
	}
	return dirty
}

// encryptPeer returns the on-disk form of c. c is left untouched.
func (s *Store) encryptPeer(c PeerConfig) (PeerConfig, error) {
	out := c

	password, err := s.codec.EncryptBytes(c.Password, secrets.VersionCurrent)
	if err != nil {
		return PeerConfig{}, fmt.Errorf("failed to encrypt peer password: %w", err)
	}
	out.Password = password

	if c.Options != nil {
		out.Options = make(map[string]string, len(c.Options))
		for k, v := range c.Options {
			out.Options[k] = v
		}
		for _, k := range peerSecretOptions {
			v, ok := out.Options[k]
			if !ok {
				continue
			}
			if out.Options[k], err = s.codec.EncryptString(v, secrets.VersionCurrent); err != nil {
				return PeerConfig{}, fmt.Errorf("failed to encrypt peer option %s: %w", k, err)
			}
		}
	}
	return out, nil
}

// LoadPeer returns the record of peer id, or the zero record when it does
// not exist or cannot be read. Secrets found in a legacy form are written
// back encrypted before returning.
func (s *Store) LoadPeer(id string) PeerConfig {
	log := s.log.WithFields(logrus.Fields{"peer": id})
	if err := validatePeerID(id); err != nil {
		log.Errorf("Failed to load peer: %v", err)
		return PeerConfig{}
	}

	s.peerFence.Lock()
	defer s.peerFence.Unlock()

	cfg, _, err := loadFile[PeerConfig](s.paths.PeerFile(id))
	if err != nil {
		log.Errorf("Failed to load peer config: %v", err)
		return PeerConfig{}
	}
	if s.decryptPeer(&cfg) {
		if err := s.storePeerLocked(id, cfg); err != nil {
			log.Errorf("Failed to store migrated peer config: %v", err)
		}
	}
	return cfg
}

// StorePeer writes the record of peer id.
func (s *Store) StorePeer(id string, cfg PeerConfig) error {
	if err := validatePeerID(id); err != nil {
		return err
	}
	s.peerFence.Lock()
	defer s.peerFence.Unlock()
	return s.storePeerLocked(id, cfg)
}

func (s *Store) storePeerLocked(id string, cfg PeerConfig) error {
	onDisk, err := s.encryptPeer(cfg)
	if err != nil {
		return fmt.Errorf("%w: peer %s: %v", kerrors.ErrStoreFailed, id, err)
	}
	if err := SaveTOML(s.paths.PeerFile(id), onDisk); err != nil {
		s.log.WithFields(logrus.Fields{"peer": id}).Errorf("Failed to store peer config: %v", err)
		return fmt.Errorf("%w: peer %s: %v", kerrors.ErrStoreFailed, id, err)
	}
	return nil
}

// RemovePeer deletes the record of peer id.
func (s *Store) RemovePeer(id string) error {
	if err := validatePeerID(id); err != nil {
		return err
	}

	s.peerFence.Lock()
	err := os.Remove(s.paths.PeerFile(id))
	s.peerFence.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", kerrors.ErrPeerNotFound, id)
	}
	if err != nil {
		return err
	}
	s.audit.Log(audit.Entry{Operation: audit.OpPeerRemoved, Peer: id})
	return nil
}

// PeerExists reports whether a record for peer id is stored.
func (s *Store) PeerExists(id string) bool {
	if validatePeerID(id) != nil {
		return false
	}
	s.peerFence.Lock()
	defer s.peerFence.Unlock()
	_, err := os.Stat(s.paths.PeerFile(id))
	return err == nil
}

// Peers returns every stored peer, most recently modified first. Records
// without a platform are stale leftovers of failed connections: they are
// deleted and left out. Unreadable records load as the zero PeerConfig and
// are pruned the same way.
func (s *Store) Peers() []PeerEntry {
	dir := s.paths.PeersDir()

	s.peerFence.Lock()
	defer s.peerFence.Unlock()

	names, err := doublestar.Glob(os.DirFS(dir), "*"+tomlExt)
	if err != nil {
		s.log.Errorf("Failed to list peers: %v", err)
		return nil
	}

	peers := make([]PeerEntry, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		id := strings.TrimSuffix(name, tomlExt)
		log := s.log.WithFields(logrus.Fields{"peer": id})

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		cfg, _, err := loadFile[PeerConfig](path)
		if err != nil {
			log.Warnf("Failed to load peer config: %v", err)
			cfg = PeerConfig{}
		}
		if cfg.Info.Platform == "" {
			if err := os.Remove(path); err != nil {
				log.Warnf("Failed to prune stale peer: %v", err)
			} else {
				log.Debugf("Pruned stale peer")
				s.audit.Log(audit.Entry{Operation: audit.OpPeerPruned, Peer: id})
			}
			continue
		}
		if s.decryptPeer(&cfg) {
			if err := s.storePeerLocked(id, cfg); err != nil {
				log.Errorf("Failed to store migrated peer config: %v", err)
			}
		}
		peers = append(peers, PeerEntry{ID: id, Modified: info.ModTime(), Config: cfg})
	}

	sort.SliceStable(peers, func(i, j int) bool {
		return peers[i].Modified.After(peers[j].Modified)
	})
	return peers
}
