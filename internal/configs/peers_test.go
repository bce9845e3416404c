package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/PolarWolf314/deskvault/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePeer(platform string) PeerConfig {
	return PeerConfig{
		Password:     Key("peer-secret"),
		Size:         Size{10, 20, 1280, 720},
		ViewStyle:    "adaptive",
		ImageQuality: "balanced",
		PortForwards: []PortForward{{LocalPort: 2222, RemoteHost: "localhost", RemotePort: 22}},
		Options: map[string]string{
			OptionRDPPassword: "rdp-secret",
			OptionOSPassword:  "os-secret",
			"show-quality":    "Y",
		},
		Info: PeerInfo{Username: "alice", Hostname: "desk", Platform: platform},
	}
}

func TestPeerRoundTripEncryptsSecrets(t *testing.T) {
	s := newTestStore(t, "")
	cfg := samplePeer("Linux")
	require.NoError(t, s.StorePeer("123456789", cfg))

	var raw PeerConfig
	require.NoError(t, LoadTOML(s.paths.PeerFile("123456789"), &raw))
	assert.NotEqual(t, "peer-secret", string(raw.Password))
	assert.Equal(t, secrets.VersionCurrent, string(raw.Password[:2]))
	assert.NotEqual(t, "rdp-secret", raw.Options[OptionRDPPassword])
	assert.NotEqual(t, "os-secret", raw.Options[OptionOSPassword])
	assert.Equal(t, "Y", raw.Options["show-quality"])

	// The caller's record is not modified by storing it.
	assert.Equal(t, "rdp-secret", cfg.Options[OptionRDPPassword])

	assert.Equal(t, cfg, s.LoadPeer("123456789"))
}

func TestLoadMissingPeer(t *testing.T) {
	s := newTestStore(t, "")
	assert.Equal(t, PeerConfig{}, s.LoadPeer("nobody"))
	assert.False(t, s.PeerExists("nobody"))
}

func TestPeersPrunesStaleRecords(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.StorePeer("good", samplePeer("Windows")))
	require.NoError(t, s.StorePeer("stale", samplePeer("")))

	peers := s.Peers()
	require.Len(t, peers, 1)
	assert.Equal(t, "good", peers[0].ID)
	assert.Equal(t, "peer-secret", string(peers[0].Config.Password))

	assert.False(t, s.PeerExists("stale"))
	_, err := os.Stat(s.paths.PeerFile("stale"))
	assert.True(t, os.IsNotExist(err))
}

func TestPeersPrunesUnreadableRecords(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.StorePeer("good", samplePeer("Linux")))
	broken := s.paths.PeerFile("broken")
	require.NoError(t, os.WriteFile(broken, []byte("this is = = not toml"), 0600))

	peers := s.Peers()
	require.Len(t, peers, 1)
	assert.Equal(t, "good", peers[0].ID)

	_, err := os.Stat(broken)
	assert.True(t, os.IsNotExist(err))
}

func TestPeersOrderedByModification(t *testing.T) {
	s := newTestStore(t, "")
	now := time.Now()
	for _, id := range []string{"oldest", "newest", "middle"} {
		require.NoError(t, s.StorePeer(id, samplePeer("Linux")))
	}
	touch := func(id string, at time.Time) {
		require.NoError(t, os.Chtimes(s.paths.PeerFile(id), at, at))
	}
	touch("oldest", now.Add(-3*time.Hour))
	touch("middle", now.Add(-2*time.Hour))
	touch("newest", now.Add(-1*time.Hour))

	var ids []string
	for _, p := range s.Peers() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"newest", "middle", "oldest"}, ids)
}

func TestPeersIgnoresOtherFiles(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.StorePeer("good", samplePeer("macOS")))
	require.NoError(t, os.WriteFile(filepath.Join(s.paths.PeersDir(), "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(s.paths.PeersDir(), "dir.toml"), 0700))

	peers := s.Peers()
	require.Len(t, peers, 1)
	assert.Equal(t, "good", peers[0].ID)
}

func TestPeersWithoutDirectory(t *testing.T) {
	s := newTestStore(t, "")
	assert.Empty(t, s.Peers())
}

func TestRemovePeer(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.StorePeer("123456789", samplePeer("Linux")))
	require.True(t, s.PeerExists("123456789"))

	require.NoError(t, s.RemovePeer("123456789"))
	assert.False(t, s.PeerExists("123456789"))
	assert.ErrorIs(t, s.RemovePeer("123456789"), kerrors.ErrPeerNotFound)
}

func TestPeerIDsCannotEscapeDirectory(t *testing.T) {
	s := newTestStore(t, "")
	for _, id := range []string{"", ".", "..", "../DeskVault", "a/b", `a\b`} {
		assert.ErrorIs(t, s.StorePeer(id, samplePeer("Linux")), kerrors.ErrInvalidPeerID, id)
		assert.ErrorIs(t, s.RemovePeer(id), kerrors.ErrInvalidPeerID, id)
		assert.Equal(t, PeerConfig{}, s.LoadPeer(id))
	}
	_, err := os.Stat(s.identity.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestAddTransferJob(t *testing.T) {
	var cfg PeerConfig
	a := cfg.AddTransferJob("/tmp/a.bin")
	b := cfg.AddTransferJob("/tmp/b.bin")
	assert.NotEqual(t, a, b)
	assert.Equal(t, []string{a + ":/tmp/a.bin", b + ":/tmp/b.bin"}, cfg.TransferJobs)
}
