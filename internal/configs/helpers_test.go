package configs

import (
	"errors"
	"io"
	"testing"
	"time"

	logger "github.com/PolarWolf314/deskvault/internal/logging"
	"github.com/PolarWolf314/deskvault/internal/secrets"
	"github.com/stretchr/testify/require"
)

const testSeed = "test-machine-id"

// newTestStore returns a Store rooted in dir. When dir is empty a fresh
// temporary directory is used.
func newTestStore(t *testing.T, dir string, mutate ...func(*Options)) *Store {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	opts := Options{
		Paths:   &Paths{ConfigDir: dir},
		Seed:    []byte(testSeed),
		Logger:  logger.New(io.Discard, true, true),
		ExeTime: func() time.Time { return time.Now().Add(time.Hour) },
	}
	for _, m := range mutate {
		m(&opts)
	}
	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(s.Wait)
	return s
}

func testCodec(t *testing.T) *secrets.Codec {
	t.Helper()
	c, err := secrets.NewCodec([]byte(testSeed), AppName)
	require.NoError(t, err)
	return c
}

// rawIdentity decodes the identity file without any decryption.
func rawIdentity(t *testing.T, s *Store) Identity {
	t.Helper()
	var id Identity
	require.NoError(t, LoadTOML(s.identity.Path(), &id))
	return id
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}
