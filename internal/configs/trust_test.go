package configs

import (
	"testing"

	"github.com/PolarWolf314/deskvault/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownHostIsUnconfirmed(t *testing.T) {
	s := newTestStore(t, "")
	assert.False(t, s.GetHostKeyConfirmed("never-seen.example.com"))
	assert.False(t, s.GetKeyConfirmed())
}

func TestRevokingKeyClearsHostConfirmations(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	require.NoError(t, s.SetKeyConfirmed(true))
	require.NoError(t, s.SetHostKeyConfirmed("rs-ny.deskvault.net", true))
	require.NoError(t, s.SetHostKeyConfirmed("rs-sg.deskvault.net", true))
	assert.Len(t, s.HostKeyConfirmations(), 2)

	require.NoError(t, s.SetKeyConfirmed(false))
	assert.False(t, s.GetKeyConfirmed())
	assert.False(t, s.GetHostKeyConfirmed("rs-ny.deskvault.net"))
	assert.False(t, s.GetHostKeyConfirmed("rs-sg.deskvault.net"))
	assert.Empty(t, s.HostKeyConfirmations())

	reopened := newTestStore(t, dir)
	assert.False(t, reopened.GetKeyConfirmed())
	assert.Empty(t, reopened.HostKeyConfirmations())

	entries, err := s.Audit().ReadEntries()
	require.NoError(t, err)
	var ops []string
	for _, e := range entries {
		ops = append(ops, e.Operation)
	}
	assert.Contains(t, ops, audit.OpHostConfirmed)
	assert.Contains(t, ops, audit.OpTrustCleared)
}

func TestConfirmingKeyKeepsHosts(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.SetHostKeyConfirmed("rs-ny.deskvault.net", true))
	require.NoError(t, s.SetKeyConfirmed(true))
	assert.True(t, s.GetHostKeyConfirmed("rs-ny.deskvault.net"))
}

func TestUnchangedTrustWritesNothing(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.SetHostKeyConfirmed("rs-ny.deskvault.net", true))
	before := s.IdentityPartition().Writes()

	require.NoError(t, s.SetHostKeyConfirmed("rs-ny.deskvault.net", true))
	require.NoError(t, s.SetHostKeyConfirmed("unknown.example.com", false))
	require.NoError(t, s.SetKeyConfirmed(true))
	before++
	require.NoError(t, s.SetKeyConfirmed(true))

	assert.Equal(t, before, s.IdentityPartition().Writes())
}

func TestRevokingUnconfirmedKeyClearsHosts(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.SetHostKeyConfirmed("rs-ny.deskvault.net", true))
	require.False(t, s.GetKeyConfirmed())

	require.NoError(t, s.SetKeyConfirmed(false))
	assert.False(t, s.GetHostKeyConfirmed("rs-ny.deskvault.net"))
	assert.Empty(t, s.HostKeyConfirmations())

	writes := s.IdentityPartition().Writes()
	require.NoError(t, s.SetKeyConfirmed(false))
	assert.Equal(t, writes, s.IdentityPartition().Writes())
}

func TestResetTrust(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.SetHostKeyConfirmed("rs-ny.deskvault.net", true))

	require.NoError(t, s.ResetTrust())
	assert.Empty(t, s.HostKeyConfirmations())
	assert.False(t, s.GetKeyConfirmed())

	writes := s.IdentityPartition().Writes()
	require.NoError(t, s.ResetTrust())
	assert.Equal(t, writes, s.IdentityPartition().Writes())
}
