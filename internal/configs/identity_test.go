package configs

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/PolarWolf314/deskvault/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIDGeneratesAndPersists(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	id := s.GetID()
	require.Len(t, id, 10)
	n, err := strconv.Atoi(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, idRangeStart)
	assert.Less(t, n, idRangeStart+idRangeSize)

	raw := rawIdentity(t, s)
	assert.Empty(t, raw.ID, "plaintext id must never reach disk")
	assert.True(t, strings.HasPrefix(raw.EncID, secrets.VersionCurrent))
	assert.NotContains(t, raw.EncID, id)

	reopened := newTestStore(t, dir)
	assert.Equal(t, id, reopened.GetID())
	assert.Zero(t, reopened.IdentityPartition().Writes())
}

func TestSecretFieldsAreEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	require.NoError(t, s.SetPermanentPassword("correct horse"))
	raw := rawIdentity(t, s)
	assert.NotEqual(t, "correct horse", raw.Password)
	assert.True(t, strings.HasPrefix(raw.Password, secrets.VersionCurrent))

	reopened := newTestStore(t, dir)
	assert.Equal(t, "correct horse", reopened.GetPermanentPassword())
}

func TestIdleReadsNeverWrite(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	s.GetID()
	s.GetSalt()
	require.NoError(t, s.SetPermanentPassword("pw"))

	reopened := newTestStore(t, dir)
	for i := 0; i < 5; i++ {
		reopened.GetID()
		reopened.GetPermanentPassword()
		reopened.GetKeyConfirmed()
		reopened.GetHostKeyConfirmed("rs-ny.deskvault.net")
	}
	require.NoError(t, reopened.SetPermanentPassword("pw"))
	require.NoError(t, reopened.SetID(reopened.GetID()))
	require.NoError(t, reopened.SetSalt(reopened.GetSalt()))

	assert.Zero(t, reopened.IdentityPartition().Writes())
}

func TestCorruptIdentityFileFallsBackToFreshID(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(s.identity.Path(), []byte("id = [unterminated"), 0600))

	id := s.GetID()
	assert.NotEmpty(t, id)
	assert.NoError(t, ValidateID(id))
}

func TestIDGenerationGivesUp(t *testing.T) {
	s := newTestStore(t, "", func(o *Options) { o.Rand = failingReader{} })

	assert.Empty(t, s.GetID())

	_, err := s.UpdateID()
	assert.ErrorIs(t, err, kerrors.ErrIDExhausted)
}

func TestSetIDValidates(t *testing.T) {
	s := newTestStore(t, "")

	tests := []struct {
		id      string
		wantErr bool
	}{
		{"abcdef", false},
		{"my-desk_01", false},
		{"1234567890123456", false},
		{"short", true},
		{"12345678901234567", true},
		{"-leading", true},
		{"has space", true},
		{"../../etc", true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := s.SetID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, kerrors.ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, s.GetID())
		})
	}
}

func TestUpdateIDReplacesID(t *testing.T) {
	s := newTestStore(t, "")
	old := s.GetID()

	newID, err := s.UpdateID()
	require.NoError(t, err)
	assert.NotEqual(t, old, newID)
	assert.Equal(t, newID, s.GetID())
}

func TestGetSaltIsStableUnderConcurrency(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	salts := make([]string, 16)
	var wg sync.WaitGroup
	for i := range salts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			salts[i] = s.GetSalt()
		}(i)
	}
	wg.Wait()

	require.Len(t, salts[0], autoPasswordLen)
	for _, salt := range salts {
		assert.Equal(t, salts[0], salt)
	}
	assert.Equal(t, salts[0], newTestStore(t, dir).GetSalt())
}

func TestGetAutoPasswordAlphabet(t *testing.T) {
	s := newTestStore(t, "")
	pw, err := s.GetAutoPassword(32)
	require.NoError(t, err)
	require.Len(t, pw, 32)
	for _, c := range pw {
		assert.Contains(t, passwordChars, string(c))
	}
}
