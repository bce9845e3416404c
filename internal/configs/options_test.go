package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOption(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	require.NoError(t, s.SetOption("enable-lan-discovery", "N"))
	assert.Equal(t, "N", s.GetOption("enable-lan-discovery"))
	assert.Equal(t, "N", newTestStore(t, dir).GetOption("enable-lan-discovery"))

	writes := s.OptionsPartition().Writes()
	require.NoError(t, s.SetOption("enable-lan-discovery", "N"))
	assert.Equal(t, writes, s.OptionsPartition().Writes())

	require.NoError(t, s.SetOption("enable-lan-discovery", ""))
	assert.NotContains(t, s.GetOptions(), "enable-lan-discovery")

	require.NoError(t, s.SetOption("never-set", ""))
	assert.Equal(t, writes+1, s.OptionsPartition().Writes())
}

func TestSetOptionsReplacesAll(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.SetOption("a", "1"))
	require.NoError(t, s.SetOptions(map[string]string{"b": "2", "c": ""}))

	assert.Equal(t, map[string]string{"b": "2"}, s.GetOptions())

	writes := s.OptionsPartition().Writes()
	require.NoError(t, s.SetOptions(map[string]string{"b": "2"}))
	assert.Equal(t, writes, s.OptionsPartition().Writes())
}

func TestGetOptionsIsACopy(t *testing.T) {
	s := newTestStore(t, "")
	require.NoError(t, s.SetOption("a", "1"))
	opts := s.GetOptions()
	opts["a"] = "changed"
	assert.Equal(t, "1", s.GetOption("a"))
}

func TestNatType(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	require.NoError(t, s.SetNatType(2))
	assert.Equal(t, 2, newTestStore(t, dir).GetNatType())
}
