package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, seed string) *Codec {
	t.Helper()
	c, err := NewCodec([]byte(seed), "DeskVault")
	require.NoError(t, err)
	return c
}

func TestNewCodecRejectsEmptySeed(t *testing.T) {
	_, err := NewCodec(nil, "DeskVault")
	assert.Error(t, err)
}

func TestStringRoundTrip(t *testing.T) {
	c := newTestCodec(t, "machine-a")

	for _, value := range []string{"1234567890", "p@ss w0rd", "ünïcödé", strings.Repeat("x", 4096)} {
		enc, err := c.EncryptString(value, VersionCurrent)
		require.NoError(t, err)
		assert.NotEqual(t, value, enc)
		assert.True(t, strings.HasPrefix(enc, VersionCurrent))

		got, encrypted, rewrite := c.DecryptString(enc, VersionCurrent)
		assert.Equal(t, value, got)
		assert.True(t, encrypted)
		assert.False(t, rewrite)
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	c := newTestCodec(t, "machine-a")
	a, err := c.EncryptString("same", VersionCurrent)
	require.NoError(t, err)
	b, err := c.EncryptString("same", VersionCurrent)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptLegacyPlaintext(t *testing.T) {
	c := newTestCodec(t, "machine-a")

	got, encrypted, rewrite := c.DecryptString("123456789", VersionCurrent)
	assert.Equal(t, "123456789", got)
	assert.False(t, encrypted)
	assert.True(t, rewrite)

	// One store-then-reload cycle settles the value.
	enc, err := c.EncryptString(got, VersionCurrent)
	require.NoError(t, err)
	got, encrypted, rewrite = c.DecryptString(enc, VersionCurrent)
	assert.Equal(t, "123456789", got)
	assert.True(t, encrypted)
	assert.False(t, rewrite)
}

func TestDecryptEmpty(t *testing.T) {
	c := newTestCodec(t, "machine-a")

	got, encrypted, rewrite := c.DecryptString("", VersionCurrent)
	assert.Equal(t, "", got)
	assert.False(t, encrypted)
	assert.False(t, rewrite)

	enc, err := c.EncryptString("", VersionCurrent)
	require.NoError(t, err)
	assert.Equal(t, "", enc)
}

func TestDecryptMalformedNeverFails(t *testing.T) {
	c := newTestCodec(t, "machine-a")

	inputs := []string{
		"0",
		"01",
		"01!!!not-base64!!!",
		"01" + "AAAA",
		"99c29tZXRoaW5n",
		"00" + strings.Repeat("A", 80),
	}
	for _, in := range inputs {
		got, encrypted, rewrite := c.DecryptString(in, VersionCurrent)
		assert.Equal(t, in, got, "input %q", in)
		assert.False(t, encrypted, "input %q", in)
		assert.True(t, rewrite, "input %q", in)
	}
}

func TestDecryptWithWrongKeyDegradesToPlaintext(t *testing.T) {
	a := newTestCodec(t, "machine-a")
	b := newTestCodec(t, "machine-b")

	enc, err := a.EncryptString("secret", VersionCurrent)
	require.NoError(t, err)

	got, encrypted, rewrite := b.DecryptString(enc, VersionCurrent)
	assert.Equal(t, enc, got)
	assert.False(t, encrypted)
	assert.True(t, rewrite)
}

func TestOlderVersionFlagsRewrite(t *testing.T) {
	c := newTestCodec(t, "machine-a")

	legacy, err := c.EncryptString("hunter2", VersionLegacy)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(legacy, VersionLegacy))

	got, encrypted, rewrite := c.DecryptString(legacy, VersionCurrent)
	assert.Equal(t, "hunter2", got)
	assert.True(t, encrypted)
	assert.True(t, rewrite)

	upgraded, err := c.EncryptString(legacy, VersionCurrent)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upgraded, VersionCurrent))
	got, encrypted, rewrite = c.DecryptString(upgraded, VersionCurrent)
	assert.Equal(t, "hunter2", got)
	assert.True(t, encrypted)
	assert.False(t, rewrite)
}

func TestEncryptAlreadyEncryptedIsStable(t *testing.T) {
	c := newTestCodec(t, "machine-a")

	enc, err := c.EncryptString("value", VersionCurrent)
	require.NoError(t, err)
	again, err := c.EncryptString(enc, VersionCurrent)
	require.NoError(t, err)
	assert.Equal(t, enc, again)
}

func TestEncryptUnknownVersion(t *testing.T) {
	c := newTestCodec(t, "machine-a")
	_, err := c.EncryptString("value", "07")
	assert.Error(t, err)
}

func TestBytesRoundTrip(t *testing.T) {
	c := newTestCodec(t, "machine-a")
	value := []byte{0x00, 0x01, 0xfe, 0xff, 'p', 'w'}

	enc, err := c.EncryptBytes(value, VersionCurrent)
	require.NoError(t, err)
	assert.Equal(t, []byte(VersionCurrent), enc[:2])

	got, encrypted, rewrite := c.DecryptBytes(enc, VersionCurrent)
	assert.Equal(t, value, got)
	assert.True(t, encrypted)
	assert.False(t, rewrite)
}

func TestBytesLegacyPlaintext(t *testing.T) {
	c := newTestCodec(t, "machine-a")
	raw := []byte("plain-password-hash")

	got, encrypted, rewrite := c.DecryptBytes(raw, VersionCurrent)
	assert.Equal(t, raw, got)
	assert.False(t, encrypted)
	assert.True(t, rewrite)

	got[0] = 'X'
	assert.Equal(t, byte('p'), raw[0], "decrypted slice must not alias input")

	got, encrypted, rewrite = c.DecryptBytes(nil, VersionCurrent)
	assert.Empty(t, got)
	assert.False(t, encrypted)
	assert.False(t, rewrite)
}

func TestBytesOlderVersion(t *testing.T) {
	c := newTestCodec(t, "machine-a")

	legacy, err := c.EncryptBytes([]byte("pw"), VersionLegacy)
	require.NoError(t, err)

	got, encrypted, rewrite := c.DecryptBytes(legacy, VersionCurrent)
	assert.Equal(t, []byte("pw"), got)
	assert.True(t, encrypted)
	assert.True(t, rewrite)
}
