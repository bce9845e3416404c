package secrets

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// VersionLegacy tags secretbox payloads.
	VersionLegacy = "00"
	// VersionCurrent tags XChaCha20-Poly1305 payloads.
	VersionCurrent = "01"

	versionLen = 2
	keySize    = 32
	nonceSize  = 24
)

// Codec encrypts and decrypts individual config fields.
type Codec struct {
	key [keySize]byte
}

// NewCodec derives the field key from seed. info separates keys of different
// products sharing a machine seed.
func NewCodec(seed []byte, info string) (*Codec, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("codec seed must not be empty")
	}

	c := &Codec{}
	stream := hkdf.New(sha256.New, seed, nil, []byte(info+"/field-codec"))
	if _, err := io.ReadFull(stream, c.key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive field key: %w", err)
	}
	return c, nil
}

// KnownVersion reports whether v is a version this codec can open.
func KnownVersion(v string) bool {
	return v == VersionLegacy || v == VersionCurrent
}

// EncryptString encrypts plaintext under version. Empty input stays empty.
// Input that already decrypts under version is returned unchanged; input
// under an older version is re-encrypted.
func (c *Codec) EncryptString(plaintext, version string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	if value, encrypted, rewrite := c.DecryptString(plaintext, version); encrypted {
		if !rewrite {
			return plaintext, nil
		}
		plaintext = value
	}

	box, err := c.seal([]byte(plaintext), version)
	if err != nil {
		return "", err
	}
	return version + base64.StdEncoding.EncodeToString(box), nil
}

// DecryptString opens input, expecting version. See the package docs for the
// meaning of the returned flags.
func (c *Codec) DecryptString(input, version string) (string, bool, bool) {
	if input == "" {
		return "", false, false
	}
	if len(input) <= versionLen {
		return input, false, true
	}

	tag := input[:versionLen]
	if !KnownVersion(tag) {
		return input, false, true
	}
	box, err := base64.StdEncoding.DecodeString(input[versionLen:])
	if err != nil {
		return input, false, true
	}
	plaintext, err := c.open(box, tag)
	if err != nil {
		return input, false, true
	}
	return string(plaintext), true, tag != version
}

// EncryptBytes is the byte-slice analogue of EncryptString.
func (c *Codec) EncryptBytes(plaintext []byte, version string) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, nil
	}
	if value, encrypted, rewrite := c.DecryptBytes(plaintext, version); encrypted {
		if !rewrite {
			return plaintext, nil
		}
		plaintext = value
	}

	box, err := c.seal(plaintext, version)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, versionLen+len(box))
	out = append(out, version...)
	return append(out, box...), nil
}

// DecryptBytes is the byte-slice analogue of DecryptString. The returned
// slice never aliases input.
func (c *Codec) DecryptBytes(input []byte, version string) ([]byte, bool, bool) {
	if len(input) == 0 {
		return nil, false, false
	}
	if len(input) <= versionLen {
		return bytes.Clone(input), false, true
	}

	tag := string(input[:versionLen])
	if !KnownVersion(tag) {
		return bytes.Clone(input), false, true
	}
	plaintext, err := c.open(input[versionLen:], tag)
	if err != nil {
		return bytes.Clone(input), false, true
	}
	return plaintext, true, tag != version
}

func (c *Codec) seal(plaintext []byte, version string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	switch version {
	case VersionLegacy:
		return secretbox.Seal(nonce[:], plaintext, &nonce, &c.key), nil
	case VersionCurrent:
		aead, err := chacha20poly1305.NewX(c.key[:])
		if err != nil {
			return nil, err
		}
		return aead.Seal(nonce[:], nonce[:], plaintext, []byte(version)), nil
	default:
		return nil, fmt.Errorf("unsupported codec version %q", version)
	}
}

func (c *Codec) open(box []byte, version string) ([]byte, error) {
	if len(box) < nonceSize {
		return nil, fmt.Errorf("payload too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])

	switch version {
	case VersionLegacy:
		plaintext, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &c.key)
		if !ok {
			return nil, fmt.Errorf("failed to open secretbox payload")
		}
		return plaintext, nil
	case VersionCurrent:
		aead, err := chacha20poly1305.NewX(c.key[:])
		if err != nil {
			return nil, err
		}
		return aead.Open(nil, nonce[:], box[nonceSize:], []byte(version))
	default:
		return nil, fmt.Errorf("unsupported codec version %q", version)
	}
}
