package configs

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"io/fs"
	"math/big"
	"regexp"

	"github.com/PolarWolf314/deskvault/internal/audit"
	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/PolarWolf314/deskvault/internal/secrets"
)

const (
	idRangeStart    = 1_000_000_000
	idRangeSize     = 1_000_000_000
	idMaxAttempts   = 3
	autoPasswordLen = 6
)

// passwordChars excludes characters that are easy to confuse when read aloud.
const passwordChars = "23456789abcdefghijkmnpqrstuvwxyz"

var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{5,15}$`)

// Key is raw key material, stored as base64 text.
type Key []byte

func (k Key) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(k)), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = nil
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return err
	}
	*k = decoded
	return nil
}

// Identity is the device identity partition. In memory every field is
// plaintext; on disk ID is always empty and EncID, Password and SecretKey
// are encrypted.
type Identity struct {
	ID           string `toml:"id"`
	EncID        string `toml:"enc_id"`
	Password     string `toml:"password"`
	Salt         string `toml:"salt"`
	KeyConfirmed bool   `toml:"key_confirmed"`
	SecretKey    Key    `toml:"sk"`
	PublicKey    Key    `toml:"pk"`

	// the other scalar value must before this
	KeysConfirmed map[string]bool `toml:"keys_confirmed"`
}

// ValidateID reports whether id can be used as a device ID.
func ValidateID(id string) error {
	if !validIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q must be 6-16 letters, digits, '-' or '_' and start with a letter or digit", kerrors.ErrInvalidID, id)
	}
	return nil
}

// decodeIdentity turns the on-disk identity into its in-memory form. It runs
// under the identity write lock and must not call GetKeyPair.
func (s *Store) decodeIdentity(id *Identity, info fs.FileInfo) bool {
	dirty := false

	password, _, rewrite := s.codec.DecryptString(id.Password, secrets.VersionCurrent)
	id.Password = password
	dirty = dirty || rewrite

	sk, _, rewrite := s.codec.DecryptBytes(id.SecretKey, secrets.VersionCurrent)
	id.SecretKey = sk
	dirty = dirty || rewrite

	valid := false
	if decID, encrypted, rewrite := s.codec.DecryptString(id.EncID, secrets.VersionCurrent); encrypted {
		id.ID = decID
		valid = true
		dirty = dirty || rewrite
	} else if s.legacyIDUsable(id, info) {
		s.log.Infof("Migrating plaintext device id to encrypted storage")
		valid = true
		dirty = true
	}

	if !valid {
		newID, err := generateID(s.rand)
		if err != nil {
			s.log.Errorf("Giving up on device id generation: %v", err)
			id.ID = ""
		} else {
			s.log.Infof("Generated new device id %s", newID)
			s.audit.Log(audit.Entry{Operation: audit.OpIDGenerated, DeviceID: newID})
			id.ID = newID
			dirty = true
		}
	}

	if id.KeysConfirmed == nil {
		id.KeysConfirmed = make(map[string]bool)
	}
	return dirty
}

// encodeIdentity returns the form of the identity that is written to disk.
func (s *Store) encodeIdentity(id Identity) (Identity, error) {
	out := id

	encID, err := s.codec.EncryptString(id.ID, secrets.VersionCurrent)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to encrypt device id: %w", err)
	}
	out.EncID = encID
	out.ID = ""

	if out.Password, err = s.codec.EncryptString(id.Password, secrets.VersionCurrent); err != nil {
		return Identity{}, fmt.Errorf("failed to encrypt password: %w", err)
	}

	sk, err := s.codec.EncryptBytes(id.SecretKey, secrets.VersionCurrent)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to encrypt secret key: %w", err)
	}
	out.SecretKey = sk

	return out, nil
}

// generateID draws a ten-digit device ID, retrying on entropy failures.
func generateID(r io.Reader) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= idMaxAttempts; attempt++ {
		n, err := rand.Int(r, big.NewInt(idRangeSize))
		if err == nil {
			return fmt.Sprintf("%d", idRangeStart+n.Int64()), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w after %d attempts: %v", kerrors.ErrIDExhausted, idMaxAttempts, lastErr)
}

// GetID returns the device ID. It is empty only if ID generation failed.
func (s *Store) GetID() string {
	var id string
	s.identity.Read(func(v *Identity) { id = v.ID })
	return id
}

// SetID replaces the device ID. Setting the current ID writes nothing.
func (s *Store) SetID(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	var old string
	err := s.identity.Update(func(v *Identity) bool {
		if v.ID == id {
			return false
		}
		old = v.ID
		v.ID = id
		return true
	})
	if err != nil {
		return err
	}
	if old != "" {
		s.log.Infof("Device id changed from %s to %s", old, id)
		s.audit.Log(audit.Entry{Operation: audit.OpIDChanged, DeviceID: id, Detail: "from " + old})
	}
	return nil
}

// UpdateID replaces the device ID with a freshly generated one.
func (s *Store) UpdateID() (string, error) {
	newID, err := generateID(s.rand)
	if err != nil {
		s.log.Errorf("Failed to generate device id: %v", err)
		return "", err
	}
	if err := s.SetID(newID); err != nil {
		return "", err
	}
	return newID, nil
}

// GetPermanentPassword returns the permanent password, empty when unset.
func (s *Store) GetPermanentPassword() string {
	var password string
	s.identity.Read(func(v *Identity) { password = v.Password })
	return password
}

// SetPermanentPassword replaces the permanent password. Setting the current
// password writes nothing.
func (s *Store) SetPermanentPassword(password string) error {
	return s.identity.Update(func(v *Identity) bool {
		if v.Password == password {
			return false
		}
		v.Password = password
		return true
	})
}

// GetSalt returns the password salt, generating and storing one on first use.
func (s *Store) GetSalt() string {
	var salt string
	s.identity.Read(func(v *Identity) { salt = v.Salt })
	if salt != "" {
		return salt
	}

	generated, err := s.GetAutoPassword(autoPasswordLen)
	if err != nil {
		s.log.Errorf("Failed to generate salt: %v", err)
		return ""
	}
	// A concurrent caller may have won; keep whichever salt landed first.
	err = s.identity.Update(func(v *Identity) bool {
		if v.Salt != "" {
			salt = v.Salt
			return false
		}
		v.Salt = generated
		salt = generated
		return true
	})
	if err != nil {
		s.log.Errorf("Failed to store salt: %v", err)
	}
	return salt
}

// SetSalt replaces the salt. Setting the current salt writes nothing.
func (s *Store) SetSalt(salt string) error {
	return s.identity.Update(func(v *Identity) bool {
		if v.Salt == salt {
			return false
		}
		v.Salt = salt
		return true
	})
}

// GetAutoPassword returns n random characters from an unambiguous alphabet.
func (s *Store) GetAutoPassword(n int) (string, error) {
	limit := big.NewInt(int64(len(passwordChars)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(s.rand, limit)
		if err != nil {
			return "", err
		}
		out[i] = passwordChars[idx.Int64()]
	}
	return string(out), nil
}
