package configs

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/PolarWolf314/deskvault/internal/audit"
	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/PolarWolf314/deskvault/internal/secrets"
	"golang.org/x/crypto/ssh"
)

// KeyPair is the device signing keypair.
type KeyPair struct {
	SecretKey []byte
	PublicKey []byte
}

// Empty reports whether no key material is present.
func (k KeyPair) Empty() bool {
	return len(k.SecretKey) == 0
}

func (k KeyPair) clone() KeyPair {
	return KeyPair{SecretKey: bytes.Clone(k.SecretKey), PublicKey: bytes.Clone(k.PublicKey)}
}

// KeyGenerator creates a new keypair.
type KeyGenerator func() (KeyPair, error)

// GenerateEd25519 creates an ed25519 keypair. SecretKey holds the 64-byte
// seed+public form.
func GenerateEd25519() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{SecretKey: priv, PublicKey: pub}, nil
}

// Fingerprint returns the OpenSSH SHA256 fingerprint of an ed25519 public key.
func Fingerprint(publicKey []byte) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: public key is %d bytes", kerrors.ErrInvalidKeyPair, len(publicKey))
	}
	sshKey, err := ssh.NewPublicKey(ed25519.PublicKey(publicKey))
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(sshKey), nil
}

// GetKeyPair returns the device keypair, generating it on first use.
//
// At most one keypair is generated per process, however many goroutines
// call concurrently: keypairMu serialises the first call and the result is
// cached in keypairCell, which is never overwritten.
//
// This function must not take the identity partition lock on the calling
// goroutine. The identity loader holds that lock while decrypting, so the
// keypair is read straight from the file (readIdentityFile) and a newly
// generated pair is persisted by a background goroutine.
//
// If generation fails an empty keypair is returned and the next call tries
// again.
func (s *Store) GetKeyPair() KeyPair {
	s.keypairMu.Lock()
	defer s.keypairMu.Unlock()

	if s.keypairCell != nil {
		return s.keypairCell.clone()
	}

	stored := s.readIdentityFile()
	pair := KeyPair{SecretKey: stored.SecretKey, PublicKey: stored.PublicKey}

	if pair.Empty() {
		generated, err := s.keyGen()
		if err != nil || generated.Empty() {
			s.log.Errorf("%v: %v", kerrors.ErrKeyGenFailed, err)
			return KeyPair{}
		}
		pair = generated

		fingerprint, _ := Fingerprint(pair.PublicKey)
		s.log.Infof("Generated device keypair %s", fingerprint)
		s.audit.Log(audit.Entry{Operation: audit.OpKeyPairGenerated, Fingerprint: fingerprint})

		s.persistKeyPair(pair.clone())
	}

	s.keypairCell = &pair
	return pair.clone()
}

// persistKeyPair writes pair from a background goroutine.
func (s *Store) persistKeyPair(pair KeyPair) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		err := s.identity.Update(func(v *Identity) bool {
			if bytes.Equal(v.SecretKey, pair.SecretKey) && bytes.Equal(v.PublicKey, pair.PublicKey) {
				return false
			}
			if len(v.SecretKey) != 0 {
				s.log.Warnf("Replacing on-disk keypair with the one in use by this process")
			}
			v.SecretKey = pair.SecretKey
			v.PublicKey = pair.PublicKey
			return true
		})
		if err != nil {
			s.log.Errorf("Failed to persist keypair: %v", err)
		}
	}()
}

// readIdentityFile is the bootstrap-tier accessor: it decodes the identity
// file directly, without the partition lock and without the ID migration the
// partition loader performs. Only the secret key is decrypted.
func (s *Store) readIdentityFile() Identity {
	id, _, err := loadFile[Identity](s.identity.Path())
	if err != nil {
		s.log.Errorf("Failed to load config: %v", err)
		return Identity{}
	}
	id.SecretKey, _, _ = s.codec.DecryptBytes(id.SecretKey, secrets.VersionCurrent)
	return id
}

// SetKeyPair installs an externally supplied keypair. It fails with
// ErrKeyPairLocked once this process has handed out a keypair or when the
// identity file already holds one.
func (s *Store) SetKeyPair(pair KeyPair) error {
	return s.installKeyPair(pair, false)
}

// ReplaceKeyPair installs pair even when the identity file already holds a
// keypair. It is an operator action: peers that trusted the old key must
// confirm the new one. A keypair already handed out by this process is still
// never replaced.
func (s *Store) ReplaceKeyPair(pair KeyPair) error {
	return s.installKeyPair(pair, true)
}

func (s *Store) installKeyPair(pair KeyPair, replace bool) error {
	if len(pair.SecretKey) != ed25519.PrivateKeySize || len(pair.PublicKey) != ed25519.PublicKeySize {
		return kerrors.ErrInvalidKeyPair
	}
	if !bytes.Equal(ed25519.PrivateKey(pair.SecretKey).Public().(ed25519.PublicKey), pair.PublicKey) {
		return fmt.Errorf("%w: public key does not match secret key", kerrors.ErrInvalidKeyPair)
	}

	s.keypairMu.Lock()
	defer s.keypairMu.Unlock()
	if s.keypairCell != nil {
		return kerrors.ErrKeyPairLocked
	}
	if !replace {
		stored := s.readIdentityFile()
		if len(stored.SecretKey) != 0 || len(stored.PublicKey) != 0 {
			return fmt.Errorf("%w: identity file already holds a keypair", kerrors.ErrKeyPairLocked)
		}
	}

	pair = pair.clone()
	if err := s.identity.Update(func(v *Identity) bool {
		v.SecretKey = pair.SecretKey
		v.PublicKey = pair.PublicKey
		return true
	}); err != nil {
		return err
	}
	s.keypairCell = &pair
	return nil
}
