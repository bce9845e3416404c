package secrets

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// ErrPassphraseRequired is returned when an OpenSSH key is encrypted and no
// passphrase was given.
var ErrPassphraseRequired = errors.New("private key is passphrase-protected")

// ParseOpenSSHPrivateKey parses an ed25519 private key in OpenSSH or PKCS#8
// PEM form. passphrase may be nil for unencrypted keys.
func ParseOpenSSHPrivateKey(data, passphrase []byte) (ed25519.PrivateKey, error) {
	return parseOpenSSHPrivateKey(data, passphrase)
}

func parseOpenSSHPrivateKey(data, passphrase []byte) (ed25519.PrivateKey, error) {
	var (
		raw interface{}
		err error
	)
	if len(passphrase) > 0 {
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(data, passphrase)
	} else {
		raw, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, ErrPassphraseRequired
		}
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	switch key := raw.(type) {
	case *ed25519.PrivateKey:
		return *key, nil
	case ed25519.PrivateKey:
		return key, nil
	default:
		return nil, fmt.Errorf("unsupported key type %T: only ed25519 keys can be used as a device key", raw)
	}
}
