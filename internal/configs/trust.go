package configs

import (
	"github.com/PolarWolf314/deskvault/internal/audit"
	"github.com/sirupsen/logrus"
)

// GetKeyConfirmed reports whether the rendezvous service has confirmed this
// device's public key.
func (s *Store) GetKeyConfirmed() bool {
	var confirmed bool
	s.identity.Read(func(v *Identity) { confirmed = v.KeyConfirmed })
	return confirmed
}

// SetKeyConfirmed records whether the device key is confirmed. Clearing it
// also clears every host confirmation: those were made with the key that is
// no longer trusted.
func (s *Store) SetKeyConfirmed(confirmed bool) error {
	cleared, changed := 0, false
	err := s.identity.Update(func(v *Identity) bool {
		if v.KeyConfirmed == confirmed && (confirmed || len(v.KeysConfirmed) == 0) {
			return false
		}
		v.KeyConfirmed = confirmed
		if !confirmed {
			cleared = len(v.KeysConfirmed)
			v.KeysConfirmed = make(map[string]bool)
		}
		changed = true
		return true
	})
	if err != nil || !changed {
		return err
	}

	if confirmed {
		s.audit.Log(audit.Entry{Operation: audit.OpKeyConfirmed})
	} else {
		s.log.WithFields(logrus.Fields{"hosts": cleared}).Infof("Key confirmation revoked, host confirmations cleared")
		s.audit.Log(audit.Entry{Operation: audit.OpTrustCleared})
	}
	return nil
}

// GetHostKeyConfirmed reports whether host's key was confirmed. Unknown hosts
// are unconfirmed.
func (s *Store) GetHostKeyConfirmed(host string) bool {
	var confirmed bool
	s.identity.Read(func(v *Identity) { confirmed = v.KeysConfirmed[host] })
	return confirmed
}

// SetHostKeyConfirmed records the confirmation state of host. Setting the
// current state writes nothing.
func (s *Store) SetHostKeyConfirmed(host string, confirmed bool) error {
	changed := false
	err := s.identity.Update(func(v *Identity) bool {
		if v.KeysConfirmed[host] == confirmed {
			return false
		}
		if v.KeysConfirmed == nil {
			v.KeysConfirmed = make(map[string]bool)
		}
		v.KeysConfirmed[host] = confirmed
		changed = true
		return true
	})
	if err != nil || !changed {
		return err
	}

	op := audit.OpHostConfirmed
	if !confirmed {
		op = audit.OpHostRevoked
	}
	s.audit.Log(audit.Entry{Operation: op, Host: host})
	return nil
}

// HostKeyConfirmations returns a copy of the per-host confirmation map.
func (s *Store) HostKeyConfirmations() map[string]bool {
	out := make(map[string]bool)
	s.identity.Read(func(v *Identity) {
		for host, confirmed := range v.KeysConfirmed {
			out[host] = confirmed
		}
	})
	return out
}

// ResetTrust clears the key confirmation and every host confirmation.
func (s *Store) ResetTrust() error {
	cleared, changed := 0, false
	err := s.identity.Update(func(v *Identity) bool {
		if !v.KeyConfirmed && len(v.KeysConfirmed) == 0 {
			return false
		}
		changed = true
		cleared = len(v.KeysConfirmed)
		v.KeyConfirmed = false
		v.KeysConfirmed = make(map[string]bool)
		return true
	})
	if err != nil || !changed {
		return err
	}
	s.log.WithFields(logrus.Fields{"hosts": cleared}).Infof("Trust reset")
	s.audit.Log(audit.Entry{Operation: audit.OpTrustCleared})
	return nil
}
