package configs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/deskvault/internal/secrets"
)

// MigrationReport lists values still stored in a legacy form.
type MigrationReport struct {
	// PlaintextFields names identity fields not yet encrypted on disk.
	PlaintextFields []string
	// Peers lists peer IDs whose files hold plaintext or old-version secrets.
	Peers []string
}

// Clean reports whether nothing needs migrating.
func (r *MigrationReport) Clean() bool {
	return len(r.PlaintextFields) == 0 && len(r.Peers) == 0
}

// legacyIDUsable decides whether a plaintext ID from an older release is a
// deliberate value. A file written within legacyIDGrace of the binary's own
// timestamp is more likely a fresh install racing the first store, so its ID
// is not trusted.
func (s *Store) legacyIDUsable(id *Identity, info fs.FileInfo) bool {
	if id.ID == "" || id.EncID != "" {
		return false
	}
	if _, encrypted, _ := s.codec.DecryptString(id.ID, secrets.VersionCurrent); encrypted {
		return false
	}
	if s.skipExeTimeCheck {
		return true
	}
	if info == nil {
		return false
	}
	exeTime := s.exeTime()
	if exeTime.IsZero() {
		return false
	}
	return info.ModTime().Add(legacyIDGrace).Before(exeTime)
}

// CheckMigration inspects the files on disk without loading them into the
// Store.
func (s *Store) CheckMigration() (*MigrationReport, error) {
	report := &MigrationReport{}

	raw, _, err := loadFile[Identity](s.identity.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read identity: %w", err)
	}
	if raw.ID != "" {
		report.PlaintextFields = append(report.PlaintextFields, "id")
	}
	if _, _, rewrite := s.codec.DecryptString(raw.EncID, secrets.VersionCurrent); rewrite {
		report.PlaintextFields = append(report.PlaintextFields, "enc_id")
	}
	if _, _, rewrite := s.codec.DecryptString(raw.Password, secrets.VersionCurrent); rewrite {
		report.PlaintextFields = append(report.PlaintextFields, "password")
	}
	if _, _, rewrite := s.codec.DecryptBytes(raw.SecretKey, secrets.VersionCurrent); rewrite {
		report.PlaintextFields = append(report.PlaintextFields, "sk")
	}

	entries, err := os.ReadDir(s.paths.PeersDir())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read peers directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), tomlExt) {
			continue
		}
		peer, _, err := loadFile[PeerConfig](filepath.Join(s.paths.PeersDir(), entry.Name()))
		if err != nil {
			continue
		}
		if s.decryptPeer(&peer) {
			report.Peers = append(report.Peers, strings.TrimSuffix(entry.Name(), tomlExt))
		}
	}

	return report, nil
}

// Migrate rewrites every legacy value found by CheckMigration and returns
// what was migrated.
func (s *Store) Migrate() (*MigrationReport, error) {
	report, err := s.CheckMigration()
	if err != nil {
		return nil, err
	}

	if len(report.PlaintextFields) > 0 {
		if err := s.identity.Update(func(*Identity) bool { return true }); err != nil {
			return report, err
		}
	}

	for _, id := range report.Peers {
		// LoadPeer stores the peer again when any secret needed a rewrite.
		s.LoadPeer(id)
	}
	return report, nil
}
