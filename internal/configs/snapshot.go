package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/deskvault/internal/audit"
	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/sirupsen/logrus"
)

const tmpSuffix = "_tmp"

// SaveTmp copies the identity and options files next to themselves with a
// _tmp suffix, for handing to a process running as another user. It returns
// the path of the identity copy.
func (s *Store) SaveTmp() (string, error) {
	// Make sure both files exist on disk.
	s.GetID()
	if err := s.options.Update(func(*Config2) bool {
		_, err := os.Stat(s.options.Path())
		return os.IsNotExist(err)
	}); err != nil {
		return "", err
	}

	identityTmp := s.paths.PartitionFile(tmpSuffix)
	optionsTmp := s.paths.PartitionFile("2" + tmpSuffix)

	if err := copyPartitionFile(s.options, optionsTmp); err != nil {
		return "", err
	}
	if err := copyPartitionFile(s.identity, identityTmp); err != nil {
		return "", err
	}
	return identityTmp, nil
}

func copyPartitionFile[T any](p *Partition[T], to string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", p.path, err)
	}
	return writeFileAtomic(to, data)
}

// companionOptionsFile returns the options file that belongs with an
// identity file: DeskVault_tmp.toml pairs with DeskVault2_tmp.toml.
func companionOptionsFile(identityFile string) string {
	dir, base := filepath.Split(identityFile)
	if strings.HasPrefix(base, AppName) {
		return dir + AppName + "2" + strings.TrimPrefix(base, AppName)
	}
	return dir + strings.TrimSuffix(base, tomlExt) + "2" + tomlExt
}

// Import replaces the identity and options files with copies of from and
// its companion options file, then drops the cached values. The keypair
// already in use by this process is kept.
func (s *Store) Import(from string) error {
	log := s.log.WithFields(logrus.Fields{"from": from})
	log.Infof("Importing configuration")

	if _, _, err := loadFile[Identity](from); err != nil {
		return err
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrDecodeFailed, err)
	}
	if err := importInto(s.identity, data); err != nil {
		return err
	}

	optionsFrom := companionOptionsFile(from)
	if data, err := os.ReadFile(optionsFrom); err == nil {
		if _, _, err := loadFile[Config2](optionsFrom); err != nil {
			return err
		}
		if err := importInto(s.options, data); err != nil {
			return err
		}
	} else {
		log.Warnf("No options file to import at %s", optionsFrom)
	}

	s.ResetOnline()
	s.audit.Log(audit.Entry{Operation: audit.OpImported, Detail: from})
	return nil
}

func importInto[T any](p *Partition[T], data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := writeFileAtomic(p.path, data); err != nil {
		return fmt.Errorf("%w: %s: %v", kerrors.ErrStoreFailed, p.path, err)
	}
	var zero T
	p.value = zero
	p.loaded = false
	return nil
}
