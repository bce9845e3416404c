package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	"github.com/PolarWolf314/deskvault/internal/utils"
)

// ConfigDirEnv overrides the resolved config directory.
const ConfigDirEnv = "DESKVAULT_CONFIG_DIR"

const (
	peersDirName = "peers"
	auditLogName = "audit.jsonl"
	logDirName   = "log"
	tomlExt      = ".toml"
)

// Paths resolves where DeskVault keeps its files.
type Paths struct {
	ConfigDir string
}

// DefaultPaths resolves the config directory for the current user and OS.
func DefaultPaths() (Paths, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return Paths{ConfigDir: dir}, nil
	}

	configDir, err := userConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("%w: %v", kerrors.ErrNoConfigDir, err)
	}

	return Paths{ConfigDir: filepath.Join(configDir, AppName)}, nil
}

func userConfigDir() (string, error) {
	if runtime.GOOS != "linux" || os.Getenv("XDG_CONFIG_HOME") != "" {
		return os.UserConfigDir()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(utils.PatchHome(homeDir), ".config"), nil
}

// PartitionFile returns the file backing the partition with the given suffix.
func (p Paths) PartitionFile(suffix string) string {
	return filepath.Join(p.ConfigDir, AppName+suffix+tomlExt)
}

// PeersDir returns the directory holding one file per peer.
func (p Paths) PeersDir() string {
	return filepath.Join(p.ConfigDir, peersDirName)
}

// PeerFile returns the file of a single peer.
func (p Paths) PeerFile(id string) string {
	return filepath.Join(p.PeersDir(), id+tomlExt)
}

// AuditLog returns the path of the trust audit trail.
func (p Paths) AuditLog() string {
	return filepath.Join(p.ConfigDir, auditLogName)
}

// LogDir returns the directory for service logs.
func (p Paths) LogDir() string {
	return filepath.Join(p.ConfigDir, logDirName)
}
