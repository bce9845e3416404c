package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Operation names.
const (
	OpIDGenerated      = "id-generated"
	OpIDChanged        = "id-changed"
	OpKeyPairGenerated = "keypair-generated"
	OpKeyConfirmed     = "key-confirmed"
	OpTrustCleared     = "trust-cleared"
	OpHostConfirmed    = "host-confirmed"
	OpHostRevoked      = "host-revoked"
	OpPeerRemoved      = "peer-removed"
	OpPeerPruned       = "peer-pruned"
	OpServerSelected   = "rendezvous-selected"
	OpImported         = "config-imported"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	Operation string `json:"op"`

	// Optional fields depending on operation.
	DeviceID    string `json:"device_id,omitempty"`
	Host        string `json:"host,omitempty"`
	Peer        string `json:"peer,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Trail appends entries to one JSON Lines file.
type Trail struct {
	path string
	mu   sync.Mutex
}

// New returns a trail writing to path. The file is created on first write.
func New(path string) *Trail {
	return &Trail{path: path}
}

// Path returns the location of the trail.
func (t *Trail) Path() string {
	return t.path
}

// Log appends an entry. Failures are swallowed.
func (t *Trail) Log(entry Entry) {
	if t == nil || t.path == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the trail.
// Returns an empty slice if the trail doesn't exist.
func (t *Trail) ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
