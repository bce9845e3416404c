package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	kerrors "github.com/PolarWolf314/deskvault/internal/errors"
	logger "github.com/PolarWolf314/deskvault/internal/logging"
	"github.com/sirupsen/logrus"
)

// Partition is one named, independently persisted record. The value is
// loaded on first access and cached for the life of the Store.
//
// Within a partition schema all scalar fields are declared before map
// fields, so older binaries keep reading newer files.
type Partition[T any] struct {
	name string
	path string
	log  logger.Logger

	// decode runs once on the freshly loaded value; returning true stores it
	// back immediately. encode returns the form written to disk.
	decode func(v *T, info fs.FileInfo) bool
	encode func(v T) (T, error)

	mu     sync.RWMutex
	loaded bool
	value  T
	writes atomic.Int64
}

func newPartition[T any](paths Paths, suffix string, log logger.Logger) *Partition[T] {
	return &Partition[T]{
		name: suffix,
		path: paths.PartitionFile(suffix),
		log:  log.WithFields(logrus.Fields{"partition": AppName + suffix}),
	}
}

// Path returns the file backing the partition.
func (p *Partition[T]) Path() string {
	return p.path
}

// Writes returns how many times the partition has been written to disk.
func (p *Partition[T]) Writes() int64 {
	return p.writes.Load()
}

// Read calls fn with the cached value under the read lock. fn must not retain
// maps or slices of the value.
func (p *Partition[T]) Read(fn func(v *T)) {
	p.ensureLoaded()
	p.mu.RLock()
	defer p.mu.RUnlock()
	fn(&p.value)
}

// Update calls fn with the cached value under the write lock and writes the
// partition when fn reports a change. The lock is held for the whole write.
func (p *Partition[T]) Update(fn func(v *T) bool) error {
	p.ensureLoaded()
	p.mu.Lock()
	defer p.mu.Unlock()
	if !fn(&p.value) {
		return nil
	}
	return p.storeLocked()
}

// Reload drops the cached value; the next access reads the file again.
func (p *Partition[T]) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	p.value = zero
	p.loaded = false
}

func (p *Partition[T]) ensureLoaded() {
	p.mu.RLock()
	loaded := p.loaded
	p.mu.RUnlock()
	if loaded {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return
	}

	value, info, err := loadFile[T](p.path)
	if err != nil {
		p.log.Errorf("Failed to load config: %v", err)
	} else {
		p.log.Debugf("Loaded configuration from %s", p.path)
	}
	p.value = value
	p.loaded = true

	if p.decode != nil && p.decode(&p.value, info) {
		if err := p.storeLocked(); err != nil {
			p.log.Errorf("Failed to store migrated config: %v", err)
		}
	}
}

func (p *Partition[T]) storeLocked() error {
	value := p.value
	if p.encode != nil {
		var err error
		if value, err = p.encode(p.value); err != nil {
			return fmt.Errorf("%w: %s: %v", kerrors.ErrStoreFailed, p.path, err)
		}
	}
	if err := SaveTOML(p.path, value); err != nil {
		p.log.Errorf("Failed to store config: %v", err)
		return fmt.Errorf("%w: %s: %v", kerrors.ErrStoreFailed, p.path, err)
	}
	p.writes.Add(1)
	return nil
}

// loadFile decodes path into a fresh T. A missing file is not an error: it
// yields the zero value and a nil FileInfo. Any other failure returns the
// zero value along with the error.
func loadFile[T any](path string) (T, fs.FileInfo, error) {
	var value T

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return value, nil, nil
	}
	if err != nil {
		return value, nil, err
	}

	if err := LoadTOML(path, &value); err != nil {
		var zero T
		return zero, info, fmt.Errorf("%w: %s: %v", kerrors.ErrDecodeFailed, path, err)
	}
	return value, info, nil
}
