// Package runlock serializes classification runs per data directory. The
// history database and report files are shared state, so only one run may
// hold the lock at a time.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyLocked indicates another run holds the lock.
var ErrAlreadyLocked = errors.New("another wordmill run is already in progress")

// Lock guards a data directory against concurrent runs.
type Lock struct {
	path string
	lock *flock.Flock
}

// New builds a lock rooted in the given data directory.
func New(dataDir string) *Lock {
	path := filepath.Join(dataDir, "wordmill.lock")
	return &Lock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. It fails with ErrAlreadyLocked
// when another process holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
