package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockFileName serializes index directory creation across processes.
const lockFileName = ".pulse.lock"

// rootLock is a cross-process lock on an index root directory.
type rootLock struct {
	flock  *flock.Flock
	locked bool
}

func newRootLock(root string) *rootLock {
	return &rootLock{flock: flock.New(filepath.Join(root, lockFileName))}
}

// Lock blocks until the lock is held, creating root if needed.
func (l *rootLock) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.flock.Path()), 0o755); err != nil {
		return fmt.Errorf("failed to create index root: %w", err)
	}
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire index root lock: %w", err)
	}
	l.locked = true
	return nil
}

// Unlock releases the lock. Calling it on an unlocked lock is a no-op.
func (l *rootLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release index root lock: %w", err)
	}
	return nil
}
