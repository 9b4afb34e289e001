package fsx

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the destination root while a run is active.
const LockFileName = ".photo-organizer.lock"

// ErrLocked is returned when another run already holds the destination lock.
var ErrLocked = errors.New("destination is locked by another run")

// Lock holds an exclusive lock on a destination tree.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes the lock for root without blocking.
func AcquireLock(root string) (*Lock, error) {
	if err := EnsureDir(root); err != nil {
		return nil, err
	}
	fl := flock.New(filepath.Join(root, LockFileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", fl.Path(), ErrLocked)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.fl.Path() }

// Release drops the lock. The lock file itself is left behind.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
