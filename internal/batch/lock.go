package batch

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another process is already rotating the manifest.
var ErrLocked = errors.New("manifest is locked by another run")

// Lock is an exclusive advisory lock tied to one manifest.
type Lock struct {
	path string
	fl   *flock.Flock
}

// LockPath returns the lock file used for manifestPath.
func LockPath(manifestPath string) string {
	return manifestPath + ".lock"
}

// AcquireLock takes the manifest lock without blocking.
func AcquireLock(manifestPath string) (*Lock, error) {
	path := LockPath(manifestPath)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. The lock file stays on disk: a waiter may already
// hold a descriptor for it, and a fresh file would hand out a second lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
