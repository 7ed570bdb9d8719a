// Package runlock keeps two runs of the tool from working on the same machine at once.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created inside the lock directory.
const FileName = "setup-automate.lock"

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("another setup-automate run is in progress")

// Lock is a held cross-process lock. Release it when the run ends.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the lock in dir without blocking. It fails with ErrLocked when
// another process already holds it.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	fl := flock.New(filepath.Join(dir, FileName))
	acquired, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", fl.Path(), err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, fl.Path())
	}
	return &Lock{flock: fl}, nil
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *Lock) Path() string {
	return l.flock.Path()
}
