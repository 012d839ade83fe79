//go:build !windows

package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const lockFileExtension = ".lock"

// FileGuard holds an exclusive lock on a file in the temporary directory.
type FileGuard struct {
	lock *flock.Flock
}

// NewGuard constructs a guard whose lock file is derived from name.
func NewGuard(name string) Guard {
	return NewFileGuard(filepath.Join(os.TempDir(), sanitize(name)+lockFileExtension))
}

// NewFileGuard constructs a guard on an explicit lock file path.
func NewFileGuard(path string) *FileGuard {
	return &FileGuard{lock: flock.New(path)}
}

// Acquire takes the lock without waiting.
func (guard *FileGuard) Acquire() error {
	locked, err := guard.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", guard.lock.Path(), err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	return nil
}

// Release unlocks the file.
func (guard *FileGuard) Release() error {
	if !guard.lock.Locked() {
		return nil
	}
	return guard.lock.Unlock()
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
