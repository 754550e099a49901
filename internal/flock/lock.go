package flock

import (
	"os"
	"path/filepath"

	"github.com/latticeci/lattice/internal/errors"
)

// Lock is a held exclusive lock on a lock file.
type Lock struct {
	file *os.File
}

// Acquire opens (creating if needed) the lock file at path and takes an
// exclusive non-blocking lock on it. It returns ErrRunInProgress when
// another process already holds the lock.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create lock directory")
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //nolint:gosec // Lock file path is lattice-controlled
	if err != nil {
		return nil, errors.Wrap(err, "failed to open lock file")
	}

	if err := Exclusive(file.Fd()); err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(errors.ErrRunInProgress, "lock %s held", path)
	}

	return &Lock{file: file}, nil
}

// Release unlocks and closes the lock file. Safe to call once per Lock.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	_ = Unlock(l.file.Fd())
	_ = l.file.Close()
	l.file = nil
}
