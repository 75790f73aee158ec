// Package filelock provides the per-key advisory exclusive lock used by the
// cache's stampede-safe compute-and-store operations.
//
// Acquisition failure (unsupported filesystem, platform without flock) is
// not fatal to callers: the spec's degraded path treats it as "proceed
// without exclusion" rather than an error that aborts the operation.
package filelock

import (
	"fmt"
	"os"
)

// Lock holds an open file descriptor with an advisory exclusive lock.
type Lock struct {
	f *os.File
}

// Acquire opens path for read-or-create and blocks until it holds an
// exclusive advisory lock on it. The caller must call Release when done.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o664)
	if err != nil {
		return nil, fmt.Errorf("filelock: open %q: %w", path, err)
	}
	if err := flockExclusive(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("filelock: flock %q: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Release unlocks and closes the lock file. Safe to call once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := flockUnlock(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
