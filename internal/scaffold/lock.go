package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// staleLockThreshold is the maximum age of a lock before it is
// considered abandoned and reclaimed.
const staleLockThreshold = 10 * time.Minute

// ErrLockExists means another init is running against the same project.
var ErrLockExists = errors.New("another init is in progress")

// Lock guards a project directory against concurrent scaffolding.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock takes an exclusive lock for dir. O_CREATE|O_EXCL makes
// acquisition atomic; a stale lock is reclaimed once.
func AcquireLock(dir string) (*Lock, error) {
	lockPath := filepath.Join(dir, ".twrun-init.lock")

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if !isLockStale(lockPath) {
			return nil, ErrLockExists
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
		if err != nil {
			return nil, ErrLockExists
		}
	}

	meta := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(meta); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release removes the lock. Safe to call more than once.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}
	return nil
}

func isLockStale(lockPath string) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > staleLockThreshold
}
