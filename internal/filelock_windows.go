//go:build windows

package internal

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// FileLock is an advisory lock on a sidecar lock file. It serializes
// cache access across processes; in-process callers still need their own
// synchronization.
type FileLock struct {
	path string
	file *os.File
}

// AcquireFileLock takes an exclusive lock on path, polling until timeout.
func AcquireFileLock(path string, timeout time.Duration) (*FileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	deadline := time.Now().Add(timeout)
	for {
		ol := new(windows.Overlapped)
		err := windows.LockFileEx(windows.Handle(f.Fd()),
			windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
			0, 1, 0, ol)
		if err == nil {
			return &FileLock{path: path, file: f}, nil
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, fmt.Errorf("locking %s: %w", path, ErrLockTimeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Release drops the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	ol := new(windows.Overlapped)
	unlockErr := windows.UnlockFileEx(windows.Handle(l.file.Fd()), 0, 1, 0, ol)
	closeErr := l.file.Close()
	l.file = nil
	os.Remove(l.path)
	if unlockErr != nil {
		return fmt.Errorf("unlocking %s: %w", l.path, unlockErr)
	}
	return closeErr
}
