// Package lock guards the server log file against concurrently launched
// server instances, so two processes cannot interleave writes into the same
// log.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrLockTimeout is returned when acquiring the lock times out, which
	// normally means another server instance is already running.
	ErrLockTimeout = fmt.Errorf("timeout acquiring log lock")
	// ErrPathRequired is returned when the log file path is empty.
	ErrPathRequired = fmt.Errorf("log file path is required")
)

// shortPollInterval is the interval to sleep when polling for the lock.
const shortPollInterval = 10 * time.Millisecond

// LogLock is an exclusive OS-level lock on the log file's companion .lock
// file. Held for the whole process lifetime.
type LogLock struct {
	Path  string
	flock *flock.Flock
}

// Acquire attempts to take the exclusive lock for the given log file within
// the timeout.
func Acquire(logPath string, timeout time.Duration) (*LogLock, error) {
	if logPath == "" {
		return nil, ErrPathRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fileLock := flock.New(logPath + ".lock")
	locked, err := fileLock.TryLockContext(ctx, shortPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("error acquiring log lock for %s: %w", logPath, err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}

	return &LogLock{Path: logPath, flock: fileLock}, nil
}

// Release releases the OS-level lock. Safe to call on a nil receiver.
func (l *LogLock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
