package storage

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock is an exclusive cross-process lock
type FileLock interface {
	// TryLockContext retries every retryInterval until the lock is taken or ctx ends
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)
	Unlock() error
}

// FileLockFactory creates FileLock instances
type FileLockFactory interface {
	New(path string) FileLock
}

// FlockFactory creates locks backed by github.com/gofrs/flock
type FlockFactory struct{}

// New implements FileLockFactory.New
func (FlockFactory) New(path string) FileLock {
	return flock.New(path)
}
