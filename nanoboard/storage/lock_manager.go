package storage

import "sync"

// OperationType selects the lock an operation takes
type OperationType int

const (
	// ReadOperation runs concurrently with other reads
	ReadOperation OperationType = iota

	// WriteOperation runs alone
	WriteOperation
)

// LockManager centralizes the read/write locking of an in-memory state
// holder, so every method takes the right lock and releases it on return.
//
//	err := lm.Execute(storage.WriteOperation, func() error {
//	    // exclusive access here
//	    return nil
//	})
type LockManager struct {
	mu sync.RWMutex
}

// NewLockManager creates a lock manager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn while holding the lock matching opType
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}

// Read runs fn under the read lock and returns its result
func Read[T any](lm *LockManager, fn func() T) T {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return fn()
}
