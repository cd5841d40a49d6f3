package storage

import (
	"context"
	"sync"
	"time"
)

// MockFileLock is an in-process FileLock for tests
type MockFileLock struct {
	mu        sync.Mutex
	locked    bool
	lockError error

	LockAttempts   int
	UnlockAttempts int
}

// TryLockContext implements FileLock.TryLockContext. A held lock reports
// false rather than waiting.
func (m *MockFileLock) TryLockContext(ctx context.Context, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockAttempts++
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if m.lockError != nil {
		return false, m.lockError
	}
	if m.locked {
		return false, nil
	}
	m.locked = true
	return true, nil
}

// Unlock implements FileLock.Unlock
func (m *MockFileLock) Unlock() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnlockAttempts++
	m.locked = false
	return nil
}

// IsLocked reports whether the lock is held
func (m *MockFileLock) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// SetLockError makes subsequent lock attempts fail with err
func (m *MockFileLock) SetLockError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lockError = err
}

// MockFileLockFactory hands out one MockFileLock per path
type MockFileLockFactory struct {
	mu    sync.Mutex
	locks map[string]*MockFileLock
}

// NewMockFileLockFactory creates an empty factory
func NewMockFileLockFactory() *MockFileLockFactory {
	return &MockFileLockFactory{locks: make(map[string]*MockFileLock)}
}

// New implements FileLockFactory.New
func (f *MockFileLockFactory) New(path string) FileLock {
	return f.GetLock(path)
}

// GetLock returns the lock for path, creating it on first use
func (f *MockFileLockFactory) GetLock(path string) *MockFileLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[path]
	if !ok {
		l = &MockFileLock{}
		f.locks[path] = l
	}
	return l
}
