package storage

import (
	"context"
	"sort"
	"sync"
)

// memoryKV keeps values in a map. It is the default for tests and for
// one-shot CLI runs that should not touch disk.
type memoryKV struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryKV creates an empty in-memory backend
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(v), true, nil
}

func (m *memoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = cloneBytes(value)
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *memoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// cloneBytes copies b so callers cannot alias stored values
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
