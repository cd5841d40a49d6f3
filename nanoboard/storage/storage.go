// Package storage provides the persistence layer for nanoboard.
//
// Collections are stored as JSON documents under string keys in a KV
// backend. Backends are interchangeable: an in-memory map, a single JSON
// file guarded by a cross-process lock, a SQLite table, or a Redis
// keyspace. Consumers never talk to a backend directly; they go through
// the typed Load/Save helpers or a Collection bound to one key.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by every operation on a closed backend
var ErrClosed = errors.New("storage: backend is closed")

// KV is the byte-level contract every backend implements.
// Values are opaque to the backend; Put overwrites unconditionally.
type KV interface {
	// Get returns the stored value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key in ascending order
	Keys(ctx context.Context) ([]string, error)

	// Close releases any resources held by the backend
	Close() error
}

// Metadata describes a file store as a whole
type Metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
