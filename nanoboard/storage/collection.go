package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Load decodes the value stored under key. A missing key, a read error or a
// value that does not parse all yield def. Load never writes to kv.
func Load[T any](ctx context.Context, kv KV, key Key, def T) T {
	return loadWith(ctx, kv, key, func() T { return def }, slog.Default())
}

func loadWith[T any](ctx context.Context, kv KV, key Key, def func() T, logger *slog.Logger) T {
	raw, ok, err := kv.Get(ctx, key.String())
	if err != nil {
		logger.Warn("failed to read collection, using default", "key", key.String(), "error", err)
		return def()
	}
	if !ok {
		return def()
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("stored collection does not parse, using default", "key", key.String(), "error", err)
		return def()
	}
	return v
}

// Save encodes v and overwrites whatever is stored under key
func Save[T any](ctx context.Context, kv KV, key Key, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key.String(), raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Collection is a typed handle on one key. Consumers hold a Collection
// instead of the KV itself.
type Collection[T any] struct {
	kv     KV
	key    Key
	def    func() T
	logger *slog.Logger
}

// NewCollection binds key on kv. def builds the value returned when nothing
// usable is stored; it is called on every such load so callers never share
// a default.
func NewCollection[T any](kv KV, key Key, def func() T) *Collection[T] {
	return &Collection[T]{kv: kv, key: key, def: def}
}

// WithLogger returns the collection logging load failures to logger
func (c *Collection[T]) WithLogger(logger *slog.Logger) *Collection[T] {
	n := *c
	n.logger = logger
	return &n
}

// Key returns the bound key
func (c *Collection[T]) Key() Key {
	return c.key
}

// Load behaves like the package-level Load
func (c *Collection[T]) Load(ctx context.Context) T {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	return loadWith(ctx, c.kv, c.key, c.def, logger)
}

// Save behaves like the package-level Save
func (c *Collection[T]) Save(ctx context.Context, v T) error {
	return Save(ctx, c.kv, c.key, v)
}

// Exists reports whether anything is stored under the key
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	_, ok, err := c.kv.Get(ctx, c.key.String())
	return ok, err
}
