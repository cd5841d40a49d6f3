package storage

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used when a cache is requested without a size
const DefaultCacheSize = 64

// cachedKV is a read-through, write-through LRU in front of another KV.
// Misses are not cached.
//
// Operations are serialized so a slow read cannot cache a value older than
// a concurrent write. Writes made by other processes or other KV handles on
// the same backend are not seen, so the cache is only for a single writer.
type cachedKV struct {
	mu    sync.Mutex
	next  KV
	cache *lru.Cache[string, []byte]
}

// NewCachedKV wraps next with an LRU of up to size entries. Use it only
// when this handle is the sole writer to next.
func NewCachedKV(next KV, size int) (KV, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &cachedKV{next: next, cache: cache}, nil
}

func (c *cachedKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.cache.Get(key); ok {
		return cloneBytes(v), true, nil
	}
	v, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	c.cache.Add(key, cloneBytes(v))
	return v, true, nil
}

func (c *cachedKV) Put(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.next.Put(ctx, key, value); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, cloneBytes(value))
	return nil
}

func (c *cachedKV) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(key)
	return c.next.Delete(ctx, key)
}

func (c *cachedKV) Keys(ctx context.Context) ([]string, error) {
	return c.next.Keys(ctx)
}

func (c *cachedKV) Close() error {
	c.cache.Purge()
	return c.next.Close()
}
