package storage

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// DefaultRedisPrefix namespaces keys on a shared Redis
const DefaultRedisPrefix = "nanoboard:"

// Config selects and configures a backend
type Config struct {
	Backend     string
	Path        string // file and sqlite
	RedisURL    string
	RedisPrefix string
	CacheSize   int // 0 disables the LRU
}

// Validate checks that the fields the backend needs are set
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case "", BackendMemory:
		return nil
	case BackendFile, BackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("backend %q needs a path", c.Backend)
		}
		return nil
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("backend %q needs a redis url", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want memory, file, sqlite or redis)", c.Backend)
	}
}

// Open creates the backend described by cfg, wrapped in an LRU when
// cfg.CacheSize is positive
func Open(ctx context.Context, cfg Config) (KV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		kv  KV
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		kv = NewMemoryKV()
	case BackendFile:
		kv, err = NewFileKV(cfg.Path)
	case BackendSQLite:
		kv, err = NewSQLiteKV(cfg.Path)
	case BackendRedis:
		prefix := cfg.RedisPrefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		kv, err = DialRedis(ctx, cfg.RedisURL, prefix)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}

	if cfg.CacheSize > 0 {
		cached, err := NewCachedKV(kv, cfg.CacheSize)
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		return cached, nil
	}
	return kv, nil
}
