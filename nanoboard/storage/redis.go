package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisScanCount = 100

// redisKV stores each entry as a plain Redis string under prefix+key
type redisKV struct {
	rc     redis.UniversalClient
	prefix string
	owned  bool
}

// NewRedisKV uses an existing client. The caller keeps ownership of it:
// Close does not close the client.
func NewRedisKV(client redis.UniversalClient, prefix string) KV {
	return &redisKV{rc: client, prefix: prefix}
}

// DialRedis connects to the server at url (redis://...) and returns a KV
// that closes the connection on Close
func DialRedis(ctx context.Context, url, prefix string) (KV, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &redisKV{rc: client, prefix: prefix, owned: true}, nil
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.rc.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.wrap("get", err)
	}
	return value, true, nil
}

func (r *redisKV) Put(ctx context.Context, key string, value []byte) error {
	if err := r.rc.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return r.wrap("set", err)
	}
	return nil
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	if err := r.rc.Del(ctx, r.prefix+key).Err(); err != nil {
		return r.wrap("del", err)
	}
	return nil
}

func (r *redisKV) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	iter := r.rc.Scan(ctx, 0, r.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, r.wrap("scan", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *redisKV) Close() error {
	if !r.owned {
		return nil
	}
	return r.rc.Close()
}

func (r *redisKV) wrap(op string, err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("redis %s: %w", op, ErrClosed)
	}
	return fmt.Errorf("redis %s: %w", op, err)
}
