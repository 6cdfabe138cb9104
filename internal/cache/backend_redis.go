package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores entries in Redis. The shared client is concurrency-safe
// and its lifecycle is managed by the composition root.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an existing Redis client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

// DeletePattern removes keys matching a Redis glob pattern using SCAN so the
// server is never blocked by a KEYS call.
func (b *RedisBackend) DeletePattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := b.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return count, err
		}
		if len(keys) > 0 {
			deleted, err := b.client.Del(ctx, keys...).Result()
			if err != nil {
				return count, err
			}
			count += int(deleted)
		}
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (b *RedisBackend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *RedisBackend) TTL(ctx context.Context, key string) (time.Duration, TTLState, error) {
	d, err := b.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, TTLAbsent, err
	}
	// go-redis passes the -2 (absent) and -1 (no expiry) replies through
	// unscaled.
	switch {
	case d == time.Duration(-2):
		return 0, TTLAbsent, nil
	case d == time.Duration(-1):
		return 0, TTLNoExpiry, nil
	default:
		return d, TTLExpiring, nil
	}
}
