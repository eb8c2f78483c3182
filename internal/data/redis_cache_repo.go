package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/reportd/internal/core"
)

// DefaultCacheKeyPrefix namespaces every cache key written by this service.
const DefaultCacheKeyPrefix = "reportd:"

// RedisCacheRepo implements core.CacheRepository on a Redis client.
type RedisCacheRepo struct {
	client redis.UniversalClient
	prefix string
}

var _ core.CacheRepository = (*RedisCacheRepo)(nil)

// NewRedisCacheRepo creates a RedisCacheRepo using DefaultCacheKeyPrefix.
func NewRedisCacheRepo(client redis.UniversalClient) *RedisCacheRepo {
	return NewRedisCacheRepoWithPrefix(client, DefaultCacheKeyPrefix)
}

// NewRedisCacheRepoWithPrefix creates a RedisCacheRepo with a custom key prefix (tests use
// a random one to stay isolated).
func NewRedisCacheRepoWithPrefix(client redis.UniversalClient, prefix string) *RedisCacheRepo {
	return &RedisCacheRepo{client: client, prefix: prefix}
}

func (r *RedisCacheRepo) key(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}
	return r.prefix + key, nil
}

// Set stores value under key with ttl; ttl <= 0 keeps the key until deleted.
func (r *RedisCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	k, err := r.key(key)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, k, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns nil, nil when the key is absent.
func (r *RedisCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := r.key(key)
	if err != nil {
		return nil, err
	}
	result, err := r.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return result, nil
}

// Delete removes key and reports whether it existed.
func (r *RedisCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	k, err := r.key(key)
	if err != nil {
		return false, err
	}
	n, err := r.client.Del(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}

// Health pings the Redis connection.
func (r *RedisCacheRepo) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
