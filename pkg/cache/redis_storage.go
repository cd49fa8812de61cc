package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStorage adapts a Redis client to the Backend interface. All failures
// are swallowed: an unreachable Redis degrades the storage-backed cache to
// memory-only operation, per the Backend contract.
type RedisStorage struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStorage creates a Redis persistence backend. An optional prefix
// namespaces all keys ("prefix:key").
func NewRedisStorage(client redis.UniversalClient, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (r *RedisStorage) Read(ctx context.Context, key string) (string, bool) {
	v, err := r.client.Get(ctx, r.prefixedKey(key)).Result()
	if err != nil {
		// redis.Nil and connectivity failures both read as absence.
		return "", false
	}
	return v, true
}

func (r *RedisStorage) Write(ctx context.Context, key, value string) {
	_ = r.client.Set(ctx, r.prefixedKey(key), value, 0).Err()
}

func (r *RedisStorage) Remove(ctx context.Context, key string) {
	_ = r.client.Del(ctx, r.prefixedKey(key)).Err()
}

func (r *RedisStorage) prefixedKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var _ Backend = (*RedisStorage)(nil)
