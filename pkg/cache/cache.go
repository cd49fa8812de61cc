package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a generic key-value cache with per-entry TTL support.
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: entry never expires
//
// A cache constructed without a default TTL never expires entries.
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string) error

	// Has checks whether a key exists and has not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error

	// Len reports the number of live entries.
	Len() int

	// Close releases background resources (sweep and flush timers).
	// It is idempotent and mandatory before discarding an instance.
	Close() error
}

// Marshaler serializes cache values for backends that store strings or
// bytes (e.g. the storage-backed cache's persistent backend).
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

type getOrSetResult[V any] struct {
	val   V
	store bool
}

// GetOrSet retrieves a value from the cache, or calls fn to compute it on a
// miss. Concurrent misses for the same key are collapsed into a single fn
// call through sf, which the caller owns: callers sharing a cache share a
// group, and distinct caches with overlapping key spaces stay isolated.
//
// fn returns the value, whether it should be stored, and an error. On error
// nothing is cached and the error is returned to every waiting caller. A
// false store still hands the computed value to every waiting caller, so
// negative results can be served without being pinned in the cache.
func GetOrSet[V any](ctx context.Context, c Cache[V], sf *singleflight.Group, key string, ttl time.Duration, fn func(ctx context.Context) (V, bool, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err, _ := sf.Do(key, func() (any, error) {
		val, store, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return getOrSetResult[V]{val: val, store: store}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	r := v.(getOrSetResult[V])
	if r.store {
		// Best-effort: a full or disabled cache must not fail the caller.
		_ = c.Set(ctx, key, r.val, ttl)
	}
	return r.val, nil
}
