package cache

import "time"

// LRUOption configures the LRU cache.
type LRUOption func(*lruOptions)

type lruOptions struct {
	defaultTTL    time.Duration
	sweepInterval time.Duration
}

func defaultLRUOptions() *lruOptions {
	return &lruOptions{
		defaultTTL:    0, // never expire
		sweepInterval: time.Minute,
	}
}

// WithDefaultTTL sets the expiry applied when Set is called with a zero TTL.
// Default: 0, meaning entries never expire.
func WithDefaultTTL(d time.Duration) LRUOption {
	return func(o *lruOptions) {
		o.defaultTTL = d
	}
}

// WithSweepInterval sets how often the background sweep removes expired
// entries. Zero or negative disables the sweep; expired entries are then
// only dropped lazily on access.
// Default: 1 minute.
func WithSweepInterval(d time.Duration) LRUOption {
	return func(o *lruOptions) {
		o.sweepInterval = d
	}
}
