package cache

import "time"

// StoredOption configures the storage-backed cache.
type StoredOption func(*storedOptions)

type storedOptions struct {
	debounce   time.Duration
	mirrorSize int
}

func defaultStoredOptions() *storedOptions {
	return &storedOptions{
		debounce:   500 * time.Millisecond,
		mirrorSize: 1000,
	}
}

// WithFlushDebounce sets the quiet period after a write before pending
// writes are persisted. Writes inside the window collapse into one flush.
// Default: 500ms.
func WithFlushDebounce(d time.Duration) StoredOption {
	return func(o *storedOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithMirrorSize bounds the in-memory read mirror; the oldest entry is
// evicted when full. Zero means unbounded.
// Default: 1000.
func WithMirrorSize(n int) StoredOption {
	return func(o *storedOptions) {
		o.mirrorSize = n
	}
}
