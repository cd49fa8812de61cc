package cache

// WeakOption configures the weak-identity cache.
type WeakOption func(*weakOptions)

type weakOptions struct {
	maxTimers int
}

func defaultWeakOptions() *weakOptions {
	return &weakOptions{maxTimers: 128}
}

// WithMaxTimers caps the number of concurrently scheduled TTL timers.
// When the cap is reached, further TTLs are silently skipped and those
// entries live until their key is collected or they are deleted.
// Default: 128.
func WithMaxTimers(n int) WeakOption {
	return func(o *weakOptions) {
		if n > 0 {
			o.maxTimers = n
		}
	}
}
