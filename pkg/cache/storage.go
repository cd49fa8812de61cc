package cache

import (
	"context"
	"sync"
	"time"
)

// Backend is the minimal persistent key-value surface the storage-backed
// cache writes through to. Implementations absorb their own failures:
// Read reports false instead of returning an error, Write and Remove are
// best-effort. A nil Backend degrades the cache to memory-only operation.
type Backend interface {
	Read(ctx context.Context, key string) (string, bool)
	Write(ctx context.Context, key, value string)
	Remove(ctx context.Context, key string)
}

// Stored is a cache backed by a persistent key-value store. A bounded
// in-memory mirror answers reads; writes update the mirror immediately and
// are persisted by a debounced background flush, so bursts of writes
// collapse into a single persistence pass.
//
// Entries do not expire; the TTL argument of Set is ignored. Lifetime is
// managed with Delete, Clear and the backend's own retention.
//
// Close forces a synchronous flush of pending writes before releasing the
// timer, so no write is dropped on shutdown.
type Stored[V any] struct {
	mirror    map[string]V
	order     []string       // mirror insertion order, oldest first
	stale     map[string]int // order slots orphaned by Delete, per key
	dirty     map[string]V
	removals  map[string]struct{}
	backend   Backend
	marshaler Marshaler[V]
	timer     *time.Timer
	opts      *storedOptions
	mu        sync.Mutex
	closed    bool
}

// NewStored creates a storage-backed cache on top of backend. A nil
// marshaler defaults to JSON; a nil backend yields a memory-only cache.
//
// Example:
//
//	c := cache.NewStored[Settings](cache.NewRedisStorage(client, "i18n"), nil,
//	    cache.WithFlushDebounce(time.Second),
//	)
//	defer c.Close()
func NewStored[V any](backend Backend, m Marshaler[V], opts ...StoredOption) *Stored[V] {
	o := defaultStoredOptions()
	for _, opt := range opts {
		opt(o)
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	return &Stored[V]{
		mirror:    make(map[string]V),
		stale:     make(map[string]int),
		dirty:     make(map[string]V),
		removals:  make(map[string]struct{}),
		backend:   backend,
		marshaler: m,
		opts:      o,
	}
}

// Get retrieves a value, consulting the mirror first and falling back to
// the backend. Backend hits repopulate the mirror.
func (s *Stored[V]) Get(ctx context.Context, key string) (V, error) {
	s.mu.Lock()
	if v, ok := s.mirror[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	if v, ok := s.dirty[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	if _, doomed := s.removals[key]; doomed {
		s.mu.Unlock()
		var zero V
		return zero, ErrNotFound
	}
	backend := s.backend
	s.mu.Unlock()

	var zero V
	if backend == nil {
		return zero, ErrNotFound
	}

	raw, ok := backend.Read(ctx, key)
	if !ok {
		return zero, ErrNotFound
	}

	v, err := s.marshaler.Unmarshal([]byte(raw))
	if err != nil {
		return zero, ErrNotFound
	}

	s.mu.Lock()
	s.insertMirror(key, v)
	s.mu.Unlock()

	return v, nil
}

// Set stores a value in the mirror and schedules a debounced flush to the
// backend. The ttl argument is accepted for interface compatibility and
// ignored.
func (s *Stored[V]) Set(_ context.Context, key string, value V, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.insertMirror(key, value)
	s.dirty[key] = value
	delete(s.removals, key)
	s.scheduleFlush()

	return nil
}

// Delete removes a key from the mirror and schedules its removal from the
// backend.
func (s *Stored[V]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, ok := s.mirror[key]; ok {
		// The key's order slot stays behind; mark it stale so eviction
		// skips it instead of punishing a later re-insert of the same key.
		delete(s.mirror, key)
		s.stale[key]++
	}
	delete(s.dirty, key)
	s.removals[key] = struct{}{}
	s.scheduleFlush()

	return nil
}

// Has checks the mirror, then the backend.
func (s *Stored[V]) Has(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.mirror[key]; ok {
		s.mu.Unlock()
		return true, nil
	}
	if _, ok := s.dirty[key]; ok {
		s.mu.Unlock()
		return true, nil
	}
	if _, doomed := s.removals[key]; doomed {
		s.mu.Unlock()
		return false, nil
	}
	backend := s.backend
	s.mu.Unlock()

	if backend == nil {
		return false, nil
	}
	_, ok := backend.Read(ctx, key)
	return ok, nil
}

// Clear drops the mirror and pending writes and removes every known key
// from the backend immediately. Keys present only in the backend and never
// seen by this instance are out of reach and left untouched.
func (s *Stored[V]) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	known := make([]string, 0, len(s.mirror)+len(s.dirty))
	for key := range s.mirror {
		known = append(known, key)
	}
	for key := range s.dirty {
		known = append(known, key)
	}

	s.mirror = make(map[string]V)
	s.order = s.order[:0]
	s.stale = make(map[string]int)
	s.dirty = make(map[string]V)
	s.removals = make(map[string]struct{})
	backend := s.backend
	s.mu.Unlock()

	if backend != nil {
		for _, key := range known {
			backend.Remove(ctx, key)
		}
	}

	return nil
}

// Len reports the number of mirrored entries.
func (s *Stored[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mirror)
}

// Close flushes pending writes synchronously and releases the flush timer.
// Idempotent.
func (s *Stored[V]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.flush()
	return nil
}

// Flush persists pending writes immediately, cancelling the scheduled
// debounce.
func (s *Stored[V]) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.flush()
}

// flush persists a stable snapshot of pending writes. The snapshot is taken
// copy-then-clear under the lock, so a write arriving mid-flush lands in the
// fresh pending set: it is neither lost nor flushed twice.
func (s *Stored[V]) flush() {
	s.mu.Lock()
	writes := s.dirty
	removes := s.removals
	s.dirty = make(map[string]V)
	s.removals = make(map[string]struct{})
	s.timer = nil
	backend := s.backend
	s.mu.Unlock()

	if backend == nil {
		return
	}

	ctx := context.Background()
	for key, v := range writes {
		data, err := s.marshaler.Marshal(v)
		if err != nil {
			continue // unserializable values stay memory-only
		}
		backend.Write(ctx, key, string(data))
	}
	for key := range removes {
		backend.Remove(ctx, key)
	}
}

// scheduleFlush arms or postpones the debounce timer. Caller must hold the
// mutex.
func (s *Stored[V]) scheduleFlush() {
	if s.timer != nil {
		s.timer.Reset(s.opts.debounce)
		return
	}
	s.timer = time.AfterFunc(s.opts.debounce, s.flush)
}

// insertMirror adds or updates a mirrored entry, evicting the oldest entry
// when the mirror is full. Caller must hold the mutex.
func (s *Stored[V]) insertMirror(key string, value V) {
	if _, exists := s.mirror[key]; exists {
		s.mirror[key] = value
		return
	}

	for s.opts.mirrorSize > 0 && len(s.mirror) >= s.opts.mirrorSize {
		if len(s.order) == 0 {
			break
		}
		oldest := s.order[0]
		s.order = s.order[1:]
		if n := s.stale[oldest]; n > 0 {
			// Slot orphaned by Delete; the live entry, if any, sits
			// further back in the order.
			if n == 1 {
				delete(s.stale, oldest)
			} else {
				s.stale[oldest] = n - 1
			}
			continue
		}
		delete(s.mirror, oldest)
	}

	s.mirror[key] = value
	s.order = append(s.order, key)
}

var _ Cache[any] = (*Stored[any])(nil)
