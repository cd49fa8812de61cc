package cache

import (
	"context"
	"runtime"
	"sync"
	"time"
	"weak"

	"golang.org/x/sync/semaphore"
)

// Weak is an identity-keyed cache whose entries disappear once the key
// object becomes unreachable elsewhere. Keys are pointers; the cache holds
// only a weak reference to them, so caching a value never keeps its key
// alive. Values must not reference their own key, or the entry will never
// be collected.
//
// Per-entry TTL is optional. TTL timers are scheduled through a counting
// semaphore capped at maxTimers: once the cap is reached new timers are
// simply not scheduled, and the entry lives until its key is collected or
// it is deleted explicitly. This trades strict TTL enforcement for a hard
// bound on timer count under high churn.
type Weak[K any, V any] struct {
	items  map[weak.Pointer[K]]*weakEntry[V]
	sem    *semaphore.Weighted
	gen    uint64
	mu     sync.Mutex
	closed bool
}

type weakEntry[V any] struct {
	value   V
	gen     uint64
	timer   *time.Timer // nil when no TTL timer was scheduled
	cleanup runtime.Cleanup
}

// NewWeak creates a weak-identity cache for keys of type *K.
func NewWeak[K any, V any](opts ...WeakOption) *Weak[K, V] {
	o := defaultWeakOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Weak[K, V]{
		items: make(map[weak.Pointer[K]]*weakEntry[V]),
		sem:   semaphore.NewWeighted(int64(o.maxTimers)),
	}
}

// Set associates a value with the key object's identity. A positive ttl
// schedules removal after the duration, subject to the timer cap; zero or
// negative means no TTL. Returns ErrNilKey for a nil key and ErrClosed
// after Close.
func (w *Weak[K, V]) Set(_ context.Context, key *K, value V, ttl time.Duration) error {
	if key == nil {
		return ErrNilKey
	}

	wp := weak.Make(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	if old, ok := w.items[wp]; ok {
		w.retire(old)
	}

	w.gen++
	e := &weakEntry[V]{value: value, gen: w.gen}
	e.cleanup = runtime.AddCleanup(key, func(p weak.Pointer[K]) {
		w.collected(p)
	}, wp)

	if ttl > 0 && w.sem.TryAcquire(1) {
		gen := e.gen
		e.timer = time.AfterFunc(ttl, func() {
			w.expire(wp, gen)
		})
	}

	w.items[wp] = e
	return nil
}

// Get retrieves the value associated with the key object's identity.
func (w *Weak[K, V]) Get(_ context.Context, key *K) (V, error) {
	var zero V
	if key == nil {
		return zero, ErrNilKey
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.items[weak.Make(key)]
	if !ok {
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Has reports whether the key object has an associated value.
func (w *Weak[K, V]) Has(_ context.Context, key *K) bool {
	if key == nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.items[weak.Make(key)]
	return ok
}

// Delete removes the entry for the key object, stopping its TTL timer and
// GC hook.
func (w *Weak[K, V]) Delete(_ context.Context, key *K) error {
	if key == nil {
		return ErrNilKey
	}

	wp := weak.Make(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	if e, ok := w.items[wp]; ok {
		w.retire(e)
		delete(w.items, wp)
	}
	return nil
}

// Clear removes all entries.
func (w *Weak[K, V]) Clear(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, e := range w.items {
		w.retire(e)
	}
	w.items = make(map[weak.Pointer[K]]*weakEntry[V])
	return nil
}

// Len reports the number of entries whose keys have not been collected yet.
func (w *Weak[K, V]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Close drops all entries and their timers. Idempotent; no timer or GC hook
// referencing the cache survives Close.
func (w *Weak[K, V]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	for _, e := range w.items {
		w.retire(e)
	}
	w.items = make(map[weak.Pointer[K]]*weakEntry[V])
	return nil
}

// retire stops an entry's timer and GC hook, releasing the timer's semaphore
// slot if the timer had not fired yet. Caller must hold the mutex.
func (w *Weak[K, V]) retire(e *weakEntry[V]) {
	if e.timer != nil && e.timer.Stop() {
		w.sem.Release(1)
	}
	e.cleanup.Stop()
}

// expire runs when a TTL timer fires. The generation guard keeps a stale
// timer from removing an entry that was overwritten after scheduling.
func (w *Weak[K, V]) expire(wp weak.Pointer[K], gen uint64) {
	w.sem.Release(1)

	w.mu.Lock()
	defer w.mu.Unlock()

	if e, ok := w.items[wp]; ok && e.gen == gen {
		e.cleanup.Stop()
		delete(w.items, wp)
	}
}

// collected runs from the GC cleanup once the key object is unreachable.
func (w *Weak[K, V]) collected(wp weak.Pointer[K]) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e, ok := w.items[wp]; ok {
		if e.timer != nil && e.timer.Stop() {
			w.sem.Release(1)
		}
		delete(w.items, wp)
	}
}
