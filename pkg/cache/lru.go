package cache

import (
	"context"
	"sync"
	"time"
)

// nilSlot marks the absence of a neighbour in the intrusive list.
const nilSlot = -1

// lruSlot is one arena cell. Slots form a doubly linked list by index, from
// most recently used (head) to least recently used (tail).
type lruSlot[V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
	key       string
	prev      int
	next      int
}

func (s *lruSlot[V]) expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}

// LRU is a fixed-capacity cache with O(1) access and update and optional
// per-entry TTL. Entries live in an arena of fixed slots addressed by index;
// evicted slots are recycled through a free list, so steady-state operation
// does not allocate.
//
// Expired entries are dropped lazily on access and proactively by a
// background sweep. A capacity of zero or less disables the cache entirely:
// every Set is a no-op and every Get is a miss.
type LRU[V any] struct {
	items    map[string]int
	slots    []lruSlot[V]
	free     []int
	head     int
	tail     int
	capacity int
	opts     *lruOptions
	onEvict  func(key string, value V)
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewLRU creates an LRU cache holding at most capacity entries. Inserting
// beyond capacity evicts exactly one entry, the least recently used one.
//
// Example:
//
//	c := cache.NewLRU[string](1000,
//	    cache.WithDefaultTTL(5*time.Minute),
//	    cache.WithSweepInterval(30*time.Second),
//	)
//	defer c.Close()
func NewLRU[V any](capacity int, opts ...LRUOption) *LRU[V] {
	o := defaultLRUOptions()
	for _, opt := range opts {
		opt(o)
	}

	c := &LRU[V]{
		items:    make(map[string]int),
		head:     nilSlot,
		tail:     nilSlot,
		capacity: capacity,
		opts:     o,
		done:     make(chan struct{}),
	}

	if capacity > 0 {
		c.slots = make([]lruSlot[V], 0, capacity)
	}

	if capacity > 0 && o.sweepInterval > 0 {
		go c.sweeper()
	}

	return c
}

// SetEvictCallback registers a callback invoked whenever an entry leaves the
// cache: LRU eviction, expiry, deletion, or clearing.
func (c *LRU[V]) SetEvictCallback(fn func(key string, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value by key and marks it most recently used.
// Returns ErrNotFound if the key does not exist or has expired; an expired
// entry is removed on the spot even if the sweep has not reached it yet.
func (c *LRU[V]) Get(_ context.Context, key string) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.items[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}

	if c.slots[i].expired(time.Now()) {
		c.release(i)
		var zero V
		return zero, ErrNotFound
	}

	if c.head != i {
		c.unlink(i)
		c.pushFront(i)
	}

	return c.slots[i].value, nil
}

// Set stores a value with the given TTL (see Cache for TTL semantics).
// Existing keys are updated in place and moved to the front. New keys take a
// slot from the free pool, and when the cache is over capacity the tail slot
// is evicted and recycled.
func (c *LRU[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.capacity < 1 {
		return nil
	}

	if ttl == 0 {
		ttl = c.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if i, ok := c.items[key]; ok {
		c.slots[i].value = value
		c.slots[i].expiresAt = expiresAt
		if c.head != i {
			c.unlink(i)
			c.pushFront(i)
		}
		return nil
	}

	i := c.alloc()
	c.slots[i].key = key
	c.slots[i].value = value
	c.slots[i].expiresAt = expiresAt
	c.pushFront(i)
	c.items[key] = i

	if len(c.items) > c.capacity {
		c.release(c.tail)
	}

	return nil
}

// Delete removes a key from the cache.
func (c *LRU[V]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if i, ok := c.items[key]; ok {
		c.release(i)
	}

	return nil
}

// DeleteFunc removes every entry whose key matches and reports how many
// were removed. Used for scoped invalidation, e.g. dropping all entries of
// one locale.
func (c *LRU[V]) DeleteFunc(_ context.Context, match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var doomed []int
	for key, i := range c.items {
		if match(key) {
			doomed = append(doomed, i)
		}
	}
	for _, i := range doomed {
		c.release(i)
	}

	return len(doomed)
}

// Has checks whether a key exists and has not expired.
func (c *LRU[V]) Has(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.items[key]
	if !ok {
		return false, nil
	}
	if c.slots[i].expired(time.Now()) {
		c.release(i)
		return false, nil
	}

	return true, nil
}

// Clear removes all entries.
func (c *LRU[V]) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.onEvict != nil {
		for _, i := range c.items {
			c.onEvict(c.slots[i].key, c.slots[i].value)
		}
	}

	c.items = make(map[string]int)
	c.slots = c.slots[:0]
	c.free = c.free[:0]
	c.head, c.tail = nilSlot, nilSlot

	return nil
}

// Len reports the number of live entries, including not-yet-swept expired
// ones.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the background sweep and marks the cache closed. Idempotent.
func (c *LRU[V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)

	return nil
}

// sweeper proactively removes expired entries so that memory held by entries
// nobody re-reads is bounded by the sweep interval.
func (c *LRU[V]) sweeper() {
	ticker := time.NewTicker(c.opts.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *LRU[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for i := c.head; i != nilSlot; {
		next := c.slots[i].next
		if c.slots[i].expired(now) {
			c.release(i)
		}
		i = next
	}
}

// alloc takes a slot from the free pool, extending the arena only when the
// pool is empty. Caller must hold the mutex.
func (c *LRU[V]) alloc() int {
	if n := len(c.free); n > 0 {
		i := c.free[n-1]
		c.free = c.free[:n-1]
		return i
	}
	c.slots = append(c.slots, lruSlot[V]{prev: nilSlot, next: nilSlot})
	return len(c.slots) - 1
}

// release unlinks a slot, fires the evict callback, and returns the slot to
// the free pool with its references dropped. Caller must hold the mutex.
func (c *LRU[V]) release(i int) {
	c.unlink(i)
	delete(c.items, c.slots[i].key)

	if c.onEvict != nil {
		c.onEvict(c.slots[i].key, c.slots[i].value)
	}

	var zero V
	c.slots[i].value = zero
	c.slots[i].key = ""
	c.slots[i].expiresAt = time.Time{}
	c.free = append(c.free, i)
}

func (c *LRU[V]) unlink(i int) {
	s := &c.slots[i]
	if s.prev != nilSlot {
		c.slots[s.prev].next = s.next
	} else {
		c.head = s.next
	}
	if s.next != nilSlot {
		c.slots[s.next].prev = s.prev
	} else {
		c.tail = s.prev
	}
	s.prev, s.next = nilSlot, nilSlot
}

func (c *LRU[V]) pushFront(i int) {
	s := &c.slots[i]
	s.prev = nilSlot
	s.next = c.head
	if c.head != nilSlot {
		c.slots[c.head].prev = i
	}
	c.head = i
	if c.tail == nilSlot {
		c.tail = i
	}
}

var _ Cache[any] = (*LRU[any])(nil)
