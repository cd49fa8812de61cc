// Package cache provides the three caching policies used by the translation
// core, behind one generic contract (Get/Set/Has/Delete/Clear/Len/Close).
//
//   - LRU: the hot-path cache for rendered translations. A hash map plus an
//     arena-allocated doubly linked list give O(1) access and eviction with
//     no steady-state allocation; entries support per-entry TTL, checked
//     lazily on access and proactively by a background sweep.
//
//   - Weak: an identity-keyed cache whose entries vanish when the key object
//     becomes unreachable, for per-object metadata that must never leak.
//     TTL timers are capped by a counting semaphore.
//
//   - Stored: an in-memory mirror in front of a persistent key-value backend
//     (Redis, or any Backend implementation) with debounced write-behind
//     persistence.
//
// Every variant's Close is idempotent and leaves no timer referencing the
// instance; call it before discarding a cache.
package cache
