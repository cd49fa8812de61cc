package cache

import (
	"context"
	"sync"
)

// MapStorage is an in-process Backend backed by a plain map. It is meant for
// tests and for embedding the storage-backed cache without an external
// store.
type MapStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMapStorage creates an empty in-process backend.
func NewMapStorage() *MapStorage {
	return &MapStorage{data: make(map[string]string)}
}

func (m *MapStorage) Read(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MapStorage) Write(_ context.Context, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MapStorage) Remove(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Len reports the number of persisted entries.
func (m *MapStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

var _ Backend = (*MapStorage)(nil)
