package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Cache implementation. Safe for concurrent use;
// expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	nowFunc func() time.Time
}

type entry struct {
	val       []byte
	expiresAt time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.nowFunc = f
	}
}

// NewMemory creates an empty in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Cache.Get. Returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if m.nowFunc().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; Put may have refreshed the entry.
		if cur, still := m.entries[key]; still && m.nowFunc().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	cp := make([]byte, len(e.val))
	copy(cp, e.val)
	return cp, true, nil
}

// Put implements Cache.Put. Stores a copy of val.
func (m *Memory) Put(_ context.Context, key string, val []byte, ttl time.Duration) error {
	cp := make([]byte, len(val))
	copy(cp, val)

	m.mu.Lock()
	m.entries[key] = entry{val: cp, expiresAt: m.nowFunc().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// collected.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
