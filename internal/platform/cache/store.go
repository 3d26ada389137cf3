// Package cache provides the time-bounded cache store, key builders, and
// the cache-coordinated resolver that fronts upstream calls.
package cache

import (
	"sync"
	"time"
)

// Entry is a cached value together with the time it was stored.
type Entry struct {
	Key      string
	Value    interface{}
	StoredAt time.Time
}

// Store is an in-memory cache keyed by logical request identity.
//
// Freshness is judged at read time against a caller-supplied TTL: a stale
// entry behaves as absent but stays in the map until it is overwritten or
// explicitly invalidated. Nothing sweeps entries in the background, so
// memory is bounded only by key churn.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]Entry),
	}
}

// Get returns the value for key if it was stored less than ttl ago.
// A stale entry is reported as absent without being removed.
func (s *Store) Get(key string, ttl time.Duration) (interface{}, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Since(entry.StoredAt) >= ttl {
		return nil, false
	}

	return entry.Value, true
}

// Put stores value under key, unconditionally overwriting any previous
// entry and resetting its stored-at timestamp.
func (s *Store) Put(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{
		Key:      key,
		Value:    value,
		StoredAt: time.Now(),
	}
}

// Invalidate removes a single entry and reports whether it existed.
func (s *Store) Invalidate(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return ok
}

// InvalidateAll removes every entry and returns the count removed.
func (s *Store) InvalidateAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.entries)
	s.entries = make(map[string]Entry)
	return removed
}

// Len returns the number of entries physically present, stale ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
