// Package ratelimit bounds request frequency per identifier within a fixed
// time window. The counter store is injected so single-instance deployments
// can use the in-memory map while multi-instance ones plug in an external
// atomic counter.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Store holds per-key window counters. Incr must be atomic per key: it
// increments and returns the count for the window the key currently occupies,
// starting a fresh window when the previous one has expired.
type Store interface {
	Incr(key string, window time.Duration) (count int, resetIn time.Duration)
}

// Limiter gates requests with a fixed-window counter per key.
type Limiter struct {
	store Store
}

// New creates a limiter over the given store.
func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// NewInMemory creates a limiter backed by the in-process counter map.
func NewInMemory() *Limiter {
	return New(NewMemoryStore())
}

// Check records one request for key and reports whether it is allowed under
// max requests per window.
func (l *Limiter) Check(key string, max int, window time.Duration) Result {
	count, resetIn := l.store.Incr(key, window)

	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	count   int
	resetAt time.Time
}

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

const sweepThreshold = 10000

// Incr implements Store with a read-check-increment under the store mutex.
func (s *MemoryStore) Incr(key string, window time.Duration) (int, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	// Sweep expired entries once the table grows large.
	if len(s.entries) > sweepThreshold {
		for k, e := range s.entries {
			if e.resetAt.Before(now) {
				delete(s.entries, k)
			}
		}
	}

	e, ok := s.entries[key]
	if !ok || e.resetAt.Before(now) {
		e = &entry{count: 0, resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++

	return e.count, e.resetAt.Sub(now)
}

// Reset clears the counter for a key.
func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}
