package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in process memory. State is lost on restart and
// is not shared between instances; use RedisStore for multi-instance deployments.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]*entry
	lastSeen time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

type entry struct {
	count       int64
	windowStart time.Time
	window      time.Duration
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often elapsed windows are evicted.
// Zero disables eviction, leaving the table unbounded by key cardinality.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval >= 0 {
			s.cleanupInterval = interval
		}
	}
}

// NewMemoryStore creates an in-memory store. Call Close to stop the eviction loop.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:         make(map[string]*entry),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cleanupInterval > 0 {
		go s.cleanupLoop()
	}

	return s
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.After(s.lastSeen) {
		s.lastSeen = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &entry{windowStart: now}
		s.entries[key] = e
	}
	e.window = window

	if now.Sub(e.windowStart) > window {
		e.count = 0
		e.windowStart = now
	}
	e.count++

	return e.count, e.windowStart, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

// Cleanup evicts keys whose window has elapsed relative to the latest recorded attempt.
// Evicting such a key is indistinguishable from resetting it on its next hit.
func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if s.lastSeen.Sub(e.windowStart) > e.window {
			delete(s.entries, key)
		}
	}
}

// Close stops the eviction loop.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}
