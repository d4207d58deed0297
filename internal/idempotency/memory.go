package idempotency

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type entry struct {
	registrationID string
	expiresAt      time.Time
}

// MemoryStore is the single-process fallback used when REDIS_URL is unset.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	ttl       time.Duration
	nextSweep time.Time
	timeNow   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		timeNow: time.Now,
	}
}

func (s *MemoryStore) Reserve(_ context.Context, key string) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeNow()
	s.sweep(now)
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return false, e.registrationID, nil
	}
	s.entries[key] = entry{expiresAt: now.Add(s.ttl)}
	return true, "", nil
}

// sweep drops expired entries at most once per sweepInterval. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}

func (s *MemoryStore) Complete(_ context.Context, key, registrationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{registrationID: registrationID, expiresAt: s.timeNow().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
