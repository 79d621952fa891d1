package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/dedup"
)

type dedupEntry struct {
	outcome   *dedup.Outcome
	expiresAt time.Time
}

// DedupStore is the in-memory idempotency store for single-process
// deployments. Multi-instance deployments share state through the Redis
// implementation instead.
type DedupStore struct {
	mu      sync.Mutex
	entries map[string]*dedupEntry
}

func NewDedupStore() *DedupStore {
	return &DedupStore{
		entries: make(map[string]*dedupEntry),
	}
}

// Reserve implements dedup.Store.
func (s *DedupStore) Reserve(ctx context.Context, fingerprint string, ttl time.Duration) (dedup.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if entry, ok := s.entries[fingerprint]; ok && entry.expiresAt.After(now) {
		if entry.outcome != nil {
			out := *entry.outcome
			return dedup.Reservation{Completed: &out}, nil
		}
		return dedup.Reservation{}, dedup.ErrInFlight
	}

	s.entries[fingerprint] = &dedupEntry{expiresAt: now.Add(ttl)}
	return dedup.Reservation{Won: true}, nil
}

// Complete implements dedup.Store.
func (s *DedupStore) Complete(ctx context.Context, fingerprint string, outcome dedup.Outcome, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[fingerprint] = &dedupEntry{
		outcome:   &outcome,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Release implements dedup.Store. Only an in-flight reservation is
// dropped; a stored outcome stays for replay.
func (s *DedupStore) Release(ctx context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[fingerprint]; ok && entry.outcome == nil {
		delete(s.entries, fingerprint)
	}
	return nil
}
