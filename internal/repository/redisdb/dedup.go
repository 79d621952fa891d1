package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/dedup"
	"github.com/hadirly/attendance-backend-go/internal/pkg/redisdb"
	"github.com/redis/go-redis/v9"
)

const (
	flightKeyPrefix  = "attendance:dedup:flight:"
	outcomeKeyPrefix = "attendance:dedup:outcome:"
)

// DedupStore is the Redis-backed idempotency store for multi-instance
// deployments. The absent-to-in-flight transition rides on SET NX, so
// exactly one instance wins a fingerprint even under concurrent
// webhook deliveries.
type DedupStore struct {
	client *redisdb.Client
}

func NewDedupStore(client *redisdb.Client) *DedupStore {
	return &DedupStore{client: client}
}

// Reserve implements dedup.Store.
func (s *DedupStore) Reserve(ctx context.Context, fingerprint string, ttl time.Duration) (dedup.Reservation, error) {
	if outcome, ok, err := s.getOutcome(ctx, fingerprint); err != nil {
		return dedup.Reservation{}, err
	} else if ok {
		return dedup.Reservation{Completed: outcome}, nil
	}

	won, err := s.client.SetNX(ctx, flightKeyPrefix+fingerprint, "1", ttl).Result()
	if err != nil {
		return dedup.Reservation{}, fmt.Errorf("failed to reserve fingerprint: %w", err)
	}
	if won {
		return dedup.Reservation{Won: true}, nil
	}

	// Lost the race: the winner may have completed between our outcome
	// read and the SET NX.
	if outcome, ok, err := s.getOutcome(ctx, fingerprint); err != nil {
		return dedup.Reservation{}, err
	} else if ok {
		return dedup.Reservation{Completed: outcome}, nil
	}
	return dedup.Reservation{}, dedup.ErrInFlight
}

// Complete implements dedup.Store.
func (s *DedupStore) Complete(ctx context.Context, fingerprint string, outcome dedup.Outcome, ttl time.Duration) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, outcomeKeyPrefix+fingerprint, payload, ttl)
	pipe.Del(ctx, flightKeyPrefix+fingerprint)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store outcome: %w", err)
	}
	return nil
}

// Release implements dedup.Store.
func (s *DedupStore) Release(ctx context.Context, fingerprint string) error {
	if err := s.client.Del(ctx, flightKeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("failed to release fingerprint: %w", err)
	}
	return nil
}

func (s *DedupStore) getOutcome(ctx context.Context, fingerprint string) (*dedup.Outcome, bool, error) {
	payload, err := s.client.Get(ctx, outcomeKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read outcome: %w", err)
	}

	var outcome dedup.Outcome
	if err := json.Unmarshal(payload, &outcome); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal outcome: %w", err)
	}
	return &outcome, true, nil
}
