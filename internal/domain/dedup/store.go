package dedup

import (
	"context"
	"errors"
	"time"
)

// Outcome is the stored result of processing one fingerprint. Replays
// answer retried deliveries with the identical response without
// re-running the state machine.
type Outcome struct {
	Accepted bool   `json:"accepted"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	RecordID string `json:"record_id,omitempty"`
}

// Reservation is the result of a Reserve call.
type Reservation struct {
	// Won is true when this caller transitioned the fingerprint from
	// absent to in-flight and must run the pipeline.
	Won bool
	// Completed holds the stored outcome when the fingerprint was
	// already processed.
	Completed *Outcome
}

var (
	// ErrInFlight means another process holds the in-flight reservation
	// and no outcome is stored yet.
	ErrInFlight = errors.New("fingerprint is being processed by another caller")
)

// Store is the idempotency backing store. Reserve must be atomic:
// exactly one concurrent caller wins the absent-to-in-flight transition
// (compare-and-set). A single-process deployment can use the in-memory
// implementation; scaled deployments use the Redis one — both satisfy
// this contract.
type Store interface {
	// Reserve attempts to claim the fingerprint. Exactly one of the
	// Reservation fields is meaningful: Won, or Completed. When neither
	// applies (another caller is mid-flight) it returns ErrInFlight.
	Reserve(ctx context.Context, fingerprint string, ttl time.Duration) (Reservation, error)

	// Complete stores the outcome for the fingerprint and keeps it for
	// the retention window.
	Complete(ctx context.Context, fingerprint string, outcome Outcome, ttl time.Duration) error

	// Release drops an in-flight reservation after an internal failure
	// so the provider's retry can run the pipeline again.
	Release(ctx context.Context, fingerprint string) error
}
