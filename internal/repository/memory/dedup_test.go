package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/dedup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupStore_ReserveThenComplete(t *testing.T) {
	store := NewDedupStore()
	ctx := context.Background()

	res, err := store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Won)
	assert.Nil(t, res.Completed)

	outcome := dedup.Outcome{Accepted: true, Code: "CHECKED_IN", Message: "ok", RecordID: "rec-1"}
	require.NoError(t, store.Complete(ctx, "fp-1", outcome, time.Minute))

	res, err = store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Won)
	require.NotNil(t, res.Completed)
	assert.Equal(t, outcome, *res.Completed)
}

func TestDedupStore_InFlightBlocksSecondCaller(t *testing.T) {
	store := NewDedupStore()
	ctx := context.Background()

	res, err := store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	require.True(t, res.Won)

	_, err = store.Reserve(ctx, "fp-1", time.Minute)
	assert.ErrorIs(t, err, dedup.ErrInFlight)
}

func TestDedupStore_ReleaseReopensFingerprint(t *testing.T) {
	store := NewDedupStore()
	ctx := context.Background()

	res, err := store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	require.True(t, res.Won)

	require.NoError(t, store.Release(ctx, "fp-1"))

	res, err = store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Won)
}

func TestDedupStore_ReleaseKeepsStoredOutcome(t *testing.T) {
	store := NewDedupStore()
	ctx := context.Background()

	_, err := store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	outcome := dedup.Outcome{Accepted: false, Code: "OUTSIDE_WINDOW", Message: "too early"}
	require.NoError(t, store.Complete(ctx, "fp-1", outcome, time.Minute))

	require.NoError(t, store.Release(ctx, "fp-1"))

	res, err := store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, res.Completed)
	assert.Equal(t, outcome, *res.Completed)
}

func TestDedupStore_ExpiredReservationCanBeRetaken(t *testing.T) {
	store := NewDedupStore()
	ctx := context.Background()

	res, err := store.Reserve(ctx, "fp-1", time.Millisecond)
	require.NoError(t, err)
	require.True(t, res.Won)

	time.Sleep(5 * time.Millisecond)

	res, err = store.Reserve(ctx, "fp-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Won)
}

func TestDedupStore_ConcurrentReserveSingleWinner(t *testing.T) {
	store := NewDedupStore()
	ctx := context.Background()

	const callers = 32
	var wg sync.WaitGroup
	wins := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.Reserve(ctx, "fp-race", time.Minute)
			if err == nil && res.Won {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Equal(t, 1, len(wins))
}
