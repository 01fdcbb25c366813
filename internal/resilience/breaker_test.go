package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker() (*Breaker, *time.Time) {
	b := NewBreaker(DefaultBreakerConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

// record runs n permitted calls with the given outcome.
func record(t *testing.T, b *Breaker, n int, failed bool) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, b.Allow())
		b.Record(failed)
	}
}

func TestBreaker_OpensOnFailureRate(t *testing.T) {
	t.Run("SixFailuresInTenCallWindow", func(t *testing.T) {
		b, _ := newTestBreaker()

		record(t, b, 4, false)
		record(t, b, 6, true)

		// 6/10 failures crossed the 50% threshold.
		assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	})

	t.Run("BelowMinCallsNeverOpens", func(t *testing.T) {
		b, _ := newTestBreaker()

		record(t, b, 4, true)

		assert.NoError(t, b.Allow())
	})

	t.Run("UnderThresholdStaysClosed", func(t *testing.T) {
		b, _ := newTestBreaker()

		record(t, b, 6, false)
		record(t, b, 4, true)

		assert.NoError(t, b.Allow())
	})

	t.Run("TripsAtMinCalls", func(t *testing.T) {
		b, _ := newTestBreaker()

		record(t, b, 5, true)

		assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	})

	t.Run("SlidingWindowDropsOldOutcomes", func(t *testing.T) {
		b, _ := newTestBreaker()

		// 10 successes push the window full of passes, then 5
		// failures displace half of them: 5/10 trips the breaker.
		record(t, b, 10, false)
		record(t, b, 5, true)

		assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	})
}

func TestBreaker_OpenRejectsImmediately(t *testing.T) {
	b, now := newTestBreaker()

	record(t, b, 3, false)
	record(t, b, 5, true)
	require.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	// Still open just before the wait expires.
	*now = now.Add(4999 * time.Millisecond)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_HalfOpenProbes(t *testing.T) {
	trip := func(t *testing.T) (*Breaker, *time.Time) {
		b, now := newTestBreaker()
		record(t, b, 5, true)
		require.ErrorIs(t, b.Allow(), ErrCircuitOpen)
		*now = now.Add(5 * time.Second)
		return b, now
	}

	t.Run("AllowsAtMostThreeProbes", func(t *testing.T) {
		b, _ := trip(t)

		assert.NoError(t, b.Allow())
		assert.NoError(t, b.Allow())
		assert.NoError(t, b.Allow())
		assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	})

	t.Run("ClosesOnProbeSuccess", func(t *testing.T) {
		b, _ := trip(t)

		for i := 0; i < 3; i++ {
			require.NoError(t, b.Allow())
			b.Record(false)
		}

		assert.NoError(t, b.Allow())
	})

	t.Run("ReopensOnProbeFailures", func(t *testing.T) {
		b, now := trip(t)

		require.NoError(t, b.Allow())
		b.Record(true)
		require.NoError(t, b.Allow())
		b.Record(true)
		require.NoError(t, b.Allow())
		b.Record(false)

		// 2/3 probe failures re-opened the breaker.
		assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

		// And it stays open for a fresh wait window.
		*now = now.Add(4 * time.Second)
		assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	})

	t.Run("MixedProbesUnderThresholdClose", func(t *testing.T) {
		b, _ := trip(t)

		require.NoError(t, b.Allow())
		b.Record(true)
		require.NoError(t, b.Allow())
		b.Record(false)
		require.NoError(t, b.Allow())
		b.Record(false)

		// 1/3 failures is under 50%, so the breaker closed.
		assert.NoError(t, b.Allow())
	})
}
