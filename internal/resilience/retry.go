package resilience

import (
	"context"
	"time"
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxAttempts int           // total attempts, including the first call
	BaseDelay   time.Duration // delay before the second attempt
	Multiplier  float64       // backoff multiplier between attempts
}

// DefaultRetryConfig returns the standard downstream policy:
// 3 attempts, 1s initial backoff, doubling between attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2,
	}
}

// Do runs fn under the breaker and retry policy. Only failures marked
// with Transient are retried; a rejection by an open breaker fails fast
// without consuming retry attempts for the remote side.
func Do[T any](ctx context.Context, b *Breaker, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	backoff := cfg.BaseDelay

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := b.Allow(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		b.Record(err != nil)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * cfg.Multiplier)
			}
		}
	}

	return zero, lastErr
}
