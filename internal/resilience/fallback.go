package resilience

import "context"

// Fallback is the per-call-site policy applied when a protected call
// fails: either degrade to a placeholder value or propagate the error.
type Fallback[T any] struct {
	degrade bool
	value   T
}

// Degrade returns a policy that substitutes v for the result on failure.
func Degrade[T any](v T) Fallback[T] {
	return Fallback[T]{degrade: true, value: v}
}

// Propagate returns a policy that surfaces the failure to the caller.
func Propagate[T any]() Fallback[T] {
	return Fallback[T]{}
}

// DoWithFallback runs fn under the breaker and retry policy, then
// applies the call site's fallback to any failure.
func DoWithFallback[T any](ctx context.Context, b *Breaker, cfg RetryConfig, fb Fallback[T], fn func(ctx context.Context) (T, error)) (T, error) {
	result, err := Do(ctx, b, cfg, fn)
	if err != nil && fb.degrade {
		return fb.value, nil
	}
	return result, err
}
