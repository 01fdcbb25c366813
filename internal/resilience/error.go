package resilience

import "errors"

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// transientError marks a failure as retryable.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so the retry policy treats it as retryable.
// Timeouts and 5xx-equivalent downstream failures should be wrapped;
// validation and declined-style failures should not.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked retryable with Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
