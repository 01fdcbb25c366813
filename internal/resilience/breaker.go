package resilience

import (
	"sync"
	"time"
)

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// BreakerConfig holds the circuit breaker policy values.
type BreakerConfig struct {
	WindowSize       int           // sliding window of recorded calls
	MinCalls         int           // calls required before the failure rate is evaluated
	FailureThreshold float64       // failure rate that opens the breaker
	OpenTimeout      time.Duration // how long the breaker rejects calls while open
	HalfOpenProbes   int           // trial calls allowed in the half-open state
}

// DefaultBreakerConfig returns the standard downstream policy:
// a 10-call window, 5 calls minimum, 50% failure rate to open,
// 5s open wait, 3 half-open probes.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		WindowSize:       10,
		MinCalls:         5,
		FailureThreshold: 0.5,
		OpenTimeout:      5 * time.Second,
		HalfOpenProbes:   3,
	}
}

// Breaker is a sliding-window circuit breaker. While open it rejects
// calls immediately; after OpenTimeout it admits a bounded number of
// probe calls and closes only if their failure rate stays below the
// threshold.
type Breaker struct {
	cfg BreakerConfig

	mu          sync.Mutex
	state       breakerState
	window      []bool // true = failure
	openedAt    time.Time
	probeCalls  int
	probeFails  int
	probesBegun int

	now func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.WindowSize <= 0 {
		cfg = DefaultBreakerConfig()
	}
	return &Breaker{
		cfg: cfg,
		now: time.Now,
	}
}

// Allow reports whether a call may proceed. It returns ErrCircuitOpen
// while the breaker is open or when all half-open probe slots are taken.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return nil
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.state = stateHalfOpen
		b.probeCalls = 0
		b.probeFails = 0
		b.probesBegun = 1
		return nil
	default: // half-open
		if b.probesBegun >= b.cfg.HalfOpenProbes {
			return ErrCircuitOpen
		}
		b.probesBegun++
		return nil
	}
}

// Record feeds the outcome of a permitted call back into the breaker.
func (b *Breaker) Record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		b.window = append(b.window, failed)
		if len(b.window) > b.cfg.WindowSize {
			b.window = b.window[1:]
		}
		if len(b.window) >= b.cfg.MinCalls && b.failureRate() >= b.cfg.FailureThreshold {
			b.trip()
		}
	case stateHalfOpen:
		b.probeCalls++
		if failed {
			b.probeFails++
		}
		if b.probeCalls >= b.cfg.HalfOpenProbes {
			rate := float64(b.probeFails) / float64(b.probeCalls)
			if rate >= b.cfg.FailureThreshold {
				b.trip()
			} else {
				b.state = stateClosed
				b.window = nil
			}
		}
	case stateOpen:
		// A late result from a call admitted before the trip; ignored.
	}
}

func (b *Breaker) failureRate() float64 {
	if len(b.window) == 0 {
		return 0
	}
	fails := 0
	for _, f := range b.window {
		if f {
			fails++
		}
	}
	return float64(fails) / float64(len(b.window))
}

func (b *Breaker) trip() {
	b.state = stateOpen
	b.openedAt = b.now()
	b.window = nil
	b.probeCalls = 0
	b.probeFails = 0
	b.probesBegun = 0
}
