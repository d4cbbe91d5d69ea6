// Package circuitbreaker implements a three-state breaker guarding
// outbound venue calls.
package circuitbreaker

import (
	"sync"
	"sync/atomic"
	"time"
)

// State is the breaker's current mode.
type State int32

const (
	// StateClosed lets every request through.
	StateClosed State = iota
	// StateOpen rejects requests until the timeout elapses.
	StateOpen
	// StateHalfOpen probes with live requests after the timeout.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config holds the breaker thresholds.
type Config struct {
	// FailThreshold is how many consecutive failures open the breaker.
	FailThreshold int `json:"fail_threshold"`
	// SuccessThreshold is how many half-open successes close it again.
	SuccessThreshold int `json:"success_threshold"`
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `json:"timeout"`
}

// Breaker tracks request outcomes and trips after repeated failures.
type Breaker struct {
	state            atomic.Int32
	failures         atomic.Int32
	successes        atomic.Int32
	failThreshold    int
	successThreshold int
	timeout          time.Duration
	lastFailTime     atomic.Int64
	mu               sync.Mutex
}

// New creates a closed Breaker with the given thresholds.
func New(config Config) *Breaker {
	b := &Breaker{
		failThreshold:    config.FailThreshold,
		successThreshold: config.SuccessThreshold,
		timeout:          config.Timeout,
	}
	b.state.Store(int32(StateClosed))
	return b
}

// Allow reports whether a request may proceed. An open breaker transitions
// to half-open once its timeout has elapsed.
func (b *Breaker) Allow() bool {
	switch State(b.state.Load()) {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		lastFail := time.Unix(0, b.lastFailTime.Load())
		if time.Since(lastFail) >= b.timeout {
			b.state.Store(int32(StateHalfOpen))
			return true
		}
		return false
	}
	return false
}

// Record feeds a request outcome into the breaker.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch State(b.state.Load()) {
	case StateClosed:
		if success {
			b.failures.Store(0)
			return
		}
		b.failures.Add(1)
		if int(b.failures.Load()) >= b.failThreshold {
			b.lastFailTime.Store(time.Now().UnixNano())
			b.state.Store(int32(StateOpen))
		}
	case StateHalfOpen:
		if !success {
			b.lastFailTime.Store(time.Now().UnixNano())
			b.state.Store(int32(StateOpen))
			b.successes.Store(0)
			return
		}
		b.successes.Add(1)
		if int(b.successes.Load()) >= b.successThreshold {
			b.state.Store(int32(StateClosed))
			b.failures.Store(0)
			b.successes.Store(0)
		}
	case StateOpen:
		// Outcomes recorded while open are probes that raced the
		// transition; a failure restarts the timeout.
		if !success {
			b.lastFailTime.Store(time.Now().UnixNano())
		}
	}
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	return State(b.state.Load())
}

// Reset forces the breaker back to closed with zeroed counters.
func (b *Breaker) Reset() {
	b.state.Store(int32(StateClosed))
	b.failures.Store(0)
	b.successes.Store(0)
}
