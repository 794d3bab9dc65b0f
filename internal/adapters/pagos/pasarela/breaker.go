package pasarela

import (
	"errors"
	"sync"
	"time"
)

// ErrAbierto is returned when the circuit breaker rejects a call without
// reaching the gateway.
var ErrAbierto = errors.New("circuito abierto hacia la pasarela")

type breakerState int

const (
	breakerClosed   breakerState = iota // Normal operation
	breakerOpen                         // Requests fail fast
	breakerHalfOpen                     // Testing if the gateway recovered
)

// CircuitBreaker implements a simple circuit breaker to keep a failing
// gateway from stalling every payment attempt.
type CircuitBreaker struct {
	maxFailures      int           // Consecutive failures before opening
	cooldownPeriod   time.Duration // Time to wait before attempting half-open
	successThreshold int           // Successes needed to close from half-open

	mu              sync.Mutex
	state           breakerState
	failureCount    int
	successCount    int
	lastStateChange time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(maxFailures int, cooldownPeriod time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if cooldownPeriod <= 0 {
		cooldownPeriod = 30 * time.Second
	}
	return &CircuitBreaker{
		maxFailures:      maxFailures,
		cooldownPeriod:   cooldownPeriod,
		successThreshold: 2,
		state:            breakerClosed,
	}
}

// Execute runs fn under circuit breaker protection.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == breakerOpen {
		if time.Since(cb.lastStateChange) < cb.cooldownPeriod {
			cb.mu.Unlock()
			return ErrAbierto
		}
		cb.state = breakerHalfOpen
		cb.successCount = 0
		cb.lastStateChange = time.Now()
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failureCount++
		if cb.state == breakerHalfOpen || cb.failureCount >= cb.maxFailures {
			cb.state = breakerOpen
			cb.lastStateChange = time.Now()
		}
		return err
	}

	cb.successCount++
	switch cb.state {
	case breakerHalfOpen:
		if cb.successCount >= cb.successThreshold {
			cb.state = breakerClosed
			cb.failureCount = 0
			cb.successCount = 0
			cb.lastStateChange = time.Now()
		}
	case breakerClosed:
		cb.failureCount = 0
	}
	return nil
}

// Abierto reports whether the breaker is currently rejecting calls.
func (cb *CircuitBreaker) Abierto() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == breakerOpen && time.Since(cb.lastStateChange) < cb.cooldownPeriod
}

// Reset returns the breaker to the closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = breakerClosed
	cb.failureCount = 0
	cb.successCount = 0
	cb.lastStateChange = time.Now()
}
