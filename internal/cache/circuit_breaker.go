package cache

import (
	"errors"
	"sync"
	"time"
)

type CircuitBreakerState int

const (
	CircuitBreakerClosed CircuitBreakerState = iota
	CircuitBreakerOpen
	CircuitBreakerHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitBreakerOpen:
		return "open"
	case CircuitBreakerHalfOpen:
		return "half-open"
	}
	return "closed"
}

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	MaxFailures int           `json:"max_failures"`
	Timeout     time.Duration `json:"timeout"`
	// trial requests that must succeed before closing again
	HalfOpenSuccesses int `json:"half_open_successes"`
}

func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:       5,
		Timeout:           30 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

// CircuitBreaker stops calling redis after repeated failures so page
// renders fall back to the database without waiting on timeouts.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     CircuitBreakerState
	failures  int
	successes int
	openedAt  time.Time
	cfg       CircuitBreakerConfig
	now       func() time.Time
}

func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	return &CircuitBreaker{cfg: *config, now: time.Now}
}

// Execute runs fn unless the breaker is open. Errors matching one of benign
// are returned without counting as failures.
func (cb *CircuitBreaker) Execute(fn func() error, benign ...error) error {
	if !cb.allow() {
		return ErrCircuitBreakerOpen
	}

	err := fn()
	if err != nil && !isBenign(err, benign) {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return err
}

func isBenign(err error, benign []error) bool {
	for _, b := range benign {
		if errors.Is(err, b) {
			return true
		}
	}
	return false
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitBreakerOpen {
		if cb.now().Sub(cb.openedAt) < cb.cfg.Timeout {
			return false
		}
		cb.state = CircuitBreakerHalfOpen
		cb.successes = 0
	}
	return true
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	if cb.state == CircuitBreakerHalfOpen || cb.failures >= cb.cfg.MaxFailures {
		cb.state = CircuitBreakerOpen
		cb.openedAt = cb.now()
		cb.successes = 0
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitBreakerClosed:
		cb.failures = 0
	case CircuitBreakerHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.HalfOpenSuccesses {
			cb.state = CircuitBreakerClosed
			cb.failures = 0
			cb.successes = 0
		}
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Stats() map[string]interface{} {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return map[string]interface{}{
		"state":           cb.state.String(),
		"failure_count":   cb.failures,
		"success_count":   cb.successes,
		"max_failures":    cb.cfg.MaxFailures,
		"timeout_seconds": cb.cfg.Timeout.Seconds(),
	}
}
