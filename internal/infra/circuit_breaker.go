package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker guards a flaky downstream (here the SMTP relay). After
// maxFailures consecutive failures it rejects calls outright until
// resetTimeout has passed, then lets a single probe through.
type CircuitBreaker struct {
	mu           sync.Mutex
	name         string
	state        CircuitState
	failures     int
	maxFailures  int
	resetTimeout time.Duration
	openedAt     time.Time
}

func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		state:        CircuitClosed,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == CircuitOpen {
		if time.Since(cb.openedAt) < cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
		log.Warn().Str("breaker", cb.name).Msg("circuit breaker half-open, probing")
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = CircuitOpen
			cb.openedAt = time.Now()
			log.Error().Str("breaker", cb.name).Int("failures", cb.failures).Msg("circuit breaker opened")
		}
		return err
	}

	if cb.state != CircuitClosed {
		log.Info().Str("breaker", cb.name).Msg("circuit breaker closed")
	}
	cb.state = CircuitClosed
	cb.failures = 0
	return nil
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
