package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards calls to Redis so that an outage costs one timeout per OpenTimeout
// instead of one per request. Callers treat ErrCircuitOpen like any other Redis
// failure and use their in-memory fallback.
//
//   Closed ──(FailureThreshold consecutive errors)──▶ Open
//   Open   ──(OpenTimeout elapsed)──────────────────▶ HalfOpen (one probe)
//   HalfOpen: probe ok ▶ Closed, probe fails ▶ Open

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int
	OpenTimeout      time.Duration
}

// DefaultRedisCBConfig trips after 3 consecutive Redis errors and probes every 30s.
func DefaultRedisCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{Name: "redis", FailureThreshold: 3, OpenTimeout: 30 * time.Second}
}

type CircuitBreaker struct {
	mu          sync.Mutex
	name        string
	state       CBState
	failures    int
	openedAt    time.Time
	probing     bool
	threshold   int
	openTimeout time.Duration
	now         func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:        cfg.Name,
		threshold:   cfg.FailureThreshold,
		openTimeout: cfg.OpenTimeout,
		now:         time.Now,
	}
}

// State reports the current state. A nil breaker is always closed.
func (cb *CircuitBreaker) State() CBState {
	if cb == nil {
		return CBClosed
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.advance()
	return cb.state
}

// Execute runs fn unless the breaker is open or a half-open probe is already
// in flight. A nil breaker runs fn unguarded.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb == nil {
		return fn()
	}

	cb.mu.Lock()
	cb.advance()
	if cb.state == CBOpen || (cb.state == CBHalfOpen && cb.probing) {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	if cb.state == CBHalfOpen {
		cb.probing = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false
	if err != nil {
		cb.failures++
		if cb.state == CBHalfOpen || cb.failures >= cb.threshold {
			cb.trip(err)
		}
		return err
	}
	if cb.state != CBClosed {
		log.Info().Str("breaker", cb.name).Msg("circuit closed")
	}
	cb.state = CBClosed
	cb.failures = 0
	return nil
}

// advance moves Open to HalfOpen once the timeout has elapsed (must hold mu).
func (cb *CircuitBreaker) advance() {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.openTimeout {
		cb.state = CBHalfOpen
	}
}

// trip opens the breaker (must hold mu).
func (cb *CircuitBreaker) trip(cause error) {
	if cb.state != CBOpen {
		log.Warn().Err(cause).Str("breaker", cb.name).Dur("open_for", cb.openTimeout).Msg("circuit opened")
	}
	cb.state = CBOpen
	cb.openedAt = cb.now()
	cb.failures = 0
}
