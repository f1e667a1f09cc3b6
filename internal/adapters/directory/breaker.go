package directory

import (
	"sync"
	"time"

	"github.com/jsamuelsen/quotefault/internal/platform/config"
)

// circuitState is the position of the breaker guarding the directory.
type circuitState int

const (
	// circuitClosed lets every call through.
	circuitClosed circuitState = iota

	// circuitOpen rejects calls until the cool-down has elapsed.
	circuitOpen

	// circuitHalfOpen lets a bounded number of probes through.
	circuitHalfOpen
)

func (s circuitState) String() string {
	switch s {
	case circuitClosed:
		return "closed"
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breaker stops calling the directory after repeated transport failures.
//
//   - closed    -> open       after MaxFailures consecutive failures
//   - open      -> half-open  once Timeout has passed since the last failure
//   - half-open -> closed     after HalfOpenLimit consecutive successful probes
//   - half-open -> open       on any failed probe
type breaker struct {
	mu       sync.Mutex
	cfg      config.CircuitBreakerConfig
	state    circuitState
	failures int
	probes   int
	passed   int
	openedAt time.Time

	now      func() time.Time
	onChange func(from, to circuitState)
}

func newBreaker(cfg config.CircuitBreakerConfig) *breaker {
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = config.DefaultDirectoryCircuitMaxFailures
	}

	if cfg.HalfOpenLimit < 1 {
		cfg.HalfOpenLimit = config.DefaultDirectoryCircuitHalfOpenLimit
	}

	return &breaker{cfg: cfg, now: time.Now}
}

// allow reports whether a call may proceed. Every true result must be
// followed by exactly one call to done.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case circuitClosed:
		return true
	case circuitOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Timeout {
			return false
		}

		b.moveTo(circuitHalfOpen)
		b.probes = 1

		return true
	case circuitHalfOpen:
		if b.probes >= b.cfg.HalfOpenLimit {
			return false
		}

		b.probes++

		return true
	default:
		return false
	}
}

// done records the outcome of an allowed call. Only transport failures
// should be reported as failed; a missing entry is a healthy answer.
func (b *breaker) done(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == circuitHalfOpen {
		b.probes--
	}

	if failed {
		b.openedAt = b.now()

		switch b.state {
		case circuitClosed:
			b.failures++
			if b.failures >= b.cfg.MaxFailures {
				b.moveTo(circuitOpen)
			}
		case circuitHalfOpen:
			b.moveTo(circuitOpen)
		}

		return
	}

	switch b.state {
	case circuitClosed:
		b.failures = 0
	case circuitHalfOpen:
		b.passed++
		if b.passed >= b.cfg.HalfOpenLimit {
			b.moveTo(circuitClosed)
		}
	}
}

func (b *breaker) current() circuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// moveTo must be called with mu held.
func (b *breaker) moveTo(next circuitState) {
	if b.state == next {
		return
	}

	prev := b.state
	b.state = next
	b.failures = 0
	b.passed = 0

	if next != circuitHalfOpen {
		b.probes = 0
	}

	if b.onChange != nil {
		go b.onChange(prev, next)
	}
}
