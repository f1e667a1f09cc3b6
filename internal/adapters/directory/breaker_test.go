package directory

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefault/internal/platform/config"
)

func testBreaker(maxFailures, halfOpenLimit int) (*breaker, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	b := newBreaker(config.CircuitBreakerConfig{
		MaxFailures:   maxFailures,
		Timeout:       time.Minute,
		HalfOpenLimit: halfOpenLimit,
	})
	b.now = func() time.Time { return now }

	return b, &now
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := testBreaker(3, 1)

	for range 2 {
		require.True(t, b.allow())
		b.done(true)
	}

	assert.Equal(t, circuitClosed, b.current())

	require.True(t, b.allow())
	b.done(true)

	assert.Equal(t, circuitOpen, b.current())
	assert.False(t, b.allow())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := testBreaker(2, 1)

	b.allow()
	b.done(true)
	b.allow()
	b.done(false)
	b.allow()
	b.done(true)

	assert.Equal(t, circuitClosed, b.current())
}

func TestBreaker_HalfOpenProbes(t *testing.T) {
	b, now := testBreaker(1, 2)

	b.allow()
	b.done(true)
	require.Equal(t, circuitOpen, b.current())

	*now = now.Add(59 * time.Second)
	assert.False(t, b.allow(), "still cooling down")

	*now = now.Add(time.Second)
	require.True(t, b.allow())
	assert.Equal(t, circuitHalfOpen, b.current())

	require.True(t, b.allow(), "second probe fits the limit")
	assert.False(t, b.allow(), "third probe exceeds the limit")

	b.done(false)
	assert.Equal(t, circuitHalfOpen, b.current())

	b.done(false)
	assert.Equal(t, circuitClosed, b.current())
	assert.True(t, b.allow())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b, now := testBreaker(1, 1)

	b.allow()
	b.done(true)

	*now = now.Add(time.Minute)
	require.True(t, b.allow())

	b.done(true)
	assert.Equal(t, circuitOpen, b.current())
	assert.False(t, b.allow(), "cool-down restarts from the failed probe")
}

func TestBreaker_DefaultsInvalidLimits(t *testing.T) {
	b := newBreaker(config.CircuitBreakerConfig{})

	assert.Equal(t, config.DefaultDirectoryCircuitMaxFailures, b.cfg.MaxFailures)
	assert.Equal(t, config.DefaultDirectoryCircuitHalfOpenLimit, b.cfg.HalfOpenLimit)
}

func TestBreaker_ReportsTransitions(t *testing.T) {
	b, _ := testBreaker(1, 1)

	var (
		mu   sync.Mutex
		seen []string
	)

	b.onChange = func(from, to circuitState) {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, from.String()+"->"+to.String())
	}

	b.allow()
	b.done(true)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(seen) == 1 && seen[0] == "closed->open"
	}, time.Second, 5*time.Millisecond)
}

func TestBreaker_Concurrent(t *testing.T) {
	b := newBreaker(config.CircuitBreakerConfig{MaxFailures: 50, Timeout: time.Second, HalfOpenLimit: 5})

	var (
		wg      sync.WaitGroup
		allowed atomic.Int64
	)

	for i := range 500 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if b.allow() {
				allowed.Add(1)
				b.done(i%3 == 0)
			}
		}()
	}

	wg.Wait()

	assert.Positive(t, allowed.Load())
	assert.Contains(t, []circuitState{circuitClosed, circuitOpen, circuitHalfOpen}, b.current())
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", circuitClosed.String())
	assert.Equal(t, "open", circuitOpen.String())
	assert.Equal(t, "half-open", circuitHalfOpen.String())
	assert.Equal(t, "unknown", circuitState(9).String())
}
