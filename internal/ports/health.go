package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when attempting to register a health checker
// with a name that is already registered.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components that can report their health.
// The database and the member directory register themselves at startup.
type HealthChecker interface {
	// Name identifies the component in readiness responses.
	Name() string

	// Check returns nil when the component is healthy.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates health checks from multiple components.
type HealthRegistry interface {
	// Register adds a checker whose failure makes the service unhealthy.
	Register(checker HealthChecker) error

	// RegisterOptional adds a checker whose failure only degrades the service.
	// Quote reads keep working while the directory is down, so it is optional.
	RegisterOptional(checker HealthChecker) error

	// CheckAll runs every registered check concurrently.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult contains the aggregated health check results.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Optional bool          `json:"optional,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

type registeredChecker struct {
	HealthChecker
	optional bool
}

// DefaultHealthRegistry is a thread-safe implementation of HealthRegistry.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []registeredChecker
}

// NewHealthRegistry creates a new health registry.
func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{
		checkers: make([]registeredChecker, 0),
	}
}

// Register adds a required checker.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	return r.add(checker, false)
}

// RegisterOptional adds a checker that can only degrade the overall status.
func (r *DefaultHealthRegistry) RegisterOptional(checker HealthChecker) error {
	return r.add(checker, true)
}

func (r *DefaultHealthRegistry) add(checker HealthChecker, optional bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	for _, c := range r.checkers {
		if c.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checkers = append(r.checkers, registeredChecker{HealthChecker: checker, optional: optional})

	return nil
}

// CheckAll runs all registered health checks concurrently.
// Any failing required check makes the result unhealthy; failing optional
// checks alone make it degraded.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := make([]registeredChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, checker := range checkers {
		wg.Go(func() {
			start := time.Now()
			err := checker.Check(ctx)

			res := &CheckResult{
				Status:   HealthStatusHealthy,
				Optional: checker.optional,
				Duration: time.Since(start),
			}

			if err != nil {
				res.Status = HealthStatusUnhealthy
				res.Message = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()

			result.Checks[checker.Name()] = res

			switch {
			case err == nil:
			case !checker.optional:
				result.Status = HealthStatusUnhealthy
			case result.Status == HealthStatusHealthy:
				result.Status = HealthStatusDegraded
			}
		})
	}

	wg.Wait()

	return result
}
