package document

import (
	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker guards calls to a remote extractor. A nil *CircuitBreaker
// runs every call directly.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// NewCircuitBreaker returns nil when the breaker is disabled in cfg.
// isSuccessful decides which errors count against the breaker; nil counts
// every error.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig, isSuccessful func(error) bool, logger *errors.Logger) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:         name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}

	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker[string](settings)}
}

// Execute runs fn under the breaker.
func (b *CircuitBreaker) Execute(fn func() (string, error)) (string, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats reports the breaker state for health endpoints.
func (b *CircuitBreaker) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	counts := b.cb.Counts()
	return map[string]any{
		"enabled":               true,
		"name":                  b.cb.Name(),
		"state":                 b.cb.State().String(),
		"requests":              counts.Requests,
		"total_failures":        counts.TotalFailures,
		"consecutive_failures":  counts.ConsecutiveFailures,
		"consecutive_successes": counts.ConsecutiveSuccesses,
	}
}

// IsHealthy reports whether calls are currently let through.
func (b *CircuitBreaker) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() != gobreaker.StateOpen
}
