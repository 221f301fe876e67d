package cache

import (
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/metrics"
	"github.com/sony/gobreaker"
)

// BreakerOptions tunes the circuit breaker around the cache store.
type BreakerOptions struct {
	Name string
	// Failures is the number of consecutive store errors that opens the breaker.
	Failures uint32
	// Timeout is how long the breaker stays open before a half-open probe.
	Timeout time.Duration
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
}

func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		Name:        "content-cache",
		Failures:    5,
		Timeout:     30 * time.Second,
		MaxRequests: 1,
	}
}

func newBreaker(opts BreakerOptions, log logger.Logger) *gobreaker.CircuitBreaker {
	if opts.Failures == 0 {
		opts.Failures = 1
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MaxRequests,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CacheBreakerState.Set(breakerGauge(to))
			log.Warn("cache breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
}

func breakerGauge(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
