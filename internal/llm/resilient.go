package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/felixgeelhaar/fortify/retry"
)

// ResilientProvider wraps a completion provider with resilience patterns
// from fortify. Transient transport failures are retried with exponential
// backoff; authentication failures surface immediately.
type ResilientProvider struct {
	provider       Provider
	circuitBreaker circuitbreaker.CircuitBreaker[*Response]
	retrier        retry.Retry[*Response]
	bulkhead       bulkhead.Bulkhead[*Response]
	rateLimit      ratelimit.RateLimiter
	logger         *slog.Logger
	name           string
}

// ResilientConfig holds configuration for the resilient provider wrapper
type ResilientConfig struct {
	// EnableCircuitBreaker enables circuit breaker pattern
	EnableCircuitBreaker bool

	// EnableRetry enables retry with backoff
	EnableRetry bool

	// EnableBulkhead enables concurrency limiting
	EnableBulkhead bool

	// EnableRateLimit enables provider-level rate limiting
	EnableRateLimit bool

	// MaxAttempts for retry (default: 3)
	MaxAttempts int

	// MaxConcurrent for bulkhead (default: 5)
	MaxConcurrent int

	// RatePerSecond for rate limiting (default: 2)
	RatePerSecond int

	// Logger for resilience events
	Logger *slog.Logger
}

// DefaultResilientConfig returns sensible defaults for completion calls
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		EnableCircuitBreaker: true,
		EnableRetry:          true,
		EnableBulkhead:       true,
		EnableRateLimit:      true,
		MaxAttempts:          3,
		MaxConcurrent:        5,
		RatePerSecond:        2,
	}
}

// NewResilientProvider wraps a provider with resilience patterns using fortify
func NewResilientProvider(provider Provider, cfg ResilientConfig) *ResilientProvider {
	rp := &ResilientProvider{
		provider: provider,
		logger:   cfg.Logger,
		name:     provider.Name(),
	}

	if cfg.EnableCircuitBreaker {
		rp.circuitBreaker = circuitbreaker.New[*Response](circuitbreaker.Config{
			MaxRequests: 2,
			Interval:    10 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				if rp.logger != nil {
					rp.logger.Warn("circuit breaker state change",
						"provider", provider.Name(),
						"from", from.String(),
						"to", to.String())
				}
			},
		})
	}

	if cfg.EnableRetry {
		maxAttempts := cfg.MaxAttempts
		if maxAttempts <= 0 {
			maxAttempts = 3
		}
		rp.retrier = retry.New[*Response](retry.Config{
			MaxAttempts:   maxAttempts,
			InitialDelay:  time.Second,
			MaxDelay:      30 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   IsRetryable,
		})
	}

	if cfg.EnableBulkhead {
		maxConcurrent := cfg.MaxConcurrent
		if maxConcurrent <= 0 {
			maxConcurrent = 5
		}
		rp.bulkhead = bulkhead.New[*Response](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      maxConcurrent * 2,
			QueueTimeout:  30 * time.Second,
		})
	}

	if cfg.EnableRateLimit {
		rate := cfg.RatePerSecond
		if rate <= 0 {
			rate = 2
		}
		rp.rateLimit = ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    rate * 3,
			Interval: time.Second,
		})
	}

	return rp
}

func (p *ResilientProvider) Name() string {
	return p.provider.Name()
}

func (p *ResilientProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	if p.rateLimit != nil {
		if !p.rateLimit.Allow(ctx, p.name) {
			return nil, fmt.Errorf("rate limit exceeded for provider %s", p.name)
		}
	}

	operation := func(ctx context.Context) (*Response, error) {
		return p.provider.Complete(ctx, req)
	}

	if p.bulkhead != nil {
		operation = func(ctx context.Context) (*Response, error) {
			return p.bulkhead.Execute(ctx, func(ctx context.Context) (*Response, error) {
				return p.provider.Complete(ctx, req)
			})
		}
	}

	if p.circuitBreaker != nil && p.retrier != nil {
		return p.circuitBreaker.Execute(ctx, func(ctx context.Context) (*Response, error) {
			return p.retrier.Do(ctx, operation)
		})
	}

	if p.circuitBreaker != nil {
		return p.circuitBreaker.Execute(ctx, operation)
	}

	if p.retrier != nil {
		return p.retrier.Do(ctx, operation)
	}

	return operation(ctx)
}

// Close releases resources held by the resilient provider
func (p *ResilientProvider) Close() error {
	if p.rateLimit != nil {
		return p.rateLimit.Close()
	}
	return nil
}

// IsRetryable reports whether a completion error is worth retrying.
// Rate-limit and server-side statuses are; auth failures never are.
// Transport errors without a status (connection resets, timeouts) are
// retried as well.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEmptyResponse) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	return true
}
