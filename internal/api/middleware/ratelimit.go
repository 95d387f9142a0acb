package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hintforge/hintforge/internal/ratelimit"
)

// RateLimitConfig configures the rate limiting middleware
type RateLimitConfig struct {
	// MaxRequests allowed per key within a window
	MaxRequests int
	// Window is the fixed counting window
	Window time.Duration
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 20,
		Window:      time.Minute,
	}
}

// RateLimit creates rate limiting middleware over a fixed-window limiter.
// Requests are counted per session identifier (X-Session-ID header) so a
// shared NAT does not starve unrelated learners; requests without one fall
// back to the client IP.
func RateLimit(limiter *ratelimit.Limiter, config RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Session-ID")
			if key == "" {
				key = getClientIP(r)
			}

			result := limiter.Check(key, config.MaxRequests, config.Window)

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				resetSecs := int(result.ResetIn.Round(time.Second).Seconds())
				if resetSecs < 1 {
					resetSecs = 1
				}

				slog.Warn("rate limit exceeded",
					"key", key,
					"path", r.URL.Path,
					"reset_in", result.ResetIn.String(),
					"request_id", GetRequestID(r.Context()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(resetSecs))
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"error":{"code":"RATE_LIMITED","message":"too many requests, please try again later","details":{"resetIn":%d}}}`, resetSecs)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}
