package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hintforge/hintforge/internal/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	limiter := ratelimit.NewInMemory()
	handler := RateLimit(limiter, RateLimitConfig{MaxRequests: 3, Window: time.Minute})(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		req.Header.Set("X-Session-ID", "session-a")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	limiter := ratelimit.NewInMemory()
	handler := RateLimit(limiter, RateLimitConfig{MaxRequests: 2, Window: time.Minute})(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-ID", "session-b")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-ID", "session-b")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				ResetIn int `json:"resetIn"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Error.Code != "RATE_LIMITED" {
		t.Errorf("error code = %q, want RATE_LIMITED", body.Error.Code)
	}
	if body.Error.Details.ResetIn < 1 {
		t.Errorf("resetIn = %d, want >= 1", body.Error.Details.ResetIn)
	}
}

func TestRateLimit_KeysBySessionIdentifier(t *testing.T) {
	limiter := ratelimit.NewInMemory()
	handler := RateLimit(limiter, RateLimitConfig{MaxRequests: 1, Window: time.Minute})(okHandler())

	// Two sessions behind the same IP get independent budgets.
	for _, session := range []string{"session-c", "session-d"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Session-ID", session)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("session %s: status = %d, want 200", session, rec.Code)
		}
	}
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	limiter := ratelimit.NewInMemory()
	handler := RateLimit(limiter, RateLimitConfig{MaxRequests: 1, Window: time.Minute})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request from same address: status = %d, want 429", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for single",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			remoteAddr: "10.0.0.1:1234",
			want:       "203.0.113.5",
		},
		{
			name:       "x-forwarded-for chain takes first",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.9"},
			remoteAddr: "10.0.0.1:1234",
			want:       "203.0.113.5",
		},
		{
			name:       "x-real-ip",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			remoteAddr: "10.0.0.1:1234",
			want:       "203.0.113.7",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
