// Package api exposes the tutoring service over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hintforge/hintforge/internal/api/handlers"
	"github.com/hintforge/hintforge/internal/api/middleware"
)

// Router wraps the HTTP multiplexer with middleware and handlers
type Router struct {
	mux     *http.ServeMux
	app     *App
	session *handlers.SessionHandler
	tutor   *handlers.TutorHandler
	stats   *handlers.StatsHandler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(app *App) http.Handler {
	r := &Router{
		mux: http.NewServeMux(),
		app: app,
	}

	// Initialize handlers
	r.session = handlers.NewSessionHandler()
	r.tutor = handlers.NewTutorHandler(app.Tutor)
	r.stats = handlers.NewStatsHandler(app.Stats)

	// Register routes
	r.registerRoutes()

	// Build middleware chain
	return r.buildMiddlewareChain(r.mux, app)
}

func (r *Router) registerRoutes() {
	// Health check
	r.mux.HandleFunc("GET /health", r.handleHealth)
	r.mux.HandleFunc("GET /ready", r.handleReady)

	// Session issuance (no prior identity required)
	r.mux.HandleFunc("GET /api/v1/session", r.session.Issue)

	// Tutoring flow
	r.mux.HandleFunc("POST /api/v1/analyze-problem", r.tutor.AnalyzeProblem)
	r.mux.HandleFunc("POST /api/v1/get-hint", r.tutor.GetHint)
	r.mux.HandleFunc("POST /api/v1/get-hints", r.tutor.GetHints)
	r.mux.HandleFunc("POST /api/v1/analyze-solution", r.tutor.AnalyzeSolution)
	r.mux.HandleFunc("POST /api/v1/history", r.tutor.History)

	// Pattern statistics
	r.mux.HandleFunc("GET /api/v1/patterns/stats", r.stats.Overview)
}

func (r *Router) buildMiddlewareChain(handler http.Handler, app *App) http.Handler {
	// Apply middleware in reverse order (last applied = first executed)
	handler = middleware.Recovery(handler)
	handler = middleware.Logger(handler)

	// Apply rate limiting (skip in debug mode for easier development)
	if !app.Config.Debug {
		handler = middleware.RateLimit(app.Limiter, middleware.RateLimitConfig{
			MaxRequests: app.Config.RateLimitMaxRequests,
			Window:      app.Config.RateLimitWindow,
		})(handler)
	}

	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)

	return handler
}

// Health check handlers
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	r.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) handleReady(w http.ResponseWriter, req *http.Request) {
	// Check database connectivity
	if err := r.app.Ready(req.Context()); err != nil {
		slog.Error("database health check failed",
			"error", err,
			"request_id", middleware.GetRequestID(req.Context()),
		)
		r.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"checks": map[string]string{
				"database": "unhealthy",
			},
		})
		return
	}

	r.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]string{
			"database": "healthy",
		},
		"provider":  r.app.LLM.DefaultName(),
		"providers": r.app.LLM.List(),
	})
}

// Helper for JSON responses
func (r *Router) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
