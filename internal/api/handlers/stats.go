package handlers

import (
	"net/http"

	"github.com/hintforge/hintforge/internal/stats"
	"github.com/hintforge/hintforge/internal/validate"
)

// StatsHandler serves pattern statistics
type StatsHandler struct {
	stats *stats.Aggregator
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(aggregator *stats.Aggregator) *StatsHandler {
	return &StatsHandler{stats: aggregator}
}

// Overview returns per-pattern attempt/success aggregates for an owner.
// The owner is identified by ?sessionId= or ?userId=; userId wins when both
// are present.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	userID := r.URL.Query().Get("userId")

	if sessionID == "" && userID == "" {
		BadRequest(w, r, "sessionId or userId query parameter is required")
		return
	}
	if sessionID != "" {
		if err := validate.SessionID(sessionID); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	owner := stats.Owner{SessionID: sessionID, UserID: userID}
	overview, err := h.stats.GetOverview(r.Context(), owner)
	if err != nil {
		InternalError(w, r, "failed to load pattern stats", err)
		return
	}

	WriteJSON(w, http.StatusOK, overview)
}
