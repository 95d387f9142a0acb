package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionHandler issues opaque browser session identifiers
type SessionHandler struct{}

// NewSessionHandler creates a new session handler
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// SessionResponse carries a freshly issued session identifier
type SessionResponse struct {
	SessionID string `json:"sessionId"`
}

// Issue hands out a new session identifier. The identifier is not a secret
// and grants access only to problem sessions created under it.
func (h *SessionHandler) Issue(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, SessionResponse{
		SessionID: uuid.New().String(),
	})
}
