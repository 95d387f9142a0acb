package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hintforge/hintforge/internal/domain"
	"github.com/hintforge/hintforge/internal/tutor"
	"github.com/hintforge/hintforge/internal/validate"
)

// TutorHandler handles problem analysis, hint, and solution review endpoints
type TutorHandler struct {
	tutor *tutor.Service
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(service *tutor.Service) *TutorHandler {
	return &TutorHandler{tutor: service}
}

// AnalyzeProblemRequest is the request body for submitting a problem
type AnalyzeProblemRequest struct {
	ProblemStatement string `json:"problemStatement"`
	SessionID        string `json:"sessionId"`
	UserID           string `json:"userId,omitempty"`
}

// AnalyzeProblemResponse is the stored analysis returned to the client
type AnalyzeProblemResponse struct {
	ProblemSessionID string              `json:"problemSessionId"`
	Patterns         []string            `json:"patterns"`
	Constraints      []domain.Constraint `json:"constraints"`
	Examples         []domain.Example    `json:"examples"`
	Difficulty       string              `json:"difficulty"`
	TimeComplexity   string              `json:"timeComplexity"`
	SpaceComplexity  string              `json:"spaceComplexity"`
}

// AnalyzeProblem analyzes a problem statement and opens a problem session
func (h *TutorHandler) AnalyzeProblem(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	if err := validate.SessionID(req.SessionID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	statement, err := validate.ProblemStatement(req.ProblemStatement)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.tutor.AnalyzeProblem(r.Context(), tutor.AnalyzeProblemRequest{
		ProblemStatement: statement,
		SessionID:        req.SessionID,
		UserID:           req.UserID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, AnalyzeProblemResponse{
		ProblemSessionID: result.ProblemSessionID.String(),
		Patterns:         result.Patterns,
		Constraints:      result.Constraints,
		Examples:         result.Examples,
		Difficulty:       string(result.Difficulty),
		TimeComplexity:   result.TimeComplexity,
		SpaceComplexity:  result.SpaceComplexity,
	})
}

// GetHintRequest is the request body for unlocking the next hint.
// CurrentHintLevel is the number of hints the client believes it has.
type GetHintRequest struct {
	ProblemSessionID string `json:"problemSessionId"`
	SessionID        string `json:"sessionId"`
	CurrentHintLevel int    `json:"currentHintLevel"`
}

// GetHintResponse is one issued hint
type GetHintResponse struct {
	HintLevel int    `json:"hintLevel"`
	Content   string `json:"content"`
	HasMore   bool   `json:"hasMore"`
}

// GetHint unlocks the next hint level for a problem session
func (h *TutorHandler) GetHint(w http.ResponseWriter, r *http.Request) {
	var req GetHintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	if err := validate.SessionID(req.SessionID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	problemSessionID, err := validate.ProblemSessionID(req.ProblemSessionID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := validate.HintLevel(req.CurrentHintLevel); err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.tutor.RequestNextHint(r.Context(), tutor.HintRequest{
		ProblemSessionID: problemSessionID,
		SessionID:        req.SessionID,
		ClaimedLevel:     req.CurrentHintLevel,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, GetHintResponse{
		HintLevel: result.Level,
		Content:   result.Content,
		HasMore:   result.HasMore,
	})
}

// GetHintsRequest is the request body for listing issued hints
type GetHintsRequest struct {
	ProblemSessionID string `json:"problemSessionId"`
	SessionID        string `json:"sessionId"`
}

// HintItem is one issued hint in a listing
type HintItem struct {
	Level     int       `json:"level"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetHintsResponse lists a session's issued hints, ascending by level
type GetHintsResponse struct {
	Hints []HintItem `json:"hints"`
}

// GetHints returns all hints issued so far for a problem session
func (h *TutorHandler) GetHints(w http.ResponseWriter, r *http.Request) {
	var req GetHintsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	if err := validate.SessionID(req.SessionID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	problemSessionID, err := validate.ProblemSessionID(req.ProblemSessionID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	hints, err := h.tutor.ListHints(r.Context(), tutor.ListHintsRequest{
		ProblemSessionID: problemSessionID,
		SessionID:        req.SessionID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := GetHintsResponse{Hints: make([]HintItem, 0, len(hints))}
	for _, hint := range hints {
		resp.Hints = append(resp.Hints, HintItem{
			Level:     hint.Level,
			Content:   hint.Content,
			CreatedAt: hint.CreatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, resp)
}

// AnalyzeSolutionRequest is the request body for submitting a solution
type AnalyzeSolutionRequest struct {
	ProblemSessionID string `json:"problemSessionId"`
	SessionID        string `json:"sessionId"`
	Code             string `json:"code"`
	Language         string `json:"language"`
}

// AnalyzeSolutionResponse is the AI review of a submitted solution
type AnalyzeSolutionResponse struct {
	Explanation     string         `json:"explanation"`
	TimeComplexity  string         `json:"timeComplexity"`
	SpaceComplexity string         `json:"spaceComplexity"`
	Issues          []domain.Issue `json:"issues"`
	Suggestions     []string       `json:"suggestions"`
	Correctness     string         `json:"correctness"`
}

// AnalyzeSolution reviews a submitted solution and records the attempt
func (h *TutorHandler) AnalyzeSolution(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	if err := validate.SessionID(req.SessionID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	problemSessionID, err := validate.ProblemSessionID(req.ProblemSessionID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	code, err := validate.Code(req.Code)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	language, err := validate.Language(req.Language)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.tutor.AnalyzeSolution(r.Context(), tutor.SolutionRequest{
		ProblemSessionID: problemSessionID,
		SessionID:        req.SessionID,
		Code:             code,
		Language:         language,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, AnalyzeSolutionResponse{
		Explanation:     result.Explanation,
		TimeComplexity:  result.TimeComplexity,
		SpaceComplexity: result.SpaceComplexity,
		Issues:          result.Issues,
		Suggestions:     result.Suggestions,
		Correctness:     string(result.Correctness),
	})
}

// HistoryRequest is the request body for listing past problem sessions
type HistoryRequest struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId,omitempty"`
}

// HistoryEntry summarizes one past problem session
type HistoryEntry struct {
	ID                 string    `json:"id"`
	ProblemStatement   string    `json:"problemStatement"`
	Patterns           []string  `json:"patterns"`
	Difficulty         string    `json:"difficulty"`
	CurrentHintLevel   int       `json:"currentHintLevel"`
	AttemptCount       int       `json:"attemptCount"`
	LastAttemptCorrect *bool     `json:"lastAttemptCorrect"`
	CreatedAt          time.Time `json:"createdAt"`
}

// HistoryResponse lists past problem sessions, newest first
type HistoryResponse struct {
	Sessions []HistoryEntry `json:"sessions"`
}

// History lists the caller's problem sessions, newest first
func (h *TutorHandler) History(w http.ResponseWriter, r *http.Request) {
	var req HistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, r, "invalid request body")
		return
	}

	if req.SessionID == "" && req.UserID == "" {
		BadRequest(w, r, "sessionId or userId is required")
		return
	}
	if req.SessionID != "" {
		if err := validate.SessionID(req.SessionID); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	entries, err := h.tutor.History(r.Context(), req.SessionID, req.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := HistoryResponse{Sessions: make([]HistoryEntry, 0, len(entries))}
	for _, entry := range entries {
		resp.Sessions = append(resp.Sessions, HistoryEntry{
			ID:                 entry.ID.String(),
			ProblemStatement:   entry.ProblemStatement,
			Patterns:           entry.Patterns,
			Difficulty:         string(entry.Difficulty),
			CurrentHintLevel:   entry.CurrentHintLevel,
			AttemptCount:       entry.AttemptCount,
			LastAttemptCorrect: entry.LastAttemptCorrect,
			CreatedAt:          entry.CreatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, resp)
}
