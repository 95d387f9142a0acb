package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hintforge/hintforge/internal/domain"
	"github.com/hintforge/hintforge/internal/llm"
)

// APIError represents a structured API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// NewAPIError creates a new API error
func NewAPIError(code string, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// WithDetails adds details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

// ErrorResponse is the JSON structure for error responses
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, apiErr *APIError) {
	logger := slog.Default()
	logAttrs := []any{
		"code", apiErr.Code,
		"message", apiErr.Message,
		"status", statusCode,
		"method", r.Method,
		"path", r.URL.Path,
	}

	if apiErr.cause != nil {
		logAttrs = append(logAttrs, "cause", apiErr.cause.Error())
	}

	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		logAttrs = append(logAttrs, "request_id", requestID)
	}

	if statusCode >= 500 {
		logger.Error("api error", logAttrs...)
	} else if statusCode >= 400 {
		logger.Warn("api error", logAttrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: apiErr})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Helper functions for common responses
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, NewAPIError("BAD_REQUEST", message))
}

func NotFound(w http.ResponseWriter, r *http.Request, resource string) {
	WriteError(w, r, http.StatusNotFound, NewAPIError("NOT_FOUND", resource+" not found"))
}

func Forbidden(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusForbidden, NewAPIError("FORBIDDEN", message))
}

func InternalError(w http.ResponseWriter, r *http.Request, message string, cause error) {
	WriteError(w, r, http.StatusInternalServerError, NewAPIError("INTERNAL_ERROR", message).WithCause(cause))
}

// writeDomainError maps tutoring errors to their HTTP representation. Unknown
// errors become a 500 without leaking internals; a malformed AI payload is
// deliberately reported as a generic analysis failure.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	var mismatchErr *domain.LevelMismatchError

	switch {
	case errors.As(err, &validationErr):
		WriteError(w, r, http.StatusBadRequest,
			NewAPIError("VALIDATION_ERROR", validationErr.Error()).
				WithDetails(validationErr.Fields))

	case errors.As(err, &mismatchErr):
		WriteError(w, r, http.StatusBadRequest,
			NewAPIError("LEVEL_MISMATCH", mismatchErr.Error()).
				WithDetails(map[string]int{"currentLevel": mismatchErr.CurrentLevel}))

	case errors.Is(err, domain.ErrInvalidLevel):
		BadRequest(w, r, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		Forbidden(w, r, "session does not own this resource")

	case errors.Is(err, domain.ErrSessionNotFound):
		NotFound(w, r, "problem session")

	case errors.Is(err, llm.ErrMalformedPayload):
		InternalError(w, r, "analysis failed", err)

	default:
		InternalError(w, r, "internal server error", err)
	}
}
