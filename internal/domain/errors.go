package domain

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by stores and
// services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Problem session errors
var (
	ErrSessionNotFound = errors.New("problem session not found")
	ErrUnauthorized    = errors.New("session does not own this resource")
)

// Hint progression errors
var (
	ErrInvalidLevel  = errors.New("hint level must be between 1 and 5")
	ErrDuplicateHint = errors.New("hint already exists at this level")
)

// LevelMismatchError reports that the client's claimed hint level diverged
// from the persisted hint count. The caller should resynchronize against
// CurrentLevel and retry.
type LevelMismatchError struct {
	CurrentLevel int
}

func (e *LevelMismatchError) Error() string {
	return fmt.Sprintf("hint level mismatch: %d hints already issued", e.CurrentLevel)
}

// FieldError describes a validation failure on a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return e.Fields[0].Message
}

// NewValidationError creates a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
