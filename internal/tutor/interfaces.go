package tutor

import (
	"context"

	"github.com/google/uuid"

	"github.com/hintforge/hintforge/internal/domain"
	"github.com/hintforge/hintforge/internal/llm"
)

// Gateway executes one chat completion. Satisfied by llm providers,
// including the resilient wrapper.
type Gateway interface {
	Complete(ctx context.Context, req *llm.Request) (*llm.Response, error)
}

// SessionStore persists problem sessions.
type SessionStore interface {
	// CreateProblemSession inserts a new session record.
	CreateProblemSession(ctx context.Context, session *domain.ProblemSession) error

	// GetProblemSession returns a session by ID, or domain.ErrSessionNotFound.
	GetProblemSession(ctx context.Context, id uuid.UUID) (*domain.ProblemSession, error)

	// SetHintLevel advances the session's denormalized hint level.
	SetHintLevel(ctx context.Context, id uuid.UUID, level int) error

	// ListProblemSessions returns sessions for an owner, newest first,
	// capped at limit. UserID takes precedence over SessionID.
	ListProblemSessions(ctx context.Context, sessionID, userID string, limit int) ([]*domain.ProblemSession, error)
}

// HintStore persists issued hints. Implementations must enforce hint-level
// uniqueness per session and surface violations as domain.ErrDuplicateHint;
// that constraint is the concurrency safety net for hint progression.
type HintStore interface {
	// CreateHint inserts a hint record.
	CreateHint(ctx context.Context, hint *domain.Hint) error

	// CountHints returns the number of hints issued for a session. This
	// count, not any cached field, is the authority on progression.
	CountHints(ctx context.Context, problemSessionID uuid.UUID) (int, error)

	// ListHints returns a session's hints ordered ascending by level.
	ListHints(ctx context.Context, problemSessionID uuid.UUID) ([]*domain.Hint, error)
}

// AttemptStore persists solution attempts.
type AttemptStore interface {
	// CreateAttempt inserts an attempt record.
	CreateAttempt(ctx context.Context, attempt *domain.SolutionAttempt) error

	// ListAttempts returns a session's attempts, newest first.
	ListAttempts(ctx context.Context, problemSessionID uuid.UUID) ([]*domain.SolutionAttempt, error)
}

// AttemptRecorder receives solution-attempt outcomes for pattern statistics.
// The in-process implementation is the stats aggregator; deployments with a
// message broker plug in the queue producer instead.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, sessionID, userID string, patterns []string, correct bool) error
}
