package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hintforge/hintforge/internal/domain"
)

// SessionStore implements problem-session persistence using PostgreSQL.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new PostgreSQL problem-session store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// CreateProblemSession inserts a new problem session.
func (s *SessionStore) CreateProblemSession(ctx context.Context, session *domain.ProblemSession) error {
	patterns, err := json.Marshal(session.Patterns)
	if err != nil {
		return fmt.Errorf("marshal patterns: %w", err)
	}
	constraints, err := json.Marshal(session.Constraints)
	if err != nil {
		return fmt.Errorf("marshal constraints: %w", err)
	}
	examples, err := json.Marshal(session.Examples)
	if err != nil {
		return fmt.Errorf("marshal examples: %w", err)
	}

	query := `
		INSERT INTO problem_sessions (id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.Pool.Exec(ctx, query,
		session.ID, session.SessionID, session.UserID, session.ProblemStatement,
		patterns, constraints, examples,
		string(session.Difficulty), session.CurrentHintLevel,
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert problem session: %w", err)
	}
	return nil
}

// GetProblemSession retrieves a problem session by ID.
func (s *SessionStore) GetProblemSession(ctx context.Context, id uuid.UUID) (*domain.ProblemSession, error) {
	query := `
		SELECT id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at
		FROM problem_sessions WHERE id = $1
	`
	session, err := scanProblemSession(s.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	return session, err
}

// SetHintLevel updates the session's denormalized hint level.
func (s *SessionStore) SetHintLevel(ctx context.Context, id uuid.UUID, level int) error {
	query := `
		UPDATE problem_sessions SET current_hint_level = $1, updated_at = $2
		WHERE id = $3
	`
	tag, err := s.db.Pool.Exec(ctx, query, level, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update hint level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// ListProblemSessions returns an owner's sessions, newest first.
func (s *SessionStore) ListProblemSessions(ctx context.Context, sessionID, userID string, limit int) ([]*domain.ProblemSession, error) {
	query := `
		SELECT id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at
		FROM problem_sessions WHERE session_id = $1
		ORDER BY created_at DESC LIMIT $2
	`
	key := sessionID
	if userID != "" {
		query = `
		SELECT id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at
		FROM problem_sessions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`
		key = userID
	}

	rows, err := s.db.Pool.Query(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list problem sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.ProblemSession
	for rows.Next() {
		session, err := scanProblemSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// scanProblemSession scans one session row.
func scanProblemSession(row pgx.Row) (*domain.ProblemSession, error) {
	var session domain.ProblemSession
	var difficulty string
	var patternsJSON, constraintsJSON, examplesJSON []byte

	err := row.Scan(
		&session.ID, &session.SessionID, &session.UserID, &session.ProblemStatement,
		&patternsJSON, &constraintsJSON, &examplesJSON, &difficulty,
		&session.CurrentHintLevel, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan problem session: %w", err)
	}

	session.Difficulty = domain.Difficulty(difficulty)
	if err := json.Unmarshal(patternsJSON, &session.Patterns); err != nil {
		return nil, fmt.Errorf("unmarshal patterns: %w", err)
	}
	if err := json.Unmarshal(constraintsJSON, &session.Constraints); err != nil {
		return nil, fmt.Errorf("unmarshal constraints: %w", err)
	}
	if err := json.Unmarshal(examplesJSON, &session.Examples); err != nil {
		return nil, fmt.Errorf("unmarshal examples: %w", err)
	}

	return &session, nil
}
