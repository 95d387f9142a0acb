package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hintforge/hintforge/internal/domain"
)

// SessionStore implements problem-session persistence backed by SQLite.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SQLite-backed problem-session store.
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO problem_sessions (id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID.String(), session.SessionID, session.UserID, session.ProblemStatement,
		string(patterns), string(constraints), string(examples),
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
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at
		FROM problem_sessions WHERE id = ?`, id.String())
	return scanProblemSession(row)
}

// SetHintLevel updates the session's denormalized hint level.
func (s *SessionStore) SetHintLevel(ctx context.Context, id uuid.UUID, level int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE problem_sessions SET current_hint_level = ?, updated_at = ?
		WHERE id = ?`,
		level, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("update hint level: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// ListProblemSessions returns an owner's sessions, newest first. A non-empty
// userID selects by user, otherwise the browser session ID is used.
func (s *SessionStore) ListProblemSessions(ctx context.Context, sessionID, userID string, limit int) ([]*domain.ProblemSession, error) {
	query := `
		SELECT id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at
		FROM problem_sessions WHERE session_id = ?
		ORDER BY created_at DESC LIMIT ?`
	key := sessionID
	if userID != "" {
		query = `
		SELECT id, session_id, user_id, problem_statement,
			patterns, constraints, examples, difficulty, current_hint_level,
			created_at, updated_at
		FROM problem_sessions WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`
		key = userID
	}

	rows, err := s.db.QueryContext(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list problem sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.ProblemSession
	for rows.Next() {
		session, err := scanProblemSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// scanProblemSession scans a single session from a *sql.Row.
func scanProblemSession(row *sql.Row) (*domain.ProblemSession, error) {
	var session domain.ProblemSession
	var id, difficulty string
	var patternsJSON, constraintsJSON, examplesJSON string

	err := row.Scan(
		&id, &session.SessionID, &session.UserID, &session.ProblemStatement,
		&patternsJSON, &constraintsJSON, &examplesJSON, &difficulty,
		&session.CurrentHintLevel, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan problem session: %w", err)
	}

	return hydrateProblemSession(&session, id, difficulty, patternsJSON, constraintsJSON, examplesJSON)
}

// scanProblemSessionRow scans a session from *sql.Rows (for list queries).
func scanProblemSessionRow(rows *sql.Rows) (*domain.ProblemSession, error) {
	var session domain.ProblemSession
	var id, difficulty string
	var patternsJSON, constraintsJSON, examplesJSON string

	err := rows.Scan(
		&id, &session.SessionID, &session.UserID, &session.ProblemStatement,
		&patternsJSON, &constraintsJSON, &examplesJSON, &difficulty,
		&session.CurrentHintLevel, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan problem session row: %w", err)
	}

	return hydrateProblemSession(&session, id, difficulty, patternsJSON, constraintsJSON, examplesJSON)
}

// hydrateProblemSession parses the ID and JSON columns into the domain type.
func hydrateProblemSession(session *domain.ProblemSession, id, difficulty, patternsJSON, constraintsJSON, examplesJSON string) (*domain.ProblemSession, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	session.ID = parsed
	session.Difficulty = domain.Difficulty(difficulty)

	if err := json.Unmarshal([]byte(patternsJSON), &session.Patterns); err != nil {
		return nil, fmt.Errorf("unmarshal patterns: %w", err)
	}
	if err := json.Unmarshal([]byte(constraintsJSON), &session.Constraints); err != nil {
		return nil, fmt.Errorf("unmarshal constraints: %w", err)
	}
	if err := json.Unmarshal([]byte(examplesJSON), &session.Examples); err != nil {
		return nil, fmt.Errorf("unmarshal examples: %w", err)
	}

	return session, nil
}
