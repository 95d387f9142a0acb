package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hintforge/hintforge/internal/domain"
)

// AttemptStore implements solution-attempt persistence backed by SQLite.
type AttemptStore struct {
	db *DB
}

// NewAttemptStore creates a new SQLite-backed attempt store.
func NewAttemptStore(db *DB) *AttemptStore {
	return &AttemptStore{db: db}
}

// CreateAttempt inserts an attempt record.
func (s *AttemptStore) CreateAttempt(ctx context.Context, attempt *domain.SolutionAttempt) error {
	feedback, err := json.Marshal(attempt.Feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO solution_attempts (id, problem_session_id, code, language,
			time_complexity, space_complexity, correctness, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID.String(), attempt.ProblemSessionID.String(), attempt.Code,
		string(attempt.Language), attempt.TimeComplexity, attempt.SpaceComplexity,
		string(attempt.Correctness), string(feedback), attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert solution attempt: %w", err)
	}
	return nil
}

// ListAttempts returns a session's attempts, newest first.
func (s *AttemptStore) ListAttempts(ctx context.Context, problemSessionID uuid.UUID) ([]*domain.SolutionAttempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, problem_session_id, code, language,
			time_complexity, space_complexity, correctness, feedback, created_at
		FROM solution_attempts WHERE problem_session_id = ?
		ORDER BY created_at DESC`,
		problemSessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list solution attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*domain.SolutionAttempt
	for rows.Next() {
		var attempt domain.SolutionAttempt
		var id, sessionID, language, correctness, feedbackJSON string
		if err := rows.Scan(
			&id, &sessionID, &attempt.Code, &language,
			&attempt.TimeComplexity, &attempt.SpaceComplexity,
			&correctness, &feedbackJSON, &attempt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan solution attempt: %w", err)
		}

		if attempt.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse attempt id: %w", err)
		}
		if attempt.ProblemSessionID, err = uuid.Parse(sessionID); err != nil {
			return nil, fmt.Errorf("parse attempt session id: %w", err)
		}
		attempt.Language = domain.Language(language)
		attempt.Correctness = domain.Correctness(correctness)
		if err := json.Unmarshal([]byte(feedbackJSON), &attempt.Feedback); err != nil {
			return nil, fmt.Errorf("unmarshal feedback: %w", err)
		}

		attempts = append(attempts, &attempt)
	}
	return attempts, rows.Err()
}
