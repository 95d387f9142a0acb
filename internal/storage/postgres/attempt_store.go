package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hintforge/hintforge/internal/domain"
)

// AttemptStore implements solution-attempt persistence using PostgreSQL.
type AttemptStore struct {
	db *DB
}

// NewAttemptStore creates a new PostgreSQL attempt store.
func NewAttemptStore(db *DB) *AttemptStore {
	return &AttemptStore{db: db}
}

// CreateAttempt inserts an attempt record.
func (s *AttemptStore) CreateAttempt(ctx context.Context, attempt *domain.SolutionAttempt) error {
	feedback, err := json.Marshal(attempt.Feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	query := `
		INSERT INTO solution_attempts (id, problem_session_id, code, language,
			time_complexity, space_complexity, correctness, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.Pool.Exec(ctx, query,
		attempt.ID, attempt.ProblemSessionID, attempt.Code, string(attempt.Language),
		attempt.TimeComplexity, attempt.SpaceComplexity,
		string(attempt.Correctness), feedback, attempt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert solution attempt: %w", err)
	}
	return nil
}

// ListAttempts returns a session's attempts, newest first.
func (s *AttemptStore) ListAttempts(ctx context.Context, problemSessionID uuid.UUID) ([]*domain.SolutionAttempt, error) {
	query := `
		SELECT id, problem_session_id, code, language,
			time_complexity, space_complexity, correctness, feedback, created_at
		FROM solution_attempts WHERE problem_session_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Pool.Query(ctx, query, problemSessionID)
	if err != nil {
		return nil, fmt.Errorf("list solution attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*domain.SolutionAttempt
	for rows.Next() {
		var attempt domain.SolutionAttempt
		var language, correctness string
		var feedbackJSON []byte
		if err := rows.Scan(
			&attempt.ID, &attempt.ProblemSessionID, &attempt.Code, &language,
			&attempt.TimeComplexity, &attempt.SpaceComplexity,
			&correctness, &feedbackJSON, &attempt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan solution attempt: %w", err)
		}

		attempt.Language = domain.Language(language)
		attempt.Correctness = domain.Correctness(correctness)
		if err := json.Unmarshal(feedbackJSON, &attempt.Feedback); err != nil {
			return nil, fmt.Errorf("unmarshal feedback: %w", err)
		}
		attempts = append(attempts, &attempt)
	}
	return attempts, rows.Err()
}
