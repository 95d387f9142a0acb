package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hintforge/hintforge/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for unique constraint errors.
const uniqueViolation = "23505"

// HintStore implements hint persistence using PostgreSQL.
type HintStore struct {
	db *DB
}

// NewHintStore creates a new PostgreSQL hint store.
func NewHintStore(db *DB) *HintStore {
	return &HintStore{db: db}
}

// CreateHint inserts a hint record. Inserting a second hint at the same
// level for a session returns domain.ErrDuplicateHint.
func (s *HintStore) CreateHint(ctx context.Context, hint *domain.Hint) error {
	query := `
		INSERT INTO hints (id, problem_session_id, level, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Pool.Exec(ctx, query,
		hint.ID, hint.ProblemSessionID, hint.Level, hint.Content, hint.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateHint
		}
		return fmt.Errorf("insert hint: %w", err)
	}
	return nil
}

// CountHints returns the number of hints issued for a session.
func (s *HintStore) CountHints(ctx context.Context, problemSessionID uuid.UUID) (int, error) {
	var count int
	err := s.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM hints WHERE problem_session_id = $1",
		problemSessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count hints: %w", err)
	}
	return count, nil
}

// ListHints returns a session's hints ordered ascending by level.
func (s *HintStore) ListHints(ctx context.Context, problemSessionID uuid.UUID) ([]*domain.Hint, error) {
	query := `
		SELECT id, problem_session_id, level, content, created_at
		FROM hints WHERE problem_session_id = $1 ORDER BY level
	`
	rows, err := s.db.Pool.Query(ctx, query, problemSessionID)
	if err != nil {
		return nil, fmt.Errorf("list hints: %w", err)
	}
	defer rows.Close()

	var hints []*domain.Hint
	for rows.Next() {
		var hint domain.Hint
		if err := rows.Scan(&hint.ID, &hint.ProblemSessionID, &hint.Level, &hint.Content, &hint.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hint: %w", err)
		}
		hints = append(hints, &hint)
	}
	return hints, rows.Err()
}
