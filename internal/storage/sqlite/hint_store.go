package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/hintforge/hintforge/internal/domain"
)

// HintStore implements hint persistence backed by SQLite. The unique index
// on (problem_session_id, level) is what makes concurrent hint requests at
// the same level lose cleanly.
type HintStore struct {
	db *DB
}

// NewHintStore creates a new SQLite-backed hint store.
func NewHintStore(db *DB) *HintStore {
	return &HintStore{db: db}
}

// CreateHint inserts a hint record. Inserting a second hint at the same
// level for a session returns domain.ErrDuplicateHint.
func (s *HintStore) CreateHint(ctx context.Context, hint *domain.Hint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hints (id, problem_session_id, level, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		hint.ID.String(), hint.ProblemSessionID.String(), hint.Level, hint.Content, hint.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateHint
		}
		return fmt.Errorf("insert hint: %w", err)
	}
	return nil
}

// CountHints returns the number of hints issued for a session.
func (s *HintStore) CountHints(ctx context.Context, problemSessionID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hints WHERE problem_session_id = ?",
		problemSessionID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count hints: %w", err)
	}
	return count, nil
}

// ListHints returns a session's hints ordered ascending by level.
func (s *HintStore) ListHints(ctx context.Context, problemSessionID uuid.UUID) ([]*domain.Hint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, problem_session_id, level, content, created_at
		FROM hints WHERE problem_session_id = ? ORDER BY level`,
		problemSessionID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list hints: %w", err)
	}
	defer rows.Close()

	var hints []*domain.Hint
	for rows.Next() {
		var hint domain.Hint
		var id, sessionID string
		if err := rows.Scan(&id, &sessionID, &hint.Level, &hint.Content, &hint.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hint: %w", err)
		}
		if hint.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse hint id: %w", err)
		}
		if hint.ProblemSessionID, err = uuid.Parse(sessionID); err != nil {
			return nil, fmt.Errorf("parse hint session id: %w", err)
		}
		hints = append(hints, &hint)
	}
	return hints, rows.Err()
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
