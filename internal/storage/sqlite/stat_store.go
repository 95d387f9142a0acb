package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hintforge/hintforge/internal/domain"
	"github.com/hintforge/hintforge/internal/stats"
)

// StatStore implements pattern-stat persistence backed by SQLite.
type StatStore struct {
	db *DB
}

// NewStatStore creates a new SQLite-backed pattern-stat store.
func NewStatStore(db *DB) *StatStore {
	return &StatStore{db: db}
}

// GetPatternStat returns the counter row for (owner, pattern).
func (s *StatStore) GetPatternStat(ctx context.Context, owner stats.Owner, pattern string) (*domain.PatternStat, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, user_id, pattern_name, attempt_count, success_count, last_attempted
		FROM pattern_stats WHERE session_id = ? AND user_id = ? AND pattern_name = ?`,
		owner.SessionID, owner.UserID, pattern,
	)

	stat, err := scanPatternStat(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stats.ErrStatNotFound
	}
	return stat, err
}

// SavePatternStat inserts or updates a counter row.
func (s *StatStore) SavePatternStat(ctx context.Context, stat *domain.PatternStat) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pattern_stats (id, session_id, user_id, pattern_name,
			attempt_count, success_count, last_attempted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, user_id, pattern_name) DO UPDATE SET
			attempt_count=excluded.attempt_count,
			success_count=excluded.success_count,
			last_attempted=excluded.last_attempted`,
		stat.ID.String(), stat.SessionID, stat.UserID, stat.PatternName,
		stat.AttemptCount, stat.SuccessCount, stat.LastAttempted,
	)
	if err != nil {
		return fmt.Errorf("upsert pattern stat: %w", err)
	}
	return nil
}

// ListPatternStats returns all counter rows for an owner.
func (s *StatStore) ListPatternStats(ctx context.Context, owner stats.Owner) ([]*domain.PatternStat, error) {
	query := `
		SELECT id, session_id, user_id, pattern_name, attempt_count, success_count, last_attempted
		FROM pattern_stats WHERE session_id = ? AND user_id = ?`
	rows, err := s.db.QueryContext(ctx, query, owner.SessionID, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("list pattern stats: %w", err)
	}
	defer rows.Close()

	var out []*domain.PatternStat
	for rows.Next() {
		stat, err := scanPatternStat(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

// scanPatternStat scans one stat row via the given scan function.
func scanPatternStat(scan func(dest ...any) error) (*domain.PatternStat, error) {
	var stat domain.PatternStat
	var id string

	err := scan(&id, &stat.SessionID, &stat.UserID, &stat.PatternName,
		&stat.AttemptCount, &stat.SuccessCount, &stat.LastAttempted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan pattern stat: %w", err)
	}

	if stat.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse stat id: %w", err)
	}
	return &stat, nil
}
