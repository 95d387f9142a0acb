package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hintforge/hintforge/internal/domain"
	"github.com/hintforge/hintforge/internal/stats"
)

// StatStore implements pattern-stat persistence using PostgreSQL.
type StatStore struct {
	db *DB
}

// NewStatStore creates a new PostgreSQL pattern-stat store.
func NewStatStore(db *DB) *StatStore {
	return &StatStore{db: db}
}

// GetPatternStat returns the counter row for (owner, pattern).
func (s *StatStore) GetPatternStat(ctx context.Context, owner stats.Owner, pattern string) (*domain.PatternStat, error) {
	query := `
		SELECT id, session_id, user_id, pattern_name, attempt_count, success_count, last_attempted
		FROM pattern_stats WHERE session_id = $1 AND user_id = $2 AND pattern_name = $3
	`
	stat, err := scanPatternStat(s.db.Pool.QueryRow(ctx, query, owner.SessionID, owner.UserID, pattern))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, stats.ErrStatNotFound
	}
	return stat, err
}

// SavePatternStat inserts or updates a counter row.
func (s *StatStore) SavePatternStat(ctx context.Context, stat *domain.PatternStat) error {
	query := `
		INSERT INTO pattern_stats (id, session_id, user_id, pattern_name,
			attempt_count, success_count, last_attempted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, user_id, pattern_name) DO UPDATE SET
			attempt_count = EXCLUDED.attempt_count,
			success_count = EXCLUDED.success_count,
			last_attempted = EXCLUDED.last_attempted
	`
	_, err := s.db.Pool.Exec(ctx, query,
		stat.ID, stat.SessionID, stat.UserID, stat.PatternName,
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
		FROM pattern_stats WHERE session_id = $1 AND user_id = $2
	`
	rows, err := s.db.Pool.Query(ctx, query, owner.SessionID, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("list pattern stats: %w", err)
	}
	defer rows.Close()

	var out []*domain.PatternStat
	for rows.Next() {
		stat, err := scanPatternStat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

// scanPatternStat scans one stat row.
func scanPatternStat(row pgx.Row) (*domain.PatternStat, error) {
	var stat domain.PatternStat
	err := row.Scan(&stat.ID, &stat.SessionID, &stat.UserID, &stat.PatternName,
		&stat.AttemptCount, &stat.SuccessCount, &stat.LastAttempted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan pattern stat: %w", err)
	}
	return &stat, nil
}
