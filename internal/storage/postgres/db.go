// Package postgres is the PostgreSQL persistence backend, for deployments
// that outgrow the embedded SQLite database.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool with schema bootstrap support.
type DB struct {
	Pool *pgxpool.Pool
}

// Open creates a connection pool and verifies connectivity.
func Open(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// schema is idempotent; TIMESTAMPTZ and JSONB replace the SQLite
// DATETIME/TEXT columns, everything else mirrors the embedded migrations.
const schema = `
CREATE TABLE IF NOT EXISTS problem_sessions (
    id                 UUID PRIMARY KEY,
    session_id         TEXT NOT NULL,
    user_id            TEXT NOT NULL DEFAULT '',
    problem_statement  TEXT NOT NULL,
    patterns           JSONB NOT NULL DEFAULT '[]',
    constraints        JSONB NOT NULL DEFAULT '[]',
    examples           JSONB NOT NULL DEFAULT '[]',
    difficulty         TEXT NOT NULL DEFAULT 'medium',
    current_hint_level INTEGER NOT NULL DEFAULT 0,
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_problem_sessions_session ON problem_sessions(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_problem_sessions_user ON problem_sessions(user_id, created_at);

CREATE TABLE IF NOT EXISTS hints (
    id                 UUID PRIMARY KEY,
    problem_session_id UUID NOT NULL REFERENCES problem_sessions(id) ON DELETE CASCADE,
    level              INTEGER NOT NULL,
    content            TEXT NOT NULL,
    created_at         TIMESTAMPTZ NOT NULL,
    UNIQUE (problem_session_id, level)
);

CREATE TABLE IF NOT EXISTS solution_attempts (
    id                 UUID PRIMARY KEY,
    problem_session_id UUID NOT NULL REFERENCES problem_sessions(id) ON DELETE CASCADE,
    code               TEXT NOT NULL,
    language           TEXT NOT NULL,
    time_complexity    TEXT NOT NULL DEFAULT '',
    space_complexity   TEXT NOT NULL DEFAULT '',
    correctness        TEXT NOT NULL DEFAULT 'unknown',
    feedback           JSONB NOT NULL DEFAULT '{}',
    created_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_solution_attempts_session ON solution_attempts(problem_session_id, created_at);

CREATE TABLE IF NOT EXISTS pattern_stats (
    id             UUID PRIMARY KEY,
    session_id     TEXT NOT NULL,
    user_id        TEXT NOT NULL DEFAULT '',
    pattern_name   TEXT NOT NULL,
    attempt_count  INTEGER NOT NULL DEFAULT 0,
    success_count  INTEGER NOT NULL DEFAULT 0,
    last_attempted TIMESTAMPTZ NOT NULL,
    UNIQUE (session_id, user_id, pattern_name)
);
`

// Bootstrap creates the schema if it does not exist yet.
func (db *DB) Bootstrap(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}
