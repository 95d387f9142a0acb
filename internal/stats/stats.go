// Package stats derives per-pattern attempt/success counters from solution
// attempt outcomes and surfaces weak patterns to the learner.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hintforge/hintforge/internal/domain"
)

// ErrStatNotFound indicates no counter row exists yet for a pattern.
var ErrStatNotFound = errors.New("pattern stat not found")

// Owner scopes counters to a browser session or an authenticated user.
// UserID takes precedence when both are set.
type Owner struct {
	SessionID string
	UserID    string
}

// Store persists pattern counters.
type Store interface {
	// GetPatternStat returns the counter row for (owner, pattern), or
	// ErrStatNotFound.
	GetPatternStat(ctx context.Context, owner Owner, pattern string) (*domain.PatternStat, error)

	// SavePatternStat inserts or updates a counter row.
	SavePatternStat(ctx context.Context, stat *domain.PatternStat) error

	// ListPatternStats returns all counter rows for an owner.
	ListPatternStats(ctx context.Context, owner Owner) ([]*domain.PatternStat, error)
}

// Aggregator updates and reads pattern statistics.
type Aggregator struct {
	store  Store
	logger *slog.Logger
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(store Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, logger: logger}
}

// RecordAttempt increments counters for every pattern on the attempted
// problem. One submission counts as one attempt against each listed pattern.
func (a *Aggregator) RecordAttempt(ctx context.Context, sessionID, userID string, patterns []string, correct bool) error {
	owner := Owner{SessionID: sessionID, UserID: userID}

	for _, pattern := range patterns {
		stat, err := a.store.GetPatternStat(ctx, owner, pattern)
		switch {
		case errors.Is(err, ErrStatNotFound):
			stat = domain.NewPatternStat(sessionID, userID, pattern, correct)
		case err != nil:
			return fmt.Errorf("get pattern stat %q: %w", pattern, err)
		default:
			stat.RecordAttempt(correct)
		}

		if err := a.store.SavePatternStat(ctx, stat); err != nil {
			return fmt.Errorf("save pattern stat %q: %w", pattern, err)
		}
	}

	return nil
}

// PatternSummary is one pattern's aggregate for the stats endpoint.
type PatternSummary struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	SuccessRate int    `json:"successRate"`
}

// Overview holds every attempted pattern plus the subset flagged as weak.
type Overview struct {
	Patterns   []PatternSummary `json:"patterns"`
	Weaknesses []string         `json:"weaknesses"`
}

// GetOverview returns per-pattern summaries, sorted by attempt count
// descending, and the names of weak patterns.
func (a *Aggregator) GetOverview(ctx context.Context, owner Owner) (*Overview, error) {
	rows, err := a.store.ListPatternStats(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list pattern stats: %w", err)
	}

	overview := &Overview{
		Patterns:   make([]PatternSummary, 0, len(rows)),
		Weaknesses: []string{},
	}

	for _, stat := range rows {
		overview.Patterns = append(overview.Patterns, PatternSummary{
			Name:        stat.PatternName,
			Count:       stat.AttemptCount,
			SuccessRate: stat.SuccessRate(),
		})
		if stat.IsWeakness() {
			overview.Weaknesses = append(overview.Weaknesses, stat.PatternName)
		}
	}

	sort.SliceStable(overview.Patterns, func(i, j int) bool {
		return overview.Patterns[i].Count > overview.Patterns[j].Count
	})

	return overview, nil
}
