package stats

import (
	"context"
	"testing"

	"github.com/hintforge/hintforge/internal/domain"
)

// memStore is an in-memory Store for tests
type memStore struct {
	stats map[string]*domain.PatternStat
}

func newMemStore() *memStore {
	return &memStore{stats: make(map[string]*domain.PatternStat)}
}

func (m *memStore) key(owner Owner, pattern string) string {
	if owner.UserID != "" {
		return "u:" + owner.UserID + ":" + pattern
	}
	return "s:" + owner.SessionID + ":" + pattern
}

func (m *memStore) GetPatternStat(ctx context.Context, owner Owner, pattern string) (*domain.PatternStat, error) {
	stat, ok := m.stats[m.key(owner, pattern)]
	if !ok {
		return nil, ErrStatNotFound
	}
	cp := *stat
	return &cp, nil
}

func (m *memStore) SavePatternStat(ctx context.Context, stat *domain.PatternStat) error {
	cp := *stat
	m.stats[m.key(Owner{SessionID: stat.SessionID, UserID: stat.UserID}, stat.PatternName)] = &cp
	return nil
}

func (m *memStore) ListPatternStats(ctx context.Context, owner Owner) ([]*domain.PatternStat, error) {
	var out []*domain.PatternStat
	for _, stat := range m.stats {
		if (owner.UserID != "" && stat.UserID == owner.UserID) ||
			(owner.UserID == "" && stat.SessionID == owner.SessionID) {
			cp := *stat
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestAggregator_RecordAttempt(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store, nil)
	ctx := context.Background()

	patterns := []string{"Two Pointers", "Hash Map"}

	// One correct, one incorrect attempt against the same session.
	if err := agg.RecordAttempt(ctx, "session_1_abc", "", patterns, true); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
	if err := agg.RecordAttempt(ctx, "session_1_abc", "", patterns, false); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}

	owner := Owner{SessionID: "session_1_abc"}
	for _, pattern := range patterns {
		stat, err := store.GetPatternStat(ctx, owner, pattern)
		if err != nil {
			t.Fatalf("GetPatternStat(%q) error = %v", pattern, err)
		}
		if stat.AttemptCount != 2 {
			t.Errorf("%s AttemptCount = %d, want 2", pattern, stat.AttemptCount)
		}
		if stat.SuccessCount != 1 {
			t.Errorf("%s SuccessCount = %d, want 1", pattern, stat.SuccessCount)
		}
		if got := stat.SuccessRate(); got != 50 {
			t.Errorf("%s SuccessRate = %d, want 50", pattern, got)
		}
	}
}

func TestAggregator_GetOverview(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store, nil)
	ctx := context.Background()

	// Sliding Window: 1/3 correct (weak). Sorting: 1/1 correct (strong).
	agg.RecordAttempt(ctx, "session_1_abc", "", []string{"Sliding Window"}, true)
	agg.RecordAttempt(ctx, "session_1_abc", "", []string{"Sliding Window"}, false)
	agg.RecordAttempt(ctx, "session_1_abc", "", []string{"Sliding Window"}, false)
	agg.RecordAttempt(ctx, "session_1_abc", "", []string{"Sorting"}, true)

	overview, err := agg.GetOverview(ctx, Owner{SessionID: "session_1_abc"})
	if err != nil {
		t.Fatalf("GetOverview() error = %v", err)
	}

	if len(overview.Patterns) != 2 {
		t.Fatalf("patterns = %d, want 2", len(overview.Patterns))
	}
	// Sorted by attempt count descending.
	if overview.Patterns[0].Name != "Sliding Window" {
		t.Errorf("first pattern = %s, want Sliding Window", overview.Patterns[0].Name)
	}
	if overview.Patterns[0].SuccessRate != 33 {
		t.Errorf("Sliding Window SuccessRate = %d, want 33", overview.Patterns[0].SuccessRate)
	}

	if len(overview.Weaknesses) != 1 || overview.Weaknesses[0] != "Sliding Window" {
		t.Errorf("Weaknesses = %v, want [Sliding Window]", overview.Weaknesses)
	}
}

func TestAggregator_OwnersIsolated(t *testing.T) {
	store := newMemStore()
	agg := NewAggregator(store, nil)
	ctx := context.Background()

	agg.RecordAttempt(ctx, "session_1_aaa", "", []string{"DFS"}, true)
	agg.RecordAttempt(ctx, "session_2_bbb", "", []string{"DFS"}, false)

	overview, err := agg.GetOverview(ctx, Owner{SessionID: "session_1_aaa"})
	if err != nil {
		t.Fatalf("GetOverview() error = %v", err)
	}
	if len(overview.Patterns) != 1 || overview.Patterns[0].SuccessRate != 100 {
		t.Errorf("overview = %+v, want only own session's 100%% DFS", overview)
	}
}
