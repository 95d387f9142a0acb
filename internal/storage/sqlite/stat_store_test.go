package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/hintforge/hintforge/internal/domain"
	"github.com/hintforge/hintforge/internal/stats"
)

func TestStatStore_GetNotFound(t *testing.T) {
	db := openTestDB(t)
	store := NewStatStore(db)

	owner := stats.Owner{SessionID: "session_1700000000000_abc123"}
	_, err := store.GetPatternStat(context.Background(), owner, "Hash Map")
	if !errors.Is(err, stats.ErrStatNotFound) {
		t.Errorf("error = %v; want ErrStatNotFound", err)
	}
}

func TestStatStore_SaveAndGet(t *testing.T) {
	db := openTestDB(t)
	store := NewStatStore(db)
	ctx := context.Background()

	stat := domain.NewPatternStat("session_1700000000000_abc123", "", "Hash Map", true)
	if err := store.SavePatternStat(ctx, stat); err != nil {
		t.Fatalf("SavePatternStat() error = %v", err)
	}

	owner := stats.Owner{SessionID: stat.SessionID}
	got, err := store.GetPatternStat(ctx, owner, "Hash Map")
	if err != nil {
		t.Fatalf("GetPatternStat() error = %v", err)
	}

	if got.AttemptCount != 1 {
		t.Errorf("AttemptCount = %d; want 1", got.AttemptCount)
	}
	if got.SuccessCount != 1 {
		t.Errorf("SuccessCount = %d; want 1", got.SuccessCount)
	}
	if got.PatternName != "Hash Map" {
		t.Errorf("PatternName = %q", got.PatternName)
	}
}

func TestStatStore_UpsertAccumulates(t *testing.T) {
	db := openTestDB(t)
	store := NewStatStore(db)
	ctx := context.Background()

	stat := domain.NewPatternStat("session_1700000000000_abc123", "", "Two Pointers", false)
	if err := store.SavePatternStat(ctx, stat); err != nil {
		t.Fatalf("first SavePatternStat() error = %v", err)
	}

	stat.RecordAttempt(true)
	if err := store.SavePatternStat(ctx, stat); err != nil {
		t.Fatalf("second SavePatternStat() error = %v", err)
	}

	owner := stats.Owner{SessionID: stat.SessionID}
	got, err := store.GetPatternStat(ctx, owner, "Two Pointers")
	if err != nil {
		t.Fatalf("GetPatternStat() error = %v", err)
	}
	if got.AttemptCount != 2 {
		t.Errorf("AttemptCount = %d; want 2", got.AttemptCount)
	}
	if got.SuccessCount != 1 {
		t.Errorf("SuccessCount = %d; want 1", got.SuccessCount)
	}
	if got.SuccessRate() != 50 {
		t.Errorf("SuccessRate() = %d; want 50", got.SuccessRate())
	}
}

func TestStatStore_ListScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	store := NewStatStore(db)
	ctx := context.Background()

	mine := domain.NewPatternStat("session_1700000000000_abc123", "", "DFS", true)
	theirs := domain.NewPatternStat("session_1700000000001_zzz999", "", "DFS", false)
	if err := store.SavePatternStat(ctx, mine); err != nil {
		t.Fatalf("save mine: %v", err)
	}
	if err := store.SavePatternStat(ctx, theirs); err != nil {
		t.Fatalf("save theirs: %v", err)
	}

	got, err := store.ListPatternStats(ctx, stats.Owner{SessionID: mine.SessionID})
	if err != nil {
		t.Fatalf("ListPatternStats() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("stats = %d; want 1", len(got))
	}
	if got[0].SessionID != mine.SessionID {
		t.Errorf("SessionID = %q; want %q", got[0].SessionID, mine.SessionID)
	}
}

func TestStatStore_WithAggregator(t *testing.T) {
	db := openTestDB(t)
	store := NewStatStore(db)
	agg := stats.NewAggregator(store, nil)
	ctx := context.Background()

	sessionID := "session_1700000000000_abc123"
	if err := agg.RecordAttempt(ctx, sessionID, "", []string{"Hash Map", "Sliding Window"}, false); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}
	if err := agg.RecordAttempt(ctx, sessionID, "", []string{"Hash Map"}, true); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}

	overview, err := agg.GetOverview(ctx, stats.Owner{SessionID: sessionID})
	if err != nil {
		t.Fatalf("GetOverview() error = %v", err)
	}

	if len(overview.Patterns) != 2 {
		t.Fatalf("patterns = %d; want 2", len(overview.Patterns))
	}
	// Hash Map has more attempts, so it sorts first.
	if overview.Patterns[0].Name != "Hash Map" {
		t.Errorf("first pattern = %q; want Hash Map", overview.Patterns[0].Name)
	}
	if overview.Patterns[0].SuccessRate != 50 {
		t.Errorf("Hash Map success rate = %d; want 50", overview.Patterns[0].SuccessRate)
	}

	// Sliding Window: one failed attempt, 0% success rate.
	if len(overview.Weaknesses) != 1 || overview.Weaknesses[0] != "Sliding Window" {
		t.Errorf("weaknesses = %v; want [Sliding Window]", overview.Weaknesses)
	}
}
