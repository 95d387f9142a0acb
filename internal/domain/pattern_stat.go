package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PatternStat tracks attempt/success counters for one algorithmic pattern,
// scoped to a browser session or user. Counters only ever grow.
type PatternStat struct {
	ID            uuid.UUID `json:"id"`
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id,omitempty"`
	PatternName   string    `json:"pattern_name"`
	AttemptCount  int       `json:"attempt_count"`
	SuccessCount  int       `json:"success_count"`
	LastAttempted time.Time `json:"last_attempted"`
}

// NewPatternStat creates a stat row for the first attempt at a pattern.
func NewPatternStat(sessionID, userID, pattern string, correct bool) *PatternStat {
	s := &PatternStat{
		ID:            uuid.New(),
		SessionID:     sessionID,
		UserID:        userID,
		PatternName:   pattern,
		AttemptCount:  1,
		LastAttempted: time.Now().UTC(),
	}
	if correct {
		s.SuccessCount = 1
	}
	return s
}

// RecordAttempt increments the counters for one more attempt.
func (s *PatternStat) RecordAttempt(correct bool) {
	s.AttemptCount++
	if correct {
		s.SuccessCount++
	}
	s.LastAttempted = time.Now().UTC()
}

// SuccessRate returns the rounded success percentage (0 when unattempted).
func (s *PatternStat) SuccessRate() int {
	if s.AttemptCount == 0 {
		return 0
	}
	return int(math.Round(float64(s.SuccessCount) / float64(s.AttemptCount) * 100))
}

// WeaknessThreshold is the success rate below which a pattern counts as weak.
const WeaknessThreshold = 50

// IsWeakness reports whether this pattern should be surfaced to the learner
// as needing practice.
func (s *PatternStat) IsWeakness() bool {
	return s.AttemptCount > 0 && s.SuccessRate() < WeaknessThreshold
}
