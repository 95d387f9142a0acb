package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxHintLevel is the deepest hint disclosure level.
const MaxHintLevel = 5

// Difficulty classifies a problem's estimated difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the known values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Constraint is a single named constraint extracted from a problem statement.
type Constraint struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Example is an input/output pair extracted from a problem statement.
type Example struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ProblemSession is the record of one analyzed coding problem and its
// hint/attempt history. It is owned by the opaque browser session that
// submitted it and, optionally, an authenticated user.
type ProblemSession struct {
	ID               uuid.UUID    `json:"id"`
	SessionID        string       `json:"session_id"`
	UserID           string       `json:"user_id,omitempty"`
	ProblemStatement string       `json:"problem_statement"`
	Patterns         []string     `json:"patterns"`
	Constraints      []Constraint `json:"constraints"`
	Examples         []Example    `json:"examples"`
	Difficulty       Difficulty   `json:"difficulty"`

	// CurrentHintLevel is a denormalized convenience. The persisted hint
	// rows are the source of truth for progression.
	CurrentHintLevel int `json:"current_hint_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProblemSession creates a session for a freshly analyzed problem.
func NewProblemSession(sessionID, userID, statement string) *ProblemSession {
	now := time.Now().UTC()
	return &ProblemSession{
		ID:               uuid.New(),
		SessionID:        sessionID,
		UserID:           userID,
		ProblemStatement: statement,
		Patterns:         []string{},
		Constraints:      []Constraint{},
		Examples:         []Example{},
		Difficulty:       DifficultyMedium,
		CurrentHintLevel: 0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// OwnedBy reports whether the given browser session owns this record.
func (p *ProblemSession) OwnedBy(sessionID string) bool {
	return p.SessionID == sessionID
}

// Hint is one issued hint. Exactly one hint exists per (session, level) and
// the set of levels present for a session is always a contiguous run from 1.
type Hint struct {
	ID               uuid.UUID `json:"id"`
	ProblemSessionID uuid.UUID `json:"problem_session_id"`
	Level            int       `json:"level"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewHint creates a hint record at the given level.
func NewHint(problemSessionID uuid.UUID, level int, content string) *Hint {
	return &Hint{
		ID:               uuid.New(),
		ProblemSessionID: problemSessionID,
		Level:            level,
		Content:          content,
		CreatedAt:        time.Now().UTC(),
	}
}
