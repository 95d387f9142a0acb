package domain

import (
	"time"

	"github.com/google/uuid"
)

// Language identifies the declared language of a submitted solution.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCpp        Language = "cpp"
	LangC          Language = "c"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangOther      Language = "other"
)

// Valid reports whether the language is one of the accepted values.
func (l Language) Valid() bool {
	switch l {
	case LangJavaScript, LangTypeScript, LangPython, LangJava,
		LangCpp, LangC, LangGo, LangRust, LangOther:
		return true
	}
	return false
}

// Correctness is the AI's verdict on a submitted solution.
type Correctness string

const (
	CorrectnessCorrect   Correctness = "correct"
	CorrectnessPartial   Correctness = "partial"
	CorrectnessIncorrect Correctness = "incorrect"
	CorrectnessUnknown   Correctness = "unknown"
)

// Valid reports whether the correctness classification is known.
func (c Correctness) Valid() bool {
	switch c {
	case CorrectnessCorrect, CorrectnessPartial, CorrectnessIncorrect, CorrectnessUnknown:
		return true
	}
	return false
}

// IssueType classifies a problem found in a submitted solution.
type IssueType string

const (
	IssueBug          IssueType = "bug"
	IssueInefficiency IssueType = "inefficiency"
	IssueEdgeCase     IssueType = "edge-case"
)

// Issue is one specific problem the review found in the code.
type Issue struct {
	Type        IssueType `json:"type"`
	Description string    `json:"description"`
}

// Feedback is the structured review attached to a solution attempt.
type Feedback struct {
	Explanation string   `json:"explanation"`
	Issues      []Issue  `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// SolutionAttempt is one submitted solution and its review. Attempts are
// immutable; a session may accumulate any number of them.
type SolutionAttempt struct {
	ID               uuid.UUID   `json:"id"`
	ProblemSessionID uuid.UUID   `json:"problem_session_id"`
	Code             string      `json:"code"`
	Language         Language    `json:"language"`
	TimeComplexity   string      `json:"time_complexity"`
	SpaceComplexity  string      `json:"space_complexity"`
	Correctness      Correctness `json:"correctness"`
	Feedback         Feedback    `json:"feedback"`
	CreatedAt        time.Time   `json:"created_at"`
}

// NewSolutionAttempt creates an attempt record for a submission.
func NewSolutionAttempt(problemSessionID uuid.UUID, code string, language Language) *SolutionAttempt {
	return &SolutionAttempt{
		ID:               uuid.New(),
		ProblemSessionID: problemSessionID,
		Code:             code,
		Language:         language,
		Correctness:      CorrectnessUnknown,
		CreatedAt:        time.Now().UTC(),
	}
}
