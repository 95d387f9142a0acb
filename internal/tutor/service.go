// Package tutor orchestrates problem analysis, hint progression, and
// solution review over the AI gateway and the session store.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hintforge/hintforge/internal/domain"
	"github.com/hintforge/hintforge/internal/llm"
	"github.com/hintforge/hintforge/internal/prompt"
)

// Generation parameters per task. Analysis tasks run cool for stable JSON;
// hint text runs warmer, slightly cooler on a leakage regeneration.
const (
	analyzeTemperature = 0.3
	analyzeMaxTokens   = 1000
	hintTemperature    = 0.7
	hintRegenTemp      = 0.6
	hintMaxTokens      = 600
)

// Service is the tutoring core.
type Service struct {
	gateway  Gateway
	sessions SessionStore
	hints    HintStore
	attempts AttemptStore
	recorder AttemptRecorder
	logger   *slog.Logger
}

// NewService creates the tutor service. recorder may be nil when pattern
// statistics are disabled.
func NewService(gateway Gateway, sessions SessionStore, hints HintStore, attempts AttemptStore, recorder AttemptRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gateway:  gateway,
		sessions: sessions,
		hints:    hints,
		attempts: attempts,
		recorder: recorder,
		logger:   logger,
	}
}

// AnalyzeProblemRequest carries a validated problem submission.
type AnalyzeProblemRequest struct {
	ProblemStatement string
	SessionID        string
	UserID           string
}

// AnalyzeProblemResult is the stored analysis plus its new session ID.
type AnalyzeProblemResult struct {
	ProblemSessionID uuid.UUID
	Patterns         []string
	Constraints      []domain.Constraint
	Examples         []domain.Example
	Difficulty       domain.Difficulty
	TimeComplexity   string
	SpaceComplexity  string
}

// analysisPayload is the JSON contract the analyze-problem prompt asks for.
type analysisPayload struct {
	Patterns        []string            `json:"patterns"`
	Constraints     []domain.Constraint `json:"constraints"`
	Examples        []domain.Example    `json:"examples"`
	Difficulty      string              `json:"difficulty"`
	TimeComplexity  string              `json:"timeComplexity"`
	SpaceComplexity string              `json:"spaceComplexity"`
}

// AnalyzeProblem identifies patterns, constraints, and examples for a
// problem statement and creates its problem session.
func (s *Service) AnalyzeProblem(ctx context.Context, req AnalyzeProblemRequest) (*AnalyzeProblemResult, error) {
	pair := prompt.AnalyzeProblem(req.ProblemStatement)

	resp, err := s.gateway.Complete(ctx, &llm.Request{
		System:      pair.System,
		User:        pair.User,
		Temperature: analyzeTemperature,
		MaxTokens:   analyzeMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze problem: %w", err)
	}

	var payload analysisPayload
	if err := llm.DecodeJSON(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("analyze problem: %w", err)
	}

	session := domain.NewProblemSession(req.SessionID, req.UserID, req.ProblemStatement)

	// The payload schema is advisory; default every field rather than
	// failing the request over one bad value.
	if payload.Patterns != nil {
		session.Patterns = payload.Patterns
	}
	if payload.Constraints != nil {
		session.Constraints = payload.Constraints
	}
	if payload.Examples != nil {
		session.Examples = payload.Examples
	}
	if d := domain.Difficulty(payload.Difficulty); d.Valid() {
		session.Difficulty = d
	}

	if err := s.sessions.CreateProblemSession(ctx, session); err != nil {
		return nil, fmt.Errorf("store problem session: %w", err)
	}

	return &AnalyzeProblemResult{
		ProblemSessionID: session.ID,
		Patterns:         session.Patterns,
		Constraints:      session.Constraints,
		Examples:         session.Examples,
		Difficulty:       session.Difficulty,
		TimeComplexity:   payload.TimeComplexity,
		SpaceComplexity:  payload.SpaceComplexity,
	}, nil
}

// HintRequest asks for the next hint. ClaimedLevel is the hint count the
// client believes exists.
type HintRequest struct {
	ProblemSessionID uuid.UUID
	SessionID        string
	ClaimedLevel     int
}

// HintResult is one issued hint.
type HintResult struct {
	Level   int
	Content string
	HasMore bool
}

// RequestNextHint advances a session's hint progression by exactly one
// level. The persisted hint count is authoritative: a stale or concurrent
// claim fails with LevelMismatchError carrying the true level.
func (s *Service) RequestNextHint(ctx context.Context, req HintRequest) (*HintResult, error) {
	nextLevel := req.ClaimedLevel + 1
	if nextLevel < 1 || nextLevel > domain.MaxHintLevel {
		return nil, domain.ErrInvalidLevel
	}

	session, err := s.sessions.GetProblemSession(ctx, req.ProblemSessionID)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(req.SessionID) {
		return nil, domain.ErrUnauthorized
	}

	// Authority check: recount persisted hints instead of trusting the
	// client or the session's cached level. Of two concurrent requests at
	// the same claimed level, at most one passes.
	trueLevel, err := s.hints.CountHints(ctx, req.ProblemSessionID)
	if err != nil {
		return nil, fmt.Errorf("count hints: %w", err)
	}
	if trueLevel != req.ClaimedLevel {
		return nil, &domain.LevelMismatchError{CurrentLevel: trueLevel}
	}

	content, err := s.generateHint(ctx, nextLevel, session)
	if err != nil {
		return nil, err
	}

	hint := domain.NewHint(req.ProblemSessionID, nextLevel, content)
	if err := s.hints.CreateHint(ctx, hint); err != nil {
		// A concurrent request won the unique(session, level) race between
		// our recount and this insert. Surface it as a stale claim so the
		// client resynchronizes, same as any other mismatch.
		if errors.Is(err, domain.ErrDuplicateHint) {
			trueLevel, countErr := s.hints.CountHints(ctx, req.ProblemSessionID)
			if countErr != nil {
				return nil, fmt.Errorf("count hints: %w", countErr)
			}
			return nil, &domain.LevelMismatchError{CurrentLevel: trueLevel}
		}
		return nil, fmt.Errorf("store hint: %w", err)
	}

	if err := s.sessions.SetHintLevel(ctx, req.ProblemSessionID, nextLevel); err != nil {
		return nil, fmt.Errorf("update hint level: %w", err)
	}

	return &HintResult{
		Level:   nextLevel,
		Content: content,
		HasMore: nextLevel < domain.MaxHintLevel,
	}, nil
}

// generateHint produces hint text for a level, regenerating once with a
// no-code directive when early-level text looks like a code solution. The
// regenerated text is returned even if it still matches.
func (s *Service) generateHint(ctx context.Context, level int, session *domain.ProblemSession) (string, error) {
	pair := prompt.GenerateHint(level, session.Patterns, session.Constraints)

	resp, err := s.gateway.Complete(ctx, &llm.Request{
		System:      pair.System,
		User:        pair.User,
		Temperature: hintTemperature,
		MaxTokens:   hintMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate hint level %d: %w", level, err)
	}

	if !ContainsCodeSolution(resp.Content, level) {
		return resp.Content, nil
	}

	s.logger.Warn("hint contained code solution, regenerating",
		"problem_session_id", session.ID,
		"level", level)

	retry, err := s.gateway.Complete(ctx, &llm.Request{
		System:      pair.System,
		User:        pair.User + prompt.ForbidCodeSuffix,
		Temperature: hintRegenTemp,
		MaxTokens:   hintMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("regenerate hint level %d: %w", level, err)
	}

	return retry.Content, nil
}

// ListHintsRequest fetches all issued hints for a session.
type ListHintsRequest struct {
	ProblemSessionID uuid.UUID
	SessionID        string
}

// ListHints returns a session's hints ordered ascending by level, after an
// ownership check.
func (s *Service) ListHints(ctx context.Context, req ListHintsRequest) ([]*domain.Hint, error) {
	session, err := s.sessions.GetProblemSession(ctx, req.ProblemSessionID)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(req.SessionID) {
		return nil, domain.ErrUnauthorized
	}

	return s.hints.ListHints(ctx, req.ProblemSessionID)
}

// SolutionRequest carries a validated solution submission.
type SolutionRequest struct {
	ProblemSessionID uuid.UUID
	SessionID        string
	Code             string
	Language         domain.Language
}

// SolutionResult is the review returned to the learner.
type SolutionResult struct {
	Explanation     string
	TimeComplexity  string
	SpaceComplexity string
	Issues          []domain.Issue
	Suggestions     []string
	Correctness     domain.Correctness
}

// solutionPayload is the JSON contract the analyze-solution prompt asks for.
type solutionPayload struct {
	Explanation     string         `json:"explanation"`
	TimeComplexity  string         `json:"timeComplexity"`
	SpaceComplexity string         `json:"spaceComplexity"`
	Issues          []domain.Issue `json:"issues"`
	Suggestions     []string       `json:"suggestions"`
	Correctness     string         `json:"correctness"`
}

// AnalyzeSolution reviews a submitted solution, persists the attempt, and
// dispatches pattern-stat updates.
func (s *Service) AnalyzeSolution(ctx context.Context, req SolutionRequest) (*SolutionResult, error) {
	session, err := s.sessions.GetProblemSession(ctx, req.ProblemSessionID)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(req.SessionID) {
		return nil, domain.ErrUnauthorized
	}

	pair := prompt.AnalyzeSolution(req.Code, req.Language, session.Patterns, session.Constraints)

	resp, err := s.gateway.Complete(ctx, &llm.Request{
		System:      pair.System,
		User:        pair.User,
		Temperature: analyzeTemperature,
		MaxTokens:   analyzeMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze solution: %w", err)
	}

	var payload solutionPayload
	if err := llm.DecodeJSON(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("analyze solution: %w", err)
	}

	result := &SolutionResult{
		Explanation:     payload.Explanation,
		TimeComplexity:  payload.TimeComplexity,
		SpaceComplexity: payload.SpaceComplexity,
		Issues:          payload.Issues,
		Suggestions:     payload.Suggestions,
		Correctness:     domain.Correctness(payload.Correctness),
	}
	if result.Explanation == "" {
		result.Explanation = "Unable to analyze code."
	}
	if result.TimeComplexity == "" {
		result.TimeComplexity = "Unknown"
	}
	if result.SpaceComplexity == "" {
		result.SpaceComplexity = "Unknown"
	}
	if result.Issues == nil {
		result.Issues = []domain.Issue{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	if !result.Correctness.Valid() {
		result.Correctness = domain.CorrectnessUnknown
	}

	attempt := domain.NewSolutionAttempt(req.ProblemSessionID, req.Code, req.Language)
	attempt.TimeComplexity = result.TimeComplexity
	attempt.SpaceComplexity = result.SpaceComplexity
	attempt.Correctness = result.Correctness
	attempt.Feedback = domain.Feedback{
		Explanation: result.Explanation,
		Issues:      result.Issues,
		Suggestions: result.Suggestions,
	}

	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("store solution attempt: %w", err)
	}

	s.dispatchStats(session, result.Correctness)

	return result, nil
}

// dispatchStats hands the attempt outcome to the recorder without blocking
// the response. A failed update loses one counter increment, never the
// attempt itself.
func (s *Service) dispatchStats(session *domain.ProblemSession, correctness domain.Correctness) {
	if s.recorder == nil || len(session.Patterns) == 0 {
		return
	}

	correct := correctness == domain.CorrectnessCorrect
	patterns := session.Patterns
	sessionID := session.SessionID
	userID := session.UserID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.recorder.RecordAttempt(ctx, sessionID, userID, patterns, correct); err != nil {
			s.logger.Warn("failed to record pattern stats", "error", err,
				"session_id", sessionID)
		}
	}()
}

// HistoryEntry summarizes one problem session for the history endpoint.
type HistoryEntry struct {
	ID                 uuid.UUID         `json:"id"`
	ProblemStatement   string            `json:"problem_statement"`
	Patterns           []string          `json:"identified_patterns"`
	Difficulty         domain.Difficulty `json:"estimated_difficulty"`
	CurrentHintLevel   int               `json:"current_hint_level"`
	AttemptCount       int               `json:"attempt_count"`
	LastAttemptCorrect *bool             `json:"last_attempt_correct"`
	CreatedAt          time.Time         `json:"created_at"`
}

// historyLimit caps the history endpoint's result size.
const historyLimit = 50

// History returns an owner's problem sessions, newest first, each annotated
// with its attempt count and last attempt outcome.
func (s *Service) History(ctx context.Context, sessionID, userID string) ([]HistoryEntry, error) {
	sessions, err := s.sessions.ListProblemSessions(ctx, sessionID, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list problem sessions: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		entry := HistoryEntry{
			ID:               session.ID,
			ProblemStatement: session.ProblemStatement,
			Patterns:         session.Patterns,
			Difficulty:       session.Difficulty,
			CurrentHintLevel: session.CurrentHintLevel,
			CreatedAt:        session.CreatedAt,
		}

		attempts, err := s.attempts.ListAttempts(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("list attempts for %s: %w", session.ID, err)
		}
		entry.AttemptCount = len(attempts)
		if len(attempts) > 0 {
			correct := attempts[0].Correctness == domain.CorrectnessCorrect
			entry.LastAttemptCorrect = &correct
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
