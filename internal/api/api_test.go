package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hintforge/hintforge/internal/config"
	"github.com/hintforge/hintforge/internal/llm"
	"github.com/hintforge/hintforge/internal/ratelimit"
	"github.com/hintforge/hintforge/internal/stats"
	"github.com/hintforge/hintforge/internal/storage/sqlite"
	"github.com/hintforge/hintforge/internal/tutor"
)

const twoSumStatement = "Given an array of integers nums and an integer target, return the indices of the two numbers that add up to the target value."

const analysisJSON = `{
	"patterns": ["Hash Map", "Two Pointers"],
	"constraints": [{"key": "n", "value": "up to 10^5"}],
	"examples": [{"input": "[2,7,11,15], 9", "output": "[0,1]"}],
	"difficulty": "easy",
	"timeComplexity": "O(n)",
	"spaceComplexity": "O(n)"
}`

const reviewJSON = `{
	"explanation": "Correct single-pass hash map solution.",
	"timeComplexity": "O(n)",
	"spaceComplexity": "O(n)",
	"issues": [],
	"suggestions": ["Consider early return on duplicates."],
	"correctness": "correct"
}`

// scriptedProvider returns canned completions in order.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.responses) == 0 {
		return nil, fmt.Errorf("no scripted response left")
	}
	content := p.responses[0]
	p.responses = p.responses[1:]
	return &llm.Response{Content: content, FinishReason: "stop"}, nil
}

func newTestApp(t *testing.T, cfg *config.Config, responses ...string) (*App, http.Handler) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	provider := &scriptedProvider{responses: responses}
	registry := llm.NewRegistry()
	registry.Register("scripted", provider)
	if err := registry.SetDefault("scripted"); err != nil {
		t.Fatalf("set default provider: %v", err)
	}

	aggregator := stats.NewAggregator(sqlite.NewStatStore(db), nil)
	service := tutor.NewService(provider,
		sqlite.NewSessionStore(db),
		sqlite.NewHintStore(db),
		sqlite.NewAttemptStore(db),
		aggregator, nil)

	app := &App{
		Config:  cfg,
		Tutor:   service,
		Stats:   aggregator,
		LLM:     registry,
		Limiter: ratelimit.NewInMemory(),
		Ready:   db.PingContext,
	}

	return app, NewRouter(app)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                 8080,
		Debug:                false,
		RateLimitMaxRequests: 100,
		RateLimitWindow:      time.Minute,
	}
}

func doJSON(t *testing.T, handler http.Handler, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestTutoringFlow(t *testing.T) {
	hint1 := "Think about what lookup structure gives O(1) membership checks."
	_, handler := newTestApp(t, testConfig(), analysisJSON, hint1)

	// Issue a browser session identifier.
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/session", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sess struct {
		SessionID string `json:"sessionId"`
	}
	decodeBody(t, rec, &sess)
	if sess.SessionID == "" {
		t.Fatal("expected a session identifier")
	}

	// Analyze a problem.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/analyze-problem", sess.SessionID, map[string]any{
		"problemStatement": twoSumStatement,
		"sessionId":        sess.SessionID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze-problem: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var analysis struct {
		ProblemSessionID string   `json:"problemSessionId"`
		Patterns         []string `json:"patterns"`
		Difficulty       string   `json:"difficulty"`
	}
	decodeBody(t, rec, &analysis)
	if analysis.ProblemSessionID == "" {
		t.Fatal("expected a problem session ID")
	}
	if len(analysis.Patterns) != 2 || analysis.Difficulty != "easy" {
		t.Errorf("unexpected analysis: %+v", analysis)
	}

	// Unlock hint level 1.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/get-hint", sess.SessionID, map[string]any{
		"problemSessionId": analysis.ProblemSessionID,
		"sessionId":        sess.SessionID,
		"currentHintLevel": 0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("get-hint: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var hint struct {
		HintLevel int    `json:"hintLevel"`
		Content   string `json:"content"`
		HasMore   bool   `json:"hasMore"`
	}
	decodeBody(t, rec, &hint)
	if hint.HintLevel != 1 || hint.Content != hint1 || !hint.HasMore {
		t.Errorf("unexpected hint: %+v", hint)
	}

	// Replay the stale claim: the persisted count is authoritative.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/get-hint", sess.SessionID, map[string]any{
		"problemSessionId": analysis.ProblemSessionID,
		"sessionId":        sess.SessionID,
		"currentHintLevel": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("stale get-hint: status = %d, want 400", rec.Code)
	}
	var mismatch struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				CurrentLevel int `json:"currentLevel"`
			} `json:"details"`
		} `json:"error"`
	}
	decodeBody(t, rec, &mismatch)
	if mismatch.Error.Code != "LEVEL_MISMATCH" {
		t.Errorf("error code = %q, want LEVEL_MISMATCH", mismatch.Error.Code)
	}
	if mismatch.Error.Details.CurrentLevel != 1 {
		t.Errorf("currentLevel = %d, want 1", mismatch.Error.Details.CurrentLevel)
	}

	// The issued hint is listed.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/get-hints", sess.SessionID, map[string]any{
		"problemSessionId": analysis.ProblemSessionID,
		"sessionId":        sess.SessionID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("get-hints: status = %d", rec.Code)
	}
	var hints struct {
		Hints []struct {
			Level   int    `json:"level"`
			Content string `json:"content"`
		} `json:"hints"`
	}
	decodeBody(t, rec, &hints)
	if len(hints.Hints) != 1 || hints.Hints[0].Level != 1 {
		t.Errorf("unexpected hints listing: %+v", hints)
	}
}

func TestAnalyzeSolutionUpdatesStats(t *testing.T) {
	_, handler := newTestApp(t, testConfig(), analysisJSON, reviewJSON)

	sessionID := "session_1700000000_abc123"

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/analyze-problem", sessionID, map[string]any{
		"problemStatement": twoSumStatement,
		"sessionId":        sessionID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze-problem: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var analysis struct {
		ProblemSessionID string `json:"problemSessionId"`
	}
	decodeBody(t, rec, &analysis)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/analyze-solution", sessionID, map[string]any{
		"problemSessionId": analysis.ProblemSessionID,
		"sessionId":        sessionID,
		"code":             "const seen = new Map(); // single pass",
		"language":         "javascript",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze-solution: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var review struct {
		Correctness string `json:"correctness"`
		Explanation string `json:"explanation"`
	}
	decodeBody(t, rec, &review)
	if review.Correctness != "correct" {
		t.Errorf("correctness = %q, want correct", review.Correctness)
	}

	// Stat updates are dispatched asynchronously; poll the endpoint.
	deadline := time.Now().Add(2 * time.Second)
	for {
		rec = doJSON(t, handler, http.MethodGet, "/api/v1/patterns/stats?sessionId="+sessionID, sessionID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("patterns/stats: status = %d", rec.Code)
		}
		var overview struct {
			Patterns []struct {
				Name        string `json:"name"`
				Count       int    `json:"count"`
				SuccessRate int    `json:"successRate"`
			} `json:"patterns"`
		}
		decodeBody(t, rec, &overview)
		if len(overview.Patterns) == 2 {
			if overview.Patterns[0].Count != 1 || overview.Patterns[0].SuccessRate != 100 {
				t.Errorf("unexpected pattern summary: %+v", overview.Patterns[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("pattern stats never appeared, last body: %s", rec.Body.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGetHintOwnershipAndMissingSession(t *testing.T) {
	hint1 := "Start by writing out a brute force and watching what repeats."
	_, handler := newTestApp(t, testConfig(), analysisJSON, hint1)

	owner := "session_1700000000_owner1"
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/analyze-problem", owner, map[string]any{
		"problemStatement": twoSumStatement,
		"sessionId":        owner,
	})
	var analysis struct {
		ProblemSessionID string `json:"problemSessionId"`
	}
	decodeBody(t, rec, &analysis)

	// A different session does not own the problem.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/get-hint", "session_1700000000_other2", map[string]any{
		"problemSessionId": analysis.ProblemSessionID,
		"sessionId":        "session_1700000000_other2",
		"currentHintLevel": 0,
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign session: status = %d, want 403", rec.Code)
	}

	// Unknown problem session.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/get-hint", owner, map[string]any{
		"problemSessionId": "2c9a1b39-5df1-4a50-9e8a-0a4c5a3f8b11",
		"sessionId":        owner,
		"currentHintLevel": 0,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown problem session: status = %d, want 404", rec.Code)
	}
}

func TestAnalyzeProblemValidation(t *testing.T) {
	_, handler := newTestApp(t, testConfig())

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/analyze-problem", "session_1700000000_abc123", map[string]any{
		"problemStatement": "too short",
		"sessionId":        "session_1700000000_abc123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q, want VALIDATION_ERROR", body.Error.Code)
	}
}

func TestMalformedAnalysisIsGenericFailure(t *testing.T) {
	_, handler := newTestApp(t, testConfig(), "The model ignored the JSON contract entirely.")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/analyze-problem", "session_1700000000_abc123", map[string]any{
		"problemStatement": twoSumStatement,
		"sessionId":        "session_1700000000_abc123",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Error.Message != "analysis failed" {
		t.Errorf("message = %q, want generic analysis failure", body.Error.Message)
	}
}

func TestRateLimitAppliesPerSession(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMaxRequests = 2
	_, handler := newTestApp(t, cfg)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, handler, http.MethodGet, "/health", "session_1700000000_abc123", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := doJSON(t, handler, http.MethodGet, "/health", "session_1700000000_abc123", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	// Another session is unaffected.
	rec = doJSON(t, handler, http.MethodGet, "/health", "session_1700000000_other9", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("other session: status = %d, want 200", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	hint1 := "Consider what information you can cache as you scan."
	_, handler := newTestApp(t, testConfig(), analysisJSON, hint1)

	sessionID := "session_1700000000_hist01"
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/analyze-problem", sessionID, map[string]any{
		"problemStatement": twoSumStatement,
		"sessionId":        sessionID,
	})
	var analysis struct {
		ProblemSessionID string `json:"problemSessionId"`
	}
	decodeBody(t, rec, &analysis)

	doJSON(t, handler, http.MethodPost, "/api/v1/get-hint", sessionID, map[string]any{
		"problemSessionId": analysis.ProblemSessionID,
		"sessionId":        sessionID,
		"currentHintLevel": 0,
	})

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/history", sessionID, map[string]any{
		"sessionId": sessionID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("history: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var history struct {
		Sessions []struct {
			ID               string `json:"id"`
			CurrentHintLevel int    `json:"currentHintLevel"`
			AttemptCount     int    `json:"attemptCount"`
		} `json:"sessions"`
	}
	decodeBody(t, rec, &history)
	if len(history.Sessions) != 1 {
		t.Fatalf("history sessions = %d, want 1", len(history.Sessions))
	}
	if history.Sessions[0].ID != analysis.ProblemSessionID {
		t.Errorf("history ID = %q, want %q", history.Sessions[0].ID, analysis.ProblemSessionID)
	}
	if history.Sessions[0].CurrentHintLevel != 1 {
		t.Errorf("currentHintLevel = %d, want 1", history.Sessions[0].CurrentHintLevel)
	}

	// History requires an owner.
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/history", sessionID, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ownerless history: status = %d, want 400", rec.Code)
	}
}

func TestNewAppLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "app.db")
	cfg.LLMProvider = "ollama"
	cfg.OllamaURL = "http://localhost:11434"

	app, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	if err := app.Ready(context.Background()); err != nil {
		t.Errorf("Ready() error = %v", err)
	}
	if name := app.LLM.DefaultName(); name != "ollama" {
		t.Errorf("default provider = %q, want ollama", name)
	}

	// Close tears down every resource, the resilient gateway included.
	if err := app.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestHealthAndReady(t *testing.T) {
	_, handler := newTestApp(t, testConfig())

	rec := doJSON(t, handler, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health: status = %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: status = %d", rec.Code)
	}
	var ready struct {
		Status   string `json:"status"`
		Provider string `json:"provider"`
	}
	decodeBody(t, rec, &ready)
	if ready.Status != "ready" || ready.Provider != "scripted" {
		t.Errorf("unexpected readiness payload: %+v", ready)
	}
}
