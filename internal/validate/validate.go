// Package validate checks and sanitizes inbound request fields before any
// AI or storage work happens.
package validate

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/hintforge/hintforge/internal/domain"
)

const (
	MinProblemStatementLen = 50
	MaxProblemStatementLen = 5000
	MaxCodeLen             = 10000
)

var (
	scriptTagRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	iframeTagRe = regexp.MustCompile(`(?is)<iframe\b.*?</iframe>`)
	htmlTagRe   = regexp.MustCompile(`<[^>]*>`)

	// Prose problem statements have no business invoking these.
	forbiddenRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)eval\s*\(`),
		regexp.MustCompile(`(?i)exec\s*\(`),
		regexp.MustCompile(`Function\s*\(`),
	}

	customSessionRe = regexp.MustCompile(`^session_\d+_[a-z0-9]+$`)
)

// SanitizeText strips script/iframe blocks and remaining HTML tags.
func SanitizeText(text string) string {
	text = scriptTagRe.ReplaceAllString(text, "")
	text = iframeTagRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ProblemStatement sanitizes and validates a submitted problem statement,
// returning the cleaned text.
func ProblemStatement(statement string) (string, error) {
	if strings.TrimSpace(statement) == "" {
		return "", domain.NewValidationError("problemStatement", "problem statement cannot be empty")
	}

	clean := SanitizeText(statement)

	if len(clean) < MinProblemStatementLen {
		return "", domain.NewValidationError("problemStatement", "problem statement must be at least 50 characters")
	}
	if len(clean) > MaxProblemStatementLen {
		return "", domain.NewValidationError("problemStatement", "problem statement cannot exceed 5000 characters")
	}
	for _, re := range forbiddenRes {
		if re.MatchString(clean) {
			return "", domain.NewValidationError("problemStatement", "problem statement contains forbidden patterns")
		}
	}

	return clean, nil
}

// Code validates a submitted solution, returning the trimmed text.
func Code(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", domain.NewValidationError("code", "code cannot be empty")
	}
	if len(code) > MaxCodeLen {
		return "", domain.NewValidationError("code", "code cannot exceed 10,000 characters")
	}
	return strings.TrimSpace(code), nil
}

// Language validates the declared solution language.
func Language(lang string) (domain.Language, error) {
	l := domain.Language(lang)
	if !l.Valid() {
		return "", domain.NewValidationError("language", "invalid language")
	}
	return l, nil
}

// SessionID validates the opaque browser session identifier. Both UUIDs and
// the legacy session_<ts>_<rand> format are accepted.
func SessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return domain.NewValidationError("sessionId", "session ID is required")
	}
	if _, err := uuid.Parse(sessionID); err == nil {
		return nil
	}
	if customSessionRe.MatchString(sessionID) {
		return nil
	}
	return domain.NewValidationError("sessionId", "invalid session ID format")
}

// ProblemSessionID validates and parses a problem session identifier.
func ProblemSessionID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("problemSessionId", "invalid problem session ID")
	}
	return parsed, nil
}

// HintLevel validates a client-claimed hint level (the count of hints it
// believes exist, 0..5).
func HintLevel(level int) error {
	if level < 0 {
		return domain.NewValidationError("currentHintLevel", "hint level must be non-negative")
	}
	if level > domain.MaxHintLevel {
		return domain.NewValidationError("currentHintLevel", "maximum hint level is 5")
	}
	return nil
}
