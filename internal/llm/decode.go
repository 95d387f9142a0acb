package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload indicates provider text that should have contained
// JSON could not be decoded.
var ErrMalformedPayload = errors.New("malformed JSON payload")

// ExtractJSON strips a surrounding fenced code block from provider text,
// if present. Fences may carry a language tag (```json). Text without a
// fence is returned trimmed.
func ExtractJSON(text string) string {
	trimmed := strings.TrimSpace(text)

	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}

	inner := trimmed[start+3:]
	// Drop the optional language tag on the opening fence line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(inner[:nl])
		if firstLine == "" || isFenceTag(firstLine) {
			inner = inner[nl+1:]
		}
	}

	if end := strings.LastIndex(inner, "```"); end >= 0 {
		inner = inner[:end]
	}

	return strings.TrimSpace(inner)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// DecodeJSON decodes provider text into v, stripping a fenced code block
// first. It guarantees syntactic validity only; callers must default or
// validate individual fields themselves.
func DecodeJSON(text string, v any) error {
	payload := ExtractJSON(text)
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
