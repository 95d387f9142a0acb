package prompt

import (
	"strings"
	"testing"

	"github.com/hintforge/hintforge/internal/domain"
)

func TestAnalyzeProblem_EmbedsStatementVerbatim(t *testing.T) {
	statement := "Given an array of integers nums and a target, return indices of the two numbers that add up to target."

	pair := AnalyzeProblem(statement)

	if !strings.Contains(pair.User, statement) {
		t.Error("user prompt must contain the problem statement verbatim")
	}
	if strings.Contains(pair.User, "{problemStatement}") {
		t.Error("placeholder left unsubstituted")
	}
	if pair.System != SystemPrompt() {
		t.Error("system prompt must be the invariant tutor prompt")
	}
	if !strings.Contains(pair.User, `"patterns"`) || !strings.Contains(pair.User, `"difficulty"`) {
		t.Error("user prompt must specify the JSON response contract")
	}
}

func TestGenerateHint_Substitution(t *testing.T) {
	patterns := []string{"Two Pointers", "Hash Map"}
	constraints := []domain.Constraint{{Key: "n", Value: "1 <= n <= 10^5"}}

	pair := GenerateHint(3, patterns, constraints)

	if !strings.Contains(pair.User, "Current Hint Level: 3 out of 5") {
		t.Error("hint level not substituted")
	}
	if !strings.Contains(pair.User, "received 2 hints before") {
		t.Error("previous hint count not substituted")
	}
	if !strings.Contains(pair.User, "Two Pointers, Hash Map") {
		t.Error("patterns not joined into readable list")
	}
	if !strings.Contains(pair.User, `"key":"n"`) {
		t.Error("constraints not inlined as JSON")
	}
	if strings.Contains(pair.User, "{") && strings.Contains(pair.User, "{patterns}") {
		t.Error("placeholder left unsubstituted")
	}
}

func TestGenerateHint_EmptyContext(t *testing.T) {
	pair := GenerateHint(1, nil, nil)

	if !strings.Contains(pair.User, "Key constraints: []") {
		t.Error("empty constraints should render as []")
	}
}

func TestGenerateHint_Deterministic(t *testing.T) {
	a := GenerateHint(2, []string{"DFS"}, nil)
	b := GenerateHint(2, []string{"DFS"}, nil)
	if a != b {
		t.Error("rendering must be deterministic")
	}
}

func TestAnalyzeSolution_Substitution(t *testing.T) {
	code := "def solve(nums):\n    return sorted(nums)"

	pair := AnalyzeSolution(code, domain.LangPython, []string{"Sorting"}, nil)

	if !strings.Contains(pair.User, code) {
		t.Error("code not embedded verbatim")
	}
	if !strings.Contains(pair.User, "Student Code (python):") {
		t.Error("language not substituted")
	}
	if !strings.Contains(pair.User, `"correctness"`) {
		t.Error("response contract missing correctness field")
	}
}

func TestForbidCodeSuffix(t *testing.T) {
	if !strings.Contains(ForbidCodeSuffix, "Do NOT include any code") {
		t.Error("suffix must forbid code")
	}
}
