// Package prompt renders system and user instruction pairs for the AI
// gateway. Rendering is pure string substitution over fixed templates and
// cannot fail.
package prompt

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hintforge/hintforge/internal/domain"
)

// Pair is a rendered system + user prompt.
type Pair struct {
	System string
	User   string
}

// tutorSystemPrompt encodes the pedagogical contract shared by every task.
const tutorSystemPrompt = `You are an expert computer science tutor specializing in data structures and algorithms. Your role is to guide students through problem-solving using the Socratic method.

CORE PRINCIPLES:
1. NEVER provide complete solutions or full code implementations
2. Guide through reasoning, not answers
3. Focus on pattern recognition and algorithmic thinking
4. Encourage independent problem-solving

RESPONSE STYLE:
- Clear, concise, educational
- Use analogies and examples
- Break complex concepts into digestible parts
- Celebrate progress and correct thinking

FORBIDDEN ACTIONS:
- Writing complete solution code
- Revealing optimal algorithms directly
- Solving the problem for the student
- Providing step-by-step code walkthroughs before student attempts`

const analyzeProblemTemplate = `You are a DSA expert. Analyze this coding problem thoroughly.

Problem:
"""
{problemStatement}
"""

Provide your analysis as a JSON object with this exact format:
{
  "patterns": ["Pattern1", "Pattern2"],
  "constraints": [{"key": "name", "value": "detail"}],
  "examples": [{"input": "input description", "output": "output description"}],
  "difficulty": "easy",
  "timeComplexity": "O(n) - explanation of why",
  "spaceComplexity": "O(n) - explanation of why"
}

For the "patterns" field, identify algorithmic patterns like: Hash Map, Two Pointers, Sliding Window, Binary Search, DFS, BFS, Dynamic Programming, Greedy, Stack, Queue, Recursion, Sorting, etc.

For "difficulty", choose exactly one: "easy", "medium", or "hard".

For complexity, provide the optimal solution's Big O notation with a brief explanation.

Respond with ONLY the JSON object. No other text.`

const generateHintTemplate = `You are an expert DSA tutor helping a student solve a coding problem. Provide a detailed, educational hint.

Problem Context:
- Patterns involved: {patterns}
- Key constraints: {constraints}
- Student has received {previousHintCount} hints before this one

Current Hint Level: {hintLevel} out of 5

Hint Level Guidelines:
- Level 1: Ask 2-3 thought-provoking questions about the problem structure. Help them understand what the problem is really asking.
- Level 2: Suggest the general approach or data structure to consider (e.g., "A hash map could help here because..."). Explain WHY this approach works.
- Level 3: Describe the high-level algorithm step by step without any code. Walk through the logic clearly.
- Level 4: Provide pseudocode or step-by-step implementation guide. Be specific about the logic flow.
- Level 5: Discuss edge cases, optimizations, and common pitfalls. Help them perfect their solution.

IMPORTANT:
- Write at least 100 words for a complete, helpful hint
- Build on the context of previous hints
- Do NOT provide complete working code
- Be encouraging and educational
- Use examples where helpful

Provide your hint now:`

const analyzeSolutionTemplate = `Analyze the following student solution for a coding problem. Provide educational feedback.

Problem Patterns: {patterns}
Problem Constraints: {constraints}

Student Code ({language}):
"""
{code}
"""

Provide analysis in JSON format:
{
  "explanation": "What does this code do? Explain the approach.",
  "timeComplexity": "Big O time complexity with explanation",
  "spaceComplexity": "Big O space complexity with explanation",
  "issues": [
    {"type": "bug|inefficiency|edge-case", "description": "specific issue"}
  ],
  "suggestions": ["improvement suggestion 1", "improvement suggestion 2"],
  "correctness": "correct|partial|incorrect|unknown"
}

Be constructive and educational. If the solution is incorrect, guide toward the right approach without solving it for them.`

// ForbidCodeSuffix is appended to a hint prompt when a regeneration must not
// contain code.
const ForbidCodeSuffix = "\n\nIMPORTANT: Do NOT include any code. Only provide conceptual guidance."

// SystemPrompt returns the invariant tutor system prompt.
func SystemPrompt() string {
	return tutorSystemPrompt
}

// AnalyzeProblem renders the pattern-identification prompt pair for a
// problem statement. The statement is embedded verbatim.
func AnalyzeProblem(statement string) Pair {
	return Pair{
		System: tutorSystemPrompt,
		User:   strings.Replace(analyzeProblemTemplate, "{problemStatement}", statement, 1),
	}
}

// GenerateHint renders the hint prompt pair for the given level and problem
// context. Pattern names join into a readable list; constraints stay
// machine-parseable inline JSON.
func GenerateHint(level int, patterns []string, constraints []domain.Constraint) Pair {
	user := generateHintTemplate
	user = strings.Replace(user, "{hintLevel}", strconv.Itoa(level), 1)
	user = strings.Replace(user, "{previousHintCount}", strconv.Itoa(level-1), 1)
	user = strings.Replace(user, "{patterns}", strings.Join(patterns, ", "), 1)
	user = strings.Replace(user, "{constraints}", encodeConstraints(constraints), 1)

	return Pair{System: tutorSystemPrompt, User: user}
}

// AnalyzeSolution renders the code-review prompt pair for a submission.
func AnalyzeSolution(code string, language domain.Language, patterns []string, constraints []domain.Constraint) Pair {
	user := analyzeSolutionTemplate
	user = strings.Replace(user, "{patterns}", strings.Join(patterns, ", "), 1)
	user = strings.Replace(user, "{constraints}", encodeConstraints(constraints), 1)
	user = strings.Replace(user, "{language}", string(language), 1)
	user = strings.Replace(user, "{code}", code, 1)

	return Pair{System: tutorSystemPrompt, User: user}
}

func encodeConstraints(constraints []domain.Constraint) string {
	if len(constraints) == 0 {
		return "[]"
	}
	data, err := json.Marshal(constraints)
	if err != nil {
		// Constraint is two plain strings; marshal cannot realistically fail.
		return "[]"
	}
	return string(data)
}
