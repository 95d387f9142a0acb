package tutor

import "regexp"

// pseudocodeLevel is the first hint level at which code-like content is
// sanctioned.
const pseudocodeLevel = 4

// codeLeakRes match code-like lexical shapes across common languages:
// function/class declarations, brace-delimited control flow, and variable
// declaration keywords. This is a best-effort heuristic, not a parser; it
// will both under- and over-trigger (prose mentioning "class Foo" matches),
// which is accepted. See ContainsCodeSolution.
var codeLeakRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)function\s+\w+\s*\(`),
	regexp.MustCompile(`(?i)def\s+\w+\s*\(`),
	regexp.MustCompile(`(?i)class\s+\w+`),
	regexp.MustCompile(`for\s*\(.*\)\s*\{`),
	regexp.MustCompile(`while\s*\(.*\)\s*\{`),
	regexp.MustCompile(`if\s*\(.*\)\s*\{`),
	regexp.MustCompile(`const\s+\w+\s*=`),
	regexp.MustCompile(`let\s+\w+\s*=`),
	regexp.MustCompile(`var\s+\w+\s*=`),
}

// ContainsCodeSolution reports whether hint text appears to contain runnable
// code that should not be revealed at the given level. Levels 4 and up allow
// pseudocode, so they never trigger.
func ContainsCodeSolution(text string, level int) bool {
	if level >= pseudocodeLevel {
		return false
	}
	for _, re := range codeLeakRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
