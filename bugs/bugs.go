// bugs/bugs.go
package bugs

import (
	"math/rand"
	"strings"
)

// Descriptor identifies one known bug class in a code sample.
type Descriptor struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Difficulty  string `json:"difficulty"`
	Method      string `json:"method,omitempty"`
}

// TestCase is an opaque check handed to the validator collaborator.
type TestCase struct {
	Method string `json:"method"`
	Name   string `json:"name"`
}

// Sample is one correct code artifact plus the bugs that can be injected
// into it.
type Sample struct {
	ID          string
	Language    string
	CorrectCode string
	Bugs        []Descriptor
	TestCases   []TestCase
}

// Assign pops one bug per debugger at random from the sample's pool, without
// replacement. Debuggers beyond the pool size receive no assignment. The
// returned slice preserves debugger order and drives injection order.
func Assign(sample Sample, debuggers []string, rng *rand.Rand) (map[string]Descriptor, []Descriptor) {
	pool := make([]Descriptor, len(sample.Bugs))
	copy(pool, sample.Bugs)

	assigned := make(map[string]Descriptor)
	var ordered []Descriptor
	for _, id := range debuggers {
		if len(pool) == 0 {
			break
		}
		i := rng.Intn(len(pool))
		bug := pool[i]
		pool = append(pool[:i], pool[i+1:]...)
		assigned[id] = bug
		ordered = append(ordered, bug)
	}
	return assigned, ordered
}

// Inject applies each bug's transformation to the correct code, in order.
// A transform whose pattern does not match leaves the code unchanged.
func Inject(correctCode string, assigned []Descriptor) string {
	code := correctCode
	for _, bug := range assigned {
		guard, ok := guards[bug.ID]
		if !ok {
			continue
		}
		code = strings.Replace(code, guard, "", 1)
	}
	return code
}

// DetectResidual reports the assigned bugs whose original guard clause is
// missing from the submitted code.
func DetectResidual(code string, assigned []Descriptor) []Descriptor {
	var residual []Descriptor
	for _, bug := range assigned {
		guard, ok := guards[bug.ID]
		if !ok {
			continue
		}
		if !strings.Contains(code, guard) {
			residual = append(residual, bug)
		}
	}
	return residual
}

// GuardPresent reports whether a single bug's guard clause survives in code.
func GuardPresent(code, bugID string) bool {
	guard, ok := guards[bugID]
	if !ok {
		return true
	}
	return strings.Contains(code, guard)
}

// IsExactFix reports whether submitted code matches the correct code after
// trimming surrounding whitespace.
func IsExactFix(submitted, correctCode string) bool {
	return strings.TrimSpace(submitted) == strings.TrimSpace(correctCode)
}

// SyntaxOK is a cheap structural validity check: brackets must balance
// outside of string literals.
func SyntaxOK(code string) bool {
	var stack []byte
	var inString byte
	escaped := false

	for i := 0; i < len(code); i++ {
		c := code[i]

		if inString != 0 {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == inString {
				inString = 0
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			inString = c
		case '{', '(', '[':
			stack = append(stack, c)
		case '}', ')', ']':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if (c == '}' && open != '{') || (c == ')' && open != '(') || (c == ']' && open != '[') {
				return false
			}
		}
	}
	return len(stack) == 0 && inString == 0
}
