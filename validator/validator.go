// validator/validator.go
//
// The code-correctness collaborator. The coordinator calls Validate off its
// event loop; implementations must be safe for concurrent use.
package validator

import (
	"context"
	"fmt"

	"github.com/bugbash/gameserver/bugs"
)

// Request carries a submitted fix plus the round's test cases and assigned
// bug classes.
type Request struct {
	Code      string
	Language  string
	TestCases []bugs.TestCase
	Bugs      []bugs.Descriptor
}

// MethodResult is the pass/fail verdict for one code unit.
type MethodResult struct {
	Method string `json:"method"`
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

// Report is the full validation outcome.
type Report struct {
	Valid   bool           `json:"valid"`
	Verdict string         `json:"verdict"`
	Results []MethodResult `json:"results"`
}

type Validator interface {
	Validate(ctx context.Context, req Request) (*Report, error)
}

// FallbackTestCases is used when a room has no configured test cases.
var FallbackTestCases = []bugs.TestCase{
	{Method: "", Name: "code parses"},
}

// Static is the in-process validator: a syntax check plus per-method residual
// bug-signature checks. It never executes submitted code.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (v *Static) Validate(ctx context.Context, req Request) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	cases := req.TestCases
	if len(cases) == 0 {
		cases = FallbackTestCases
	}

	syntaxOK := bugs.SyntaxOK(req.Code)

	report := &Report{Valid: true}
	failed := 0
	for _, tc := range cases {
		passed := syntaxOK && methodClean(req, tc.Method)
		if !passed {
			failed++
			report.Valid = false
		}
		report.Results = append(report.Results, MethodResult{
			Method: tc.Method,
			Name:   tc.Name,
			Passed: passed,
		})
	}

	switch {
	case !syntaxOK:
		report.Verdict = "code does not parse"
	case failed == 0:
		report.Verdict = "all checks passed"
	default:
		report.Verdict = fmt.Sprintf("%d of %d checks failed", failed, len(cases))
	}
	return report, nil
}

// methodClean reports whether no assigned bug targeting the method is still
// present in the code.
func methodClean(req Request, method string) bool {
	for _, b := range req.Bugs {
		if method != "" && b.Method != method {
			continue
		}
		if !bugs.GuardPresent(req.Code, b.ID) {
			return false
		}
	}
	return true
}
