package harness

import (
	"fmt"

	"github.com/roach88/ludb/internal/analysis"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	// Errors describes each failed expectation.
	Errors []string

	// Report is the analysis report the expectations were checked against.
	Report *analysis.Report
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed expectation and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
