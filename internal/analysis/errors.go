package analysis

import (
	"fmt"
	"strings"

	"github.com/roach88/ludb/internal/compiler"
)

// InvalidSystemError reports a system rejected before any simplification:
// it failed validation, or a node could not be built in the session's domain.
type InvalidSystemError struct {
	System string
	Errors []compiler.ValidationError
	Err    error
}

func (e *InvalidSystemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("system %q: %v", e.System, e.Err)
	}
	msgs := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("system %q is invalid: %s", e.System, strings.Join(msgs, "; "))
}

func (e *InvalidSystemError) Unwrap() error {
	return e.Err
}
