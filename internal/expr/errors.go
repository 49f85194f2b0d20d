package expr

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes simplification failures.
type ErrorCode string

const (
	// CodeNonlinearTerm: a product or quotient left the affine representation.
	CodeNonlinearTerm ErrorCode = "NONLINEAR_TERM"

	// CodeDivisionByZero: the divisor's constant, or a divisor coefficient, is zero.
	CodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// CodeMalformedExpression: unknown node, nil child, misplaced Geq, or a
	// constraint operation on a non-constraint root.
	CodeMalformedExpression ErrorCode = "MALFORMED_EXPRESSION"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Code.
var (
	ErrNonlinearTerm       = errors.New("expr: nonlinear term")
	ErrDivisionByZero      = errors.New("expr: division by zero")
	ErrMalformedExpression = errors.New("expr: malformed expression")
)

var sentinels = map[ErrorCode]error{
	CodeNonlinearTerm:       ErrNonlinearTerm,
	CodeDivisionByZero:      ErrDivisionByZero,
	CodeMalformedExpression: ErrMalformedExpression,
}

// Error is a simplification failure. It aborts the expression being
// simplified; retrying the same input fails the same way.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Op is the operator whose combination failed, zero when not applicable.
	Op Op

	// VarID is the variable involved, or -1.
	VarID int

	// Message is a human-readable description.
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Op != 0 && e.VarID >= 0:
		return fmt.Sprintf("%s: %s (op=%s, var=s_%d)", e.Code, e.Message, e.Op, e.VarID)
	case e.Op != 0:
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Is matches the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	return sentinels[e.Code] == target
}

// IsNonlinear reports whether err is a NONLINEAR_TERM failure.
func IsNonlinear(err error) bool { return errors.Is(err, ErrNonlinearTerm) }

// IsDivisionByZero reports whether err is a DIVISION_BY_ZERO failure.
func IsDivisionByZero(err error) bool { return errors.Is(err, ErrDivisionByZero) }

// IsMalformed reports whether err is a MALFORMED_EXPRESSION failure.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformedExpression) }

// CodeOf returns the code of the *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func nonlinear(op Op, id int) *Error {
	return &Error{
		Code:    CodeNonlinearTerm,
		Op:      op,
		VarID:   id,
		Message: "both operands depend on the same variable",
	}
}

func strictNonlinear(op Op, id int) *Error {
	return &Error{
		Code:    CodeNonlinearTerm,
		Op:      op,
		VarID:   id,
		Message: "both operands depend on variables",
	}
}

func divisionByZero(id int, msg string) *Error {
	return &Error{Code: CodeDivisionByZero, Op: OpDiv, VarID: id, Message: msg}
}

func malformed(op Op, msg string) *Error {
	return &Error{Code: CodeMalformedExpression, Op: op, VarID: -1, Message: msg}
}
