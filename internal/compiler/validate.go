package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/ludb/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrNodeOneOf           = "E201" // node must set exactly one field
	ErrOperatorArity       = "E202" // operator takes exactly two operands
	ErrNestedGeq           = "E203" // geq only at a constraint root
	ErrConstraintRoot      = "E204" // constraint root must be geq
	ErrObjectiveGeq        = "E205" // objective must not be a constraint
	ErrDuplicateName       = "E206" // duplicate constraint name
	ErrNegativeVariable    = "E207" // variable ids are nonnegative
	ErrEmptyLiteral        = "E208" // literal text is empty
	ErrSystemNameEmpty     = "E209" // system name is required
	ErrSystemEmpty         = "E210" // system has no constraint and no objective
	ErrConstraintNameEmpty = "E211" // constraint name is required
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled system. It returns every error found.
func Validate(spec *ir.SystemSpec) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(spec.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "system name is required",
			Code:    ErrSystemNameEmpty,
		})
	}

	if len(spec.Constraints) == 0 && spec.Objective == nil {
		errs = append(errs, ValidationError{
			Field:   "constraints",
			Message: "system needs at least one constraint or an objective",
			Code:    ErrSystemEmpty,
		})
	}

	if spec.Objective != nil {
		if spec.Objective.Kind() == ir.KindGeq {
			errs = append(errs, ValidationError{
				Field:   "objective",
				Message: "objective must be an expression, not a geq constraint",
				Code:    ErrObjectiveGeq,
			})
			errs = append(errs, validateOperands(*spec.Objective, "objective")...)
		} else {
			errs = append(errs, validateNode(*spec.Objective, "objective")...)
		}
	}

	seen := make(map[string]bool)
	for i, c := range spec.Constraints {
		field := fmt.Sprintf("constraints[%d]", i)
		if c.Name != "" {
			field = "constraint." + c.Name
		}

		switch {
		case strings.TrimSpace(c.Name) == "":
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "constraint name is required",
				Code:    ErrConstraintNameEmpty,
			})
		case seen[c.Name]:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate constraint name: %q", c.Name),
				Code:    ErrDuplicateName,
			})
		}
		seen[c.Name] = true

		kind := c.Node.Kind()
		if len(c.Node.Kinds()) > 1 || kind == "" {
			errs = append(errs, validateNode(c.Node, field)...)
			continue
		}
		if kind != ir.KindGeq {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("constraint root must be geq, got %s", kind),
				Code:    ErrConstraintRoot,
			})
			errs = append(errs, validateNode(c.Node, field)...)
			continue
		}
		errs = append(errs, validateOperands(c.Node, field)...)
	}

	return errs
}

// validateOperands checks an operator node's arity and its operands,
// without rejecting the operator itself.
func validateOperands(n ir.NodeSpec, field string) []ValidationError {
	var errs []ValidationError
	kind := n.Kind()
	ops := n.Operands()
	if len(ops) != 2 {
		errs = append(errs, ValidationError{
			Field:   field + "." + kind,
			Message: fmt.Sprintf("%s takes exactly two operands, got %d", kind, len(ops)),
			Code:    ErrOperatorArity,
		})
	}
	for i, child := range ops {
		errs = append(errs, validateNode(child, fmt.Sprintf("%s.%s[%d]", field, kind, i))...)
	}
	return errs
}

// validateNode checks a node below a constraint root.
func validateNode(n ir.NodeSpec, field string) []ValidationError {
	kinds := n.Kinds()
	if len(kinds) != 1 {
		msg := "node must set exactly one of var, lit, add, sub, mul, div, geq"
		if len(kinds) > 1 {
			msg = fmt.Sprintf("%s; got %s", msg, strings.Join(kinds, ", "))
		}
		return []ValidationError{{Field: field, Message: msg, Code: ErrNodeOneOf}}
	}

	switch kind := kinds[0]; kind {
	case ir.KindVar:
		if *n.Var < 0 {
			return []ValidationError{{
				Field:   field + ".var",
				Message: fmt.Sprintf("variable id must be nonnegative, got %d", *n.Var),
				Code:    ErrNegativeVariable,
			}}
		}
		return nil
	case ir.KindLit:
		if strings.TrimSpace(n.Lit.String()) == "" {
			return []ValidationError{{
				Field:   field + ".lit",
				Message: "literal must not be empty",
				Code:    ErrEmptyLiteral,
			}}
		}
		return nil
	case ir.KindGeq:
		errs := []ValidationError{{
			Field:   field + ".geq",
			Message: "geq is only valid at the root of a constraint",
			Code:    ErrNestedGeq,
		}}
		return append(errs, validateOperands(n, field)...)
	default:
		return validateOperands(n, field)
	}
}
