package compiler

import (
	"fmt"

	"github.com/roach88/ludb/internal/expr"
	"github.com/roach88/ludb/internal/ir"
	"github.com/roach88/ludb/internal/num"
)

// BuildError reports a node that cannot become an expression tree.
// Literal parse failures wrap the numeric domain's *num.ParseError.
type BuildError struct {
	Field string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// BuildExpression converts an expression spec into a tree over alg's domain.
// A geq anywhere in n is rejected.
func BuildExpression[N any](alg num.Algebra[N], n ir.NodeSpec) (expr.Node[N], error) {
	return build(alg, n, "expression")
}

// BuildConstraint converts a constraint spec, whose root must be geq.
func BuildConstraint[N any](alg num.Algebra[N], n ir.NodeSpec) (expr.Node[N], error) {
	if n.Kind() != ir.KindGeq {
		return nil, &BuildError{Field: "constraint", Err: fmt.Errorf("root must be geq, got %s", n)}
	}
	operands := n.Operands()
	if len(operands) != 2 {
		return nil, &BuildError{Field: "constraint.geq", Err: fmt.Errorf("geq takes two operands, got %d", len(operands))}
	}
	l, err := build(alg, operands[0], "constraint.geq[0]")
	if err != nil {
		return nil, err
	}
	r, err := build(alg, operands[1], "constraint.geq[1]")
	if err != nil {
		return nil, err
	}
	return expr.Geq(l, r), nil
}

func build[N any](alg num.Algebra[N], n ir.NodeSpec, field string) (expr.Node[N], error) {
	kind := n.Kind()
	switch kind {
	case ir.KindVar:
		return expr.Var[N](*n.Var), nil
	case ir.KindLit:
		v, err := alg.Parse(n.Lit.String())
		if err != nil {
			return nil, &BuildError{Field: field + ".lit", Err: err}
		}
		return expr.Lit(v), nil
	case "":
		return nil, &BuildError{Field: field, Err: fmt.Errorf("node must set exactly one field, got %v", n.Kinds())}
	case ir.KindGeq:
		return nil, &BuildError{Field: field, Err: fmt.Errorf("geq is only valid at a constraint root")}
	}

	operands := n.Operands()
	if len(operands) != 2 {
		return nil, &BuildError{Field: field + "." + kind, Err: fmt.Errorf("%s takes two operands, got %d", kind, len(operands))}
	}
	l, err := build(alg, operands[0], fmt.Sprintf("%s.%s[0]", field, kind))
	if err != nil {
		return nil, err
	}
	r, err := build(alg, operands[1], fmt.Sprintf("%s.%s[1]", field, kind))
	if err != nil {
		return nil, err
	}

	switch kind {
	case ir.KindAdd:
		return expr.Add(l, r), nil
	case ir.KindSub:
		return expr.Sub(l, r), nil
	case ir.KindMul:
		return expr.Mul(l, r), nil
	default:
		return expr.Div(l, r), nil
	}
}
