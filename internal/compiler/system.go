package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ludb/internal/ir"
)

// CompileSystems compiles every system under the "system" field of v, in
// declaration order.
func CompileSystems(v cue.Value) ([]*ir.SystemSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("system"))
	if !root.Exists() {
		return nil, nil
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []*ir.SystemSpec
	for iter.Next() {
		spec, err := CompileSystem(iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// CompileSystem parses one system struct, e.g.
//
//	spec, err := CompileSystem(v.LookupPath(cue.ParsePath("system.tandem")))
func CompileSystem(v cue.Value) (*ir.SystemSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.SystemSpec{}
	if labels := v.Path().Selectors(); len(labels) > 0 {
		spec.Name = labels[len(labels)-1].Unquoted()
	}

	if d := v.LookupPath(cue.ParsePath("description")); d.Exists() {
		desc, err := d.String()
		if err != nil {
			return nil, &CompileError{Field: "description", Message: "must be a string", Pos: d.Pos()}
		}
		spec.Description = desc
	}

	if o := v.LookupPath(cue.ParsePath("objective")); o.Exists() {
		node, err := compileNode(o, "objective")
		if err != nil {
			return nil, err
		}
		spec.Objective = &node
	}

	c := v.LookupPath(cue.ParsePath("constraint"))
	if !c.Exists() {
		return spec, nil
	}
	iter, err := c.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		node, err := compileNode(iter.Value(), "constraint."+name)
		if err != nil {
			return nil, err
		}
		spec.Constraints = append(spec.Constraints, ir.ConstraintSpec{Name: name, Node: node})
	}
	return spec, nil
}

// compileNode parses a node struct. Several node fields on one struct are
// kept as written; Validate reports them.
func compileNode(v cue.Value, field string) (ir.NodeSpec, error) {
	var n ir.NodeSpec

	if v.IncompleteKind() != cue.StructKind {
		return n, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("node must be a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}

	iter, err := v.Fields()
	if err != nil {
		return n, formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Selector().Unquoted()
		val := iter.Value()
		path := field + "." + label

		switch label {
		case ir.KindVar:
			id, err := val.Int64()
			if err != nil {
				return n, &CompileError{Field: path, Message: "variable id must be an integer", Pos: val.Pos()}
			}
			i := int(id)
			n.Var = &i
		case ir.KindLit:
			text, err := literalText(val)
			if err != nil {
				return n, &CompileError{Field: path, Message: err.Error(), Pos: val.Pos()}
			}
			num := ir.Number(text)
			n.Lit = &num
		case ir.KindAdd, ir.KindSub, ir.KindMul, ir.KindDiv, ir.KindGeq:
			operands, err := compileOperands(val, path)
			if err != nil {
				return n, err
			}
			switch label {
			case ir.KindAdd:
				n.Add = operands
			case ir.KindSub:
				n.Sub = operands
			case ir.KindMul:
				n.Mul = operands
			case ir.KindDiv:
				n.Div = operands
			case ir.KindGeq:
				n.Geq = operands
			}
		default:
			return n, &CompileError{
				Field:   path,
				Message: fmt.Sprintf("unknown node field %q", label),
				Pos:     val.Pos(),
			}
		}
	}
	return n, nil
}

func compileOperands(v cue.Value, field string) ([]ir.NodeSpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "operands must be a list", Pos: v.Pos()}
	}
	operands := []ir.NodeSpec{}
	for i := 0; iter.Next(); i++ {
		child, err := compileNode(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		operands = append(operands, child)
	}
	return operands, nil
}

// literalText returns the source text of a number or the content of a string.
func literalText(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return v.String()
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		if !v.IsConcrete() {
			return "", fmt.Errorf("literal must be concrete")
		}
		b, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("literal must be a number or string, got %v", v.IncompleteKind())
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
