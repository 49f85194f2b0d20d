package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SystemSpec is one named constraint system as written by a user.
type SystemSpec struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Objective   *NodeSpec        `json:"objective,omitempty" yaml:"objective,omitempty"`
	Constraints []ConstraintSpec `json:"constraints" yaml:"constraints"`
}

// ConstraintSpec names one constraint tree. Its root must be a geq node.
type ConstraintSpec struct {
	Name string   `json:"name" yaml:"name"`
	Node NodeSpec `json:"node" yaml:"node"`
}

// NodeSpec is an expression node. Exactly one field is set: Var for a
// variable leaf, Lit for a literal, or one operator holding two operands.
type NodeSpec struct {
	Var *int       `json:"var,omitempty" yaml:"var,omitempty"`
	Lit *Number    `json:"lit,omitempty" yaml:"lit,omitempty"`
	Add []NodeSpec `json:"add,omitempty" yaml:"add,omitempty"`
	Sub []NodeSpec `json:"sub,omitempty" yaml:"sub,omitempty"`
	Mul []NodeSpec `json:"mul,omitempty" yaml:"mul,omitempty"`
	Div []NodeSpec `json:"div,omitempty" yaml:"div,omitempty"`
	Geq []NodeSpec `json:"geq,omitempty" yaml:"geq,omitempty"`
}

// Node kinds reported by NodeSpec.Kinds.
const (
	KindVar = "var"
	KindLit = "lit"
	KindAdd = "add"
	KindSub = "sub"
	KindMul = "mul"
	KindDiv = "div"
	KindGeq = "geq"
)

// Kinds lists the fields set on n, in declaration order. A well-formed node
// has exactly one.
func (n NodeSpec) Kinds() []string {
	var kinds []string
	if n.Var != nil {
		kinds = append(kinds, KindVar)
	}
	if n.Lit != nil {
		kinds = append(kinds, KindLit)
	}
	for _, op := range n.operators() {
		if op.operands != nil {
			kinds = append(kinds, op.kind)
		}
	}
	return kinds
}

// Kind returns the single kind of n, or "" when n is empty or ambiguous.
func (n NodeSpec) Kind() string {
	if kinds := n.Kinds(); len(kinds) == 1 {
		return kinds[0]
	}
	return ""
}

// Operands returns the operands of an operator node, or nil for a leaf.
func (n NodeSpec) Operands() []NodeSpec {
	kind := n.Kind()
	for _, op := range n.operators() {
		if op.kind == kind {
			return op.operands
		}
	}
	return nil
}

type operator struct {
	kind     string
	operands []NodeSpec
}

func (n NodeSpec) operators() []operator {
	return []operator{
		{KindAdd, n.Add},
		{KindSub, n.Sub},
		{KindMul, n.Mul},
		{KindDiv, n.Div},
		{KindGeq, n.Geq},
	}
}

// VarNode returns a variable leaf spec.
func VarNode(id int) NodeSpec { return NodeSpec{Var: &id} }

// LitNode returns a literal leaf spec.
func LitNode(text string) NodeSpec {
	n := Number(text)
	return NodeSpec{Lit: &n}
}

// Number is the exact text of a numeric literal: an integer, a decimal or a
// fraction such as "3/2". JSON and YAML inputs may give it as a number or a
// string; the text is kept either way.
type Number string

func (n Number) String() string { return string(n) }

// UnmarshalJSON accepts a JSON number or string without passing through float64.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return fmt.Errorf("lit: %w", err)
	}
	*n = Number(num.String())
	return nil
}

// UnmarshalYAML keeps the scalar's source text.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: lit must be a scalar", node.Line)
	}
	*n = Number(node.Value)
	return nil
}

// Value returns the canonical form of the node.
func (n NodeSpec) Value() Value {
	switch {
	case n.Var != nil:
		return Object{KindVar: Int(*n.Var)}
	case n.Lit != nil:
		return Object{KindLit: String(*n.Lit)}
	}
	obj := Object{}
	for _, op := range n.operators() {
		if op.operands == nil {
			continue
		}
		arr := make(Array, len(op.operands))
		for i, child := range op.operands {
			arr[i] = child.Value()
		}
		obj[op.kind] = arr
	}
	return obj
}

// Value returns the canonical form of the system. Constraint order is kept.
func (s SystemSpec) Value() Value {
	constraints := make(Array, len(s.Constraints))
	for i, c := range s.Constraints {
		constraints[i] = Object{"name": String(c.Name), "node": c.Node.Value()}
	}
	obj := Object{
		"name":        String(s.Name),
		"constraints": constraints,
	}
	if s.Description != "" {
		obj["description"] = String(s.Description)
	}
	if s.Objective != nil {
		obj["objective"] = s.Objective.Value()
	}
	return obj
}

// String renders n in prefix form, for error messages.
func (n NodeSpec) String() string {
	switch kind := n.Kind(); kind {
	case KindVar:
		return "s_" + strconv.Itoa(*n.Var)
	case KindLit:
		return string(*n.Lit)
	case "":
		return "<invalid>"
	default:
		var b bytes.Buffer
		b.WriteString(kind)
		b.WriteByte('(')
		for i, c := range n.Operands() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.String())
		}
		b.WriteByte(')')
		return b.String()
	}
}
