package expr

import (
	"fmt"

	"github.com/roach88/ludb/internal/num"
)

// Node is an expression tree node. The variants are Variable, Literal and Binary.
type Node[N any] interface {
	node(N)
}

// Variable is a FIFO delay parameter. Ids must be unique within one
// constraint system.
type Variable[N any] struct {
	ID int
}

// Literal is a numeric constant.
type Literal[N any] struct {
	Value N
}

// Binary combines two subtrees. A Binary with Op Geq is a constraint and is
// valid only at the root of a tree.
type Binary[N any] struct {
	Op    Op
	Left  Node[N]
	Right Node[N]
}

func (Variable[N]) node(N) {}
func (Literal[N]) node(N)  {}
func (Binary[N]) node(N)   {}

// Op is the operator of a Binary node.
type Op int

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpGeq
)

var opSymbols = map[Op]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpGeq: ">=",
}

var opNames = map[Op]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpGeq: "geq",
}

// Symbol returns the operator's infix symbol.
func (o Op) Symbol() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return "?"
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Var returns the variable leaf for id.
func Var[N any](id int) Node[N] {
	return Variable[N]{ID: id}
}

// Lit returns the literal leaf for v.
func Lit[N any](v N) Node[N] {
	return Literal[N]{Value: v}
}

// ZeroLit returns a literal holding alg's zero.
func ZeroLit[N any](alg num.Algebra[N]) Node[N] {
	return Literal[N]{Value: alg.Zero()}
}

func Add[N any](l, r Node[N]) Node[N] { return Binary[N]{Op: OpAdd, Left: l, Right: r} }

func Sub[N any](l, r Node[N]) Node[N] { return Binary[N]{Op: OpSub, Left: l, Right: r} }

func Mul[N any](l, r Node[N]) Node[N] { return Binary[N]{Op: OpMul, Left: l, Right: r} }

func Div[N any](l, r Node[N]) Node[N] { return Binary[N]{Op: OpDiv, Left: l, Right: r} }

// Geq returns the constraint l >= r.
func Geq[N any](l, r Node[N]) Node[N] { return Binary[N]{Op: OpGeq, Left: l, Right: r} }

// Sum folds terms left to right with Add. It returns nil for no terms.
func Sum[N any](terms ...Node[N]) Node[N] {
	if len(terms) == 0 {
		return nil
	}
	acc := terms[0]
	for _, t := range terms[1:] {
		acc = Add(acc, t)
	}
	return acc
}

// IsConstraint reports whether n is a Geq root.
func IsConstraint[N any](n Node[N]) bool {
	b, ok := n.(Binary[N])
	return ok && b.Op == OpGeq
}
