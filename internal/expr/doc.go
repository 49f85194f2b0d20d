// Package expr is the symbolic linear-expression engine behind LUDB constraint
// generation.
//
// Expression trees are built over FIFO delay parameters (variables identified
// by caller-assigned integer ids) and numeric literals, combined with +, -, *
// and /. A constraint is a Geq node at the root of a tree. Trees are immutable
// after construction.
//
// A Simplifier normalizes a tree into an Affine form, one constant plus a map
// from variable id to a nonzero coefficient, and a constraint into a pair of
// affine forms meaning lhs >= rhs. Terms the affine representation cannot hold
// (a product or quotient of two terms depending on the same variable, or a
// division by zero) abort simplification with a typed *Error. No partial result
// is returned alongside an error.
//
// All arithmetic goes through a num.Algebra[N]; the engine never uses native
// operators on values.
package expr
