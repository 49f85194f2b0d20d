package expr

import (
	"fmt"

	"github.com/roach88/ludb/internal/num"
)

const panicNilAlgebra = "expr: New: algebra must not be nil"

// Option configures a Simplifier.
type Option func(*options)

type options struct {
	strict bool
}

// WithStrictLinearity rejects every product whose operands both depend on a
// variable and every quotient whose divisor depends on a variable, not only
// those sharing a variable. Without it, operands over disjoint variables are
// combined coefficient-wise against the other side's constant.
func WithStrictLinearity() Option {
	return func(o *options) { o.strict = true }
}

// Simplifier normalizes expression trees in one numeric domain. It holds no
// mutable state and is safe for concurrent use.
type Simplifier[N any] struct {
	alg    num.Algebra[N]
	strict bool
}

// New returns a Simplifier computing with alg. It panics if alg is nil.
func New[N any](alg num.Algebra[N], opts ...Option) *Simplifier[N] {
	if alg == nil {
		panic(panicNilAlgebra)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Simplifier[N]{alg: alg, strict: o.strict}
}

// Algebra returns the algebra the simplifier computes with.
func (s *Simplifier[N]) Algebra() num.Algebra[N] { return s.alg }

// Strict reports whether WithStrictLinearity is in effect.
func (s *Simplifier[N]) Strict() bool { return s.strict }

// Simplify normalizes a non-constraint expression into affine form.
func (s *Simplifier[N]) Simplify(n Node[N]) (Affine[N], error) {
	return s.simplify(n)
}

// SimplifyConstraint normalizes both sides of a Geq root independently.
func (s *Simplifier[N]) SimplifyConstraint(n Node[N]) (Normalized[N], error) {
	if !IsConstraint(n) {
		return Normalized[N]{}, malformed(0, fmt.Sprintf("constraint root must be geq, got %s", describe(n)))
	}
	b := n.(Binary[N])
	lhs, err := s.simplify(b.Left)
	if err != nil {
		return Normalized[N]{}, err
	}
	rhs, err := s.simplify(b.Right)
	if err != nil {
		return Normalized[N]{}, err
	}
	return Normalized[N]{LHS: lhs, RHS: rhs}, nil
}

// Difference returns LHS - RHS, so the constraint reads Difference >= 0.
func (s *Simplifier[N]) Difference(c Normalized[N]) Affine[N] {
	res, _ := s.combine(OpSub, c.LHS, c.RHS) // subtraction cannot fail
	return res
}

// FromAffine rebuilds the tree constant + Σ coeff·s_id with ids ascending.
func (s *Simplifier[N]) FromAffine(a Affine[N]) Node[N] {
	terms := []Node[N]{Lit(a.Constant)}
	for _, id := range a.Vars() {
		terms = append(terms, Mul(Lit(a.Coefficients[id]), Var[N](id)))
	}
	return Sum(terms...)
}

func (s *Simplifier[N]) simplify(n Node[N]) (Affine[N], error) {
	switch v := n.(type) {
	case nil:
		return Affine[N]{}, malformed(0, "nil node")
	case Variable[N]:
		return Affine[N]{
			Constant:     s.alg.Zero(),
			Coefficients: map[int]N{v.ID: s.alg.One()},
		}, nil
	case Literal[N]:
		return Affine[N]{Constant: v.Value, Coefficients: map[int]N{}}, nil
	case Binary[N]:
		if v.Op == OpGeq {
			return Affine[N]{}, malformed(OpGeq, "constraint node is only valid at the root")
		}
		l, err := s.simplify(v.Left)
		if err != nil {
			return Affine[N]{}, err
		}
		r, err := s.simplify(v.Right)
		if err != nil {
			return Affine[N]{}, err
		}
		return s.combine(v.Op, l, r)
	default:
		return Affine[N]{}, malformed(0, fmt.Sprintf("unrecognized node %s", describe(n)))
	}
}

// combine applies op to two normalized operands.
func (s *Simplifier[N]) combine(op Op, l, r Affine[N]) (Affine[N], error) {
	alg := s.alg
	var (
		constant N
		c        combiner[N]
	)

	switch op {
	case OpAdd:
		constant = alg.Add(l.Constant, r.Constant)
		c.both = func(_ int, a, b N) (N, error) { return alg.Add(a, b), nil }

	case OpSub:
		constant = alg.Sub(l.Constant, r.Constant)
		c.both = func(_ int, a, b N) (N, error) { return alg.Sub(a, b), nil }
		c.rightOnly = func(_ int, b N) (N, error) { return alg.Negate(b), nil }

	case OpMul:
		if s.strict && !l.IsConstant() && !r.IsConstant() {
			return Affine[N]{}, strictNonlinear(OpMul, l.Vars()[0])
		}
		constant = alg.Mul(l.Constant, r.Constant)
		c.both = func(id int, _, _ N) (N, error) { return *new(N), nonlinear(OpMul, id) }
		c.leftOnly = func(_ int, a N) (N, error) { return alg.Mul(a, r.Constant), nil }
		c.rightOnly = func(_ int, b N) (N, error) { return alg.Mul(l.Constant, b), nil }

	case OpDiv:
		if alg.IsZero(r.Constant) {
			return Affine[N]{}, divisionByZero(-1, "divisor constant is zero")
		}
		if s.strict && !r.IsConstant() {
			return Affine[N]{}, &Error{
				Code:    CodeNonlinearTerm,
				Op:      OpDiv,
				VarID:   r.Vars()[0],
				Message: "divisor depends on a variable",
			}
		}
		constant = alg.Div(l.Constant, r.Constant)
		c.both = func(id int, _, _ N) (N, error) { return *new(N), nonlinear(OpDiv, id) }
		c.leftOnly = func(_ int, a N) (N, error) { return alg.Div(a, r.Constant), nil }
		c.rightOnly = func(id int, b N) (N, error) {
			if alg.IsZero(b) {
				return *new(N), divisionByZero(id, "divisor coefficient is zero")
			}
			return alg.Div(l.Constant, b), nil
		}

	default:
		return Affine[N]{}, malformed(op, "unknown operator")
	}

	coeffs, err := merge(alg, l.Coefficients, r.Coefficients, c)
	if err != nil {
		return Affine[N]{}, err
	}
	return Affine[N]{Constant: constant, Coefficients: coeffs}, nil
}

func describe[N any](n Node[N]) string {
	switch v := n.(type) {
	case nil:
		return "nil"
	case Binary[N]:
		return v.Op.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
