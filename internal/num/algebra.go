package num

import (
	"errors"
	"fmt"
	"strings"
)

// Algebra is the numeric contract. Every operation is total over the
// implementation's domain except Div, which callers invoke only with a
// nonzero divisor.
type Algebra[N any] interface {
	// Name is a stable identifier of the implementation, used for provenance.
	Name() string

	Zero() N
	One() N
	FromInt(n int64) N

	// Parse reads an integer, a decimal ("1.25", "1e-3") or a fraction ("3/2").
	// Domains with special values also accept "inf", "-inf" and "nan".
	Parse(s string) (N, error)

	Add(a, b N) N
	Sub(a, b N) N
	Mul(a, b N) N
	Div(a, b N) N

	Abs(a N) N
	Negate(a N) N
	// Diff is the nonnegative magnitude |a - b|.
	Diff(a, b N) N
	Max(a, b N) N
	Min(a, b N) N

	IsZero(a N) bool
	Cmp(a, b N) int

	IsFinite(a N) bool
	IsInfinite(a N) bool
	IsNaN(a N) bool

	// Format renders a value for diagnostics. Integers carry no denominator.
	Format(a N) string
}

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("num: invalid numeric literal")

// ParseError reports a literal that a domain cannot represent.
type ParseError struct {
	Domain string
	Input  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("num: %s: cannot parse %q: %v", e.Domain, e.Input, e.Err)
	}
	return fmt.Sprintf("num: %s: cannot parse %q", e.Domain, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse as a match so callers can test with errors.Is.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// MustParse is like Algebra.Parse but panics on error.
// Use only in tests or for literals known to be valid.
func MustParse[N any](alg Algebra[N], s string) N {
	v, err := alg.Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Equal reports whether a and b are numerically equal in alg's domain.
func Equal[N any](alg Algebra[N], a, b N) bool {
	return alg.Cmp(a, b) == 0
}

// Sum folds values with alg.Add, starting from zero.
func Sum[N any](alg Algebra[N], values ...N) N {
	acc := alg.Zero()
	for _, v := range values {
		acc = alg.Add(acc, v)
	}
	return acc
}

// splitFraction splits "p/q" into its two halves. ok is false when s holds no slash.
func splitFraction(s string) (p, q string, ok bool) {
	p, q, ok = strings.Cut(s, "/")
	if !ok {
		return s, "", false
	}
	return strings.TrimSpace(p), strings.TrimSpace(q), true
}

var errZeroDenominator = errors.New("zero denominator")

const panicDivisionByZero = "num: Div: division by zero"
