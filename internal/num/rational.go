package num

import (
	"math/big"
	"strings"
)

// Rational implements Algebra over *big.Rat.
//
// Every result is a freshly allocated value. Values are never infinite or NaN.
type Rational struct{}

var _ Algebra[*big.Rat] = Rational{}

func (Rational) Name() string { return "RATIONAL_BIGRAT" }

func (Rational) Zero() *big.Rat { return new(big.Rat) }

func (Rational) One() *big.Rat { return big.NewRat(1, 1) }

func (Rational) FromInt(n int64) *big.Rat { return new(big.Rat).SetInt64(n) }

// Parse accepts anything big.Rat.SetString does: "7", "-1.25", "3/2", "1e-3".
func (r Rational) Parse(s string) (*big.Rat, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return nil, &ParseError{Domain: r.Name(), Input: s}
	}
	v, ok := new(big.Rat).SetString(in)
	if !ok {
		return nil, &ParseError{Domain: r.Name(), Input: s}
	}
	return v, nil
}

func (Rational) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }

func (Rational) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }

func (Rational) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }

// Div panics when b is zero.
func (Rational) Div(a, b *big.Rat) *big.Rat {
	if b.Sign() == 0 {
		panic(panicDivisionByZero)
	}
	return new(big.Rat).Quo(a, b)
}

func (Rational) Abs(a *big.Rat) *big.Rat { return new(big.Rat).Abs(a) }

func (Rational) Negate(a *big.Rat) *big.Rat { return new(big.Rat).Neg(a) }

func (Rational) Diff(a, b *big.Rat) *big.Rat {
	d := new(big.Rat).Sub(a, b)
	return d.Abs(d)
}

func (Rational) Max(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) >= 0 {
		return new(big.Rat).Set(a)
	}
	return new(big.Rat).Set(b)
}

func (Rational) Min(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return new(big.Rat).Set(a)
	}
	return new(big.Rat).Set(b)
}

func (Rational) IsZero(a *big.Rat) bool { return a.Sign() == 0 }

func (Rational) Cmp(a, b *big.Rat) int { return a.Cmp(b) }

func (Rational) IsFinite(*big.Rat) bool { return true }

func (Rational) IsInfinite(*big.Rat) bool { return false }

func (Rational) IsNaN(*big.Rat) bool { return false }

func (Rational) Format(a *big.Rat) string { return a.RatString() }
