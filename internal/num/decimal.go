package num

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// DefaultDecimalPrecision is the number of significant digits kept by
// NewDecimal when no precision is given (IEEE-754 decimal128).
const DefaultDecimalPrecision = 34

// Decimal implements Algebra over *apd.Decimal with a fixed precision and
// half-even rounding.
//
// Infinities are representable. An operation that is invalid in the decimal
// domain (Inf - Inf, 0 * Inf) yields NaN instead of an error. A result whose
// exponent leaves the representable range overflows to a signed infinity or
// underflows to zero. Parsed literals are rounded to the precision.
type Decimal struct {
	ctx *apd.Context
}

var _ Algebra[*apd.Decimal] = Decimal{}

// NewDecimal returns a Decimal algebra keeping precision significant digits.
// A zero precision selects DefaultDecimalPrecision.
func NewDecimal(precision uint32) Decimal {
	if precision == 0 {
		precision = DefaultDecimalPrecision
	}
	ctx := apd.BaseContext.WithPrecision(precision)
	ctx.Rounding = apd.RoundHalfEven
	// Conditions are inspected by settle, never raised as errors.
	ctx.Traps = 0
	return Decimal{ctx: ctx}
}

func (Decimal) Name() string { return "DECIMAL_APD" }

// Precision reports the number of significant digits kept.
func (d Decimal) Precision() uint32 { return d.context().Precision }

func (Decimal) Zero() *apd.Decimal { return apd.New(0, 0) }

func (Decimal) One() *apd.Decimal { return apd.New(1, 0) }

func (Decimal) FromInt(n int64) *apd.Decimal { return apd.New(n, 0) }

func (d Decimal) Parse(s string) (*apd.Decimal, error) {
	in := strings.TrimSpace(s)
	if p, q, ok := splitFraction(in); ok {
		num, err := d.parse(p)
		if err != nil {
			return nil, &ParseError{Domain: d.Name(), Input: s, Err: err}
		}
		den, err := d.parse(q)
		if err != nil {
			return nil, &ParseError{Domain: d.Name(), Input: s, Err: err}
		}
		if den.IsZero() {
			return nil, &ParseError{Domain: d.Name(), Input: s, Err: errZeroDenominator}
		}
		return d.Div(num, den), nil
	}
	v, err := d.parse(in)
	if err != nil {
		return nil, &ParseError{Domain: d.Name(), Input: s, Err: err}
	}
	return v, nil
}

func (d Decimal) parse(s string) (*apd.Decimal, error) {
	v, cond, err := d.context().NewFromString(s)
	if err != nil {
		return nil, err
	}
	return settle(v, cond), nil
}

func (d Decimal) Add(a, b *apd.Decimal) *apd.Decimal {
	return d.apply(func(z *apd.Decimal) (apd.Condition, error) { return d.context().Add(z, a, b) })
}

func (d Decimal) Sub(a, b *apd.Decimal) *apd.Decimal {
	return d.apply(func(z *apd.Decimal) (apd.Condition, error) { return d.context().Sub(z, a, b) })
}

func (d Decimal) Mul(a, b *apd.Decimal) *apd.Decimal {
	return d.apply(func(z *apd.Decimal) (apd.Condition, error) { return d.context().Mul(z, a, b) })
}

// Div panics when b is zero.
func (d Decimal) Div(a, b *apd.Decimal) *apd.Decimal {
	if b.IsZero() {
		panic(panicDivisionByZero)
	}
	return d.apply(func(z *apd.Decimal) (apd.Condition, error) { return d.context().Quo(z, a, b) })
}

func (d Decimal) Abs(a *apd.Decimal) *apd.Decimal {
	return d.apply(func(z *apd.Decimal) (apd.Condition, error) { return d.context().Abs(z, a) })
}

func (d Decimal) Negate(a *apd.Decimal) *apd.Decimal {
	return d.apply(func(z *apd.Decimal) (apd.Condition, error) { return d.context().Neg(z, a) })
}

func (d Decimal) Diff(a, b *apd.Decimal) *apd.Decimal {
	return d.Abs(d.Sub(a, b))
}

func (d Decimal) Max(a, b *apd.Decimal) *apd.Decimal {
	if d.IsNaN(a) || d.IsNaN(b) {
		return nan()
	}
	if a.Cmp(b) >= 0 {
		return new(apd.Decimal).Set(a)
	}
	return new(apd.Decimal).Set(b)
}

func (d Decimal) Min(a, b *apd.Decimal) *apd.Decimal {
	if d.IsNaN(a) || d.IsNaN(b) {
		return nan()
	}
	if a.Cmp(b) <= 0 {
		return new(apd.Decimal).Set(a)
	}
	return new(apd.Decimal).Set(b)
}

func (Decimal) IsZero(a *apd.Decimal) bool { return a.IsZero() }

// Cmp orders by value. The ordering of NaN is unspecified.
func (Decimal) Cmp(a, b *apd.Decimal) int { return a.Cmp(b) }

func (Decimal) IsFinite(a *apd.Decimal) bool { return a.Form == apd.Finite }

func (Decimal) IsInfinite(a *apd.Decimal) bool { return a.Form == apd.Infinite }

func (Decimal) IsNaN(a *apd.Decimal) bool {
	return a.Form == apd.NaN || a.Form == apd.NaNSignaling
}

// Format prints finite values in plain notation without trailing zeros.
func (Decimal) Format(a *apd.Decimal) string {
	if a.Form != apd.Finite {
		return a.String()
	}
	if a.IsZero() {
		return "0"
	}
	var r apd.Decimal
	r.Reduce(a)
	return r.Text('f')
}

// context falls back to the default precision for the zero Decimal value.
func (d Decimal) context() *apd.Context {
	if d.ctx == nil {
		return NewDecimal(0).ctx
	}
	return d.ctx
}

func (d Decimal) apply(op func(z *apd.Decimal) (apd.Condition, error)) *apd.Decimal {
	z := new(apd.Decimal)
	cond, err := op(z)
	if err != nil {
		return nan()
	}
	return settle(z, cond)
}

// settle fixes up z after an operation reported cond. apd leaves z unset
// when the exponent passes its system limits, so those results are replaced
// here.
func settle(z *apd.Decimal, cond apd.Condition) *apd.Decimal {
	switch {
	case cond&(apd.InvalidOperation|apd.DivisionUndefined|apd.DivisionImpossible) != 0:
		return nan()
	case cond.SystemOverflow():
		return &apd.Decimal{Form: apd.Infinite, Negative: z.Negative}
	case cond.SystemUnderflow():
		return apd.New(0, 0)
	}
	return z
}

func nan() *apd.Decimal {
	return &apd.Decimal{Form: apd.NaN}
}
