package num

import (
	"cmp"
	"math"
	"strconv"
	"strings"
)

// Double implements Algebra over float64 with IEEE-754 semantics.
//
// Div does not panic on a zero divisor: the result is ±Inf or NaN, exactly as
// the hardware produces it.
type Double struct{}

var _ Algebra[float64] = Double{}

func (Double) Name() string { return "REAL_DOUBLE_PRECISION" }

func (Double) Zero() float64 { return 0 }

func (Double) One() float64 { return 1 }

func (Double) FromInt(n int64) float64 { return float64(n) }

func (d Double) Parse(s string) (float64, error) {
	in := strings.TrimSpace(s)
	if p, q, ok := splitFraction(in); ok {
		num, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, &ParseError{Domain: d.Name(), Input: s, Err: err}
		}
		den, err := strconv.ParseFloat(q, 64)
		if err != nil {
			return 0, &ParseError{Domain: d.Name(), Input: s, Err: err}
		}
		if den == 0 {
			return 0, &ParseError{Domain: d.Name(), Input: s, Err: errZeroDenominator}
		}
		return num / den, nil
	}
	v, err := strconv.ParseFloat(in, 64)
	if err != nil {
		return 0, &ParseError{Domain: d.Name(), Input: s, Err: err}
	}
	return v, nil
}

func (Double) Add(a, b float64) float64 { return a + b }

func (Double) Sub(a, b float64) float64 { return a - b }

func (Double) Mul(a, b float64) float64 { return a * b }

func (Double) Div(a, b float64) float64 { return a / b }

func (Double) Abs(a float64) float64 { return math.Abs(a) }

func (Double) Negate(a float64) float64 { return -a }

func (Double) Diff(a, b float64) float64 { return math.Abs(a - b) }

func (Double) Max(a, b float64) float64 { return math.Max(a, b) }

func (Double) Min(a, b float64) float64 { return math.Min(a, b) }

// IsZero is exact: -0 is zero, 1e-300 is not.
func (Double) IsZero(a float64) bool { return a == 0 }

// Cmp orders NaN before every other value.
func (Double) Cmp(a, b float64) int { return cmp.Compare(a, b) }

func (Double) IsFinite(a float64) bool { return !math.IsInf(a, 0) && !math.IsNaN(a) }

func (Double) IsInfinite(a float64) bool { return math.IsInf(a, 0) }

func (Double) IsNaN(a float64) bool { return math.IsNaN(a) }

func (Double) Format(a float64) string { return strconv.FormatFloat(a, 'g', -1, 64) }
