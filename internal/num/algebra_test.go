package num

import (
	"math"
	"math/big"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkContract exercises the operations every Algebra must agree on.
func checkContract[N any](t *testing.T, alg Algebra[N]) {
	t.Helper()
	p := func(s string) N { return MustParse(alg, s) }
	eq := func(want string, got N, msg string) {
		t.Helper()
		assert.True(t, Equal(alg, p(want), got), "%s: want %s, got %s", msg, want, alg.Format(got))
	}

	eq("5", alg.Add(p("2"), p("3")), "add")
	eq("-1", alg.Sub(p("2"), p("3")), "sub")
	eq("6", alg.Mul(p("2"), p("3")), "mult")
	eq("0.5", alg.Div(p("1"), p("2")), "div")
	eq("3", alg.Abs(p("-3")), "abs")
	eq("-3", alg.Negate(p("3")), "negate")
	eq("3", alg.Diff(p("2"), p("5")), "diff")
	eq("3", alg.Diff(p("5"), p("2")), "diff symmetric")
	eq("5", alg.Max(p("2"), p("5")), "max")
	eq("2", alg.Min(p("2"), p("5")), "min")
	eq("0", alg.Zero(), "zero")
	eq("1", alg.One(), "one")
	eq("-7", alg.FromInt(-7), "from int")
	eq("1.5", p("3/2"), "fraction literal")

	assert.True(t, alg.IsZero(alg.Zero()))
	assert.True(t, alg.IsZero(alg.Sub(p("1.25"), p("5/4"))))
	assert.False(t, alg.IsZero(alg.One()))
	assert.Equal(t, -1, alg.Cmp(p("1"), p("2")))
	assert.Equal(t, 1, alg.Cmp(p("2"), p("1")))
	assert.Equal(t, 0, alg.Cmp(p("2"), p("2.0")))

	assert.True(t, alg.IsFinite(p("42")))
	assert.False(t, alg.IsInfinite(p("42")))
	assert.False(t, alg.IsNaN(p("42")))

	_, err := alg.Parse("twelve")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	_, err = alg.Parse("")
	assert.ErrorIs(t, err, ErrParse)
	_, err = alg.Parse("1/0")
	assert.ErrorIs(t, err, ErrParse)
}

func TestAlgebraContract(t *testing.T) {
	t.Run("rational", func(t *testing.T) { checkContract[*big.Rat](t, Rational{}) })
	t.Run("double", func(t *testing.T) { checkContract[float64](t, Double{}) })
	t.Run("decimal", func(t *testing.T) { checkContract[*apd.Decimal](t, NewDecimal(0)) })
	t.Run("decimal zero value", func(t *testing.T) { checkContract[*apd.Decimal](t, Decimal{}) })
}

func TestAlgebraNames(t *testing.T) {
	assert.Equal(t, "RATIONAL_BIGRAT", Rational{}.Name())
	assert.Equal(t, "REAL_DOUBLE_PRECISION", Double{}.Name())
	assert.Equal(t, "DECIMAL_APD", NewDecimal(0).Name())
}

func TestRationalIsExact(t *testing.T) {
	alg := Rational{}
	third := alg.Div(alg.One(), alg.FromInt(3))
	sum := Sum[*big.Rat](alg, third, third, third)
	assert.True(t, Equal[*big.Rat](alg, alg.One(), sum))
	assert.Equal(t, "1/3", alg.Format(third))
	assert.Equal(t, "4", alg.Format(alg.FromInt(4)))
}

func TestRationalDoesNotMutateInputs(t *testing.T) {
	alg := Rational{}
	a := big.NewRat(3, 4)
	b := big.NewRat(1, 4)
	_ = alg.Add(a, b)
	_ = alg.Sub(a, b)
	_ = alg.Mul(a, b)
	_ = alg.Div(a, b)
	_ = alg.Negate(a)
	_ = alg.Diff(b, a)
	assert.Equal(t, "3/4", a.RatString())
	assert.Equal(t, "1/4", b.RatString())

	m := alg.Max(a, b)
	m.SetInt64(9)
	assert.Equal(t, "3/4", a.RatString(), "Max must not alias its input")
}

func TestRationalHasNoSpecialValues(t *testing.T) {
	alg := Rational{}
	for _, s := range []string{"inf", "-inf", "nan"} {
		_, err := alg.Parse(s)
		assert.ErrorIs(t, err, ErrParse, s)
	}
}

func TestRationalDivByZeroPanics(t *testing.T) {
	alg := Rational{}
	assert.PanicsWithValue(t, panicDivisionByZero, func() { alg.Div(alg.One(), alg.Zero()) })
}

func TestDoubleSpecialValues(t *testing.T) {
	alg := Double{}
	inf := MustParse[float64](alg, "inf")
	assert.True(t, alg.IsInfinite(inf))
	assert.False(t, alg.IsFinite(inf))
	assert.True(t, alg.IsNaN(MustParse[float64](alg, "NaN")))
	assert.True(t, math.IsInf(alg.Div(1, 0), 1), "IEEE division by zero")
	assert.True(t, alg.IsZero(math.Copysign(0, -1)), "negative zero is zero")
	assert.Equal(t, "0.1", alg.Format(0.1))
}

func TestDecimalSpecialValues(t *testing.T) {
	alg := NewDecimal(0)
	inf := MustParse[*apd.Decimal](alg, "Infinity")
	assert.True(t, alg.IsInfinite(inf))
	assert.False(t, alg.IsFinite(inf))
	assert.True(t, alg.IsNaN(alg.Sub(inf, inf)), "Inf - Inf is invalid")
	assert.True(t, alg.IsNaN(MustParse[*apd.Decimal](alg, "NaN")))
	assert.PanicsWithValue(t, panicDivisionByZero, func() { alg.Div(alg.One(), alg.Zero()) })
}

func TestDecimalExponentRange(t *testing.T) {
	alg := NewDecimal(0)
	huge := MustParse[*apd.Decimal](alg, "1e90000")
	tiny := MustParse[*apd.Decimal](alg, "1e-90000")

	over := alg.Mul(huge, huge)
	assert.True(t, alg.IsInfinite(over), "got %s", alg.Format(over))
	assert.False(t, over.Negative)

	negOver := alg.Mul(alg.Negate(huge), huge)
	assert.True(t, alg.IsInfinite(negOver))
	assert.True(t, negOver.Negative)

	under := alg.Mul(tiny, tiny)
	assert.False(t, alg.IsNaN(under))
	assert.True(t, alg.IsFinite(under))
	assert.True(t, alg.IsZero(under), "got %s", alg.Format(under))
}

func TestDecimalParseRoundsToPrecision(t *testing.T) {
	alg := NewDecimal(0)
	v := MustParse[*apd.Decimal](alg, "0.1234567890123456789012345678901234567890")
	assert.Equal(t, int64(DefaultDecimalPrecision), v.NumDigits())
	assert.Equal(t, "0.1234567890123456789012345678901235", alg.Format(v))

	short := MustParse[*apd.Decimal](NewDecimal(5), "3.14159")
	assert.Equal(t, "3.1416", NewDecimal(5).Format(short))
}

func TestDecimalPrecisionAndFormat(t *testing.T) {
	alg := NewDecimal(5)
	assert.Equal(t, uint32(5), alg.Precision())
	assert.Equal(t, uint32(DefaultDecimalPrecision), NewDecimal(0).Precision())

	third := alg.Div(alg.One(), alg.FromInt(3))
	assert.Equal(t, "0.33333", alg.Format(third))
	assert.Equal(t, "2.5", alg.Format(MustParse[*apd.Decimal](alg, "2.500")))
	assert.Equal(t, "1200", alg.Format(MustParse[*apd.Decimal](alg, "1.2e3")))
	assert.Equal(t, "0", alg.Format(alg.Negate(alg.Zero())))
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Rational{}.Parse("x")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "RATIONAL_BIGRAT", pe.Domain)
	assert.Equal(t, `num: RATIONAL_BIGRAT: cannot parse "x"`, err.Error())
}
