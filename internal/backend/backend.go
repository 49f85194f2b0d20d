// Package backend bundles a numeric algebra with the curve constructors that
// use it. A backend is chosen once per analysis run and every algebraic site
// of that run receives it explicitly; there is no process-wide lookup.
package backend

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/ludb/internal/curve"
	"github.com/roach88/ludb/internal/num"
)

// Kind names one of the closed set of backends.
type Kind string

const (
	// RationalPwAffine computes with exact rationals. Use it for publishable bounds.
	RationalPwAffine Kind = "RATIONAL_PWAFFINE"

	// DoublePwAffine computes with float64. Fast, approximate.
	DoublePwAffine Kind = "DOUBLE_PWAFFINE"

	// DecimalPwAffine computes with 34-digit decimals.
	DecimalPwAffine Kind = "DECIMAL_PWAFFINE"
)

// DefaultKind is used when no backend is configured.
const DefaultKind = RationalPwAffine

// kinds lists every Kind in presentation order.
var kinds = []Kind{RationalPwAffine, DoublePwAffine, DecimalPwAffine}

// aliases maps the short CLI spellings to kinds.
var aliases = map[string]Kind{
	"rational": RationalPwAffine,
	"double":   DoublePwAffine,
	"decimal":  DecimalPwAffine,
}

// Kinds returns every backend kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind resolves a kind name or alias, ignoring case.
func ParseKind(s string) (Kind, error) {
	in := strings.TrimSpace(s)
	if k, ok := aliases[strings.ToLower(in)]; ok {
		return k, nil
	}
	for _, k := range kinds {
		if strings.EqualFold(in, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q: must be one of %v or rational|double|decimal", s, kinds)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Backend is a consistent choice of numeric algebra, curve factory and
// linear segment builder.
type Backend[N any] struct {
	kind     Kind
	alg      num.Algebra[N]
	segments *curve.SegmentBuilder[N]
	curves   *curve.Factory[N]
}

func newBackend[N any](kind Kind, alg num.Algebra[N]) *Backend[N] {
	seg := curve.NewSegmentBuilder(alg)
	return &Backend[N]{
		kind:     kind,
		alg:      alg,
		segments: seg,
		curves:   curve.NewFactory(alg, seg),
	}
}

// Rational returns the exact rational backend.
func Rational() *Backend[*big.Rat] {
	return newBackend[*big.Rat](RationalPwAffine, num.Rational{})
}

// Double returns the float64 backend.
func Double() *Backend[float64] {
	return newBackend[float64](DoublePwAffine, num.Double{})
}

// Decimal returns the decimal backend at num.DefaultDecimalPrecision.
func Decimal() *Backend[*apd.Decimal] {
	return newBackend[*apd.Decimal](DecimalPwAffine, num.NewDecimal(0))
}

// Kind returns the backend's kind.
func (b *Backend[N]) Kind() Kind { return b.kind }

// NumericAlgebra returns the algebra every computation of this backend uses.
func (b *Backend[N]) NumericAlgebra() num.Algebra[N] { return b.alg }

// CurveFactory returns the backend's curve constructors.
func (b *Backend[N]) CurveFactory() *curve.Factory[N] { return b.curves }

// LinearSegmentFactory returns the backend's segment builder.
func (b *Backend[N]) LinearSegmentFactory() *curve.SegmentBuilder[N] { return b.segments }

// String identifies the backend for logs and reports, e.g.
// "RATIONAL_PWAFFINE(RATIONAL_BIGRAT)". It is never parsed.
func (b *Backend[N]) String() string {
	return assembleString(b.kind, b.alg.Name())
}

// Describe returns the String form of the backend of kind k without
// exposing its numeric type.
func Describe(k Kind) (string, error) {
	switch k {
	case RationalPwAffine:
		return Rational().String(), nil
	case DoublePwAffine:
		return Double().String(), nil
	case DecimalPwAffine:
		return Decimal().String(), nil
	default:
		return "", fmt.Errorf("unknown backend %q", k)
	}
}

func assembleString(k Kind, numeric string) string {
	return fmt.Sprintf("%s(%s)", k, numeric)
}
