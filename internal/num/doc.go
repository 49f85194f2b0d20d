// Package num defines the arithmetic contract used by every algebraic site in ludb.
//
// Values are opaque to callers: they are produced and combined only through an
// Algebra. The type parameter N fixes the numeric domain for one computation,
// so an exact rational can never be compared against a float by accident.
//
// Three implementations are provided:
//   - Rational: exact arithmetic over *big.Rat (default for publishable bounds)
//   - Double: IEEE-754 float64, fast and approximate
//   - Decimal: fixed-precision decimal over *apd.Decimal
//
// All implementations are stateless after construction and safe for concurrent
// read-only use. No operation mutates its inputs.
package num
