package expr

import (
	"maps"
	"slices"

	"github.com/roach88/ludb/internal/num"
)

// Affine is the normalized form constant + Σ Coefficients[id]·s_id.
// Coefficients never holds a zero value; membership means the variable
// participates.
type Affine[N any] struct {
	Constant     N
	Coefficients map[int]N
}

// Vars returns the participating variable ids in ascending order.
func (a Affine[N]) Vars() []int {
	return slices.Sorted(maps.Keys(a.Coefficients))
}

// Coefficient returns the coefficient of id and whether id participates.
func (a Affine[N]) Coefficient(id int) (N, bool) {
	c, ok := a.Coefficients[id]
	return c, ok
}

// IsConstant reports whether no variable participates.
func (a Affine[N]) IsConstant() bool {
	return len(a.Coefficients) == 0
}

// Equal reports whether a and b denote the same affine form under alg.
func (a Affine[N]) Equal(alg num.Algebra[N], b Affine[N]) bool {
	if alg.Cmp(a.Constant, b.Constant) != 0 || len(a.Coefficients) != len(b.Coefficients) {
		return false
	}
	for id, ca := range a.Coefficients {
		cb, ok := b.Coefficients[id]
		if !ok || alg.Cmp(ca, cb) != 0 {
			return false
		}
	}
	return true
}

// Normalized is a simplified constraint: LHS >= RHS.
type Normalized[N any] struct {
	LHS Affine[N]
	RHS Affine[N]
}

// combiner says how merge treats a key present on both sides, on the left
// only, or on the right only. A nil function passes the value through.
type combiner[N any] struct {
	both      func(id int, l, r N) (N, error)
	leftOnly  func(id int, l N) (N, error)
	rightOnly func(id int, r N) (N, error)
}

// merge zips two coefficient maps into a new one. Keys are visited in
// ascending order, so the first failing key is deterministic. Results equal
// to zero are dropped.
func merge[N any](alg num.Algebra[N], l, r map[int]N, c combiner[N]) (map[int]N, error) {
	keys := make([]int, 0, len(l)+len(r))
	keys = slices.AppendSeq(keys, maps.Keys(l))
	keys = slices.AppendSeq(keys, maps.Keys(r))
	slices.Sort(keys)
	keys = slices.Compact(keys)

	out := make(map[int]N, len(keys))
	for _, id := range keys {
		lv, inL := l[id]
		rv, inR := r[id]

		var (
			v   N
			err error
		)
		switch {
		case inL && inR:
			v, err = c.both(id, lv, rv)
		case inL:
			v = lv
			if c.leftOnly != nil {
				v, err = c.leftOnly(id, lv)
			}
		default:
			v = rv
			if c.rightOnly != nil {
				v, err = c.rightOnly(id, rv)
			}
		}
		if err != nil {
			return nil, err
		}
		if !alg.IsZero(v) {
			out[id] = v
		}
	}
	return out, nil
}
