package curve

import (
	"fmt"

	"github.com/roach88/ludb/internal/num"
)

// Segment is one affine piece starting at (X, Y) with slope Grad.
// A left-open segment does not include its start point; the value at X is
// then taken from the previous segment.
type Segment[N any] struct {
	X        N
	Y        N
	Grad     N
	LeftOpen bool
}

// SegmentBuilder constructs segments in one numeric domain.
type SegmentBuilder[N any] struct {
	alg num.Algebra[N]
}

// NewSegmentBuilder returns a builder bound to alg.
func NewSegmentBuilder[N any](alg num.Algebra[N]) *SegmentBuilder[N] {
	return &SegmentBuilder[N]{alg: alg}
}

// Build returns the segment through (x, y) with slope grad.
func (b *SegmentBuilder[N]) Build(x, y, grad N, leftOpen bool) Segment[N] {
	return Segment[N]{X: x, Y: y, Grad: grad, LeftOpen: leftOpen}
}

// Parse builds a segment from literals in the builder's domain.
func (b *SegmentBuilder[N]) Parse(x, y, grad string, leftOpen bool) (Segment[N], error) {
	var seg Segment[N]
	fields := []struct {
		name string
		src  string
		dst  *N
	}{
		{"x", x, &seg.X},
		{"y", y, &seg.Y},
		{"grad", grad, &seg.Grad},
	}
	for _, f := range fields {
		v, err := b.alg.Parse(f.src)
		if err != nil {
			return Segment[N]{}, fmt.Errorf("segment %s: %w", f.name, err)
		}
		*f.dst = v
	}
	seg.LeftOpen = leftOpen
	return seg, nil
}

// ValueAt evaluates the segment's line at t (Y + Grad*(t-X)).
func (b *SegmentBuilder[N]) ValueAt(seg Segment[N], t N) N {
	return b.alg.Add(seg.Y, b.alg.Mul(seg.Grad, b.alg.Sub(t, seg.X)))
}

// Format renders a segment as "(x,y),grad" with a leading ">" when left-open.
func (b *SegmentBuilder[N]) Format(seg Segment[N]) string {
	prefix := ""
	if seg.LeftOpen {
		prefix = ">"
	}
	return fmt.Sprintf("%s(%s,%s),%s", prefix, b.alg.Format(seg.X), b.alg.Format(seg.Y), b.alg.Format(seg.Grad))
}
