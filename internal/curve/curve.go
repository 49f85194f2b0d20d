package curve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/ludb/internal/num"
)

var (
	// ErrNegativeParameter is returned when a rate, burst or latency is negative.
	ErrNegativeParameter = errors.New("curve: parameter must be non-negative")

	// ErrUnorderedSegments is returned when segment start points do not
	// ascend or the first segment does not start at zero.
	ErrUnorderedSegments = errors.New("curve: segments must start at 0 and ascend in x")
)

// Curve is an ordered list of segments. The zero value is not usable; build
// curves through a Factory.
type Curve[N any] struct {
	segments []Segment[N]
	seg      *SegmentBuilder[N]
	alg      num.Algebra[N]
}

// Segments returns a copy of the curve's segments.
func (c Curve[N]) Segments() []Segment[N] {
	out := make([]Segment[N], len(c.segments))
	copy(out, c.segments)
	return out
}

// Len returns the number of segments.
func (c Curve[N]) Len() int { return len(c.segments) }

// Eval returns the curve's value at t >= 0.
func (c Curve[N]) Eval(t N) N {
	idx := 0
	for i, s := range c.segments {
		cmp := c.alg.Cmp(s.X, t)
		if cmp < 0 || (cmp == 0 && !s.LeftOpen) {
			idx = i
			continue
		}
		break
	}
	return c.seg.ValueAt(c.segments[idx], t)
}

func (c Curve[N]) String() string {
	parts := make([]string, len(c.segments))
	for i, s := range c.segments {
		parts[i] = c.seg.Format(s)
	}
	return "{" + strings.Join(parts, ";") + "}"
}

// Factory builds curves in one numeric domain.
type Factory[N any] struct {
	alg num.Algebra[N]
	seg *SegmentBuilder[N]
}

// NewFactory returns a factory bound to alg that builds segments with seg.
func NewFactory[N any](alg num.Algebra[N], seg *SegmentBuilder[N]) *Factory[N] {
	return &Factory[N]{alg: alg, seg: seg}
}

// Zero returns the curve that is 0 everywhere.
func (f *Factory[N]) Zero() Curve[N] {
	z := f.alg.Zero()
	return f.curve(f.seg.Build(z, z, z, false))
}

// TokenBucket returns the arrival curve 0 at t=0 and burst + rate*t after.
func (f *Factory[N]) TokenBucket(rate, burst N) (Curve[N], error) {
	if err := f.nonNegative(rate, burst); err != nil {
		return Curve[N]{}, fmt.Errorf("token bucket: %w", err)
	}
	z := f.alg.Zero()
	return f.curve(
		f.seg.Build(z, z, z, false),
		f.seg.Build(z, burst, rate, true),
	), nil
}

// RateLatency returns the service curve rate*max(0, t-latency).
func (f *Factory[N]) RateLatency(rate, latency N) (Curve[N], error) {
	if err := f.nonNegative(rate, latency); err != nil {
		return Curve[N]{}, fmt.Errorf("rate latency: %w", err)
	}
	z := f.alg.Zero()
	if f.alg.IsZero(latency) {
		return f.curve(f.seg.Build(z, z, rate, false)), nil
	}
	return f.curve(
		f.seg.Build(z, z, z, false),
		f.seg.Build(latency, z, rate, false),
	), nil
}

// FromSegments validates and wraps a segment list.
func (f *Factory[N]) FromSegments(segments ...Segment[N]) (Curve[N], error) {
	if len(segments) == 0 || !f.alg.IsZero(segments[0].X) {
		return Curve[N]{}, ErrUnorderedSegments
	}
	for i := 1; i < len(segments); i++ {
		if f.alg.Cmp(segments[i-1].X, segments[i].X) > 0 {
			return Curve[N]{}, ErrUnorderedSegments
		}
	}
	return f.curve(segments...), nil
}

func (f *Factory[N]) curve(segments ...Segment[N]) Curve[N] {
	return Curve[N]{segments: segments, seg: f.seg, alg: f.alg}
}

func (f *Factory[N]) nonNegative(values ...N) error {
	z := f.alg.Zero()
	for _, v := range values {
		if f.alg.IsNaN(v) || f.alg.Cmp(v, z) < 0 {
			return ErrNegativeParameter
		}
	}
	return nil
}
