package analysis

import (
	"fmt"

	"github.com/roach88/ludb/internal/curve"
)

// Curve shapes accepted by Session.Curve.
const (
	ShapeTokenBucket = "token-bucket"
	ShapeRateLatency = "rate-latency"
	ShapeSegments    = "segments"
)

// SegmentSpec is one segment given as literals.
type SegmentSpec struct {
	X        string `json:"x" yaml:"x"`
	Y        string `json:"y" yaml:"y"`
	Grad     string `json:"grad" yaml:"grad"`
	LeftOpen bool   `json:"left_open,omitempty" yaml:"left_open,omitempty"`
}

// CurveRequest describes a curve and the points to evaluate it at.
// Rate and Burst apply to token buckets, Rate and Latency to rate-latency
// curves, Segments to explicit curves.
type CurveRequest struct {
	Shape    string
	Rate     string
	Burst    string
	Latency  string
	Segments []SegmentSpec
	At       []string
}

// CurvePoint is one evaluation.
type CurvePoint struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// CurveReport is the evaluated curve.
type CurveReport struct {
	Backend string       `json:"backend"`
	Curve   string       `json:"curve"`
	Points  []CurvePoint `json:"points"`
}

func (s *session[N]) Curve(req CurveRequest) (*CurveReport, error) {
	c, err := s.buildCurve(req)
	if err != nil {
		return nil, err
	}

	report := &CurveReport{Backend: s.name, Curve: c.String(), Points: []CurvePoint{}}
	for _, at := range req.At {
		t, err := s.alg.Parse(at)
		if err != nil {
			return nil, fmt.Errorf("at: %w", err)
		}
		if s.alg.Cmp(t, s.alg.Zero()) < 0 {
			return nil, fmt.Errorf("at %s: %w", at, curve.ErrNegativeParameter)
		}
		report.Points = append(report.Points, CurvePoint{X: s.alg.Format(t), Y: s.alg.Format(c.Eval(t))})
	}
	return report, nil
}

func (s *session[N]) buildCurve(req CurveRequest) (curve.Curve[N], error) {
	f := s.backend.CurveFactory()
	parse := func(name, v string) (N, error) {
		x, err := s.alg.Parse(v)
		if err != nil {
			return x, fmt.Errorf("%s: %w", name, err)
		}
		return x, nil
	}

	switch req.Shape {
	case ShapeTokenBucket:
		rate, err := parse("rate", req.Rate)
		if err != nil {
			return curve.Curve[N]{}, err
		}
		burst, err := parse("burst", req.Burst)
		if err != nil {
			return curve.Curve[N]{}, err
		}
		return f.TokenBucket(rate, burst)

	case ShapeRateLatency:
		rate, err := parse("rate", req.Rate)
		if err != nil {
			return curve.Curve[N]{}, err
		}
		latency, err := parse("latency", req.Latency)
		if err != nil {
			return curve.Curve[N]{}, err
		}
		return f.RateLatency(rate, latency)

	case ShapeSegments:
		seg := s.backend.LinearSegmentFactory()
		segments := make([]curve.Segment[N], len(req.Segments))
		for i, sp := range req.Segments {
			v, err := seg.Parse(sp.X, sp.Y, sp.Grad, sp.LeftOpen)
			if err != nil {
				return curve.Curve[N]{}, fmt.Errorf("segments[%d]: %w", i, err)
			}
			segments[i] = v
		}
		return f.FromSegments(segments...)

	default:
		return curve.Curve[N]{}, fmt.Errorf("unknown curve shape %q: must be %s, %s or %s",
			req.Shape, ShapeTokenBucket, ShapeRateLatency, ShapeSegments)
	}
}
