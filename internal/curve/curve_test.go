package curve

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ludb/internal/num"
)

func newRationalFactory() (*Factory[*big.Rat], *SegmentBuilder[*big.Rat], num.Rational) {
	alg := num.Rational{}
	seg := NewSegmentBuilder[*big.Rat](alg)
	return NewFactory[*big.Rat](alg, seg), seg, alg
}

func TestTokenBucket(t *testing.T) {
	f, _, alg := newRationalFactory()
	p := func(s string) *big.Rat { return num.MustParse[*big.Rat](alg, s) }

	c, err := f.TokenBucket(p("5"), p("10"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "{(0,0),0;>(0,10),5}", c.String())

	tests := []struct {
		at   string
		want string
	}{
		{"0", "0"},
		{"1/2", "25/2"},
		{"2", "20"},
	}
	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			assert.Equal(t, tt.want, alg.Format(c.Eval(p(tt.at))))
		})
	}
}

func TestRateLatency(t *testing.T) {
	f, _, alg := newRationalFactory()
	p := func(s string) *big.Rat { return num.MustParse[*big.Rat](alg, s) }

	c, err := f.RateLatency(p("4"), p("3"))
	require.NoError(t, err)
	assert.Equal(t, "0", alg.Format(c.Eval(p("1"))))
	assert.Equal(t, "0", alg.Format(c.Eval(p("3"))))
	assert.Equal(t, "8", alg.Format(c.Eval(p("5"))))

	noLatency, err := f.RateLatency(p("4"), alg.Zero())
	require.NoError(t, err)
	assert.Equal(t, 1, noLatency.Len())
	assert.Equal(t, "6", alg.Format(noLatency.Eval(p("3/2"))))
}

func TestNegativeParametersRejected(t *testing.T) {
	f, _, alg := newRationalFactory()
	_, err := f.TokenBucket(alg.FromInt(-1), alg.One())
	assert.ErrorIs(t, err, ErrNegativeParameter)
	_, err = f.RateLatency(alg.One(), alg.FromInt(-2))
	assert.ErrorIs(t, err, ErrNegativeParameter)
}

func TestFromSegments(t *testing.T) {
	f, seg, _ := newRationalFactory()

	s0, err := seg.Parse("0", "0", "1", false)
	require.NoError(t, err)
	s1, err := seg.Parse("2", "2", "1/2", false)
	require.NoError(t, err)

	c, err := f.FromSegments(s0, s1)
	require.NoError(t, err)
	assert.Equal(t, "{(0,0),1;(2,2),1/2}", c.String())

	_, err = f.FromSegments(s1, s0)
	assert.ErrorIs(t, err, ErrUnorderedSegments)
	_, err = f.FromSegments()
	assert.ErrorIs(t, err, ErrUnorderedSegments)
}

func TestSegmentsReturnsCopy(t *testing.T) {
	f, _, alg := newRationalFactory()
	c := f.Zero()
	segs := c.Segments()
	segs[0].LeftOpen = true
	assert.False(t, c.Segments()[0].LeftOpen)
	assert.Equal(t, "0", alg.Format(c.Eval(alg.FromInt(7))))
}

func TestSegmentParseError(t *testing.T) {
	_, seg, _ := newRationalFactory()
	_, err := seg.Parse("0", "oops", "1", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, num.ErrParse)
	assert.Contains(t, err.Error(), "segment y")
}

func TestDoubleFactory(t *testing.T) {
	alg := num.Double{}
	f := NewFactory[float64](alg, NewSegmentBuilder[float64](alg))
	c, err := f.TokenBucket(2.5, 1)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, c.Eval(2), 1e-12)
}
