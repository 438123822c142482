// Public domain.

package posterior_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/rvcorr/internal/params"
	"github.com/soniakeys/rvcorr/internal/posterior"
)

func inside(l params.Layout) *params.Params {
	p := params.New(l)
	p.SetField("V", 0)
	p.SetField("sigma", 1)
	p.SetField("tau", 1)
	p.SetField("K", 1)
	p.SetField("n", 1)
	p.SetField("chi", .5)
	p.SetField("e", .5)
	p.SetField("omega", 1)
	return p
}

func TestDefaultBounds(t *testing.T) {
	l := params.Layout{Nobs: 2, Npl: 1}
	b := posterior.DefaultBounds(l)
	require.NoError(t, b.Validate(l))
	assert.Equal(t, []float64{math.Inf(-1), math.Inf(-1)}, b.Min.V)
	assert.Equal(t, []float64{0, 0}, b.Min.Sigma)
	assert.Equal(t, []float64{1}, b.Max.E)
	assert.Equal(t, []float64{1}, b.Max.Chi)
	assert.Equal(t, []float64{2 * math.Pi}, b.Max.Omega)
	assert.True(t, math.IsInf(b.Max.K[0], 1))
}

func TestPriorBounds(t *testing.T) {
	l := params.Layout{Nobs: 1, Npl: 1}
	lp, err := posterior.NewLogPrior(l, nil, false)
	require.NoError(t, err)
	p := inside(l)
	assert.InDelta(t, math.Log(.5), lp.Eval(p), 1e-15)
	assert.Equal(t, lp.Eval(p), lp.At(p.Pack(nil)))

	for _, c := range []struct {
		field string
		v     float64
	}{
		{"sigma", 0}, {"sigma", -1}, {"tau", 0}, {"K", 0}, {"n", -2},
		{"chi", 0}, {"chi", 1}, {"e", 0}, {"e", 1}, {"omega", 2 * math.Pi},
		{"omega", 0}, {"V", math.NaN()}, {"sigma", math.NaN()},
		{"e", math.NaN()},
	} {
		q := p.Clone()
		require.NoError(t, q.SetField(c.field, c.v))
		assert.True(t, math.IsInf(lp.Eval(q), -1), "%s = %g", c.field, c.v)
	}

	assert.Panics(t, func() { lp.At(make([]float64, 3)) })
}

// Doubling every scale parameter shifts the log prior by -log 2 per
// Jeffreys term.
func TestPriorScaleInvariance(t *testing.T) {
	l := params.Layout{Nobs: 2, Npl: 1}
	lp, err := posterior.NewLogPrior(l, nil, false)
	require.NoError(t, err)
	p := inside(l)
	q := p.Clone()
	for _, f := range []string{"sigma", "tau", "K", "n"} {
		fq := q.Field(f)
		for i := range fq {
			fq[i] *= 2
		}
	}
	terms := 2*l.Nobs + 2*l.Npl
	assert.InDelta(t, -float64(terms)*math.Ln2, lp.Eval(q)-lp.Eval(p), 1e-12)
}

func TestPriorOrdering(t *testing.T) {
	l := params.Layout{Nobs: 1, Npl: 2}
	p := inside(l)
	p.N[0], p.N[1] = 1, 2

	ordered, err := posterior.NewLogPrior(l, nil, true)
	require.NoError(t, err)
	free, err := posterior.NewLogPrior(l, nil, false)
	require.NoError(t, err)

	assert.True(t, math.IsInf(ordered.Eval(p), -1))
	assert.False(t, math.IsInf(free.Eval(p), 0))

	p.N[0], p.N[1] = 2, 1
	assert.False(t, math.IsInf(ordered.Eval(p), 0))
	assert.Equal(t, free.Eval(p), ordered.Eval(p))
}

func TestNewLogPriorBounds(t *testing.T) {
	l := params.Layout{Nobs: 1, Npl: 1}
	max := posterior.DefaultBounds(l).Max
	max.SetField("K", 10)
	lp, err := posterior.NewLogPrior(l, &posterior.Bounds{Max: max}, false)
	require.NoError(t, err)

	// bounds are copied
	max.SetField("K", 1)
	b := lp.Bounds()
	assert.Equal(t, []float64{10}, b.Max.K)
	assert.Equal(t, posterior.DefaultBounds(l).Min, b.Min)

	p := inside(l)
	p.K[0] = 20
	assert.True(t, math.IsInf(lp.Eval(p), -1))

	// empty interval
	min := params.Const(l, 0)
	min.SetField("K", 10)
	_, err = posterior.NewLogPrior(l, &posterior.Bounds{Min: min, Max: b.Max}, false)
	assert.Error(t, err)

	nan := params.Const(l, math.NaN())
	_, err = posterior.NewLogPrior(l, &posterior.Bounds{Min: nan}, false)
	assert.Error(t, err)

	_, err = posterior.NewLogPrior(params.Layout{Nobs: 2}, &posterior.Bounds{Max: max}, false)
	assert.ErrorIs(t, err, params.ErrShape)
}
