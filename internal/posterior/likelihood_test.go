// Public domain.

package posterior_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/rvcorr/internal/ensemble"
	"github.com/soniakeys/rvcorr/internal/noise"
	"github.com/soniakeys/rvcorr/internal/params"
	"github.com/soniakeys/rvcorr/internal/posterior"
	"github.com/soniakeys/rvcorr/internal/rvmodel"
)

var (
	ts0 = []float64{0, 1, 3, 6, 10, 15}
	rv0 = []float64{1.2, 3.4, 2.2, 5.1, 0.3, -1.7}
	ts1 = []float64{0.5, 2, 4.5, 9}
	rv1 = []float64{-10.1, -8.3, -12.6, -9.4}
)

func TestLikelihoodNoPlanets(t *testing.T) {
	ll, err := posterior.NewLogLikelihood([][]float64{ts0}, [][]float64{rv0}, nil)
	require.NoError(t, err)
	x := []float64{1.5, 2, 3}

	r := make([]float64, len(rv0))
	for i, v := range rv0 {
		r[i] = v - 1.5
	}
	want := noise.LogLikelihood(r, make([]float64, len(r)), noise.Covariance(ts0, 2, 3))
	assert.InDelta(t, want, ll.At(x), 1e-12)
	assert.Equal(t, 1, ll.Nobs())
	assert.Equal(t, ts0, ll.Times(0))
	assert.Equal(t, rv0, ll.Velocities(0))
}

func TestLikelihoodObservatoryOrder(t *testing.T) {
	a, err := posterior.NewLogLikelihood([][]float64{ts0, ts1}, [][]float64{rv0, rv1}, nil)
	require.NoError(t, err)
	b, err := posterior.NewLogLikelihood([][]float64{ts1, ts0}, [][]float64{rv1, rv0}, nil)
	require.NoError(t, err)

	planet := []float64{2, 2 * math.Pi / 7, .2, .1, 1}
	xa := append([]float64{1, 2, 3, -10, 1, 2}, planet...)
	xb := append([]float64{-10, 1, 2, 1, 2, 3}, planet...)
	la := a.At(xa)
	require.False(t, math.IsInf(la, 0))
	assert.InDelta(t, la, b.At(xb), 1e-10)

	// sum over observatories
	l0, err := posterior.NewLogLikelihood([][]float64{ts0}, [][]float64{rv0}, nil)
	require.NoError(t, err)
	l1, err := posterior.NewLogLikelihood([][]float64{ts1}, [][]float64{rv1}, nil)
	require.NoError(t, err)
	sum := l0.At(append([]float64{1, 2, 3}, planet...)) +
		l1.At(append([]float64{-10, 1, 2}, planet...))
	assert.InDelta(t, sum, la, 1e-10)
}

func TestResidual(t *testing.T) {
	ll, err := posterior.NewLogLikelihood([][]float64{ts0}, [][]float64{rv0}, nil)
	require.NoError(t, err)
	p := params.MustUnpack(params.Layout{Nobs: 1, Npl: 1},
		[]float64{.5, 1, 1, 3, 1, .25, .3, 2})
	rv := rvmodel.Keplerian{}.RV(ts0, 3, 1, .3, .25, 2)
	r := ll.Residual(0, p)
	for i := range r {
		assert.InDelta(t, rv0[i]-rv[i]-.5, r[i], 1e-14)
	}
}

func TestLikelihoodDegenerate(t *testing.T) {
	ll, err := posterior.NewLogLikelihood([][]float64{{}, ts0}, [][]float64{{}, rv0}, nil)
	require.NoError(t, err)
	one, err := posterior.NewLogLikelihood([][]float64{ts0}, [][]float64{rv0}, nil)
	require.NoError(t, err)
	// the empty observatory contributes nothing
	assert.InDelta(t, one.At([]float64{0, 1, 1}), ll.At([]float64{7, 1, 1, 0, 1, 1}), 1e-12)

	// zero variance is not positive definite
	assert.True(t, math.IsInf(one.At([]float64{0, 0, 1}), -1))

	_, err = posterior.NewLogLikelihood([][]float64{ts0}, nil, nil)
	assert.ErrorIs(t, err, params.ErrShape)
	_, err = posterior.NewLogLikelihood([][]float64{ts0}, [][]float64{rv1}, nil)
	assert.ErrorIs(t, err, params.ErrShape)

	assert.Panics(t, func() { one.At(make([]float64, 4)) })
	assert.Panics(t, func() { one.Eval(params.New(params.Layout{Nobs: 2})) })
}

func TestBoundsFromData(t *testing.T) {
	ts := [][]float64{{0, 1, 3, 6}}
	rvs := [][]float64{{1, 3, 2, 5}}
	b, err := posterior.BoundsFromData(1, ts, rvs)
	require.NoError(t, err)
	l := params.Layout{Nobs: 1, Npl: 1}
	require.NoError(t, b.Validate(l))

	assert.Equal(t, []float64{-3}, b.Min.V)
	assert.Equal(t, []float64{9}, b.Max.V)
	assert.InDelta(t, .1, b.Min.Tau[0], 1e-15)
	assert.Equal(t, []float64{60}, b.Max.Tau)
	assert.Equal(t, []float64{0}, b.Min.Sigma)
	assert.InDelta(t, 8.75, b.Max.Sigma[0], 1e-12)
	assert.InDelta(t, 2*math.Pi/6, b.Min.N[0], 1e-15)
	assert.InDelta(t, 2*math.Pi, b.Max.N[0], 1e-15)
	assert.Equal(t, []float64{1}, b.Min.K)
	assert.Equal(t, []float64{8}, b.Max.K)
	assert.Equal(t, []float64{1}, b.Max.E)
	assert.Equal(t, []float64{2 * math.Pi}, b.Max.Omega)

	_, err = posterior.BoundsFromData(1, [][]float64{{1}}, [][]float64{{2}})
	assert.ErrorIs(t, err, posterior.ErrTooFewSamples)
	_, err = posterior.BoundsFromData(1, ts, nil)
	assert.ErrorIs(t, err, params.ErrShape)
}

func TestEvaluate(t *testing.T) {
	l := params.Layout{Nobs: 1}
	ll, err := posterior.NewLogLikelihood([][]float64{ts0}, [][]float64{rv0}, nil)
	require.NoError(t, err)
	lp, err := posterior.NewLogPrior(l, nil, true)
	require.NoError(t, err)

	e := ensemble.New(l, 2, 3)
	for c := 0; c < e.Len(); c++ {
		copy(e.Cell(c), []float64{float64(c), 1 + float64(c), 2})
	}
	e.Cell(4)[1] = -1

	logl, logp, err := posterior.Evaluate(context.Background(), e, ll, lp, 2)
	require.NoError(t, err)
	require.Len(t, logl, 6)
	require.Len(t, logp, 6)
	for c := 0; c < e.Len(); c++ {
		if c == 4 {
			assert.True(t, math.IsInf(logp[c], -1))
			assert.True(t, math.IsInf(logl[c], -1))
			continue
		}
		assert.Equal(t, lp.At(e.Cell(c)), logp[c])
		assert.Equal(t, ll.At(e.Cell(c)), logl[c])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = posterior.Evaluate(ctx, e, ll, lp, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
