// Public domain.

// Package posterior evaluates the log likelihood and log prior of RV noise
// models.
//
// LogLikelihood and LogPrior are immutable once constructed and may be
// shared by concurrent walkers.
package posterior

import (
	"fmt"

	"github.com/soniakeys/rvcorr/internal/noise"
	"github.com/soniakeys/rvcorr/internal/params"
	"github.com/soniakeys/rvcorr/internal/rvmodel"
)

// OrbitModel computes the radial velocity contribution of one planet.
type OrbitModel interface {
	RV(ts []float64, k, n, e, chi, omega float64) []float64
}

// LogLikelihood holds per-observatory sample times and velocities.
type LogLikelihood struct {
	ts, rvs [][]float64
	orbit   OrbitModel
}

// NewLogLikelihood creates a likelihood for the given observations.
// Ts and rvs are parallel, one element per observatory.  A nil orbit
// selects rvmodel.Keplerian.
func NewLogLikelihood(ts, rvs [][]float64, orbit OrbitModel) (*LogLikelihood, error) {
	if len(ts) != len(rvs) {
		return nil, fmt.Errorf("%w: %d time series, %d velocity series",
			params.ErrShape, len(ts), len(rvs))
	}
	for i := range ts {
		if len(ts[i]) != len(rvs[i]) {
			return nil, fmt.Errorf("%w: observatory %d has %d times, %d velocities",
				params.ErrShape, i, len(ts[i]), len(rvs[i]))
		}
	}
	if orbit == nil {
		orbit = rvmodel.Keplerian{}
	}
	return &LogLikelihood{ts: ts, rvs: rvs, orbit: orbit}, nil
}

// Nobs returns the number of observatories.
func (l *LogLikelihood) Nobs() int { return len(l.ts) }

// Times returns the sample times of observatory i.
func (l *LogLikelihood) Times(i int) []float64 { return l.ts[i] }

// Velocities returns the observed velocities of observatory i.
func (l *LogLikelihood) Velocities(i int) []float64 { return l.rvs[i] }

// At evaluates the log likelihood of flat parameter vector x.  The number
// of planets is inferred from len(x).  It panics if x does not fit the
// number of observatories.
func (l *LogLikelihood) At(x []float64) float64 {
	lay, err := params.InferLayout(len(x), len(l.ts))
	if err != nil {
		panic(err)
	}
	return l.Eval(params.MustUnpack(lay, x))
}

// Eval evaluates the log likelihood of p.  A covariance that is not
// positive definite yields -Inf.
func (l *LogLikelihood) Eval(p *params.Params) float64 {
	if p.Nobs != len(l.ts) {
		panic(fmt.Errorf("%w: %d observatories in parameters, %d in data",
			params.ErrShape, p.Nobs, len(l.ts)))
	}
	ll := 0.
	for i, t := range l.ts {
		if len(t) == 0 {
			continue
		}
		residual := l.Residual(i, p)
		cov := noise.Covariance(t, p.Sigma[i], p.Tau[i])
		ll += noise.LogLikelihood(residual, make([]float64, len(t)), cov)
	}
	return ll
}

// Residual returns velocities of observatory i less the planet signals and
// the observatory offset.
func (l *LogLikelihood) Residual(i int, p *params.Params) []float64 {
	t := l.ts[i]
	r := make([]float64, len(t))
	copy(r, l.rvs[i])
	for j := 0; j < p.Npl; j++ {
		rv := l.orbit.RV(t, p.K[j], p.N[j], p.E[j], p.Chi[j], p.Omega[j])
		for k := range r {
			r[k] -= rv[k]
		}
	}
	for k := range r {
		r[k] -= p.V[i]
	}
	return r
}
