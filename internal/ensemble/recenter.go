// Public domain.

package ensemble

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/unit"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/soniakeys/rvcorr/internal/params"
)

// DefaultSigmaFactor is the usual spread factor for Recenter.
const DefaultSigmaFactor = .1

// ErrUnsupported reports a layout Recenter has no perturbation scheme for.
var ErrUnsupported = errors.New("ensemble: recentering needs exactly one observatory and one planet")

// Recenter generates a fresh ensemble tightly distributed around the highest
// likelihood sample of chain c.
//
// Ts are the sample times of the single observatory.  Spreads shrink with
// the number of orbital cycles (span/P) and correlation times (span/tau)
// covered by the data:
//
//	V      normal,     scale sf*sqrt(sigma0)/sqrt(N)
//	K      normal,     scale sf*K/sqrt(N)
//	sigma0 log-normal, scale sf/sqrt(span/tau)
//	tau    log-normal, scale sf/sqrt(span/tau)
//	n, chi, e, omega  log-normal, scale sf/sqrt(span/P)
//
// where N is the number of samples.  Chi and omega are then wrapped to
// one cycle and e is redrawn until below 1.  The result has the shape of the
// last step of c; c is not modified.
func Recenter(ts []float64, c *Chain, sf float64, src rand.Source) (*Ensemble, error) {
	if len(c.Steps) == 0 {
		return nil, ErrEmptyChain
	}
	last := c.Steps[len(c.Steps)-1]
	l := last.Layout
	if l.Nobs != 1 || l.Npl != 1 {
		return nil, fmt.Errorf("%w: have %d observatories, %d planets",
			ErrUnsupported, l.Nobs, l.Npl)
	}
	if len(ts) < 2 {
		return nil, fmt.Errorf("ensemble: recentering needs at least two samples")
	}
	s, cell, _, err := c.Best()
	if err != nil {
		return nil, err
	}
	p0 := c.Steps[s].Params(cell)

	span := ts[len(ts)-1] - ts[0]
	nsamp := float64(len(ts))
	ncycle := span / p0.Period()[0]
	ncorr := span / p0.Tau[0]

	gauss := func(mu, sigma float64) distuv.Normal {
		return distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
	}
	logn := func(x, sigma float64) distuv.LogNormal {
		return distuv.LogNormal{Mu: math.Log(x), Sigma: sigma, Src: src}
	}
	var (
		vD     = gauss(p0.V[0], sf*math.Sqrt(p0.Sigma[0])/math.Sqrt(nsamp))
		kD     = gauss(p0.K[0], sf*p0.K[0]/math.Sqrt(nsamp))
		sigmaD = logn(p0.Sigma[0], sf/math.Sqrt(ncorr))
		tauD   = logn(p0.Tau[0], sf/math.Sqrt(ncorr))
		nD     = logn(p0.N[0], sf/math.Sqrt(ncycle))
		chiD   = logn(p0.Chi[0], sf/math.Sqrt(ncycle))
		eD     = logn(p0.E[0], sf/math.Sqrt(ncycle))
		omegaD = logn(p0.Omega[0], sf/math.Sqrt(ncycle))
	)

	e := New(l, last.NTemps, last.NWalkers)
	p := params.New(l)
	for i := 0; i < e.Len(); i++ {
		p.V[0] = vD.Rand()
		p.Sigma[0] = sigmaD.Rand()
		p.Tau[0] = tauD.Rand()
		p.K[0] = kD.Rand()
		p.N[0] = nD.Rand()
		p.Chi[0] = unit.PMod(chiD.Rand(), 1)
		p.E[0] = eD.Rand()
		for p.E[0] >= 1 {
			p.E[0] = eD.Rand()
		}
		p.Omega[0] = unit.Angle(omegaD.Rand()).Mod1().Rad()
		e.SetParams(i, p)
	}
	return e, nil
}
