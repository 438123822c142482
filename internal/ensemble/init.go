// Public domain.

package ensemble

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/soniakeys/rvcorr/internal/params"
)

// ErrUnbounded reports a field that must be drawn from bounds that are
// infinite or empty.
var ErrUnbounded = errors.New("ensemble: field needs finite bounds")

// ErrUnordered reports mean motion bounds that admit no vector with
// periods in order.
var ErrUnordered = errors.New("ensemble: no ordered periods within bounds")

// maxRedraws limits redraws of a walker whose sorted mean motions fall
// outside their bounds.
const maxRedraws = 10000

// FromBounds draws an ensemble from the box [min, max].
//
// V, e, chi and omega are uniform.  Sigma, tau, K and n are log-uniform,
// being positive scales spanning orders of magnitude; a lower bound <= 0 is
// replaced by max/1000.  With orderPeriods, mean motions of each walker are
// sorted so that periods are non-decreasing.  Where planets have different
// n bounds, walkers whose sorted mean motions leave the bounds are redrawn;
// ErrUnordered is returned if no ordered vector exists within the bounds.
// Every draw is strictly inside the bounds.
func FromBounds(min, max *params.Params, ntemps, nwalkers int,
	src rand.Source, orderPeriods bool) (*Ensemble, error) {
	if min.Layout != max.Layout {
		return nil, fmt.Errorf("%w: bounds layouts %+v, %+v",
			params.ErrShape, min.Layout, max.Layout)
	}
	l := min.Layout
	type draw struct {
		name string
		rnd  func(lo, hi float64) float64
		log  bool
	}
	u := func(lo, hi float64) float64 { return openUniform(lo, hi, src) }
	lu := func(lo, hi float64) float64 { return logUniform(lo, hi, src) }
	draws := []draw{
		{"V", u, false}, {"sigma", lu, true}, {"tau", lu, true},
		{"K", lu, true}, {"n", lu, true},
		{"chi", u, false}, {"e", u, false}, {"omega", u, false},
	}

	// resolve and check bounds once
	type rng struct{ lo, hi []float64 }
	ranges := map[string]rng{}
	for _, d := range draws {
		lo := append([]float64(nil), min.Field(d.name)...)
		hi := max.Field(d.name)
		for i := range lo {
			if d.log && lo[i] <= 0 {
				lo[i] = hi[i] / 1000
			}
			if math.IsInf(lo[i], 0) || math.IsInf(hi[i], 0) ||
				!(lo[i] < hi[i]) {
				return nil, fmt.Errorf("%w: %s%d in [%g, %g]",
					ErrUnbounded, d.name, i, lo[i], hi[i])
			}
		}
		ranges[d.name] = rng{lo, hi}
	}

	nr := ranges["n"]
	if orderPeriods && !orderable(nr.lo, nr.hi) {
		return nil, fmt.Errorf("%w: n in [%g, %g]", ErrUnordered, nr.lo, nr.hi)
	}

	e := New(l, ntemps, nwalkers)
	p := params.New(l)
	for c := 0; c < e.Len(); c++ {
		for _, d := range draws {
			r := ranges[d.name]
			f := p.Field(d.name)
			for i := range f {
				f[i] = d.rnd(r.lo[i], r.hi[i])
			}
		}
		if orderPeriods {
			sortPeriods(p)
			for try := 0; !inside(p.N, nr.lo, nr.hi); try++ {
				if try == maxRedraws {
					return nil, fmt.Errorf("%w: n in [%g, %g], %d redraws",
						ErrUnordered, nr.lo, nr.hi, maxRedraws)
				}
				for j := range p.N {
					p.N[j] = lu(nr.lo[j], nr.hi[j])
				}
				sortPeriods(p)
			}
		}
		e.SetParams(c, p)
	}
	return e, nil
}

// orderable reports whether some non-increasing sequence lies within the
// open intervals (lo[j], hi[j]).  Choosing each value just above the largest
// lower bound from j on gives such a sequence if one exists.
func orderable(lo, hi []float64) bool {
	m := math.Inf(-1)
	for j := len(lo) - 1; j >= 0; j-- {
		m = math.Max(m, lo[j])
		if !(m < hi[j]) {
			return false
		}
	}
	return true
}

// inside reports whether every x[j] is strictly within (lo[j], hi[j]).
func inside(x, lo, hi []float64) bool {
	for j, v := range x {
		if !(v > lo[j] && v < hi[j]) {
			return false
		}
	}
	return true
}

// FromData draws an ensemble for npl planets from heuristics on the data
// alone.
//
// With velocities of all observatories pooled, each V is normal about the
// mean with scale std/sqrt(N), sigma0 log-normal about std² and K about std,
// both with unit log scale.  Tau is uniform between the shortest sampling
// gap and the longest span, n uniform between 2π/span and 2π/gap.  E and
// chi are uniform on (0,1), omega on (0,2π).
func FromData(ts, rvs [][]float64, npl, ntemps, nwalkers int,
	src rand.Source, orderPeriods bool) (*Ensemble, error) {
	if len(ts) != len(rvs) {
		return nil, fmt.Errorf("%w: %d time series, %d velocity series",
			params.ErrShape, len(ts), len(rvs))
	}
	var all []float64
	gap, span := math.Inf(1), 0.
	for i, t := range ts {
		if len(t) != len(rvs[i]) {
			return nil, fmt.Errorf("%w: observatory %d", params.ErrShape, i)
		}
		all = append(all, rvs[i]...)
		for k := 1; k < len(t); k++ {
			gap = math.Min(gap, t[k]-t[k-1])
		}
		if len(t) > 0 {
			span = math.Max(span, t[len(t)-1]-t[0])
		}
	}
	if !(gap > 0) || math.IsInf(gap, 1) || !(span > gap) {
		return nil, fmt.Errorf("ensemble: no usable sampling gap (gap %g, span %g)",
			gap, span)
	}
	mean, std := stat.PopMeanStdDev(all, nil)
	if !(std > 0) {
		return nil, fmt.Errorf("ensemble: velocities have no scatter")
	}

	l := params.Layout{Nobs: len(ts), Npl: npl}
	vDist := distuv.Normal{Mu: mean, Sigma: std / math.Sqrt(float64(len(all))), Src: src}
	sDist := distuv.LogNormal{Mu: math.Log(std * std), Sigma: 1, Src: src}
	kDist := distuv.LogNormal{Mu: math.Log(std), Sigma: 1, Src: src}
	e := New(l, ntemps, nwalkers)
	p := params.New(l)
	for c := 0; c < e.Len(); c++ {
		for i := 0; i < l.Nobs; i++ {
			p.V[i] = vDist.Rand()
			p.Sigma[i] = positive(sDist.Rand)
			p.Tau[i] = openUniform(gap, span, src)
		}
		for j := 0; j < l.Npl; j++ {
			p.K[j] = positive(kDist.Rand)
			p.N[j] = openUniform(2*math.Pi/span, 2*math.Pi/gap, src)
			p.Chi[j] = openUniform(0, 1, src)
			p.E[j] = openUniform(0, 1, src)
			p.Omega[j] = openUniform(0, 2*math.Pi, src)
		}
		if orderPeriods {
			sortPeriods(p)
		}
		e.SetParams(c, p)
	}
	return e, nil
}

// sortPeriods orders mean motions decreasing, periods increasing.
func sortPeriods(p *params.Params) {
	sort.Sort(sort.Reverse(sort.Float64Slice(p.N)))
}

// openUniform draws uniformly from the open interval (lo, hi).
func openUniform(lo, hi float64, src rand.Source) float64 {
	d := distuv.Uniform{Min: lo, Max: hi, Src: src}
	for {
		if x := d.Rand(); x > lo && x < hi {
			return x
		}
	}
}

// logUniform draws from (lo, hi) uniformly in log space.
func logUniform(lo, hi float64, src rand.Source) float64 {
	d := distuv.Uniform{Min: math.Log(lo), Max: math.Log(hi), Src: src}
	for {
		if x := math.Exp(d.Rand()); x > lo && x < hi {
			return x
		}
	}
}

// positive redraws until f returns a finite positive value.
func positive(f func() float64) float64 {
	for {
		if x := f(); x > 0 && !math.IsInf(x, 1) {
			return x
		}
	}
}
