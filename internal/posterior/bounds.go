// Public domain.

package posterior

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/soniakeys/rvcorr/internal/params"
)

// ErrTooFewSamples reports data too sparse to derive bounds from.
var ErrTooFewSamples = errors.New("posterior: need at least two samples per observatory")

// BoundsFromData returns conservative prior bounds for npl planets derived
// from sampling times and velocities.
//
// Per observatory, V is within one velocity spread of the observed range,
// tau within a tenth of the shortest sampling gap and ten times the
// observation span, and sigma0 below (2 std)², the variance of twice the
// velocity scatter.  Across observatories, n is bounded by the longest span
// and the shortest gap, and K by the smallest velocity change and twice the
// largest spread.  Chi, e and omega get their natural ranges.
func BoundsFromData(npl int, ts, rvs [][]float64) (*Bounds, error) {
	if len(ts) != len(rvs) {
		return nil, fmt.Errorf("%w: %d time series, %d velocity series",
			params.ErrShape, len(ts), len(rvs))
	}
	l := params.Layout{Nobs: len(ts), Npl: npl}
	min, max := params.New(l), params.New(l)

	minDt, maxT := math.Inf(1), 0.
	minDv, maxSpread := math.Inf(1), 0.
	for i, t := range ts {
		rv := rvs[i]
		if len(t) < 2 || len(rv) != len(t) {
			return nil, fmt.Errorf("%w: observatory %d", ErrTooFewSamples, i)
		}
		dt := minDiff(t)
		span := t[len(t)-1] - t[0]
		lo, hi := floats.Min(rv), floats.Max(rv)
		spread := hi - lo

		min.V[i] = lo - spread
		max.V[i] = hi + spread
		min.Tau[i] = dt / 10
		max.Tau[i] = span * 10
		sd := 2 * stat.PopStdDev(rv, nil)
		min.Sigma[i] = 0
		max.Sigma[i] = sd * sd

		minDt = math.Min(minDt, dt)
		maxT = math.Max(maxT, span)
		minDv = math.Min(minDv, minAbsDiff(rv))
		maxSpread = math.Max(maxSpread, spread)
	}
	if npl > 0 {
		min.SetField("n", 2*math.Pi/maxT)
		max.SetField("n", 2*math.Pi/minDt)
		min.SetField("chi", 0)
		max.SetField("chi", 1)
		min.SetField("e", 0)
		max.SetField("e", 1)
		min.SetField("omega", 0)
		max.SetField("omega", 2*math.Pi)
		min.SetField("K", minDv)
		max.SetField("K", 2*maxSpread)
	}
	return &Bounds{Min: min, Max: max}, nil
}

// minDiff returns the smallest gap between consecutive samples.
func minDiff(t []float64) float64 {
	m := math.Inf(1)
	for i := 1; i < len(t); i++ {
		m = math.Min(m, t[i]-t[i-1])
	}
	return m
}

func minAbsDiff(v []float64) float64 {
	m := math.Inf(1)
	for i := 1; i < len(v); i++ {
		m = math.Min(m, math.Abs(v[i]-v[i-1]))
	}
	return m
}
