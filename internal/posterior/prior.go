// Public domain.

package posterior

import (
	"fmt"
	"math"

	"github.com/soniakeys/rvcorr/internal/params"
)

// Bounds is an axis aligned box of parameter vectors.  Unbounded fields
// hold ±Inf.
type Bounds struct {
	Min, Max *params.Params
}

// DefaultBounds returns the bounds used when none are given:  every field
// bounded below by zero except V, unbounded above except chi and e (1) and
// omega (2π).
func DefaultBounds(l params.Layout) *Bounds {
	min := params.New(l)
	min.SetField("V", math.Inf(-1))
	max := params.Const(l, math.Inf(1))
	max.SetField("chi", 1)
	max.SetField("e", 1)
	max.SetField("omega", 2*math.Pi)
	return &Bounds{Min: min, Max: max}
}

// Validate checks that Min and Max share layout l and that Min < Max
// wherever both are finite.
func (b *Bounds) Validate(l params.Layout) error {
	if b.Min.Layout != l || b.Max.Layout != l {
		return fmt.Errorf("%w: bounds layout %+v, %+v, want %+v",
			params.ErrShape, b.Min.Layout, b.Max.Layout, l)
	}
	lo, hi := b.Min.Pack(nil), b.Max.Pack(nil)
	h := l.Header()
	for i := range lo {
		if math.IsNaN(lo[i]) || math.IsNaN(hi[i]) || lo[i] >= hi[i] {
			return fmt.Errorf("posterior: empty bound for %s: [%g, %g]",
				h[i], lo[i], hi[i])
		}
	}
	return nil
}

// LogPrior is the log of the prior density.
//
// Sigma, tau, K and n have Jeffreys priors, e a thermal prior, and V, chi,
// omega flat priors, all truncated to the bounds.
type LogPrior struct {
	layout       params.Layout
	bounds       Bounds
	orderPeriods bool
}

// NewLogPrior resolves bounds for layout l and returns the prior.
//
// A nil b, or a nil b.Min or b.Max, selects the corresponding DefaultBounds.
// If orderPeriods is true, vectors with planet periods out of non-decreasing
// order are rejected so that each posterior mode has a single labeling.
func NewLogPrior(l params.Layout, b *Bounds, orderPeriods bool) (*LogPrior, error) {
	r := *DefaultBounds(l)
	if b != nil {
		if b.Min != nil {
			r.Min = b.Min.Clone()
		}
		if b.Max != nil {
			r.Max = b.Max.Clone()
		}
	}
	if err := r.Validate(l); err != nil {
		return nil, err
	}
	return &LogPrior{layout: l, bounds: r, orderPeriods: orderPeriods}, nil
}

// Layout returns the layout the prior was built for.
func (lp *LogPrior) Layout() params.Layout { return lp.layout }

// Bounds returns a copy of the resolved bounds.
func (lp *LogPrior) Bounds() *Bounds {
	return &Bounds{Min: lp.bounds.Min.Clone(), Max: lp.bounds.Max.Clone()}
}

// At evaluates the log prior of flat vector x.  It panics if len(x) does
// not match the layout.
func (lp *LogPrior) At(x []float64) float64 {
	return lp.Eval(params.MustUnpack(lp.layout, x))
}

// Eval evaluates the log prior of p, returning -Inf for vectors outside
// the open bounds or, when enabled, with unordered periods.
func (lp *LogPrior) Eval(p *params.Params) float64 {
	if p.AnyLE(lp.bounds.Min) || p.AnyGE(lp.bounds.Max) {
		return math.Inf(-1)
	}
	if lp.orderPeriods && !PeriodsOrdered(p) {
		return math.Inf(-1)
	}
	pr := 0.
	for i := 0; i < p.Nobs; i++ {
		pr -= math.Log(p.Sigma[i])
		pr -= math.Log(p.Tau[i])
	}
	for j := 0; j < p.Npl; j++ {
		pr -= math.Log(p.K[j])
		pr -= math.Log(p.N[j])
		pr += math.Log(p.E[j])
	}
	return pr
}

// PeriodsOrdered reports whether planet periods are non-decreasing,
// equivalently mean motions non-increasing.
func PeriodsOrdered(p *params.Params) bool {
	for j := 1; j < len(p.N); j++ {
		if p.N[j] > p.N[j-1] {
			return false
		}
	}
	return true
}
