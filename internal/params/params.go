// Public domain.

// Package params defines the parameter vector of the RV noise model.
//
// A parameter vector holds, for each observatory, an offset velocity V, a
// noise variance sigma0 and a correlation time tau, and for each planet a
// semi-amplitude K, a mean motion n, a phase chi, an eccentricity e and an
// argument of periastron omega.
//
// The flat representation used by samplers and chain files is observatory
// blocks followed by planet blocks:
//
//	V0 sigma0 tau0 V1 sigma1 tau1 ... K0 n0 chi0 e0 omega0 K1 n1 ...
package params

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrShape reports a flat vector whose length does not agree with a layout.
var ErrShape = errors.New("params: shape mismatch")

// Number of fields in an observatory block and in a planet block.
const (
	ObsFields    = 3
	PlanetFields = 5
)

// Field offsets within a block.
const (
	offV = iota
	offSigma
	offTau
)

const (
	offK = iota
	offN
	offChi
	offE
	offOmega
)

// Field names, in block order.
var (
	ObsNames    = []string{"V", "sigma", "tau"}
	PlanetNames = []string{"K", "n", "chi", "e", "omega"}
)

// Layout is the shape of a parameter vector.
type Layout struct {
	Nobs, Npl int
}

// Dim returns the length of the flat representation.
func (l Layout) Dim() int {
	return ObsFields*l.Nobs + PlanetFields*l.Npl
}

// InferLayout returns the layout of a flat vector of length n holding nobs
// observatories.
func InferLayout(n, nobs int) (Layout, error) {
	rest := n - ObsFields*nobs
	if nobs < 0 || rest < 0 || rest%PlanetFields != 0 {
		return Layout{}, fmt.Errorf("%w: length %d with %d observatories",
			ErrShape, n, nobs)
	}
	return Layout{Nobs: nobs, Npl: rest / PlanetFields}, nil
}

// ox computes the flat index of field f of observatory i.
func (l Layout) ox(i, f int) int {
	return i*ObsFields + f
}

// px computes the flat index of field f of planet j.
func (l Layout) px(j, f int) int {
	return l.Nobs*ObsFields + j*PlanetFields + f
}

// Header returns column names for the flat representation.
func (l Layout) Header() []string {
	h := make([]string, 0, l.Dim())
	for i := 0; i < l.Nobs; i++ {
		for _, n := range ObsNames {
			h = append(h, fmt.Sprint(n, i))
		}
	}
	for j := 0; j < l.Npl; j++ {
		for _, n := range PlanetNames {
			h = append(h, fmt.Sprint(n, j))
		}
	}
	return h
}

// Params is the structured form of a parameter vector.  Observatory fields
// have length Nobs, planet fields length Npl.
//
// Sigma is the marginal variance of the correlated noise, not its square
// root.
type Params struct {
	Layout
	V, Sigma, Tau       []float64
	K, N, Chi, E, Omega []float64
}

// New allocates a zero valued parameter vector.
func New(l Layout) *Params {
	return &Params{
		Layout: l,
		V:      make([]float64, l.Nobs),
		Sigma:  make([]float64, l.Nobs),
		Tau:    make([]float64, l.Nobs),
		K:      make([]float64, l.Npl),
		N:      make([]float64, l.Npl),
		Chi:    make([]float64, l.Npl),
		E:      make([]float64, l.Npl),
		Omega:  make([]float64, l.Npl),
	}
}

// Const returns a parameter vector with every field set to c.
func Const(l Layout, c float64) *Params {
	p := New(l)
	return p.AddConst(c)
}

// Unpack copies flat vector x into a new Params.
func Unpack(l Layout, x []float64) (*Params, error) {
	if len(x) != l.Dim() {
		return nil, fmt.Errorf("%w: length %d, layout %+v wants %d",
			ErrShape, len(x), l, l.Dim())
	}
	p := New(l)
	for i := 0; i < l.Nobs; i++ {
		p.V[i] = x[l.ox(i, offV)]
		p.Sigma[i] = x[l.ox(i, offSigma)]
		p.Tau[i] = x[l.ox(i, offTau)]
	}
	for j := 0; j < l.Npl; j++ {
		p.K[j] = x[l.px(j, offK)]
		p.N[j] = x[l.px(j, offN)]
		p.Chi[j] = x[l.px(j, offChi)]
		p.E[j] = x[l.px(j, offE)]
		p.Omega[j] = x[l.px(j, offOmega)]
	}
	return p, nil
}

// MustUnpack is like Unpack but panics on a shape mismatch.
func MustUnpack(l Layout, x []float64) *Params {
	p, err := Unpack(l, x)
	if err != nil {
		panic(err)
	}
	return p
}

// Pack writes the flat representation of p to dst and returns it.
// If dst is nil a new slice is allocated.
func (p *Params) Pack(dst []float64) []float64 {
	l := p.Layout
	if dst == nil {
		dst = make([]float64, l.Dim())
	} else if len(dst) != l.Dim() {
		panic(ErrShape)
	}
	for i := 0; i < l.Nobs; i++ {
		dst[l.ox(i, offV)] = p.V[i]
		dst[l.ox(i, offSigma)] = p.Sigma[i]
		dst[l.ox(i, offTau)] = p.Tau[i]
	}
	for j := 0; j < l.Npl; j++ {
		dst[l.px(j, offK)] = p.K[j]
		dst[l.px(j, offN)] = p.N[j]
		dst[l.px(j, offChi)] = p.Chi[j]
		dst[l.px(j, offE)] = p.E[j]
		dst[l.px(j, offOmega)] = p.Omega[j]
	}
	return dst
}

// Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	return MustUnpack(p.Layout, p.Pack(nil))
}

// Field returns the slice holding the named field, or nil if the name is
// not a field name.  The slice is shared with p.
func (p *Params) Field(name string) []float64 {
	switch name {
	case "V":
		return p.V
	case "sigma":
		return p.Sigma
	case "tau":
		return p.Tau
	case "K":
		return p.K
	case "n":
		return p.N
	case "chi":
		return p.Chi
	case "e":
		return p.E
	case "omega":
		return p.Omega
	}
	return nil
}

// SetField replaces the values of the named field.  A single value is
// broadcast to every observatory or planet.
func (p *Params) SetField(name string, v ...float64) error {
	f := p.Field(name)
	switch {
	case f == nil:
		return fmt.Errorf("params: no field %q", name)
	case len(v) == 1:
		for i := range f {
			f[i] = v[0]
		}
	case len(v) == len(f):
		copy(f, v)
	default:
		return fmt.Errorf("%w: field %s has %d values, got %d",
			ErrShape, name, len(f), len(v))
	}
	return nil
}

// Period returns orbital periods 2π/n.
func (p *Params) Period() []float64 {
	per := make([]float64, len(p.N))
	for j, n := range p.N {
		per[j] = 2 * math.Pi / n
	}
	return per
}

// Add returns p + q.
func (p *Params) Add(q *Params) *Params {
	p.mustMatch(q)
	x := p.Pack(nil)
	floats.Add(x, q.Pack(nil))
	return MustUnpack(p.Layout, x)
}

// Scale returns c * p.
func (p *Params) Scale(c float64) *Params {
	x := p.Pack(nil)
	floats.Scale(c, x)
	return MustUnpack(p.Layout, x)
}

// AddConst returns p + c.
func (p *Params) AddConst(c float64) *Params {
	x := p.Pack(nil)
	floats.AddConst(c, x)
	return MustUnpack(p.Layout, x)
}

// AnyLE reports whether any field of p is <= the matching field of q.
// A NaN in either counts as <=.
func (p *Params) AnyLE(q *Params) bool {
	return p.any(q, func(a, b float64) bool { return !(a > b) })
}

// AnyGE reports whether any field of p is >= the matching field of q.
// A NaN in either counts as >=.
func (p *Params) AnyGE(q *Params) bool {
	return p.any(q, func(a, b float64) bool { return !(a < b) })
}

func (p *Params) any(q *Params, f func(a, b float64) bool) bool {
	p.mustMatch(q)
	x, y := p.Pack(nil), q.Pack(nil)
	for i := range x {
		if f(x[i], y[i]) {
			return true
		}
	}
	return false
}

func (p *Params) mustMatch(q *Params) {
	if p.Layout != q.Layout {
		panic(ErrShape)
	}
}
