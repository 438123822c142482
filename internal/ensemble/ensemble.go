// Public domain.

// Package ensemble generates and refines walker ensembles for a parallel
// tempered ensemble sampler.
//
// An Ensemble holds one flat parameter vector per (temperature, walker)
// cell.  A Chain is a history of ensembles with their log likelihoods.
package ensemble

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/soniakeys/rvcorr/internal/params"
)

// Ensemble is an (NTemps, NWalkers, Layout.Dim()) array stored row major
// in X.
type Ensemble struct {
	Layout           params.Layout
	NTemps, NWalkers int
	X                []float64
}

// New allocates a zero valued ensemble.
func New(l params.Layout, ntemps, nwalkers int) *Ensemble {
	return &Ensemble{
		Layout:   l,
		NTemps:   ntemps,
		NWalkers: nwalkers,
		X:        make([]float64, ntemps*nwalkers*l.Dim()),
	}
}

// Len returns the number of cells, NTemps * NWalkers.
func (e *Ensemble) Len() int { return e.NTemps * e.NWalkers }

// Index returns the cell index of temperature t, walker w.
func (e *Ensemble) Index(t, w int) int { return t*e.NWalkers + w }

// Cell returns the parameter vector of cell c.  The slice is shared with e.
func (e *Ensemble) Cell(c int) []float64 {
	d := e.Layout.Dim()
	return e.X[c*d : (c+1)*d : (c+1)*d]
}

// Walker returns the parameter vector of temperature t, walker w.
// The slice is shared with e.
func (e *Ensemble) Walker(t, w int) []float64 {
	return e.Cell(e.Index(t, w))
}

// Params returns a structured copy of cell c.
func (e *Ensemble) Params(c int) *params.Params {
	return params.MustUnpack(e.Layout, e.Cell(c))
}

// SetParams stores p in cell c.
func (e *Ensemble) SetParams(c int, p *params.Params) {
	p.Pack(e.Cell(c))
}

// Clone returns a deep copy of e.
func (e *Ensemble) Clone() *Ensemble {
	c := *e
	c.X = append([]float64(nil), e.X...)
	return &c
}

// Chain is a sequence of ensembles from successive sampler iterations.
// LogL[s][c] is the log likelihood of cell c of Steps[s].  LogP, when
// present, holds log priors in the same shape.
type Chain struct {
	Steps []*Ensemble
	LogL  [][]float64
	LogP  [][]float64
}

// ErrEmptyChain reports a chain with no finite log likelihood.
var ErrEmptyChain = errors.New("ensemble: chain has no finite samples")

// Best locates the highest log likelihood sample over the whole history.
func (c *Chain) Best() (step, cell int, logl float64, err error) {
	if len(c.LogL) != len(c.Steps) {
		return 0, 0, 0, fmt.Errorf("%w: %d steps, %d likelihood rows",
			params.ErrShape, len(c.Steps), len(c.LogL))
	}
	logl = math.Inf(-1)
	step = -1
	for s, row := range c.LogL {
		if len(row) != c.Steps[s].Len() {
			return 0, 0, 0, fmt.Errorf("%w: step %d has %d cells, %d likelihoods",
				params.ErrShape, s, c.Steps[s].Len(), len(row))
		}
		for i, v := range row {
			if v > logl {
				step, cell, logl = s, i, v
			}
		}
	}
	if step < 0 {
		return 0, 0, 0, ErrEmptyChain
	}
	return step, cell, logl, nil
}

// NewSource returns a PCG random source seeded with seed.
func NewSource(seed uint64) rand.Source {
	src := &rand.PCGSource{}
	src.Seed(seed)
	return src
}
