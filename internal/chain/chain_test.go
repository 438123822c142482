// Public domain.

package chain_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/rvcorr/internal/chain"
	"github.com/soniakeys/rvcorr/internal/ensemble"
	"github.com/soniakeys/rvcorr/internal/params"
)

func step(l params.Layout, base float64) (*ensemble.Ensemble, []float64, []float64) {
	e := ensemble.New(l, 2, 3)
	for i := range e.X {
		e.X[i] = base + float64(i)/7
	}
	logl := make([]float64, e.Len())
	logp := make([]float64, e.Len())
	for c := range logl {
		logl[c] = -base - float64(c)
		logp[c] = float64(c) / 3
	}
	logl[2] = math.Inf(-1)
	return e, logl, logp
}

func TestRoundTrip(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "run")
	l := params.Layout{Nobs: 1, Npl: 1}
	id := uuid.New()

	e0, l0, p0 := step(l, 1)
	e1, l1, p1 := step(l, 100)
	require.NoError(t, chain.Write(prefix, e0, l0, p0, id))
	require.NoError(t, chain.Write(prefix, e1, l1, p1, id))

	for _, n := range []string{"run.00.txt.gz", "run.01.txt.gz"} {
		_, err := os.Stat(filepath.Join(filepath.Dir(prefix), n))
		require.NoError(t, err)
	}

	c, err := chain.Read(prefix, l, 2, 3)
	require.NoError(t, err)
	require.Len(t, c.Steps, 2)
	assert.Equal(t, e0.X, c.Steps[0].X)
	assert.Equal(t, e1.X, c.Steps[1].X)
	assert.Equal(t, [][]float64{l0, l1}, c.LogL)
	assert.Equal(t, [][]float64{p0, p1}, c.LogP)

	s, cell, _, err := c.Best()
	require.NoError(t, err)
	assert.Equal(t, 0, s)
	assert.Equal(t, 0, cell)

	got, err := chain.RunID(prefix)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

// A second run appended to existing files records its own id.
func TestAppendedRunID(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "run")
	l := params.Layout{Nobs: 1, Npl: 1}
	first, second := uuid.New(), uuid.New()

	e, logl, logp := step(l, 1)
	require.NoError(t, chain.Write(prefix, e, logl, logp, first))
	require.NoError(t, chain.Write(prefix, e, logl, logp, first))
	require.NoError(t, chain.Write(prefix, e, logl, logp, second))

	ids, err := chain.RunIDs(prefix)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	got, err := chain.RunID(prefix)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	c, err := chain.Read(prefix, l, 2, 3)
	require.NoError(t, err)
	assert.Len(t, c.Steps, 3)

	_, err = chain.RunIDs(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestReadShape(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "run")
	l := params.Layout{Nobs: 1, Npl: 1}
	e, logl, logp := step(l, 1)
	require.NoError(t, chain.Write(prefix, e, logl, logp, uuid.New()))

	_, err := chain.Read(prefix, params.Layout{Nobs: 1}, 2, 3)
	assert.ErrorIs(t, err, params.ErrShape)
	_, err = chain.Read(prefix, l, 2, 2)
	assert.ErrorIs(t, err, params.ErrShape)
	_, err = chain.Read(prefix, l, 3, 3)
	assert.Error(t, err)

	assert.ErrorIs(t, chain.Write(prefix, e, logl[1:], logp, uuid.Nil), params.ErrShape)
}
