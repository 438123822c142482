// Public domain.

package posterior

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/soniakeys/rvcorr/internal/ensemble"
)

// Evaluate computes log likelihood and log prior for every cell of ens.
//
// Results are indexed like ens cells, temperature major.  Cells rejected by
// the prior are not passed to the likelihood and get logl = -Inf.  Workers
// <= 0 means GOMAXPROCS.  Evaluation stops early only if ctx is cancelled.
func Evaluate(ctx context.Context, ens *ensemble.Ensemble, ll *LogLikelihood,
	lp *LogPrior, workers int) (logl, logp []float64, err error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := ens.Len()
	logl = make([]float64, n)
	logp = make([]float64, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < n; c++ {
		c := c
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			x := ens.Cell(c)
			logp[c] = lp.At(x)
			if math.IsInf(logp[c], -1) {
				logl[c] = math.Inf(-1)
				return nil
			}
			logl[c] = ll.At(x)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, nil, err
	}
	return logl, logp, nil
}
