// Public domain.

package rvprog

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/soniakeys/rvcorr/internal/chain"
	"github.com/soniakeys/rvcorr/internal/config"
	"github.com/soniakeys/rvcorr/internal/ensemble"
	"github.com/soniakeys/rvcorr/internal/logger"
	"github.com/soniakeys/rvcorr/internal/posterior"
	"github.com/soniakeys/rvcorr/internal/rvdata"
)

// run holds a loaded configuration with its data and posterior.
type run struct {
	cfg     *config.Config
	series  []*rvdata.Series
	ts, rvs [][]float64
	ll      *posterior.LogLikelihood
	lp      *posterior.LogPrior
}

func loadRun(cmd *cobra.Command, opt *options) (*run, error) {
	logger.Section("setup")
	cfg, err := config.Load(opt.config)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opt.seed
	}
	r := &run{cfg: cfg}
	for _, o := range cfg.Observatories {
		s, err := rvdata.ReadFile(o.File)
		if err != nil {
			return nil, err
		}
		if o.Name != "" {
			s.Name = o.Name
		}
		logger.Debug("%s: %d samples, span %g", s.Name, s.Len(), s.Span())
		r.series = append(r.series, s)
	}
	r.ts, r.rvs = rvdata.Split(r.series)
	if r.ll, err = posterior.NewLogLikelihood(r.ts, r.rvs, nil); err != nil {
		return nil, err
	}
	b, err := r.bounds()
	if err != nil {
		return nil, err
	}
	if r.lp, err = posterior.NewLogPrior(cfg.Layout(), b, cfg.OrderPeriods); err != nil {
		return nil, err
	}
	logger.Info("%d observatories, %d planets, %s bounds",
		cfg.Layout().Nobs, cfg.Npl, cfg.Policy)
	return r, nil
}

// bounds returns prior bounds for the configured policy.  Nil selects the
// default bounds.
func (r *run) bounds() (*posterior.Bounds, error) {
	switch r.cfg.Policy {
	case config.PolicyHeuristic:
		return posterior.BoundsFromData(r.cfg.Npl, r.ts, r.rvs)
	case config.PolicyExplicit:
		return config.LoadBounds(r.cfg.BoundsFile, r.cfg.Layout())
	}
	return nil, nil
}

func (r *run) source() rand.Source {
	seed := r.cfg.RandSeed()
	logger.Debug("seed %d", seed)
	return ensemble.NewSource(seed)
}

// initial draws a starting ensemble by the configured policy.
func (r *run) initial() (*ensemble.Ensemble, error) {
	c := r.cfg
	if c.Policy == config.PolicyData {
		return ensemble.FromData(r.ts, r.rvs, c.Npl, c.NTemps, c.NWalkers,
			r.source(), c.OrderPeriods)
	}
	b := r.lp.Bounds()
	return ensemble.FromBounds(b.Min, b.Max, c.NTemps, c.NWalkers,
		r.source(), c.OrderPeriods)
}

// evaluate computes the posterior of every walker of e and logs how many
// are feasible.
func (r *run) evaluate(ctx context.Context, e *ensemble.Ensemble) (logl, logp []float64, err error) {
	logl, logp, err = posterior.Evaluate(ctx, e, r.ll, r.lp, r.cfg.Workers)
	if err != nil {
		return nil, nil, err
	}
	n := 0
	for c := range logl {
		if !math.IsInf(logl[c]+logp[c], -1) {
			n++
		}
	}
	if n < len(logl) {
		logger.Warn("%d of %d walkers infeasible", len(logl)-n, len(logl))
	} else {
		logger.Info("%d walkers evaluated", len(logl))
	}
	return logl, logp, nil
}

func (r *run) write(ctx context.Context, prefix string, e *ensemble.Ensemble) error {
	logl, logp, err := r.evaluate(ctx, e)
	if err != nil {
		return err
	}
	id := uuid.New()
	if err := chain.Write(prefix, e, logl, logp, id); err != nil {
		return err
	}
	logger.Info("wrote %s.*, run %s", prefix, id)
	return nil
}
