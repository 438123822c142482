// Public domain.

package rvprog

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soniakeys/rvcorr/internal/chain"
	"github.com/soniakeys/rvcorr/internal/ensemble"
	"github.com/soniakeys/rvcorr/internal/logger"
	"github.com/soniakeys/rvcorr/internal/params"
)

func newInitCmd(opt *options) *cobra.Command {
	var out string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Draw a starting ensemble",
		Long: `Draw a starting ensemble by the configured policy and write it, with its
log likelihoods and log priors, as the first iteration of a chain.

Policy heuristic draws within bounds derived from the data, explicit within
bounds read from bounds_file, data from heuristics on the data alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRun(cmd, opt)
			if err != nil {
				return err
			}
			if out == "" {
				out = r.cfg.Prefix
			}
			if !force {
				if _, err := os.Stat(chain.FileName(out, 0)); err == nil {
					return fmt.Errorf("%s exists, use --force to append",
						chain.FileName(out, 0))
				}
			}
			logger.Section("init")
			e, err := r.initial()
			if err != nil {
				return err
			}
			return r.write(cmd.Context(), out, e)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output chain prefix (default from configuration)")
	cmd.Flags().BoolVar(&force, "force", false, "append to existing chain files")
	return cmd
}

func newRecenterCmd(opt *options) *cobra.Command {
	var in, out string
	var sf float64
	cmd := &cobra.Command{
		Use:   "recenter",
		Short: "Draw a tight ensemble about the best sample of a chain",
		Long: `Read a chain, locate its highest likelihood sample, and draw a new
ensemble about it with spreads scaled by the number of orbital cycles and
correlation times spanned by the data.  Needs a single observatory and a
single planet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRun(cmd, opt)
			if err != nil {
				return err
			}
			if in == "" {
				in = r.cfg.Prefix
			}
			if out == "" {
				out = in + ".recentered"
			}
			if !cmd.Flags().Changed("sigma-factor") {
				sf = r.cfg.SigmaFactor
			}
			logger.Section("recenter")
			c, err := chain.Read(in, r.cfg.Layout(), r.cfg.NTemps, r.cfg.NWalkers)
			if err != nil {
				return err
			}
			if id, err := chain.RunID(in); err == nil {
				logger.Debug("%s: run %s, %d iterations", in, id, len(c.Steps))
			}
			s, cell, ll, err := c.Best()
			if err != nil {
				return err
			}
			logger.Info("best logl %g at iteration %d, walker %d", ll, s, cell)
			e, err := ensemble.Recenter(r.ts[0], c, sf, r.source())
			if err != nil {
				return err
			}
			return r.write(cmd.Context(), out, e)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in, "in", "i", "", "input chain prefix (default from configuration)")
	f.StringVarP(&out, "out", "o", "", "output chain prefix (default <in>.recentered)")
	f.Float64Var(&sf, "sigma-factor", ensemble.DefaultSigmaFactor, "spread factor")
	return cmd
}

func newEvalCmd(opt *options) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Re-evaluate the last iteration of a chain",
		Long: `Read a chain and evaluate log likelihood and log prior of every walker of
its last iteration.  One line is printed per temperature: the number of
feasible walkers, the largest log likelihood and the largest log posterior.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRun(cmd, opt)
			if err != nil {
				return err
			}
			if in == "" {
				in = r.cfg.Prefix
			}
			logger.Section("eval")
			c, err := chain.Read(in, r.cfg.Layout(), r.cfg.NTemps, r.cfg.NWalkers)
			if err != nil {
				return err
			}
			if len(c.Steps) == 0 {
				return ensemble.ErrEmptyChain
			}
			e := c.Steps[len(c.Steps)-1]
			logl, logp, err := r.evaluate(cmd.Context(), e)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "# temp feasible max_logl max_logpost")
			for t := 0; t < e.NTemps; t++ {
				n := 0
				maxL, maxP := math.Inf(-1), math.Inf(-1)
				for wk := 0; wk < e.NWalkers; wk++ {
					cell := e.Index(t, wk)
					lp := logl[cell] + logp[cell]
					if math.IsInf(lp, -1) {
						continue
					}
					n++
					maxL = math.Max(maxL, logl[cell])
					maxP = math.Max(maxP, lp)
				}
				fmt.Fprintf(w, "%02d %d %s %s\n", t, n, format(maxL), format(maxP))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input chain prefix (default from configuration)")
	return cmd
}

func newBoundsCmd(opt *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bounds",
		Short: "Print the resolved prior bounds",
		Long: `Print the prior bounds of the configured policy as two rows, minima then
maxima, in the format read by bounds_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRun(cmd, opt)
			if err != nil {
				return err
			}
			b := r.lp.Bounds()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# %s\n", strings.Join(r.cfg.Layout().Header(), " "))
			for _, p := range []*params.Params{b.Min, b.Max} {
				x := p.Pack(nil)
				fs := make([]string, len(x))
				for i, v := range x {
					fs[i] = format(v)
				}
				fmt.Fprintln(w, strings.Join(fs, " "))
			}
			return nil
		},
	}
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
