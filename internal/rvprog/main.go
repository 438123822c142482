// Public domain.

// Package rvprog implements the rvcorr command.
package rvprog

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"

	"github.com/soniakeys/rvcorr/internal/logger"
)

const versionString = "rvcorr version 0.1 Go source."
const copyrightString = "Public domain."

func Main() {
	defer exit.Handler()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		exit.Log(err)
	}
}

// options common to all commands
type options struct {
	config  string
	verbose bool
	seed    uint64
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opt options
	root := &cobra.Command{
		Use:   "rvcorr",
		Short: "Correlated noise RV model evaluation and ensemble setup",
		Long: `rvcorr evaluates posteriors of radial velocity models with
exponentially correlated noise, and prepares walker ensembles for a parallel
tempered ensemble sampler.

Runs are described by a TOML configuration file.  Chains are stored as one
gzip compressed text file per temperature, <prefix>.<NN>.txt.gz.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(opt.verbose)
		},
	}
	root.SetOut(out)
	pf := root.PersistentFlags()
	pf.StringVarP(&opt.config, "config", "c", "rvcorr.toml", "run configuration file")
	pf.BoolVarP(&opt.verbose, "verbose", "v", false, "log debug detail")
	pf.Uint64Var(&opt.seed, "seed", 0, "random seed, overrides the configuration")

	root.AddCommand(
		newInitCmd(&opt),
		newRecenterCmd(&opt),
		newEvalCmd(&opt),
		newBoundsCmd(&opt),
		&cobra.Command{
			Use:   "version",
			Short: "Print version and copyright",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), versionString)
				fmt.Fprintln(cmd.OutOrStdout(), copyrightString)
			},
		},
	)
	return root
}
