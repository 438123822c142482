/*
Command rvcorr evaluates posteriors of radial velocity models with correlated
noise and prepares walker ensembles for a parallel tempered ensemble sampler.

Version 0.1

Contents:

  - Program overview
  - Command line usage
  - Configuration
  - File formats
  - Model outline

# Program overview

Input is one radial velocity time series per observatory.  The model is a
sum of Keplerian orbits, one per planet, plus for each observatory a constant
offset velocity and a stationary Gaussian noise process whose covariance
decays exponentially with the time between samples.  Evaluating the model
likelihood exactly accounts for the correlation between nearby samples.

The program does not itself run a sampler.  It draws starting ensembles,
evaluates log likelihood and log prior of ensembles, and after a sampler
has run, draws a refined ensemble tightly about the best sample found.

Sample session:

	rvcorr init -c run.toml
	(run the sampler, appending to chain.NN.txt.gz)
	rvcorr eval -c run.toml
	rvcorr recenter -c run.toml

# Command line usage

	rvcorr init      Draw a starting ensemble and write it as a new chain.
	rvcorr recenter  Draw a tight ensemble about the best sample of a chain.
	rvcorr eval      Re-evaluate the last iteration of a chain.
	rvcorr bounds    Print the resolved prior bounds.
	rvcorr version   Display version and copyright.

Options for all commands:

	-c, --config <file>   run configuration, default rvcorr.toml
	-v, --verbose         log debug detail
	--seed <n>            random seed, overrides the configuration

Progress is logged to stderr.  Output of eval and bounds goes to stdout.

# Configuration

The run configuration is a TOML file.  Only the observatory tables are
required:

	ntemps        = 20
	nwalkers      = 100
	npl           = 1
	seed          = 0
	repeatable    = false
	order_periods = true
	sigma_factor  = 0.1
	workers       = 0
	prefix        = "chain"
	policy        = "heuristic"
	bounds_file   = ""

	[[observatory]]
	name = "HIRES"
	file = "hires.rv"

Seed 0 seeds from the clock, unless repeatable is set.  Workers 0 uses all
processors.  With order_periods, planets are labeled in order of increasing
period and the prior rejects other orderings.

Policy selects how the starting ensemble and prior bounds are derived.
Heuristic bounds are computed from the sampling and scatter of the data.
Explicit bounds are read from bounds_file.  Policy data draws from
heuristics on the data and uses the default, mostly unbounded, prior.

Relative file names are relative to the directory of the configuration file.

# File formats

Data files have one sample per line, time then velocity, separated by
spaces.  Further columns are ignored.  Empty lines and lines beginning with #
are ignored.  Times must increase.

A bounds file has two lines, minima then maxima, each a full parameter
vector in flat order.  Inf and -Inf are allowed.  The output of rvcorr bounds
is in this format.

Chains are one gzip compressed text file per temperature, named
<prefix>.<NN>.txt.gz.  Each line is one walker:

	logl logp V0 sigma0 tau0 ... K0 n0 chi0 e0 omega0 ...

Observatory fields come first, then planet fields.  V is the offset velocity,
sigma the noise variance, tau the correlation time.  K is the velocity
semi-amplitude, n the mean motion 2π/P, chi the orbital phase as a fraction
of a period, e the eccentricity and omega the argument of periastron.

# Model outline

  1. For each observatory the orbit sum and offset are subtracted from
     the observed velocities.
  2. The residuals are scored against a zero mean multivariate normal with
     covariance sigma * exp(-|ti - tj| / tau), through a Cholesky
     factorization. A covariance that is not positive definite scores -Inf.
  3. Priors are flat in V, chi and omega, Jeffreys in sigma, tau, K and n,
     and proportional to e in eccentricity, all truncated to the bounds.
  4. Recentering locates the sample of highest likelihood in a chain and
     draws a new ensemble about it. Spreads shrink with the number of
     orbital cycles and correlation times the data span. Recentering is
     implemented for a single observatory and a single planet.

-------------
Public domain.
*/
package main
