// Public domain.

// Package noise models correlated RV noise: an exponential covariance
// kernel and the exact Gaussian log density under that covariance.
package noise

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Exponential is the exponential (Ornstein-Uhlenbeck) autocovariance
//
//	cov(t_i, t_j) = variance * exp(-|t_i - t_j| / tau)
//
// Variance is the marginal variance sigma0 itself; it is not squared.
type Exponential struct {
	variance float64
	tau      float64
}

// NewExponential returns the kernel for noise variance sigma0 and
// correlation time tau.  Neither is checked; the kernel is positive definite
// only for positive values.
func NewExponential(sigma0, tau float64) *Exponential {
	return &Exponential{
		variance: sigma0,
		tau:      tau,
	}
}

// Cov returns the covariance of two samples separated by dt.
func (k *Exponential) Cov(dt float64) float64 {
	return k.variance * math.Exp(-math.Abs(dt)/k.tau)
}

// Covariance builds the dense covariance matrix for sample times ts.
func (k *Exponential) Covariance(ts []float64) *mat.SymDense {
	n := len(ts)
	c := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		c.SetSym(i, i, k.variance)
		for j := i + 1; j < n; j++ {
			c.SetSym(i, j, k.Cov(ts[j]-ts[i]))
		}
	}
	return c
}

// Covariance is shorthand for NewExponential(sigma0, tau).Covariance(ts).
func Covariance(ts []float64, sigma0, tau float64) *mat.SymDense {
	return NewExponential(sigma0, tau).Covariance(ts)
}
