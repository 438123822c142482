// Public domain.

package noise

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/soniakeys/rvcorr/internal/params"
)

// ErrSingular reports a covariance that is not numerically positive definite.
var ErrSingular = errors.New("noise: covariance not positive definite")

var log2Pi = math.Log(2 * math.Pi)

// LogDensity returns the log density of x under a multivariate normal with
// mean mu and covariance cov.
//
// The log determinant comes from the diagonal of the Cholesky factor and the
// quadratic form from a triangular solve.  The inverse is never formed.
// ErrSingular is returned if the factorization fails or the factor is too
// ill-conditioned for the solve to be trusted.
func LogDensity(x, mu []float64, cov mat.Symmetric) (float64, error) {
	n := len(x)
	if len(mu) != n || cov.SymmetricDim() != n {
		panic(params.ErrShape)
	}
	r := mat.NewVecDense(n, nil)
	for i := range x {
		r.SetVec(i, x[i]-mu[i])
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return math.Inf(-1), ErrSingular
	}
	var y mat.VecDense
	if err := chol.SolveVecTo(&y, r); err != nil {
		return math.Inf(-1), ErrSingular
	}
	return -.5*float64(n)*log2Pi - .5*chol.LogDet() - .5*mat.Dot(r, &y), nil
}

// LogLikelihood is LogDensity with a singular covariance mapped to -Inf,
// so that a sampler simply rejects the move.
func LogLikelihood(x, mu []float64, cov mat.Symmetric) float64 {
	ll, err := LogDensity(x, mu, cov)
	if err != nil {
		return math.Inf(-1)
	}
	return ll
}
