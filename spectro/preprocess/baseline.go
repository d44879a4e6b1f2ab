package preprocess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrBaselineParams indicates out-of-range asymmetric least squares
	// parameters.
	ErrBaselineParams = errors.New("preprocess: invalid baseline parameters")
	// ErrBaselineSolve indicates that the penalized system could not be
	// factorized; typically lam is far outside its usable range.
	ErrBaselineSolve = errors.New("preprocess: baseline system not positive definite")
)

// BaselineAsLS estimates a slowly varying baseline by asymmetric least
// squares (Eilers & Boelens). It iteratively solves
//
//	(W + lam·DᵀD) z = W y
//
// where D is the second-difference operator and W holds asymmetric weights:
// p where y > z, 1-p otherwise. Peaks poke above the baseline, so small p
// (e.g. 0.001-0.05) makes the fit hug the valleys; lam (e.g. 1e2-1e9)
// controls smoothness.
//
// The iteration count is fixed at niter; the algorithm is terminated by
// count, not by a convergence test. The penalized system is pentadiagonal
// and is solved with a banded Cholesky factorization.
//
// The returned slice is the baseline z itself; use [CorrectBaselineAsLS] for
// the baseline-subtracted spectrum.
func BaselineAsLS(y []float64, lam, p float64, niter int) ([]float64, error) {
	n := len(y)
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 samples, got %d", ErrBaselineParams, n)
	}
	if lam <= 0 {
		return nil, fmt.Errorf("%w: lam = %g", ErrBaselineParams, lam)
	}
	if p <= 0 || p >= 1 {
		return nil, fmt.Errorf("%w: p = %g", ErrBaselineParams, p)
	}
	if niter < 1 {
		return nil, fmt.Errorf("%w: niter = %d", ErrBaselineParams, niter)
	}

	// Upper band of lam·DᵀD, bandwidth 2. Constant across iterations.
	const bandwidth = 2
	penalty := secondDiffPenalty(n, lam)

	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}

	band := make([]float64, len(penalty))
	rhs := mat.NewVecDense(n, nil)
	z := mat.NewVecDense(n, nil)

	var chol mat.BandCholesky
	for it := 0; it < niter; it++ {
		copy(band, penalty)
		for i := 0; i < n; i++ {
			band[i*(bandwidth+1)] += w[i]
			rhs.SetVec(i, w[i]*y[i])
		}

		sys := mat.NewSymBandDense(n, bandwidth, band)
		if ok := chol.Factorize(sys); !ok {
			return nil, fmt.Errorf("%w: lam = %g", ErrBaselineSolve, lam)
		}
		if err := chol.SolveVecTo(z, rhs); err != nil {
			return nil, fmt.Errorf("preprocess: baseline solve: %w", err)
		}

		for i := 0; i < n; i++ {
			if y[i] > z.AtVec(i) {
				w[i] = p
			} else {
				w[i] = 1 - p
			}
		}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = z.AtVec(i)
	}
	return out, nil
}

// CorrectBaselineAsLS returns y minus its asymmetric least squares baseline.
func CorrectBaselineAsLS(y []float64, lam, p float64, niter int) ([]float64, error) {
	z, err := BaselineAsLS(y, lam, p, niter)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] - z[i]
	}
	return out, nil
}

// secondDiffPenalty builds the upper band (bandwidth 2, row-major, 3 columns
// per row) of lam·DᵀD where D is the (n-2)×n second-difference operator.
func secondDiffPenalty(n int, lam float64) []float64 {
	const cols = 3
	band := make([]float64, n*cols)
	stencil := [3]float64{1, -2, 1}

	for j := 0; j <= n-3; j++ {
		for a := 0; a < 3; a++ {
			for b := a; b < 3; b++ {
				row := j + a
				off := b - a
				band[row*cols+off] += lam * stencil[a] * stencil[b]
			}
		}
	}
	return band
}
