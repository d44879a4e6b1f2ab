package preprocess

import (
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-spectro/spectro/core"
)

var (
	// ErrRank indicates a denoising rank outside [1, min(rows, cols)].
	ErrRank = errors.New("preprocess: rank out of range")
	// ErrCutoff indicates a Fourier cutoff outside (0, 1].
	ErrCutoff = errors.New("preprocess: cutoff out of range")
)

// DenoiseSVD reconstructs m from its top nComponents singular directions.
// Correlated structure across spectra concentrates in the leading singular
// vectors while uncorrelated noise spreads across all of them, so the
// truncated reconstruction suppresses noise shared-structure-first.
//
// nComponents must lie in [1, min(rows, cols)]; requesting the full rank
// reproduces the input up to floating tolerance.
func DenoiseSVD(m [][]float64, nComponents int) ([][]float64, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("preprocess: svd: %w", core.ErrEmptyInput)
	}
	cols := len(m[0])
	if err := core.CheckMatrix(m, cols); err != nil {
		return nil, err
	}

	rows := len(m)
	maxRank := rows
	if cols < maxRank {
		maxRank = cols
	}
	if nComponents < 1 || nComponents > maxRank {
		return nil, fmt.Errorf("%w: %d with %d×%d matrix (max %d)", ErrRank, nComponents, rows, cols, maxRank)
	}

	flat := make([]float64, rows*cols)
	for i, row := range m {
		copy(flat[i*cols:], row)
	}

	var svd mat.SVD
	if ok := svd.Factorize(mat.NewDense(rows, cols, flat), mat.SVDThin); !ok {
		return nil, errors.New("preprocess: svd factorization failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// U_k · diag(s_k) · V_kᵀ
	scaled := mat.NewDense(rows, nComponents, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < nComponents; j++ {
			scaled.Set(i, j, u.At(i, j)*values[j])
		}
	}

	var rec mat.Dense
	rec.Mul(scaled, v.Slice(0, cols, 0, nComponents).T())

	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		copy(out[i], rec.RawRowView(i))
	}
	return out, nil
}

// DenoiseFourier low-pass filters a single spectrum in the frequency domain:
// the signal is symmetrically extended to a power-of-two length, transformed,
// bins above cutoff (as a fraction of the Nyquist bin, in (0, 1]) are
// zeroed, and the result is transformed back.
func DenoiseFourier(y []float64, cutoff float64) ([]float64, error) {
	if len(y) == 0 {
		return nil, fmt.Errorf("preprocess: fourier: %w", core.ErrEmptyInput)
	}
	if cutoff <= 0 || cutoff > 1 {
		return nil, fmt.Errorf("%w: %g", ErrCutoff, cutoff)
	}

	n := len(y)
	size := nextPowerOf2(n)

	in := make([]complex128, size)
	for i := 0; i < size; i++ {
		in[i] = complex(y[reflectIndex(i, n)], 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("preprocess: fourier: %w", err)
	}

	spec := make([]complex128, size)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("preprocess: fourier: %w", err)
	}

	keep := int(cutoff * float64(size/2))
	for i := keep + 1; i <= size/2; i++ {
		spec[i] = 0
		if i != size/2 || size%2 != 0 {
			spec[size-i] = 0
		}
	}

	if err := plan.Inverse(in, spec); err != nil {
		return nil, fmt.Errorf("preprocess: fourier: %w", err)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = real(in[i])
		if cmplx.IsNaN(in[i]) {
			out[i] = 0
		}
	}
	return out, nil
}

// reflectIndex maps i in [0, size) onto [0, n) by symmetric (mirror)
// extension, which avoids the edge discontinuity of zero padding.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < n {
		return i
	}
	return period - i
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
