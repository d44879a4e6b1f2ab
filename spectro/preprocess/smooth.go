package preprocess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrWindowLength indicates an even, non-positive, or too-large smoothing
	// window.
	ErrWindowLength = errors.New("preprocess: invalid smoothing window length")
	// ErrPolyOrder indicates a polynomial order incompatible with the window.
	ErrPolyOrder = errors.New("preprocess: invalid polynomial order")
)

// Smooth applies Savitzky-Golay smoothing: each point is replaced by the
// value of a least-squares polynomial of order polyorder fitted over a
// centered window of length window.
//
// window must be odd, positive, and no longer than y; polyorder must satisfy
// 0 <= polyorder < window. Violations are usage errors. Edge points are
// smoothed by evaluating the polynomial fitted to the first (or last) full
// window at their positions, so output length equals input length.
func Smooth(y []float64, window, polyorder int) ([]float64, error) {
	if window <= 0 || window%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrWindowLength, window)
	}
	if window > len(y) {
		return nil, fmt.Errorf("%w: window %d exceeds signal length %d", ErrWindowLength, window, len(y))
	}
	if polyorder < 0 || polyorder >= window {
		return nil, fmt.Errorf("%w: order %d with window %d", ErrPolyOrder, polyorder, window)
	}

	proj, err := savgolProjection(window, polyorder)
	if err != nil {
		return nil, err
	}

	n := len(y)
	half := window / 2
	out := make([]float64, n)

	// Interior: convolution with the center projection row.
	center := proj.RawRowView(half)
	for i := half; i < n-half; i++ {
		acc := 0.0
		for k, c := range center {
			acc += c * y[i-half+k]
		}
		out[i] = acc
	}

	// Edges: evaluate the polynomial fitted to the boundary window.
	for i := 0; i < half && i < n; i++ {
		row := proj.RawRowView(i)
		acc := 0.0
		for k, c := range row {
			acc += c * y[k]
		}
		out[i] = acc

		row = proj.RawRowView(window - 1 - i)
		acc = 0.0
		for k, c := range row {
			acc += c * y[n-window+k]
		}
		out[n-1-i] = acc
	}

	return out, nil
}

// SmoothBatch applies Smooth to every row of m.
func SmoothBatch(m [][]float64, window, polyorder int) ([][]float64, error) {
	return Batch(m, func(row []float64) ([]float64, error) {
		return Smooth(row, window, polyorder)
	})
}

// savgolProjection builds the window×window least-squares projection matrix
// H = A (AᵀA)⁻¹ Aᵀ for a polynomial basis centered on the window. Row r
// holds the weights that evaluate the fitted polynomial at window position r.
func savgolProjection(window, polyorder int) (*mat.Dense, error) {
	half := window / 2
	a := mat.NewDense(window, polyorder+1, nil)
	for i := 0; i < window; i++ {
		t := float64(i - half)
		v := 1.0
		for j := 0; j <= polyorder; j++ {
			a.Set(i, j, v)
			v *= t
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return nil, fmt.Errorf("preprocess: smoothing design matrix is singular: %w", err)
	}

	var h mat.Dense
	h.Product(a, &inv, a.T())
	return &h, nil
}

// Batch applies op independently to every row of m. Rows do not share state;
// callers may partition them across goroutines.
func Batch(m [][]float64, op func([]float64) ([]float64, error)) ([][]float64, error) {
	out := make([][]float64, len(m))
	for i, row := range m {
		res, err := op(row)
		if err != nil {
			return nil, fmt.Errorf("preprocess: row %d: %w", i, err)
		}
		out[i] = res
	}
	return out, nil
}
