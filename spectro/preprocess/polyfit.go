package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrPolyFit indicates that a polynomial fit was requested with fewer
// samples than coefficients.
var ErrPolyFit = errors.New("preprocess: not enough samples for polynomial fit")

// PolyFit fits a polynomial of the given degree to (axis, y) by least
// squares and returns the fitted curve evaluated on axis. It is used both as
// a coarse global-shape extractor and as the backing fit for the polynomial
// baseline.
func PolyFit(axis, y []float64, degree int) ([]float64, error) {
	if len(axis) != len(y) {
		return nil, fmt.Errorf("preprocess: polyfit: axis length %d, intensity length %d", len(axis), len(y))
	}
	coeffs, err := polyfit(axis, y, degree)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(axis))
	for i, x := range axis {
		out[i] = polyval(coeffs, scaleX(axis, x))
	}
	return out, nil
}

// BaselinePoly subtracts a polynomial baseline anchored on segment minima:
// the axis is split into nPoints segments, the 5th intensity percentile of
// each segment becomes a baseline anchor at the segment's mean wavenumber,
// and a polynomial of order polyOrder through the anchors is subtracted.
//
// When the spectrum is too short to produce polyOrder+1 anchors the input is
// returned unchanged (copied), mirroring the degenerate-input fallback
// policy of the normalization modes.
func BaselinePoly(axis, y []float64, nPoints, polyOrder int) ([]float64, error) {
	if len(axis) != len(y) {
		return nil, fmt.Errorf("preprocess: baseline: axis length %d, intensity length %d", len(axis), len(y))
	}
	out := make([]float64, len(y))
	copy(out, y)
	if len(y) == 0 {
		return out, nil
	}

	if nPoints < polyOrder+1 {
		nPoints = polyOrder + 1
	}
	if nPoints > len(axis) {
		nPoints = len(axis)
	}
	if nPoints < polyOrder+1 {
		return out, nil
	}

	anchorX := make([]float64, 0, nPoints)
	anchorY := make([]float64, 0, nPoints)
	for i := 0; i < nPoints; i++ {
		start := i * len(axis) / nPoints
		end := (i + 1) * len(axis) / nPoints
		if end <= start {
			continue
		}
		mean := 0.0
		for _, x := range axis[start:end] {
			mean += x
		}
		mean /= float64(end - start)
		anchorX = append(anchorX, mean)
		anchorY = append(anchorY, percentile(y[start:end], 5))
	}
	if len(anchorX) < polyOrder+1 {
		return out, nil
	}

	coeffs, err := polyfit(anchorX, anchorY, polyOrder)
	if err != nil {
		return nil, err
	}
	for i, x := range axis {
		out[i] = y[i] - polyval(coeffs, scaleX(anchorX, x))
	}
	return out, nil
}

// polyfit solves the least-squares polynomial fit and returns coefficients
// in ascending-power order over the scaled abscissa (see scaleX).
func polyfit(x, y []float64, degree int) ([]float64, error) {
	if degree < 0 {
		return nil, fmt.Errorf("preprocess: polyfit: negative degree %d", degree)
	}
	if len(x) < degree+1 {
		return nil, fmt.Errorf("%w: %d samples for degree %d", ErrPolyFit, len(x), degree)
	}

	// The abscissa is scaled into [-1, 1] for conditioning; wavenumbers in
	// the thousands raised to cubic powers would otherwise dominate the
	// normal equations.
	a := mat.NewDense(len(x), degree+1, nil)
	for i, xi := range x {
		t := scaleX(x, xi)
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= t
		}
	}

	b := mat.NewVecDense(len(y), nil)
	for i, yi := range y {
		b.SetVec(i, yi)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("preprocess: polyfit solve: %w", err)
	}

	coeffs := make([]float64, degree+1)
	for j := range coeffs {
		coeffs[j] = sol.AtVec(j)
	}
	return coeffs, nil
}

func polyval(coeffs []float64, t float64) float64 {
	acc := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		acc = acc*t + coeffs[j]
	}
	return acc
}

// scaleX maps x into [-1, 1] over the range of ref.
func scaleX(ref []float64, x float64) float64 {
	lo, hi := ref[0], ref[0]
	for _, v := range ref {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return 0
	}
	return 2*(x-lo)/(hi-lo) - 1
}

// percentile returns the q-th percentile (0-100) of values using linear
// interpolation between order statistics.
func percentile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
