package core

import (
	"fmt"
	"sort"
)

// Resample linearly interpolates the spectrum (srcAxis, srcY) onto dstAxis.
//
// Both axes may run ascending or descending. Destination points outside the
// source axis range are filled with 0, matching the convention used when
// combining library spectra recorded over different ranges.
func Resample(srcAxis, srcY, dstAxis []float64) ([]float64, error) {
	if len(srcAxis) != len(srcY) {
		return nil, fmt.Errorf("core: resample: axis length %d, intensity length %d: %w",
			len(srcAxis), len(srcY), ErrShapeMismatch)
	}
	if err := CheckAxis(srcAxis); err != nil {
		return nil, err
	}
	if err := CheckAxis(dstAxis); err != nil {
		return nil, err
	}

	x, y := srcAxis, srcY
	if len(x) > 1 && x[1] < x[0] {
		x, y = reversed(x), reversed(y)
	}

	out := make([]float64, len(dstAxis))
	for i, w := range dstAxis {
		out[i] = interpAt(x, y, w)
	}
	return out, nil
}

// interpAt evaluates linear interpolation at w over ascending axis x.
// Points outside [x[0], x[len-1]] evaluate to 0.
func interpAt(x, y []float64, w float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	if w < x[0] || w > x[n-1] {
		return 0
	}
	if n == 1 {
		return y[0]
	}

	// Index of the first axis point >= w.
	j := sort.SearchFloat64s(x, w)
	if j == 0 {
		return y[0]
	}
	if x[j] == w {
		return y[j]
	}

	x0, x1 := x[j-1], x[j]
	frac := (w - x0) / (x1 - x0)
	return y[j-1] + frac*(y[j]-y[j-1])
}

func reversed(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
