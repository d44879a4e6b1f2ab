package preprocess

import "fmt"

// Gradient computes dy/dx with second-order central differences on the
// interior and first-order one-sided differences at the endpoints. The axis
// spacing may be non-uniform.
func Gradient(axis, y []float64) ([]float64, error) {
	if len(axis) != len(y) {
		return nil, fmt.Errorf("preprocess: gradient: axis length %d, intensity length %d", len(axis), len(y))
	}
	n := len(y)
	if n < 2 {
		return nil, fmt.Errorf("preprocess: gradient: need at least 2 samples, got %d", n)
	}

	out := make([]float64, n)
	out[0] = (y[1] - y[0]) / (axis[1] - axis[0])
	out[n-1] = (y[n-1] - y[n-2]) / (axis[n-1] - axis[n-2])
	for i := 1; i < n-1; i++ {
		hd := axis[i] - axis[i-1]
		hs := axis[i+1] - axis[i]
		out[i] = (hs*hs*y[i+1] + (hd*hd-hs*hs)*y[i] - hd*hd*y[i-1]) / (hs * hd * (hd + hs))
	}
	return out, nil
}

// Derivative2 computes the second derivative of y with respect to the axis
// by applying Gradient twice. Second-derivative spectra suppress broad
// baseline structure and sharpen overlapping bands.
func Derivative2(axis, y []float64) ([]float64, error) {
	d1, err := Gradient(axis, y)
	if err != nil {
		return nil, err
	}
	return Gradient(axis, d1)
}
