package transform

// NonNegative projects spectra onto the non-negative orthant by clipping
// negative intensities to zero. Raman intensities are physically
// non-negative; negative excursions appear only as artifacts of noise or
// baseline subtraction.
//
// The projection is lossy: InverseTransform is the identity and cannot
// recover clipped values.
type NonNegative struct{}

var _ Transformer = (*NonNegative)(nil)

// Fit is a no-op; the projection has no learned parameters.
func (NonNegative) Fit(m [][]float64) error {
	return nil
}

// Transform returns m with every negative entry replaced by zero.
func (NonNegative) Transform(m [][]float64) ([][]float64, error) {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if v < 0 {
				v = 0
			}
			out[i][j] = v
		}
	}
	return out, nil
}

// InverseTransform is the identity. Clipping discards information, so the
// original negative values are not recoverable.
func (NonNegative) InverseTransform(m [][]float64) ([][]float64, error) {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out, nil
}
