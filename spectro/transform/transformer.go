// Package transform provides fitted spectral models behind a common
// fit/transform/inverse-transform interface: a non-negativity projector, an
// autoencoding compressor with deep and shallow variants, and a robust
// background-subtraction filter.
//
// Models follow a strict lifecycle: Fit learns parameters, Transform and
// InverseTransform consume them. Calling either before Fit returns
// [ErrNotFitted]. After a successful Fit the learned parameters are
// immutable, so Transform and InverseTransform are safe for concurrent use;
// Fit itself must not be called concurrently on one instance.
package transform

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-spectro/spectro/core"
)

var (
	// ErrNotFitted indicates Transform or InverseTransform was called
	// before Fit.
	ErrNotFitted = errors.New("transform: model not fitted")
	// ErrFeatureCount indicates input whose column count differs from the
	// fitting data.
	ErrFeatureCount = errors.New("transform: feature count mismatch")
)

// Transformer is the capability set shared by all models in this package.
type Transformer interface {
	// Fit learns model parameters from the rows of m.
	Fit(m [][]float64) error
	// Transform maps the rows of m through the fitted model.
	Transform(m [][]float64) ([][]float64, error)
	// InverseTransform maps transformed rows back toward the input space.
	InverseTransform(m [][]float64) ([][]float64, error)
}

// toDense validates that m is rectangular and copies it into a Dense.
func toDense(m [][]float64) (*mat.Dense, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("transform: %w", core.ErrEmptyInput)
	}
	cols := len(m[0])
	if err := core.CheckMatrix(m, cols); err != nil {
		return nil, err
	}
	out := mat.NewDense(len(m), cols, nil)
	for i, row := range m {
		out.SetRow(i, row)
	}
	return out, nil
}

func fromDense(d *mat.Dense) [][]float64 {
	rows, cols := d.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		copy(out[i], d.RawRowView(i))
	}
	return out
}
