package core

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates an axis/intensity length mismatch or ragged
	// matrix rows.
	ErrShapeMismatch = errors.New("core: shape mismatch")
	// ErrAxisNotMonotonic indicates an axis that is not strictly increasing
	// or strictly decreasing.
	ErrAxisNotMonotonic = errors.New("core: axis not strictly monotonic")
	// ErrEmptyInput indicates an empty axis, spectrum, or matrix.
	ErrEmptyInput = errors.New("core: empty input")
)

// Spectrum pairs an intensity sequence with its wavenumber axis.
//
// A Spectrum is treated as immutable once constructed: processing stages
// return new intensity slices rather than writing into Intensity.
type Spectrum struct {
	Axis      []float64
	Intensity []float64
}

// Validate checks the axis/intensity alignment and axis monotonicity.
func (s Spectrum) Validate() error {
	if len(s.Axis) == 0 {
		return fmt.Errorf("core: spectrum: %w", ErrEmptyInput)
	}
	if len(s.Axis) != len(s.Intensity) {
		return fmt.Errorf("core: spectrum: axis length %d, intensity length %d: %w",
			len(s.Axis), len(s.Intensity), ErrShapeMismatch)
	}
	return CheckAxis(s.Axis)
}

// Clone returns a deep copy of the spectrum.
func (s Spectrum) Clone() Spectrum {
	out := Spectrum{
		Axis:      make([]float64, len(s.Axis)),
		Intensity: make([]float64, len(s.Intensity)),
	}
	copy(out.Axis, s.Axis)
	copy(out.Intensity, s.Intensity)
	return out
}

// CheckAxis reports whether axis is strictly monotonic.
func CheckAxis(axis []float64) error {
	if len(axis) == 0 {
		return fmt.Errorf("core: axis: %w", ErrEmptyInput)
	}
	if len(axis) == 1 {
		return nil
	}
	ascending := axis[1] > axis[0]
	for i := 1; i < len(axis); i++ {
		if ascending && axis[i] <= axis[i-1] {
			return fmt.Errorf("core: axis index %d: %w", i, ErrAxisNotMonotonic)
		}
		if !ascending && axis[i] >= axis[i-1] {
			return fmt.Errorf("core: axis index %d: %w", i, ErrAxisNotMonotonic)
		}
	}
	return nil
}

// CheckMatrix verifies that every row of m has length cols.
func CheckMatrix(m [][]float64, cols int) error {
	if len(m) == 0 {
		return fmt.Errorf("core: matrix: %w", ErrEmptyInput)
	}
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("core: matrix row %d has %d columns, want %d: %w",
				i, len(row), cols, ErrShapeMismatch)
		}
	}
	return nil
}

// EqualAxes reports whether two axes match in length and, element-wise,
// within relative tolerance rtol.
func EqualAxes(a, b []float64, rtol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !NearlyEqual(a[i], b[i], rtol) {
			return false
		}
	}
	return true
}

// CloneMatrix returns a deep copy of m.
func CloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}
