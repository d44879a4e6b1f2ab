package preprocess

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// NormMode selects a normalization policy.
type NormMode string

const (
	// NormNone leaves the spectrum unscaled.
	NormNone NormMode = "none"
	// NormMax divides by the maximum absolute intensity.
	NormMax NormMode = "max"
	// NormArea divides by the trapezoidal integral over the axis.
	NormArea NormMode = "area"
	// NormSNV applies the standard normal variate: per-spectrum mean
	// centering and scaling to unit standard deviation.
	NormSNV NormMode = "snv"
)

// ErrNormMode indicates an unknown normalization mode.
var ErrNormMode = errors.New("preprocess: unknown normalization mode")

// Normalize scales y according to mode. The axis is consulted only by
// [NormArea]. Degenerate spectra (zero peak, zero area, zero variance) are
// returned unchanged rather than divided; see [Degenerate] to detect the
// fallback.
func Normalize(axis, y []float64, mode NormMode) ([]float64, error) {
	out := make([]float64, len(y))
	copy(out, y)

	switch mode {
	case NormNone, "":
		return out, nil
	case NormMax:
		peak := vecmath.MaxAbs(y)
		if peak == 0 {
			return out, nil
		}
		vecmath.ScaleBlockInPlace(out, 1/peak)
		return out, nil
	case NormArea:
		area := math.Abs(trapezoid(axis, y))
		if area == 0 {
			return out, nil
		}
		vecmath.ScaleBlockInPlace(out, 1/area)
		return out, nil
	case NormSNV:
		return SNV(y), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrNormMode, mode)
	}
}

// SNV applies the standard normal variate transform. A zero-variance
// spectrum is returned unchanged.
func SNV(y []float64) []float64 {
	out := make([]float64, len(y))
	copy(out, y)
	if len(y) == 0 {
		return out
	}

	mean := vecmath.Sum(y) / float64(len(y))
	variance := 0.0
	for _, v := range y {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(y)))
	if std == 0 {
		return out
	}

	for i := range out {
		out[i] = (y[i] - mean) / std
	}
	return out
}

// Degenerate reports whether mode's denominator vanishes for y, i.e.
// whether Normalize would fall back to returning the input unchanged.
func Degenerate(axis, y []float64, mode NormMode) bool {
	switch mode {
	case NormMax:
		return vecmath.MaxAbs(y) == 0
	case NormArea:
		return trapezoid(axis, y) == 0
	case NormSNV:
		if len(y) == 0 {
			return true
		}
		mean := vecmath.Sum(y) / float64(len(y))
		for _, v := range y {
			if v != mean {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// NormalizeBatch applies Normalize to every row of m.
func NormalizeBatch(axis []float64, m [][]float64, mode NormMode) ([][]float64, error) {
	return Batch(m, func(row []float64) ([]float64, error) {
		return Normalize(axis, row, mode)
	})
}

// Log1p clips intensities to be non-negative and applies log(1+y)
// elementwise. Intensity is physically non-negative; negative excursions
// from noise or baseline subtraction are treated as zero.
func Log1p(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		if v < 0 {
			v = 0
		}
		out[i] = math.Log1p(v)
	}
	return out
}

// Sqrt clips intensities to be non-negative and applies sqrt elementwise.
func Sqrt(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		if v < 0 {
			v = 0
		}
		out[i] = math.Sqrt(v)
	}
	return out
}

// ClipNegative zeroes all negative intensities.
func ClipNegative(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		if v < 0 {
			v = 0
		}
		out[i] = v
	}
	return out
}

// trapezoid integrates y over axis with the trapezoidal rule. A descending
// axis yields a negative value; callers take the absolute value when using
// the result as a scale.
func trapezoid(axis, y []float64) float64 {
	if len(axis) != len(y) || len(y) < 2 {
		return 0
	}
	acc := 0.0
	for i := 1; i < len(y); i++ {
		acc += (axis[i] - axis[i-1]) * (y[i] + y[i-1]) / 2
	}
	return acc
}
