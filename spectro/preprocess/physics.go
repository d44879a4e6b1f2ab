package preprocess

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Physical constants for the Bose-Einstein correction.
const (
	planckJS        = 6.62607015e-34 // Planck constant (J·s)
	lightSpeedCMps  = 2.99792458e10  // speed of light (cm/s); converts cm^-1 to Hz
	boltzmannJperK  = 1.380649e-23   // Boltzmann constant (J/K)
)

// ErrTemperature indicates a non-positive absolute temperature.
var ErrTemperature = errors.New("preprocess: temperature must be positive")

// BoseEinstein removes the temperature-dependent population-factor bias from
// scattering intensity. Each intensity is multiplied by
//
//	factor(ω) = 1 − exp(−h·c·ω / (k·T))
//
// with ω the wavenumber in cm^-1 and T the temperature in kelvin. The factor
// is defined as 0 at ω <= 0 (the physical limit at zero Raman shift), so the
// corrected intensity vanishes there instead of dividing by zero.
func BoseEinstein(axis, y []float64, tempK float64) ([]float64, error) {
	if len(axis) != len(y) {
		return nil, fmt.Errorf("preprocess: bose-einstein: axis length %d, intensity length %d", len(axis), len(y))
	}
	if tempK <= 0 {
		return nil, fmt.Errorf("%w: %g K", ErrTemperature, tempK)
	}

	factor := make([]float64, len(axis))
	for i, w := range axis {
		if w <= 0 {
			continue
		}
		factor[i] = 1 - math.Exp(-planckJS*lightSpeedCMps*w/(boltzmannJperK*tempK))
	}

	out := make([]float64, len(y))
	vecmath.MulBlock(out, y, factor)
	return out, nil
}

// BoseEinsteinBatch applies BoseEinstein to every row of m.
func BoseEinsteinBatch(axis []float64, m [][]float64, tempK float64) ([][]float64, error) {
	return Batch(m, func(row []float64) ([]float64, error) {
		return BoseEinstein(axis, row, tempK)
	})
}
