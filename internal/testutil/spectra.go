// Package testutil provides deterministic spectra and tolerance helpers
// shared by tests across the module.
package testutil

import (
	"math"
	"math/rand"
)

// LinearAxis returns n evenly spaced wavenumbers starting at start.
func LinearAxis(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Ramp returns n values rising linearly from 0 to 1.
func Ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

// Constant returns a flat spectrum of the given value.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// GaussianPeak evaluates a Gaussian band of the given height, centered at
// center with standard deviation width, on the axis. width must be > 0.
func GaussianPeak(axis []float64, center, width, height float64) []float64 {
	out := make([]float64, len(axis))
	for i, w := range axis {
		d := w - center
		out[i] = height * math.Exp(-d*d/(2*width*width))
	}
	return out
}

// AddInPlace adds b into a elementwise. Slices must share a length.
func AddInPlace(a, b []float64) {
	for i := range a {
		a[i] += b[i]
	}
}

// DeterministicNoise generates seeded uniform noise in [-amplitude, amplitude].
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}
