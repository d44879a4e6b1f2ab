// Package core provides the shared data model for spectral processing:
// wavenumber axes, single spectra, row-aligned spectrum matrices, and the
// resampling primitive that brings mismatched axes onto a common grid.
//
// Conventions used throughout the module:
//
//   - An axis is a strictly monotonic (increasing or decreasing) sequence of
//     wavenumbers in cm^-1.
//   - A spectrum is an intensity slice aligned index-for-index with its axis.
//   - A matrix holds one spectrum per row; all rows share a single axis.
//   - Processing stages never mutate their input; they allocate fresh output.
//
// Shape violations (axis/intensity length mismatch, ragged matrix rows) are
// programmer errors and are always surfaced as errors wrapping
// [ErrShapeMismatch], never silently truncated.
package core
