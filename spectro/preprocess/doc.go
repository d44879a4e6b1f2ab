// Package preprocess conditions raw spectra: Savitzky-Golay smoothing,
// baseline estimation (asymmetric least squares and polynomial), max / area /
// SNV normalization, dynamic-range compression, the Bose-Einstein temperature
// correction, derivatives, and multi-spectrum denoising (rank-truncated SVD
// and Fourier low-pass).
//
// Every operation is a pure function: deterministic, no hidden state, fresh
// output for every call. Batch variants work row-wise over independent rows,
// so callers are free to partition rows across goroutines without changing
// observable behavior.
//
// [Pipeline] chains the stages in the canonical conditioning order used for
// Raman workflows; individual functions remain available for custom chains.
package preprocess
