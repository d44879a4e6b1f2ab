package preprocess

import "github.com/cwbudde/algo-spectro/registry"

// Built-in stages are registered under stable names so orchestration code
// and plugins can dispatch by name. Entries close over DefaultConfig
// parameters; callers needing other parameters use the functions directly.
func init() {
	def := DefaultConfig()

	registry.Preprocessors.Register("smoothing", func(axis, y []float64) ([]float64, error) {
		return Smooth(y, def.SmoothWindow, def.SmoothPolyOrder)
	})
	registry.Preprocessors.Register("baseline_als", func(axis, y []float64) ([]float64, error) {
		return CorrectBaselineAsLS(y, def.ALSLam, def.ALSP, def.ALSIterations)
	})
	registry.Preprocessors.Register("baseline_poly", func(axis, y []float64) ([]float64, error) {
		return BaselinePoly(axis, y, def.BaselinePoints, def.BaselinePolyOrder)
	})
	registry.Preprocessors.Register("normalization", func(axis, y []float64) ([]float64, error) {
		return Normalize(axis, y, NormMax)
	})
	registry.Preprocessors.Register("snv", func(axis, y []float64) ([]float64, error) {
		return SNV(y), nil
	})
	registry.Preprocessors.Register("log_transform", func(axis, y []float64) ([]float64, error) {
		return Log1p(y), nil
	})
	registry.Preprocessors.Register("sqrt_transform", func(axis, y []float64) ([]float64, error) {
		return Sqrt(y), nil
	})
	registry.Preprocessors.Register("bose_einstein", func(axis, y []float64) ([]float64, error) {
		return BoseEinstein(axis, y, def.TemperatureK)
	})
	registry.Preprocessors.Register("fourier_denoise", func(axis, y []float64) ([]float64, error) {
		return DenoiseFourier(y, 0.5)
	})
}
