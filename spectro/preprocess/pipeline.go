package preprocess

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectro/spectro/core"
)

// TransformMode selects the global dynamic-range compression stage.
type TransformMode string

const (
	// TransformNone disables dynamic-range compression.
	TransformNone TransformMode = "none"
	// TransformLog applies log(1+y) after clipping negatives.
	TransformLog TransformMode = "log"
	// TransformSqrt applies sqrt(y) after clipping negatives.
	TransformSqrt TransformMode = "sqrt"
)

// Config selects and parameterizes the pipeline stages. The zero value
// disables every stage; DefaultConfig returns the customary starting point
// for Raman spectra.
type Config struct {
	// QualityGate skips all processing for spectra whose peak intensity
	// falls below QualityThreshold, returning them unchanged.
	QualityGate      bool
	QualityThreshold float64

	BoseEinstein bool
	TemperatureK float64

	Smoothing       bool
	SmoothWindow    int
	SmoothPolyOrder int

	// BaselineAsLS takes precedence over BaselinePoly when both are set.
	BaselineAsLS  bool
	ALSLam        float64
	ALSP          float64
	ALSIterations int

	BaselinePoly      bool
	BaselinePoints    int
	BaselinePolyOrder int

	Normalization NormMode

	Transform TransformMode

	PolyFit       bool
	PolyFitDegree int

	SecondDerivative bool

	// Offset is added to every intensity as the final stage.
	Offset float64
}

// DefaultConfig returns customary stage parameters with all stages disabled.
func DefaultConfig() Config {
	return Config{
		QualityThreshold:  5,
		TemperatureK:      300,
		SmoothWindow:      15,
		SmoothPolyOrder:   3,
		ALSLam:            1e4,
		ALSP:              0.005,
		ALSIterations:     10,
		BaselinePoints:    50,
		BaselinePolyOrder: 3,
		Normalization:     NormNone,
		Transform:         TransformNone,
		PolyFitDegree:     2,
	}
}

// Pipeline chains the conditioning stages in the canonical order:
// quality gate, Bose-Einstein correction, smoothing, baseline correction,
// normalization, dynamic-range compression, polynomial fit, second
// derivative, intensity offset.
type Pipeline struct {
	cfg Config
	log *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger routes degenerate-input diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a pipeline for cfg.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Apply runs the configured stages over a single spectrum and returns a new
// intensity slice. Shape and parameter violations are surfaced as errors;
// numeric degeneracies (flat spectra in normalization) fall back to the
// unchanged spectrum with a logged diagnostic.
func (p *Pipeline) Apply(axis, y []float64) ([]float64, error) {
	if len(axis) != len(y) {
		return nil, fmt.Errorf("preprocess: pipeline: axis length %d, intensity length %d: %w",
			len(axis), len(y), core.ErrShapeMismatch)
	}

	cfg := p.cfg
	out := make([]float64, len(y))
	copy(out, y)

	if cfg.QualityGate && vecmath.MaxAbs(out) < cfg.QualityThreshold {
		p.log.Debug("quality gate rejected spectrum",
			zap.Float64("threshold", cfg.QualityThreshold))
		return out, nil
	}

	var err error
	if cfg.BoseEinstein {
		out, err = BoseEinstein(axis, out, cfg.TemperatureK)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Smoothing {
		out, err = Smooth(out, cfg.SmoothWindow, cfg.SmoothPolyOrder)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case cfg.BaselineAsLS:
		out, err = CorrectBaselineAsLS(out, cfg.ALSLam, cfg.ALSP, cfg.ALSIterations)
		if err != nil {
			return nil, err
		}
		out = ClipNegative(out)
	case cfg.BaselinePoly:
		out, err = BaselinePoly(axis, out, cfg.BaselinePoints, cfg.BaselinePolyOrder)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Normalization != NormNone && cfg.Normalization != "" {
		if Degenerate(axis, out, cfg.Normalization) {
			p.log.Warn("degenerate spectrum in normalization, returning unscaled",
				zap.String("mode", string(cfg.Normalization)))
		}
		out, err = Normalize(axis, out, cfg.Normalization)
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Transform {
	case TransformLog:
		out = Log1p(out)
	case TransformSqrt:
		out = Sqrt(out)
	}

	if cfg.PolyFit {
		out, err = PolyFit(axis, out, cfg.PolyFitDegree)
		if err != nil {
			return nil, err
		}
	}

	if cfg.SecondDerivative {
		out, err = Derivative2(axis, out)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Offset != 0 {
		for i := range out {
			out[i] += cfg.Offset
		}
	}

	return out, nil
}

// ApplyBatch runs Apply over every row of m. Rows are processed
// independently; callers may split them across goroutines with one Pipeline
// per goroutine or a single shared Pipeline, which is read-only after New.
func (p *Pipeline) ApplyBatch(axis []float64, m [][]float64) ([][]float64, error) {
	if err := core.CheckMatrix(m, len(axis)); err != nil {
		return nil, err
	}
	return Batch(m, func(row []float64) ([]float64, error) {
		return p.Apply(axis, row)
	})
}
