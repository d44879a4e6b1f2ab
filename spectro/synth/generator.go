// Package synth builds labeled synthetic mixture spectra from a library of
// named pure components. Mixtures are linear combinations with ground-truth
// mixing ratios, optionally degraded by additive noise, baseline drift, peak
// suppression, and axis warping so that downstream unmixing and matching can
// be evaluated under realistic conditions.
package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	vecmath "github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectro/spectro/core"
	"github.com/cwbudde/algo-spectro/spectro/peak"
)

var (
	// ErrNoComponents indicates a batch was requested before any component
	// was added.
	ErrNoComponents = errors.New("synth: generator has no components")
	// ErrUnknownComponent indicates a ratio range for a name that was
	// never added.
	ErrUnknownComponent = errors.New("synth: unknown component")
)

// Generator assembles synthetic mixtures from pure-component spectra that
// share one wavenumber axis. Components added with a different axis are
// resampled onto the generator's axis once, at add time, and are immutable
// afterwards.
type Generator struct {
	axis       []float64
	names      []string
	components map[string][]float64
	log        *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger routes generator diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a generator whose mixtures live on the given axis.
func New(axis []float64, opts ...Option) (*Generator, error) {
	if err := core.CheckAxis(axis); err != nil {
		return nil, err
	}
	g := &Generator{
		axis:       append([]float64(nil), axis...),
		components: make(map[string][]float64),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Axis returns a copy of the shared wavenumber axis.
func (g *Generator) Axis() []float64 {
	return append([]float64(nil), g.axis...)
}

// Names returns the component names in insertion order.
func (g *Generator) Names() []string {
	return append([]string(nil), g.names...)
}

// AddComponent stores a named pure spectrum, resampling it onto the
// generator axis when its axis differs. Adding an existing name replaces
// the stored spectrum and keeps the original insertion position.
func (g *Generator) AddComponent(name string, axis, y []float64) error {
	var stored []float64
	if core.EqualAxes(axis, g.axis, 1e-9) {
		if len(y) != len(g.axis) {
			return fmt.Errorf("synth: component %q: axis length %d, intensity length %d: %w",
				name, len(axis), len(y), core.ErrShapeMismatch)
		}
		stored = append([]float64(nil), y...)
	} else {
		resampled, err := core.Resample(axis, y, g.axis)
		if err != nil {
			return fmt.Errorf("synth: component %q: %w", name, err)
		}
		stored = resampled
	}

	if _, exists := g.components[name]; !exists {
		g.names = append(g.names, name)
	}
	g.components[name] = stored
	return nil
}

// batchConfig carries the augmentation knobs for one GenerateBatch call.
type batchConfig struct {
	noiseLevel    float64
	baselineDrift float64
	complexity    float64
	seed          int64
	seeded        bool
}

// BatchOption configures a single GenerateBatch call.
type BatchOption func(*batchConfig)

// WithNoiseLevel sets the additive Gaussian noise amplitude.
func WithNoiseLevel(level float64) BatchOption {
	return func(c *batchConfig) {
		if level >= 0 {
			c.noiseLevel = level
		}
	}
}

// WithBaselineDrift sets the amplitude of the smooth synthetic baseline
// added to each mixture.
func WithBaselineDrift(drift float64) BatchOption {
	return func(c *batchConfig) {
		if drift >= 0 {
			c.baselineDrift = drift
		}
	}
}

// WithComplexity jointly scales all augmentations. Zero disables them
// entirely; one applies them at full configured strength. Values are
// clamped to [0, 1].
func WithComplexity(complexity float64) BatchOption {
	return func(c *batchConfig) {
		c.complexity = core.Clamp(complexity, 0, 1)
	}
}

// WithSeed makes the batch byte-identical across runs with the same
// generator contents and options.
func WithSeed(seed int64) BatchOption {
	return func(c *batchConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// GenerateBatch draws n synthetic mixtures. For every component named in
// ratioRanges a mixing ratio is drawn uniformly from its [min, max]
// interval; the drawn ratios are renormalized to sum to one and the pure
// spectra are combined linearly. The mixture is then degraded in order by
// additive Gaussian noise, a smooth baseline drift, random attenuation of
// local maxima, and a small axis shift/stretch, each scaled by the
// complexity knob, and finally clipped to non-negative intensities.
//
// The returned matrices have one row per sample; ratio columns follow the
// generator's component insertion order restricted to the names present in
// ratioRanges.
func (g *Generator) GenerateBatch(n int, ratioRanges map[string][2]float64, opts ...BatchOption) ([][]float64, [][]float64, error) {
	if len(g.names) == 0 {
		return nil, nil, ErrNoComponents
	}
	if n <= 0 {
		return nil, nil, fmt.Errorf("synth: sample count must be > 0: %d", n)
	}
	for name := range ratioRanges {
		if _, ok := g.components[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
		}
	}

	cfg := batchConfig{
		noiseLevel:    0.01,
		baselineDrift: 0.05,
		complexity:    1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !cfg.seeded {
		cfg.seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(cfg.seed))

	var active []string
	for _, name := range g.names {
		if _, ok := ratioRanges[name]; ok {
			active = append(active, name)
		}
	}
	if len(active) == 0 {
		return nil, nil, fmt.Errorf("synth: ratio ranges name no known component")
	}

	cols := len(g.axis)
	matrix := make([][]float64, n)
	ratios := make([][]float64, n)
	scratch := make([]float64, cols)

	for s := 0; s < n; s++ {
		row := make([]float64, cols)
		ratio := make([]float64, len(active))
		for c, name := range active {
			r := ratioRanges[name]
			lo, hi := r[0], r[1]
			if lo > hi {
				lo, hi = hi, lo
			}
			ratio[c] = lo + (hi-lo)*rng.Float64()
		}
		if total := vecmath.Sum(ratio); total > 0 {
			vecmath.ScaleBlockInPlace(ratio, 1/total)
		} else {
			g.log.Warn("all drawn mixing ratios are zero; emitting empty mixture",
				zap.Int("sample", s))
		}

		for c, name := range active {
			vecmath.ScaleBlock(scratch, g.components[name], ratio[c])
			vecmath.AddBlockInPlace(row, scratch)
		}

		if cfg.complexity > 0 {
			g.addNoise(row, rng, cfg)
			g.addBaselineDrift(row, rng, cfg)
			g.suppressPeaks(row, rng, cfg)
			row = g.warpAxis(row, rng, cfg)
			clipNegative(row)
		}

		matrix[s] = row
		ratios[s] = ratio
	}
	return matrix, ratios, nil
}

func (g *Generator) addNoise(row []float64, rng *rand.Rand, cfg batchConfig) {
	amp := cfg.noiseLevel * cfg.complexity
	if amp == 0 {
		return
	}
	for i := range row {
		row[i] += rng.NormFloat64() * amp
	}
}

// addBaselineDrift adds a random low-order polynomial over the normalized
// axis position, the smooth drift shape fluorescence backgrounds take.
func (g *Generator) addBaselineDrift(row []float64, rng *rand.Rand, cfg batchConfig) {
	amp := cfg.baselineDrift * cfg.complexity
	if amp == 0 {
		return
	}
	c0 := rng.Float64()
	c1 := rng.Float64()*2 - 1
	c2 := rng.Float64()*2 - 1
	n := float64(len(row) - 1)
	if n == 0 {
		n = 1
	}
	for i := range row {
		x := float64(i) / n
		row[i] += amp * (c0 + c1*x + c2*x*x)
	}
}

// suppressPeaks attenuates a random subset of local maxima, imitating
// band-specific saturation and self-absorption artifacts.
func (g *Generator) suppressPeaks(row []float64, rng *rand.Rand, cfg batchConfig) {
	peaks := peak.Detect(row, peak.WithMinDistance(5))
	const width = 4
	for _, p := range peaks {
		if rng.Float64() >= 0.3*cfg.complexity {
			continue
		}
		depth := 0.5 * cfg.complexity * rng.Float64()
		for i := p - width; i <= p+width; i++ {
			if i < 0 || i >= len(row) {
				continue
			}
			d := float64(i - p)
			row[i] *= 1 - depth*gaussianWindow(d, width)
		}
	}
}

// warpAxis applies a small random shift and stretch to the wavenumber axis
// and resamples the spectrum back onto the canonical axis. Points warped
// out of range become 0, matching the resampling convention.
func (g *Generator) warpAxis(row []float64, rng *rand.Rand, cfg batchConfig) []float64 {
	span := g.axis[len(g.axis)-1] - g.axis[0]
	if span < 0 {
		span = -span
	}
	shift := (rng.Float64()*2 - 1) * 0.002 * span * cfg.complexity
	stretch := 1 + (rng.Float64()*2-1)*0.002*cfg.complexity

	warped := make([]float64, len(g.axis))
	center := (g.axis[0] + g.axis[len(g.axis)-1]) / 2
	for i, w := range g.axis {
		warped[i] = center + (w-center)*stretch + shift
	}
	out, err := core.Resample(warped, row, g.axis)
	if err != nil {
		// The warped axis keeps the source ordering, so resampling cannot
		// fail; keep the unwarped row if it somehow does.
		g.log.Warn("axis warp resampling failed; keeping unwarped spectrum", zap.Error(err))
		return row
	}
	return out
}

func gaussianWindow(d float64, width int) float64 {
	s := float64(width) / 2
	return math.Exp(-d * d / (2 * s * s))
}

func clipNegative(row []float64) {
	for i, v := range row {
		if v < 0 {
			row[i] = 0
		}
	}
}
