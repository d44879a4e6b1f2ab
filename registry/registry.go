// Package registry provides process-wide name→callable registries for
// preprocessors, models, and plot styles.
//
// The registries are the module's plugin mechanism: packages register their
// built-in entries from init functions, and third-party code may register
// additional entries at any time under new or existing names. Registering
// under an existing name overwrites the previous entry (last registration
// wins) and emits a non-fatal diagnostic through the configured logger, so
// plugins can deliberately override built-ins.
//
// Registration is rare relative to lookup. Each registry serializes access
// with a single mutex and is safe for concurrent use.
package registry

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Preprocessor is the callable shape stored in the preprocessor registry:
// a pure transform from one spectrum to a new intensity slice.
type Preprocessor func(axis, y []float64) ([]float64, error)

// Model is the minimal fitted-transformer surface the model registry
// dispatches on.
type Model interface {
	Fit(m [][]float64) error
	Transform(m [][]float64) ([][]float64, error)
	InverseTransform(m [][]float64) ([][]float64, error)
}

// ModelFactory constructs a fresh, unfitted model instance.
type ModelFactory func() Model

// PlotStyle produces an opaque style attribute map consumed by presentation
// code outside this module.
type PlotStyle func() map[string]any

// Registry is a mutex-guarded name→value mapping with an override-wins
// insertion policy. Names are case-insensitive and stored lower-cased.
type Registry[T any] struct {
	kind string

	mu      sync.Mutex
	entries map[string]T
	log     *zap.Logger
}

// New creates an empty registry. kind names the registry in diagnostics.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		entries: make(map[string]T),
		log:     zap.NewNop(),
	}
}

// SetLogger routes override diagnostics to l. A nil logger restores the
// no-op default.
func (r *Registry[T]) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.mu.Lock()
	r.log = l
	r.mu.Unlock()
}

// Register inserts v under name, overwriting any existing entry. Overwrites
// are legal (they enable plugin override) and are reported through the
// logger rather than rejected.
func (r *Registry[T]) Register(name string, v T) {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		r.log.Warn("registry entry overridden",
			zap.String("registry", r.kind),
			zap.String("name", key),
		)
	}
	r.entries[key] = v
}

// Lookup returns the entry registered under name.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.entries[strings.ToLower(name)]
	return v, ok
}

// Snapshot returns a copy of the current mapping. Mutating the returned map
// does not affect the registry.
func (r *Registry[T]) Snapshot() map[string]T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]T, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset clears all entries. Intended for tests only.
func (r *Registry[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]T)
}

// Process-wide registries. Built-in entries are registered by the spectro
// packages from init functions; everything registered here stays for the
// lifetime of the process.
var (
	Preprocessors = New[Preprocessor]("preprocessors")
	Models        = New[ModelFactory]("models")
	PlotStyles    = New[PlotStyle]("plot-styles")
)

// SetLogger routes diagnostics from all three process-wide registries to l.
func SetLogger(l *zap.Logger) {
	Preprocessors.SetLogger(l)
	Models.SetLogger(l)
	PlotStyles.SetLogger(l)
}
