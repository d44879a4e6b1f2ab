// Package match identifies spectra by cosine-similarity search against a
// named reference library. References are aligned to one wavenumber axis
// when added; queries recorded on a different axis are resampled before
// scoring.
package match

import (
	"errors"
	"fmt"
	"math"
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectro/spectro/core"
)

var (
	// ErrEmptyLibrary indicates a match was requested before any reference
	// was added.
	ErrEmptyLibrary = errors.New("match: reference library is empty")
	// ErrTopK indicates a non-positive top-k request.
	ErrTopK = errors.New("match: top_k must be > 0")
)

// Result is one scored library entry.
type Result struct {
	Name  string
	Score float64
}

type reference struct {
	name string
	y    []float64
	norm float64
}

// Matcher is a cosine-similarity matcher over an axis-aligned reference
// library. References keep their insertion order, which breaks score ties.
type Matcher struct {
	axis []float64
	refs []reference
	log  *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger routes matcher diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates a matcher whose library lives on the given axis.
func New(axis []float64, opts ...Option) (*Matcher, error) {
	if err := core.CheckAxis(axis); err != nil {
		return nil, err
	}
	m := &Matcher{
		axis: append([]float64(nil), axis...),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

// Axis returns a copy of the library axis.
func (m *Matcher) Axis() []float64 {
	return append([]float64(nil), m.axis...)
}

// Len returns the number of library entries.
func (m *Matcher) Len() int {
	return len(m.refs)
}

// Add appends a named reference spectrum, resampling it onto the library
// axis when its axis differs. Duplicate names are allowed; each Add is an
// independent entry.
func (m *Matcher) Add(name string, axis, y []float64) error {
	var stored []float64
	if core.EqualAxes(axis, m.axis, 1e-9) {
		if len(y) != len(m.axis) {
			return fmt.Errorf("match: reference %q: axis length %d, intensity length %d: %w",
				name, len(axis), len(y), core.ErrShapeMismatch)
		}
		stored = append([]float64(nil), y...)
	} else {
		resampled, err := core.Resample(axis, y, m.axis)
		if err != nil {
			return fmt.Errorf("match: reference %q: %w", name, err)
		}
		stored = resampled
	}

	m.refs = append(m.refs, reference{
		name: name,
		y:    stored,
		norm: l2norm(stored),
	})
	return nil
}

// Match scores the query against every library entry and returns the topK
// best matches in descending similarity, ties kept in insertion order. A
// query on a foreign axis is resampled onto the library axis first. A
// zero-intensity query has no defined direction; every entry then scores 0
// and a diagnostic is logged instead of failing the call.
func (m *Matcher) Match(queryAxis, queryY []float64, topK int) ([]Result, error) {
	if len(m.refs) == 0 {
		return nil, ErrEmptyLibrary
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: %d", ErrTopK, topK)
	}
	if len(queryAxis) != len(queryY) {
		return nil, fmt.Errorf("match: query axis length %d, intensity length %d: %w",
			len(queryAxis), len(queryY), core.ErrShapeMismatch)
	}

	query := queryY
	if !core.EqualAxes(queryAxis, m.axis, 1e-9) {
		resampled, err := core.Resample(queryAxis, queryY, m.axis)
		if err != nil {
			return nil, fmt.Errorf("match: query: %w", err)
		}
		query = resampled
	}

	queryNorm := l2norm(query)
	results := make([]Result, len(m.refs))
	if queryNorm == 0 {
		m.log.Warn("zero-intensity query; cosine similarity undefined, scoring all entries 0",
			zap.Int("library_size", len(m.refs)))
		for i, ref := range m.refs {
			results[i] = Result{Name: ref.name}
		}
	} else {
		for i, ref := range m.refs {
			score := 0.0
			if ref.norm > 0 {
				score = vecmath.DotProduct(query, ref.y) / (queryNorm * ref.norm)
			}
			results[i] = Result{Name: ref.name, Score: score}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func l2norm(v []float64) float64 {
	return math.Sqrt(vecmath.DotProduct(v, v))
}
