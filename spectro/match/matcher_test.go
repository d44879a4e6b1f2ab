package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cwbudde/algo-spectro/spectro/core"
)

func evenAxis(n int, start, end float64) []float64 {
	axis := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range axis {
		axis[i] = start + step*float64(i)
	}
	return axis
}

func gaussian(n int, center, sigma float64) []float64 {
	y := make([]float64, n)
	for i := range y {
		d := float64(i) - center
		y[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}
	return y
}

func newLibrary(t *testing.T) *Matcher {
	t.Helper()
	m, err := New(evenAxis(200, 100, 1800))
	require.NoError(t, err)
	require.NoError(t, m.Add("quartz", m.Axis(), gaussian(200, 50, 5)))
	require.NoError(t, m.Add("calcite", m.Axis(), gaussian(200, 110, 5)))
	require.NoError(t, m.Add("gypsum", m.Axis(), gaussian(200, 160, 5)))
	return m
}

func TestMatchSelfIsTopHit(t *testing.T) {
	m := newLibrary(t)
	results, err := m.Match(m.Axis(), gaussian(200, 110, 5), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "calcite", results[0].Name)
	assert.InDelta(t, 1.0, results[0].Score, 1e-12)
}

func TestMatchScoresDescending(t *testing.T) {
	m := newLibrary(t)
	results, err := m.Match(m.Axis(), gaussian(200, 55, 5), 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "quartz", results[0].Name)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestMatchTopKLimitsResults(t *testing.T) {
	m := newLibrary(t)
	results, err := m.Match(m.Axis(), gaussian(200, 50, 5), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "quartz", results[0].Name)

	// topK beyond the library size returns everything.
	results, err = m.Match(m.Axis(), gaussian(200, 50, 5), 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestMatchTiesKeepInsertionOrder(t *testing.T) {
	m, err := New(evenAxis(50, 0, 49))
	require.NoError(t, err)
	shape := gaussian(50, 25, 4)
	require.NoError(t, m.Add("first", m.Axis(), shape))
	require.NoError(t, m.Add("second", m.Axis(), shape))

	results, err := m.Match(m.Axis(), shape, 2)
	require.NoError(t, err)
	assert.Equal(t, "first", results[0].Name)
	assert.Equal(t, "second", results[1].Name)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestMatchZeroQueryScoresAllZero(t *testing.T) {
	obs, logs := observer.New(zap.WarnLevel)
	m, err := New(evenAxis(50, 0, 49), WithLogger(zap.New(obs)))
	require.NoError(t, err)
	require.NoError(t, m.Add("a", m.Axis(), gaussian(50, 20, 3)))
	require.NoError(t, m.Add("b", m.Axis(), gaussian(50, 35, 3)))

	results, err := m.Match(m.Axis(), make([]float64, 50), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 0.0, r.Score)
	}
	assert.Equal(t, 1, logs.FilterMessageSnippet("zero-intensity query").Len())
}

func TestMatchResamplesForeignQueryAxis(t *testing.T) {
	m := newLibrary(t)

	// The same calcite band sampled twice as densely over a wider range.
	queryAxis := evenAxis(400, 0, 2000)
	query := make([]float64, 400)
	for i, w := range queryAxis {
		// Library index space: w = 100 + 1700*idx/199.
		idx := (w - 100) * 199 / 1700
		d := idx - 110
		query[i] = math.Exp(-d * d / (2 * 25.0))
	}

	results, err := m.Match(queryAxis, query, 1)
	require.NoError(t, err)
	assert.Equal(t, "calcite", results[0].Name)
	assert.Greater(t, results[0].Score, 0.99)
}

func TestMatchErrors(t *testing.T) {
	empty, err := New(evenAxis(10, 0, 9))
	require.NoError(t, err)
	_, err = empty.Match(evenAxis(10, 0, 9), make([]float64, 10), 1)
	assert.ErrorIs(t, err, ErrEmptyLibrary)

	m := newLibrary(t)
	_, err = m.Match(m.Axis(), gaussian(200, 50, 5), 0)
	assert.ErrorIs(t, err, ErrTopK)

	_, err = m.Match(m.Axis(), make([]float64, 7), 1)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestAddResamplesForeignReferenceAxis(t *testing.T) {
	m, err := New(evenAxis(100, 100, 1800))
	require.NoError(t, err)

	coarse := evenAxis(25, 0, 2000)
	y := make([]float64, 25)
	for i, w := range coarse {
		y[i] = w / 2000
	}
	require.NoError(t, m.Add("ramp", coarse, y))
	require.Equal(t, 1, m.Len())

	// A ramp on the native axis must match the resampled ramp almost
	// perfectly.
	native := make([]float64, 100)
	for i, w := range m.Axis() {
		native[i] = w / 2000
	}
	results, err := m.Match(m.Axis(), native, 1)
	require.NoError(t, err)
	assert.Greater(t, results[0].Score, 1-1e-9)
}

func TestAddShapeMismatch(t *testing.T) {
	m, err := New(evenAxis(10, 0, 9))
	require.NoError(t, err)
	err = m.Add("bad", m.Axis(), make([]float64, 4))
	assert.ErrorIs(t, err, core.ErrShapeMismatch)
}
