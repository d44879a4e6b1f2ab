package transform

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankOneBatch builds rows that are scaled copies of a fixed pattern, so a
// single latent dimension suffices to describe them.
func rankOneBatch(rows, cols int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	pattern := make([]float64, cols)
	for j := range pattern {
		pattern[j] = math.Sin(float64(j) / 3)
	}
	m := make([][]float64, rows)
	for i := range m {
		scale := 1 + rng.Float64()
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = scale * pattern[j]
		}
	}
	return m
}

func TestAutoencoderNotFittedBeforeFit(t *testing.T) {
	ae := NewAutoencoder(4)
	_, err := ae.Transform([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = ae.InverseTransform([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestAutoencoderLatentAndReconstructionShapes(t *testing.T) {
	data := rankOneBatch(24, 16, 1)
	ae := NewAutoencoder(3, WithMaxEpochs(5), WithSeed(7))
	require.NoError(t, ae.Fit(data))

	latent, err := ae.Transform(data)
	require.NoError(t, err)
	require.Len(t, latent, 24)
	assert.Len(t, latent[0], 3)

	recon, err := ae.InverseTransform(latent)
	require.NoError(t, err)
	require.Len(t, recon, 24)
	assert.Len(t, recon[0], 16)
}

func TestAutoencoderTrainingReducesLoss(t *testing.T) {
	data := rankOneBatch(32, 12, 2)
	ae := NewAutoencoder(4,
		WithDeep(false),
		WithMaxEpochs(500),
		WithPatience(100),
		WithSeed(3),
	)
	require.NoError(t, ae.Fit(data))

	report := ae.FitReport()
	assert.Greater(t, report.Epochs, 0)
	assert.False(t, math.IsInf(report.BestLoss, 1))
	// Normalized inputs have unit variance per column, so an untrained
	// network scores about 1; training must beat that clearly.
	assert.Less(t, report.BestLoss, 0.9)
}

func TestAutoencoderDeterministicWithSeed(t *testing.T) {
	data := rankOneBatch(16, 10, 4)

	build := func() [][]float64 {
		ae := NewAutoencoder(2, WithMaxEpochs(10), WithSeed(99))
		require.NoError(t, ae.Fit(data))
		latent, err := ae.Transform(data)
		require.NoError(t, err)
		return latent
	}

	assert.Equal(t, build(), build())
}

func TestAutoencoderVariantSelection(t *testing.T) {
	deep := NewAutoencoder(2)
	assert.Equal(t, VariantDeep, deep.Variant())
	assert.Equal(t, "deep", deep.Variant().String())

	shallow := NewAutoencoder(2, WithDeep(false))
	assert.Equal(t, VariantShallow, shallow.Variant())
	assert.Equal(t, "shallow", shallow.Variant().String())

	data := rankOneBatch(8, 6, 5)
	require.NoError(t, shallow.Fit(data))
	assert.Equal(t, VariantShallow, shallow.FitReport().Variant)
}

func TestAutoencoderCapReachedReported(t *testing.T) {
	data := rankOneBatch(8, 6, 6)
	// One epoch cannot plateau, so the cap is always hit.
	ae := NewAutoencoder(2, WithMaxEpochs(1), WithSeed(1))
	require.NoError(t, ae.Fit(data))

	report := ae.FitReport()
	assert.True(t, report.CapReached)
	assert.False(t, report.Converged)
	assert.Equal(t, 1, report.Epochs)
}

func TestAutoencoderFeatureCountMismatch(t *testing.T) {
	data := rankOneBatch(8, 6, 7)
	ae := NewAutoencoder(2, WithMaxEpochs(2))
	require.NoError(t, ae.Fit(data))

	_, err := ae.Transform([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrFeatureCount)

	_, err = ae.InverseTransform([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrFeatureCount)
}

func TestAutoencoderComponentBounds(t *testing.T) {
	data := rankOneBatch(8, 6, 8)
	for _, k := range []int{0, 7} {
		err := NewAutoencoder(k).Fit(data)
		assert.Error(t, err, "n_components=%d", k)
		assert.False(t, errors.Is(err, ErrNotFitted))
	}
}
