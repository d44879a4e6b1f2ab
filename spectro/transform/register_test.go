package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectro/registry"
)

func TestRegisteredModelFactories(t *testing.T) {
	for _, name := range []string{
		"nonnegative",
		"autoencoder",
		"shallow_autoencoder",
		"background_filter",
	} {
		factory, ok := registry.Models.Lookup(name)
		require.True(t, ok, "model %q not registered", name)

		require.NotNil(t, factory())
	}
}

func TestRegisteredFactoriesReturnUnfittedModels(t *testing.T) {
	for _, name := range []string{"autoencoder", "background_filter"} {
		factory, ok := registry.Models.Lookup(name)
		require.True(t, ok)

		_, err := factory().Transform([][]float64{{1, 2, 3}})
		assert.ErrorIs(t, err, ErrNotFitted, "model %q", name)
	}
}
