package transform

import "github.com/cwbudde/algo-spectro/registry"

// Default construction parameters used by the registry factories. Callers
// needing other settings construct models directly.
const (
	defaultLatentDims   = 8
	defaultBGComponents = 2
)

func init() {
	registry.Models.Register("nonnegative", func() registry.Model {
		return &NonNegative{}
	})
	registry.Models.Register("autoencoder", func() registry.Model {
		return NewAutoencoder(defaultLatentDims)
	})
	registry.Models.Register("shallow_autoencoder", func() registry.Model {
		return NewAutoencoder(defaultLatentDims, WithDeep(false))
	})
	registry.Models.Register("background_filter", func() registry.Model {
		return NewBackgroundFilter(defaultBGComponents)
	})
}
