// Package peak locates local intensity maxima in spectra, with the height,
// spacing, and prominence filters commonly used to separate real Raman bands
// from noise ripples.
package peak

import "math"

type config struct {
	minHeight     float64
	minDistance   int
	minProminence float64
}

// Option configures peak detection.
type Option func(*config)

// WithMinHeight keeps only peaks of at least the given intensity.
func WithMinHeight(h float64) Option {
	return func(c *config) {
		c.minHeight = h
	}
}

// WithMinDistance enforces a minimum index spacing between kept peaks;
// when two peaks fall closer than n samples the higher one wins.
func WithMinDistance(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minDistance = n
		}
	}
}

// WithMinProminence keeps only peaks that rise at least p above the higher
// of their two surrounding valleys.
func WithMinProminence(p float64) Option {
	return func(c *config) {
		c.minProminence = p
	}
}

// Detect returns the indices of local maxima of y, in ascending order,
// after applying the configured filters. A plateau of equal values yields
// its left-most sample.
func Detect(y []float64, opts ...Option) []int {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	candidates := localMaxima(y)

	if cfg.minHeight > 0 {
		kept := candidates[:0]
		for _, i := range candidates {
			if y[i] >= cfg.minHeight {
				kept = append(kept, i)
			}
		}
		candidates = kept
	}

	if cfg.minProminence > 0 {
		kept := candidates[:0]
		for _, i := range candidates {
			if Prominence(y, i) >= cfg.minProminence {
				kept = append(kept, i)
			}
		}
		candidates = kept
	}

	if cfg.minDistance > 1 {
		candidates = enforceDistance(y, candidates, cfg.minDistance)
	}

	return candidates
}

// Prominence measures how far the peak at index i rises above its
// surroundings: the drop from the peak to the higher of the two deepest
// valleys separating it from taller terrain (or from the signal edge).
func Prominence(y []float64, i int) float64 {
	if i < 0 || i >= len(y) {
		return 0
	}
	h := y[i]

	leftMin := h
	for j := i - 1; j >= 0; j-- {
		if y[j] > h {
			break
		}
		leftMin = math.Min(leftMin, y[j])
	}

	rightMin := h
	for j := i + 1; j < len(y); j++ {
		if y[j] > h {
			break
		}
		rightMin = math.Min(rightMin, y[j])
	}

	return h - math.Max(leftMin, rightMin)
}

func localMaxima(y []float64) []int {
	var out []int
	n := len(y)
	for i := 1; i < n-1; i++ {
		if y[i] <= y[i-1] {
			continue
		}
		// Walk plateaus: the peak counts if the signal eventually drops.
		j := i
		for j < n-1 && y[j+1] == y[i] {
			j++
		}
		if j < n-1 && y[j+1] < y[i] {
			out = append(out, i)
		}
		i = j
	}
	return out
}

// enforceDistance greedily keeps the highest peaks, discarding any peak
// within minDistance samples of an already kept one.
func enforceDistance(y []float64, peaks []int, minDistance int) []int {
	order := make([]int, len(peaks))
	copy(order, peaks)
	// Insertion sort by descending height; peak lists are short.
	for i := 1; i < len(order); i++ {
		k := order[i]
		j := i - 1
		for j >= 0 && y[order[j]] < y[k] {
			order[j+1] = order[j]
			j--
		}
		order[j+1] = k
	}

	removed := make(map[int]bool, len(peaks))
	for _, p := range order {
		if removed[p] {
			continue
		}
		for _, q := range peaks {
			if q != p && !removed[q] && abs(q-p) < minDistance {
				removed[q] = true
			}
		}
	}

	var out []int
	for _, p := range peaks {
		if !removed[p] {
			out = append(out, p)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
