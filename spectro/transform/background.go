package transform

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrComponents reports an invalid principal-component count.
var ErrComponents = errors.New("transform: n_components out of range")

// BackgroundFilter models the slowly varying background of a spectrum set
// as a low-rank principal-component subspace and removes it. Fit learns
// the subspace from reference measurements in two passes: an initial PCA,
// then a refit on only the rows whose residual against that subspace falls
// below the contamination quantile, so occasional contaminated references
// do not pull the model.
type BackgroundFilter struct {
	nComponents   int
	contamination float64
	mask          []bool

	fitted     bool
	nFeatures  int
	mean       []float64
	components *mat.Dense // nComponents x nFeatures
}

var _ Transformer = (*BackgroundFilter)(nil)

// BGOption configures a BackgroundFilter.
type BGOption func(*BackgroundFilter)

// WithContamination sets the expected fraction of outlier rows in the
// reference set. Values outside (0, 1) are ignored.
func WithContamination(c float64) BGOption {
	return func(b *BackgroundFilter) {
		if c > 0 && c < 1 {
			b.contamination = c
		}
	}
}

// WithSignalMask excludes the axis intervals in ranges (inclusive, in axis
// units) from the outlier scoring, so known signal regions do not count as
// contamination. axis must have one entry per feature column.
func WithSignalMask(axis []float64, ranges [][2]float64) BGOption {
	return func(b *BackgroundFilter) {
		mask := make([]bool, len(axis))
		for i, x := range axis {
			for _, r := range ranges {
				lo, hi := r[0], r[1]
				if lo > hi {
					lo, hi = hi, lo
				}
				if x >= lo && x <= hi {
					mask[i] = true
					break
				}
			}
		}
		b.mask = mask
	}
}

// NewBackgroundFilter creates an unfitted filter retaining nComponents
// background components.
func NewBackgroundFilter(nComponents int, opts ...BGOption) *BackgroundFilter {
	b := &BackgroundFilter{
		nComponents:   nComponents,
		contamination: 0.1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Fit learns the background subspace from the reference rows of m.
func (b *BackgroundFilter) Fit(m [][]float64) error {
	x, err := toDense(m)
	if err != nil {
		return err
	}
	rows, cols := x.Dims()
	if b.nComponents < 1 || b.nComponents > cols || b.nComponents > rows {
		return fmt.Errorf("%w: %d for %d rows x %d columns", ErrComponents, b.nComponents, rows, cols)
	}
	if b.mask != nil && len(b.mask) != cols {
		return fmt.Errorf("transform: signal mask covers %d features, data has %d", len(b.mask), cols)
	}

	b.nFeatures = cols

	// First pass: PCA on the unmasked columns only, then score each row by
	// its residual norm against that subspace.
	scored := selectColumns(x, b.scoringColumns(cols))
	mean, comps, err := pcaFit(scored, b.nComponents)
	if err != nil {
		return err
	}
	scores := make([]float64, rows)
	for i := 0; i < rows; i++ {
		scores[i] = residualNorm(scored.RawRowView(i), mean, comps)
	}

	// Keep the rows below the contamination quantile and refit on all
	// columns.
	threshold := quantile(scores, 1-b.contamination)
	var clean []int
	for i, s := range scores {
		if s <= threshold {
			clean = append(clean, i)
		}
	}
	if len(clean) < b.nComponents {
		// Too few survivors to span the subspace; fall back to all rows.
		clean = clean[:0]
		for i := 0; i < rows; i++ {
			clean = append(clean, i)
		}
	}

	b.mean, b.components, err = pcaFit(gatherRows(x, clean), b.nComponents)
	if err != nil {
		return err
	}
	b.fitted = true
	return nil
}

// Transform removes the learned background from each row of m.
func (b *BackgroundFilter) Transform(m [][]float64) ([][]float64, error) {
	if !b.fitted {
		return nil, ErrNotFitted
	}
	x, err := toDense(m)
	if err != nil {
		return nil, err
	}
	rows, cols := x.Dims()
	if cols != b.nFeatures {
		return nil, fmt.Errorf("%w: got %d columns, fitted on %d", ErrFeatureCount, cols, b.nFeatures)
	}

	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		_, _, residual := b.split(x.RawRowView(i))
		out[i] = residual
	}
	return out, nil
}

// InverseTransform adds the mean background back to each row. The
// row-specific background removed by Transform is not recoverable, so this
// restores the average background level only.
func (b *BackgroundFilter) InverseTransform(m [][]float64) ([][]float64, error) {
	if !b.fitted {
		return nil, ErrNotFitted
	}
	x, err := toDense(m)
	if err != nil {
		return nil, err
	}
	rows, cols := x.Dims()
	if cols != b.nFeatures {
		return nil, fmt.Errorf("%w: got %d columns, fitted on %d", ErrFeatureCount, cols, b.nFeatures)
	}

	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = x.At(i, j) + b.mean[j]
		}
		out[i] = row
	}
	return out, nil
}

// Explain decomposes a single spectrum into its modeled background and the
// residual that Transform would return.
func (b *BackgroundFilter) Explain(y []float64) (original, background, residual []float64, err error) {
	if !b.fitted {
		return nil, nil, nil, ErrNotFitted
	}
	if len(y) != b.nFeatures {
		return nil, nil, nil, fmt.Errorf("%w: got %d samples, fitted on %d", ErrFeatureCount, len(y), b.nFeatures)
	}
	original, background, residual = b.split(y)
	return original, background, residual, nil
}

// split projects y onto the background subspace. Returns a copy of y, the
// background estimate (mean plus subspace projection), and y minus that
// background.
func (b *BackgroundFilter) split(y []float64) (original, background, residual []float64) {
	n := b.nFeatures
	original = make([]float64, n)
	copy(original, y)

	centered := make([]float64, n)
	for j := 0; j < n; j++ {
		centered[j] = y[j] - b.mean[j]
	}

	k, _ := b.components.Dims()
	coeffs := make([]float64, k)
	for c := 0; c < k; c++ {
		dot := 0.0
		for j := 0; j < n; j++ {
			dot += centered[j] * b.components.At(c, j)
		}
		coeffs[c] = dot
	}

	background = make([]float64, n)
	residual = make([]float64, n)
	for j := 0; j < n; j++ {
		proj := b.mean[j]
		for c := 0; c < k; c++ {
			proj += coeffs[c] * b.components.At(c, j)
		}
		background[j] = proj
		residual[j] = y[j] - proj
	}
	return original, background, residual
}

func (b *BackgroundFilter) scoringColumns(cols int) []int {
	var keep []int
	for j := 0; j < cols; j++ {
		if b.mask == nil || !b.mask[j] {
			keep = append(keep, j)
		}
	}
	if len(keep) == 0 {
		// Mask covered everything; score on all columns instead.
		for j := 0; j < cols; j++ {
			keep = append(keep, j)
		}
	}
	return keep
}

// pcaFit mean-centers x and returns the column means and the top k right
// singular vectors as a k x cols matrix.
func pcaFit(x *mat.Dense, k int) ([]float64, *mat.Dense, error) {
	rows, cols := x.Dims()
	mean := make([]float64, cols)
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += x.At(i, j)
		}
		mean[j] = sum / float64(rows)
	}
	centered := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			centered.Set(i, j, x.At(i, j)-mean[j])
		}
	}

	var svd mat.SVD
	if !svd.Factorize(centered, mat.SVDThin) {
		return nil, nil, errors.New("transform: SVD factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)
	if k > min(rows, cols) {
		k = min(rows, cols)
	}

	comps := mat.NewDense(k, cols, nil)
	for c := 0; c < k; c++ {
		for j := 0; j < cols; j++ {
			comps.Set(c, j, v.At(j, c))
		}
	}
	return mean, comps, nil
}

// residualNorm is the L2 norm of y after removing its projection onto the
// k x len(y) component matrix, with the mean removed first.
func residualNorm(y, mean []float64, comps *mat.Dense) float64 {
	n := len(y)
	centered := make([]float64, n)
	for j := 0; j < n; j++ {
		centered[j] = y[j] - mean[j]
	}
	k, _ := comps.Dims()
	total := 0.0
	proj := make([]float64, n)
	for c := 0; c < k; c++ {
		dot := 0.0
		for j := 0; j < n; j++ {
			dot += centered[j] * comps.At(c, j)
		}
		for j := 0; j < n; j++ {
			proj[j] += dot * comps.At(c, j)
		}
	}
	for j := 0; j < n; j++ {
		d := centered[j] - proj[j]
		total += d * d
	}
	return math.Sqrt(total)
}

func selectColumns(x *mat.Dense, cols []int) *mat.Dense {
	rows, total := x.Dims()
	if len(cols) == total {
		return x
	}
	out := mat.NewDense(rows, len(cols), nil)
	for i := 0; i < rows; i++ {
		for j, c := range cols {
			out.Set(i, j, x.At(i, c))
		}
	}
	return out
}

// quantile returns the q-quantile of values using linear interpolation.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
