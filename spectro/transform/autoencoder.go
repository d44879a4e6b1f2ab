package transform

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"go.uber.org/zap"
)

// Variant identifies which autoencoder backend trained a model.
type Variant int

const (
	// VariantDeep is the three-layer nonlinear encoder/decoder.
	VariantDeep Variant = iota
	// VariantShallow is the single-hidden-layer fallback compressor.
	VariantShallow
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantDeep:
		return "deep"
	case VariantShallow:
		return "shallow"
	default:
		return "unknown"
	}
}

// FitReport summarizes an autoencoder training run. Reaching the epoch cap
// without the loss plateauing is informational, not fatal: the model is
// usable, and callers decide whether to refit with different parameters.
type FitReport struct {
	Variant    Variant
	Epochs     int
	BestLoss   float64
	Converged  bool
	CapReached bool
}

// Autoencoder compresses spectra into a low-dimensional latent space and
// reconstructs them. Two variants share the interface: a deep nonlinear
// encoder/decoder, and a shallow single-hidden-layer compressor that is
// always available as the fallback. The variant is chosen once at
// construction; Variant and FitReport expose which one actually ran.
type Autoencoder struct {
	nComponents  int
	hiddenNodes  int
	maxEpochs    int
	batchSize    int
	learningRate float64
	l1Penalty    float64
	patience     int
	useDeep      bool
	seed         int64
	log          *zap.Logger

	fitted    bool
	nFeatures int
	mean      []float64
	std       []float64
	encoder   []*denseLayer
	decoder   []*denseLayer
	report    FitReport
}

var _ Transformer = (*Autoencoder)(nil)

// AEOption configures an Autoencoder.
type AEOption func(*Autoencoder)

// WithDeep selects the deep variant when available is true; false forces
// the shallow fallback.
func WithDeep(available bool) AEOption {
	return func(a *Autoencoder) {
		a.useDeep = available
	}
}

// WithMaxEpochs caps the number of training epochs.
func WithMaxEpochs(n int) AEOption {
	return func(a *Autoencoder) {
		if n > 0 {
			a.maxEpochs = n
		}
	}
}

// WithBatchSize sets the mini-batch size.
func WithBatchSize(n int) AEOption {
	return func(a *Autoencoder) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithLearningRate sets the Adam step size.
func WithLearningRate(lr float64) AEOption {
	return func(a *Autoencoder) {
		if lr > 0 {
			a.learningRate = lr
		}
	}
}

// WithL1Penalty sets the sparsity penalty on the latent activations.
func WithL1Penalty(l1 float64) AEOption {
	return func(a *Autoencoder) {
		if l1 >= 0 {
			a.l1Penalty = l1
		}
	}
}

// WithHiddenNodes sets the width of the deep variant's outer hidden layer.
func WithHiddenNodes(n int) AEOption {
	return func(a *Autoencoder) {
		if n > 0 {
			a.hiddenNodes = n
		}
	}
}

// WithPatience sets how many epochs without improvement stop training.
func WithPatience(n int) AEOption {
	return func(a *Autoencoder) {
		if n > 0 {
			a.patience = n
		}
	}
}

// WithSeed fixes the weight initialization and shuffling seed.
func WithSeed(seed int64) AEOption {
	return func(a *Autoencoder) {
		a.seed = seed
	}
}

// WithTrainingLogger routes convergence diagnostics to l.
func WithTrainingLogger(l *zap.Logger) AEOption {
	return func(a *Autoencoder) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAutoencoder creates an unfitted autoencoder with nComponents latent
// dimensions. The deep variant is the default.
func NewAutoencoder(nComponents int, opts ...AEOption) *Autoencoder {
	a := &Autoencoder{
		nComponents:  nComponents,
		hiddenNodes:  128,
		maxEpochs:    200,
		batchSize:    32,
		learningRate: 1e-3,
		l1Penalty:    0.01,
		patience:     20,
		useDeep:      true,
		seed:         42,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Variant returns the backend that Fit trained (or will train).
func (a *Autoencoder) Variant() Variant {
	if a.useDeep {
		return VariantDeep
	}
	return VariantShallow
}

// FitReport returns the summary of the last Fit. Zero value before Fit.
func (a *Autoencoder) FitReport() FitReport {
	return a.report
}

// Fit trains the autoencoder to reconstruct the rows of m, for at most the
// configured number of epochs. Training stops early once the epoch loss has
// not improved for the configured patience; hitting the epoch cap first is
// reported through FitReport and the training logger, never as an error.
func (a *Autoencoder) Fit(m [][]float64) error {
	x, err := toDense(m)
	if err != nil {
		return err
	}
	rows, cols := x.Dims()
	if a.nComponents < 1 || a.nComponents > cols {
		return fmt.Errorf("transform: autoencoder: n_components %d out of range [1, %d]", a.nComponents, cols)
	}

	a.nFeatures = cols
	a.fitColumnStats(x)
	norm := a.normalize(x)

	rng := rand.New(rand.NewSource(a.seed))
	a.buildNetwork(cols, rng)

	layers := append(append([]*denseLayer{}, a.encoder...), a.decoder...)
	opt := newAdam(layers, a.learningRate)

	bestLoss := math.Inf(1)
	stall := 0
	epochs := 0
	capReached := false

	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}

	for epoch := 0; epoch < a.maxEpochs; epoch++ {
		epochs = epoch + 1
		rng.Shuffle(rows, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		totalLoss := 0.0
		batches := 0
		for start := 0; start < rows; start += a.batchSize {
			end := start + a.batchSize
			if end > rows {
				end = rows
			}
			batch := gatherRows(norm, indices[start:end])
			totalLoss += a.trainBatch(batch, opt)
			batches++
		}
		loss := totalLoss / float64(batches)

		if loss < bestLoss {
			bestLoss = loss
			stall = 0
		} else {
			stall++
			if stall >= a.patience {
				break
			}
		}
		if epoch == a.maxEpochs-1 {
			capReached = true
		}
	}

	a.report = FitReport{
		Variant:    a.Variant(),
		Epochs:     epochs,
		BestLoss:   bestLoss,
		Converged:  !capReached,
		CapReached: capReached,
	}
	if capReached {
		a.log.Warn("autoencoder hit epoch cap before loss plateaued",
			zap.Int("epochs", epochs),
			zap.Float64("best_loss", bestLoss),
			zap.String("variant", a.Variant().String()),
		)
	}

	a.fitted = true
	return nil
}

// Transform encodes the rows of m into the latent space.
func (a *Autoencoder) Transform(m [][]float64) ([][]float64, error) {
	if !a.fitted {
		return nil, ErrNotFitted
	}
	x, err := toDense(m)
	if err != nil {
		return nil, err
	}
	if _, cols := x.Dims(); cols != a.nFeatures {
		return nil, fmt.Errorf("%w: got %d columns, fitted on %d", ErrFeatureCount, cols, a.nFeatures)
	}

	h := a.normalize(x)
	for _, layer := range a.encoder {
		h = layer.forward(h)
	}
	return fromDense(h), nil
}

// InverseTransform decodes latent rows back to the input space.
func (a *Autoencoder) InverseTransform(m [][]float64) ([][]float64, error) {
	if !a.fitted {
		return nil, ErrNotFitted
	}
	h, err := toDense(m)
	if err != nil {
		return nil, err
	}
	if _, cols := h.Dims(); cols != a.nComponents {
		return nil, fmt.Errorf("%w: got %d columns, latent space has %d", ErrFeatureCount, cols, a.nComponents)
	}

	out := h
	for _, layer := range a.decoder {
		out = layer.forward(out)
	}
	return fromDense(a.denormalize(out)), nil
}

func (a *Autoencoder) buildNetwork(nFeatures int, rng *rand.Rand) {
	k := a.nComponents
	if a.useDeep {
		mid := 64
		a.encoder = []*denseLayer{
			newDenseLayer(nFeatures, a.hiddenNodes, true, rng),
			newDenseLayer(a.hiddenNodes, mid, true, rng),
			newDenseLayer(mid, k, true, rng), // ReLU keeps the latent non-negative
		}
		a.decoder = []*denseLayer{
			newDenseLayer(k, mid, true, rng),
			newDenseLayer(mid, a.hiddenNodes, true, rng),
			newDenseLayer(a.hiddenNodes, nFeatures, false, rng),
		}
		return
	}
	a.encoder = []*denseLayer{
		newDenseLayer(nFeatures, k, true, rng),
	}
	a.decoder = []*denseLayer{
		newDenseLayer(k, nFeatures, false, rng),
	}
}

// trainBatch runs one forward/backward pass and applies the optimizer.
// Returns the batch loss (reconstruction MSE plus L1 latent penalty).
func (a *Autoencoder) trainBatch(x *mat.Dense, opt *adam) float64 {
	rows, cols := x.Dims()

	h := x
	for _, layer := range a.encoder {
		h = layer.forward(h)
	}
	latent := h
	for _, layer := range a.decoder {
		h = layer.forward(h)
	}
	recon := h

	nTotal := float64(rows * cols)
	mse := 0.0
	dRecon := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := recon.At(i, j) - x.At(i, j)
			mse += d * d
			dRecon.Set(i, j, 2*d/nTotal)
		}
	}
	mse /= nTotal

	_, k := latent.Dims()
	nLatent := float64(rows * k)
	l1 := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < k; j++ {
			l1 += math.Abs(latent.At(i, j))
		}
	}
	l1 /= nLatent

	// Backward through the decoder.
	grad := dRecon
	for i := len(a.decoder) - 1; i >= 0; i-- {
		grad = a.decoder[i].backward(grad)
	}

	// Sparsity gradient enters at the latent activations.
	for i := 0; i < rows; i++ {
		for j := 0; j < k; j++ {
			grad.Set(i, j, grad.At(i, j)+a.l1Penalty*sign(latent.At(i, j))/nLatent)
		}
	}

	for i := len(a.encoder) - 1; i >= 0; i-- {
		grad = a.encoder[i].backward(grad)
	}

	layers := append(append([]*denseLayer{}, a.encoder...), a.decoder...)
	clipGradients(layers, 1.0)
	opt.step(layers)

	return mse + a.l1Penalty*l1
}

func (a *Autoencoder) fitColumnStats(x *mat.Dense) {
	rows, cols := x.Dims()
	a.mean = make([]float64, cols)
	a.std = make([]float64, cols)

	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += x.At(i, j)
		}
		a.mean[j] = sum / float64(rows)

		variance := 0.0
		for i := 0; i < rows; i++ {
			d := x.At(i, j) - a.mean[j]
			variance += d * d
		}
		a.std[j] = math.Sqrt(variance / float64(rows))
		if a.std[j] == 0 {
			a.std[j] = 1
		}
	}
}

func (a *Autoencoder) normalize(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-a.mean[j])/a.std[j])
		}
	}
	return out
}

func (a *Autoencoder) denormalize(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j)*a.std[j]+a.mean[j])
		}
	}
	return out
}

func gatherRows(x *mat.Dense, indices []int) *mat.Dense {
	_, cols := x.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		out.SetRow(i, x.RawRowView(idx))
	}
	return out
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
