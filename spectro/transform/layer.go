package transform

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// denseLayer is a fully connected layer with optional ReLU activation.
// forward saves its input and pre-activation so backward can run without
// re-evaluation; a layer therefore serves one mini-batch at a time.
type denseLayer struct {
	w    *mat.Dense // in x out
	b    []float64
	relu bool

	input *mat.Dense
	pre   *mat.Dense

	gradW *mat.Dense
	gradB []float64
}

// newDenseLayer creates a layer with Glorot-uniform weights and zero bias.
func newDenseLayer(in, out int, relu bool, rng *rand.Rand) *denseLayer {
	limit := math.Sqrt(6.0 / float64(in+out))
	w := mat.NewDense(in, out, nil)
	for i := 0; i < in; i++ {
		for j := 0; j < out; j++ {
			w.Set(i, j, (2*rng.Float64()-1)*limit)
		}
	}
	return &denseLayer{
		w:    w,
		b:    make([]float64, out),
		relu: relu,
	}
}

func (l *denseLayer) forward(x *mat.Dense) *mat.Dense {
	l.input = x
	rows, _ := x.Dims()
	_, out := l.w.Dims()

	pre := mat.NewDense(rows, out, nil)
	pre.Mul(x, l.w)
	for i := 0; i < rows; i++ {
		for j := 0; j < out; j++ {
			pre.Set(i, j, pre.At(i, j)+l.b[j])
		}
	}
	l.pre = pre

	if !l.relu {
		return pre
	}
	act := mat.NewDense(rows, out, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < out; j++ {
			if v := pre.At(i, j); v > 0 {
				act.Set(i, j, v)
			}
		}
	}
	return act
}

// backward consumes the gradient of the loss with respect to this layer's
// output, accumulates the weight and bias gradients, and returns the
// gradient with respect to the layer's input.
func (l *denseLayer) backward(dOut *mat.Dense) *mat.Dense {
	rows, out := dOut.Dims()

	dZ := dOut
	if l.relu {
		dZ = mat.NewDense(rows, out, nil)
		for i := 0; i < rows; i++ {
			for j := 0; j < out; j++ {
				if l.pre.At(i, j) > 0 {
					dZ.Set(i, j, dOut.At(i, j))
				}
			}
		}
	}

	in, _ := l.w.Dims()
	l.gradW = mat.NewDense(in, out, nil)
	l.gradW.Mul(l.input.T(), dZ)

	l.gradB = make([]float64, out)
	for j := 0; j < out; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += dZ.At(i, j)
		}
		l.gradB[j] = sum
	}

	dIn := mat.NewDense(rows, in, nil)
	dIn.Mul(dZ, l.w.T())
	return dIn
}

// clipGradients rescales all layer gradients so their global L2 norm does
// not exceed maxNorm.
func clipGradients(layers []*denseLayer, maxNorm float64) {
	total := 0.0
	for _, l := range layers {
		in, out := l.gradW.Dims()
		for i := 0; i < in; i++ {
			for j := 0; j < out; j++ {
				v := l.gradW.At(i, j)
				total += v * v
			}
		}
		for _, v := range l.gradB {
			total += v * v
		}
	}
	norm := math.Sqrt(total)
	if norm <= maxNorm {
		return
	}
	scale := maxNorm / norm
	for _, l := range layers {
		l.gradW.Scale(scale, l.gradW)
		for j := range l.gradB {
			l.gradB[j] *= scale
		}
	}
}

// adam holds per-parameter first and second moment estimates, one pair of
// slots per layer, indexed by the layer's position in the slice passed to
// newAdam. step must be called with the layers in that same order.
type adam struct {
	lr          float64
	beta1       float64
	beta2       float64
	eps         float64
	weightDecay float64
	t           int

	mW []*mat.Dense
	vW []*mat.Dense
	mB [][]float64
	vB [][]float64
}

func newAdam(layers []*denseLayer, lr float64) *adam {
	a := &adam{
		lr:          lr,
		beta1:       0.9,
		beta2:       0.999,
		eps:         1e-8,
		weightDecay: 1e-5,
		mW:          make([]*mat.Dense, len(layers)),
		vW:          make([]*mat.Dense, len(layers)),
		mB:          make([][]float64, len(layers)),
		vB:          make([][]float64, len(layers)),
	}
	for i, l := range layers {
		in, out := l.w.Dims()
		a.mW[i] = mat.NewDense(in, out, nil)
		a.vW[i] = mat.NewDense(in, out, nil)
		a.mB[i] = make([]float64, out)
		a.vB[i] = make([]float64, out)
	}
	return a
}

func (a *adam) step(layers []*denseLayer) {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for idx, l := range layers {
		in, out := l.w.Dims()
		for i := 0; i < in; i++ {
			for j := 0; j < out; j++ {
				g := l.gradW.At(i, j) + a.weightDecay*l.w.At(i, j)
				m := a.beta1*a.mW[idx].At(i, j) + (1-a.beta1)*g
				v := a.beta2*a.vW[idx].At(i, j) + (1-a.beta2)*g*g
				a.mW[idx].Set(i, j, m)
				a.vW[idx].Set(i, j, v)
				l.w.Set(i, j, l.w.At(i, j)-a.lr*(m/c1)/(math.Sqrt(v/c2)+a.eps))
			}
		}
		for j := 0; j < out; j++ {
			g := l.gradB[j]
			m := a.beta1*a.mB[idx][j] + (1-a.beta1)*g
			v := a.beta2*a.vB[idx][j] + (1-a.beta2)*g*g
			a.mB[idx][j] = m
			a.vB[idx][j] = v
			l.b[j] -= a.lr * (m / c1) / (math.Sqrt(v/c2) + a.eps)
		}
	}
}
