package preprocess

import (
	"math"
	"testing"
)

func TestGradientLinearExact(t *testing.T) {
	axis := []float64{0, 1, 2, 4, 7, 11}
	y := make([]float64, len(axis))
	for i, x := range axis {
		y[i] = 3*x + 2
	}

	got, err := Gradient(axis, y)
	if err != nil {
		t.Fatalf("Gradient() error = %v", err)
	}
	for i, v := range got {
		if math.Abs(v-3) > 1e-12 {
			t.Fatalf("got[%d] = %v, want 3", i, v)
		}
	}
}

func TestGradientQuadraticInterior(t *testing.T) {
	// Central differences are exact for quadratics on the interior, even
	// with non-uniform spacing.
	axis := []float64{0, 1, 3, 4, 6, 9}
	y := make([]float64, len(axis))
	for i, x := range axis {
		y[i] = x * x
	}

	got, err := Gradient(axis, y)
	if err != nil {
		t.Fatalf("Gradient() error = %v", err)
	}
	for i := 1; i < len(axis)-1; i++ {
		want := 2 * axis[i]
		if math.Abs(got[i]-want) > 1e-10 {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestDerivative2LinearIsZero(t *testing.T) {
	axis := make([]float64, 50)
	y := make([]float64, 50)
	for i := range axis {
		axis[i] = float64(i) * 2
		y[i] = 5*axis[i] - 1
	}

	got, err := Derivative2(axis, y)
	if err != nil {
		t.Fatalf("Derivative2() error = %v", err)
	}
	for i, v := range got {
		if math.Abs(v) > 1e-10 {
			t.Fatalf("got[%d] = %v, want 0", i, v)
		}
	}
}

func TestGradientErrors(t *testing.T) {
	if _, err := Gradient([]float64{1}, []float64{1}); err == nil {
		t.Fatal("single sample not reported")
	}
	if _, err := Gradient([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("shape mismatch not reported")
	}
}

func TestPolyFitReproducesPolynomial(t *testing.T) {
	axis := []float64{400, 600, 800, 1000, 1200, 1400}
	y := make([]float64, len(axis))
	for i, x := range axis {
		y[i] = 1 + 0.001*x + 2e-6*x*x
	}

	got, err := PolyFit(axis, y, 2)
	if err != nil {
		t.Fatalf("PolyFit() error = %v", err)
	}
	for i := range y {
		if math.Abs(got[i]-y[i]) > 1e-8 {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], y[i])
		}
	}
}

func TestPolyFitUnderdetermined(t *testing.T) {
	if _, err := PolyFit([]float64{1, 2}, []float64{1, 2}, 3); err == nil {
		t.Fatal("underdetermined fit not reported")
	}
}
