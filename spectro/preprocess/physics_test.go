package preprocess

import (
	"errors"
	"math"
	"testing"
)

func TestBoseEinsteinZeroWavenumber(t *testing.T) {
	axis := []float64{0, 100, 1000}
	y := []float64{10, 10, 10}

	got, err := BoseEinstein(axis, y, 300)
	if err != nil {
		t.Fatalf("BoseEinstein() error = %v", err)
	}
	if got[0] != 0 {
		t.Fatalf("intensity at zero shift = %v, want 0", got[0])
	}
}

func TestBoseEinsteinFactorValue(t *testing.T) {
	const (
		h = 6.62607015e-34
		c = 2.99792458e10
		k = 1.380649e-23
	)
	axis := []float64{520}
	y := []float64{1}
	tempK := 295.0

	got, err := BoseEinstein(axis, y, tempK)
	if err != nil {
		t.Fatalf("BoseEinstein() error = %v", err)
	}
	want := 1 - math.Exp(-h*c*520/(k*tempK))
	if math.Abs(got[0]-want) > 1e-15 {
		t.Fatalf("factor = %v, want %v", got[0], want)
	}
}

func TestBoseEinsteinFactorIncreasesWithShift(t *testing.T) {
	axis := []float64{100, 500, 1500, 3000}
	y := []float64{1, 1, 1, 1}

	got, err := BoseEinstein(axis, y, 300)
	if err != nil {
		t.Fatalf("BoseEinstein() error = %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("factor not increasing at index %d: %v", i, got)
		}
	}
	// At high shift the thermal population vanishes and the factor tends to 1.
	if got[len(got)-1] < 0.999 {
		t.Fatalf("high-shift factor = %v, want ~1", got[len(got)-1])
	}
}

func TestBoseEinsteinTemperatureError(t *testing.T) {
	for _, temp := range []float64{0, -10} {
		if _, err := BoseEinstein([]float64{100}, []float64{1}, temp); !errors.Is(err, ErrTemperature) {
			t.Fatalf("BoseEinstein(T=%v) = %v, want ErrTemperature", temp, err)
		}
	}
}

func TestBoseEinsteinShapeError(t *testing.T) {
	if _, err := BoseEinstein([]float64{1, 2}, []float64{1}, 300); err == nil {
		t.Fatal("shape mismatch not reported")
	}
}
