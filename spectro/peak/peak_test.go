package peak

import (
	"math"
	"testing"
)

func TestDetectSimplePeaks(t *testing.T) {
	y := []float64{0, 1, 0, 2, 0, 3, 0}
	got := Detect(y)
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("Detect() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Detect() = %v, want %v", got, want)
		}
	}
}

func TestDetectNoPeaksOnMonotonic(t *testing.T) {
	y := []float64{0, 1, 2, 3, 4}
	if got := Detect(y); len(got) != 0 {
		t.Fatalf("Detect() = %v, want none", got)
	}
}

func TestDetectPlateauLeftmost(t *testing.T) {
	y := []float64{0, 2, 2, 2, 0}
	got := Detect(y)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("Detect() = %v, want [1]", got)
	}
}

func TestDetectMinHeight(t *testing.T) {
	y := []float64{0, 1, 0, 5, 0}
	got := Detect(y, WithMinHeight(3))
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("Detect() = %v, want [3]", got)
	}
}

func TestDetectMinDistanceKeepsHigher(t *testing.T) {
	y := []float64{0, 3, 2, 5, 0, 0, 0, 4, 0}
	got := Detect(y, WithMinDistance(4))
	// Peaks at 1, 3, 7; peak 3 (height 5) wins over peak 1, peak 7 survives.
	if len(got) != 2 || got[0] != 3 || got[1] != 7 {
		t.Fatalf("Detect() = %v, want [3 7]", got)
	}
}

func TestProminence(t *testing.T) {
	// Peak at 5 rises 4 above the valley at height 1 separating it from the
	// taller peak at index 1.
	y := []float64{0, 6, 1, 2, 3, 5, 0}
	got := Prominence(y, 5)
	if math.Abs(got-4) > 1e-12 {
		t.Fatalf("Prominence() = %v, want 4", got)
	}
}

func TestDetectMinProminenceFiltersShoulders(t *testing.T) {
	// The small bump at index 3 sits on the flank of the main peak.
	y := []float64{0, 1, 5, 4, 4.2, 1, 0}
	got := Detect(y, WithMinProminence(1))
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("Detect() = %v, want [2]", got)
	}
}

func TestDetectGaussianBands(t *testing.T) {
	n := 400
	y := make([]float64, n)
	centers := []int{80, 200, 320}
	for i := range y {
		for _, c := range centers {
			d := float64(i - c)
			y[i] += 10 * math.Exp(-d*d/40)
		}
	}

	got := Detect(y, WithMinHeight(5), WithMinDistance(20))
	if len(got) != len(centers) {
		t.Fatalf("Detect() found %d peaks, want %d: %v", len(got), len(centers), got)
	}
	for i, c := range centers {
		if abs(got[i]-c) > 1 {
			t.Fatalf("peak %d at index %d, want near %d", i, got[i], c)
		}
	}
}
