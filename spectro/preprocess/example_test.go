package preprocess_test

import (
	"fmt"

	"github.com/cwbudde/algo-spectro/spectro/preprocess"
)

func ExampleNormalize() {
	axis := []float64{400, 401, 402, 403}
	y := []float64{1, 2, 4, 2}

	out, _ := preprocess.Normalize(axis, y, preprocess.NormMax)
	fmt.Printf("%.2f %.2f %.2f %.2f\n", out[0], out[1], out[2], out[3])
	// Output:
	// 0.25 0.50 1.00 0.50
}

func ExampleSmooth() {
	y := []float64{1, 1, 1, 1, 1, 1, 1}
	out, _ := preprocess.Smooth(y, 5, 2)
	fmt.Printf("%.0f\n", out[3])
	// Output:
	// 1
}

func ExamplePipeline_Apply() {
	cfg := preprocess.DefaultConfig()
	cfg.Normalization = preprocess.NormMax

	axis := []float64{400, 500, 600}
	y := []float64{2, 8, 4}

	p := preprocess.New(cfg)
	out, _ := p.Apply(axis, y)
	fmt.Printf("%.2f %.2f %.2f\n", out[0], out[1], out[2])
	// Output:
	// 0.25 1.00 0.50
}
