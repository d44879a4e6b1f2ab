package synth_test

import (
	"fmt"

	"github.com/cwbudde/algo-spectro/spectro/synth"
)

func ExampleGenerator_GenerateBatch() {
	axis := make([]float64, 100)
	pure := make([]float64, 100)
	for i := range axis {
		axis[i] = 100 + float64(i)*16
		pure[i] = float64(i) / 99
	}

	g, err := synth.New(axis)
	if err != nil {
		panic(err)
	}
	if err := g.AddComponent("ramp", axis, pure); err != nil {
		panic(err)
	}

	matrix, ratios, err := g.GenerateBatch(2,
		map[string][2]float64{"ramp": {1, 1}},
		synth.WithComplexity(0),
		synth.WithSeed(1),
	)
	if err != nil {
		panic(err)
	}
	fmt.Printf("samples: %d\n", len(matrix))
	fmt.Printf("ratio: %.2f\n", ratios[0][0])
	fmt.Printf("last intensity: %.2f\n", matrix[0][99])
	// Output:
	// samples: 2
	// ratio: 1.00
	// last intensity: 1.00
}
