package calibrate_test

import (
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/calibrate"
)

// ExampleBisect narrows [0,1] around the minimum of a quadratic at 0.3.
// Each iteration compares the objective at the two bounds and moves the worse
// one to the midpoint; the last midpoint evaluated is the estimate.
func ExampleBisect() {
	obj := func(beta float64) (float64, error) {
		d := beta - 0.3
		return d * d, nil
	}

	res, err := calibrate.Bisect(0.1, obj, calibrate.DefaultOptions())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("beta=%.4f bounds=[%.4f, %.4f] iterations=%d\n", res.Beta, res.Low, res.High, res.Iterations)
	// Output:
	// beta=0.2969 bounds=[0.2969, 0.3125] iterations=6
}
