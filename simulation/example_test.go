package simulation_test

import (
	"context"
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/metro"
	"github.com/oudeng/Interconnected-SEIRAH/simulation"
)

// ExampleRunner_Run drives an outbreak-free two-city system for ten days
// against an all-zero observation series. Every calibrated day ties on the
// first midpoint, so β settles at 0.5 from day 1 and is held after the last
// whole week.
func ExampleRunner_Run() {
	cities := []metro.CitySpec{
		{Name: "center", N: 300, K: 4, P: 0.1, Commuters: 60},
		{Name: "suburb", N: 200, K: 4, P: 0.1, Commuters: 40},
	}
	m, err := metro.New(cities, metro.CommuterSpec{K: 8, P: 0.05}, metro.WithSeed(2020))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	r, err := simulation.New(m,
		simulation.Config{Days: 10, InitialBeta: 0.1, CalibrateFrom: 1, Ratio: 1},
		simulation.WithObserved(make([]float64, 14)),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	sum, err := r.Run(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("days:", sum.Days, "calibrations:", sum.Calibrations)
	fmt.Println("betas:", sum.Betas)
	fmt.Println("susceptible:", sum.Last.Total.Vector()[0])
	// Output:
	// days: 10 calibrations: 6
	// betas: [0.1 0.5 0.5 0.5 0.5 0.5 0.5 0.5 0.5 0.5]
	// susceptible: 500
}
