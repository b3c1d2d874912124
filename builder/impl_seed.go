// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// impl_seed.go - implementation of Seed(c) constructor.
//
// Contract:
//   • Operates on the nodes already in g (run after a topology constructor).
//   • Every node is reset to Susceptible with zeroed bookkeeping and every
//     edge to weight 1.
//   • One sample of c.Total() distinct nodes is drawn without replacement and
//     partitioned in draw order into Exposed, Infectious, Asymptomatic,
//     Hospitalized, Recovered.
//   • Edges incident to a Hospitalized node are set to weight 0.
//   • Seeded statuses are not stamped as entered.
//
// Errors:
//   • ErrNegativeCompartment, ErrSampleExceedsPopulation, ErrNeedRandSource.
//
// Complexity: O(N + M).

package builder

import (
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

const methodSeed = "Seed"

// Compartments holds initial compartment sizes; the remainder of the
// population is Susceptible.
type Compartments struct {
	Exposed      int
	Infectious   int
	Asymptomatic int
	Hospitalized int
	Recovered    int
}

// Total returns E+I+A+H+R.
func (c Compartments) Total() int {
	return c.Exposed + c.Infectious + c.Asymptomatic + c.Hospitalized + c.Recovered
}

// ordered lists sizes in the partition order used by Seed.
func (c Compartments) ordered() [5]struct {
	status core.Status
	size   int
} {
	return [5]struct {
		status core.Status
		size   int
	}{
		{core.Exposed, c.Exposed},
		{core.Infectious, c.Infectious},
		{core.Asymptomatic, c.Asymptomatic},
		{core.Hospitalized, c.Hospitalized},
		{core.Recovered, c.Recovered},
	}
}

// Seed returns a Constructor that assigns the initial compartments to the
// nodes of g using the sampling RNG.
func Seed(c Compartments) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		for _, part := range c.ordered() {
			if part.size < 0 {
				return fmt.Errorf("%s: %s=%d: %w", methodSeed, part.status, part.size, ErrNegativeCompartment)
			}
		}
		n := g.NodeCount()
		if c.Total() > n {
			return fmt.Errorf("%s: %d seeded > N=%d: %w", methodSeed, c.Total(), n, ErrSampleExceedsPopulation)
		}

		picked, err := Sample(cfg.rng, n, c.Total())
		if err != nil {
			return fmt.Errorf("%s: %w", methodSeed, err)
		}

		g.ResetNodes()
		g.EnableAll()
		next := 0
		for _, part := range c.ordered() {
			for _, id := range picked[next : next+part.size] {
				if err = g.SetStatus(id, part.status); err != nil {
					return fmt.Errorf("%s: %w", methodSeed, err)
				}
				if part.status == core.Hospitalized {
					if err = g.SetIncidentWeights(id, core.WeightDisabled); err != nil {
						return fmt.Errorf("%s: %w", methodSeed, err)
					}
				}
			}
			next += part.size
		}

		return nil
	}
}
