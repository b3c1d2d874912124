// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// population.go - one-call generation of a seeded small-world population.

package builder

import (
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// PopulationSpec describes one sub-population: its contact topology and its
// initial compartments.
type PopulationSpec struct {
	Name    string
	N       int
	K       int
	P       float64
	Initial Compartments
}

// NewPopulation builds SmallWorld(N, K, P) and seeds it with Initial.
// Topology draws come from the topology RNG, seeding draws from the sampling
// RNG (see WithTopologySeed and WithRand).
//
// Complexity: O(N·K).
func NewPopulation(spec PopulationSpec, opts ...BuilderOption) (*core.Graph, error) {
	if spec.Initial.Total() > spec.N {
		return nil, fmt.Errorf("NewPopulation(%s): %d seeded > N=%d: %w",
			spec.Name, spec.Initial.Total(), spec.N, ErrSampleExceedsPopulation)
	}
	edges := spec.N * spec.K / 2
	gopts := []core.GraphOption{
		core.WithName(spec.Name),
		core.WithCapacity(max(spec.N, 0), max(edges+edges/4, 0)),
	}
	g, err := BuildGraph(gopts, opts, SmallWorld(spec.N, spec.K, spec.P), Seed(spec.Initial))
	if err != nil {
		return nil, fmt.Errorf("NewPopulation(%s): %w", spec.Name, err)
	}

	return g, nil
}
