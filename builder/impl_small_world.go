// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// impl_small_world.go - implementation of SmallWorld(n, k, p) constructor.
//
// Canonical model (Newman–Watts–Strogatz):
//   - Build RingLattice(n, k).
//   - For each lattice edge (u, v) in insertion order, with probability p add a
//     shortcut (u, w) to a uniformly chosen w ≠ u not yet adjacent to u.
//   - Lattice edges are never removed, so the graph stays connected.
//   - A saturated u (degree n-1) gets no shortcut.
//
// Contract:
//   - n ≥ 3 (else ErrTooFewVertices); k even, 2 ≤ k < n (else ErrInvalidDegree).
//   - 0 ≤ p ≤ 1 (else ErrInvalidProbability).
//   - cfg.topoRng must be non-nil when p > 0 (else ErrNeedRandSource).
//
// Complexity:
//   - Time: O(n·k) expected; shortcut rejection sampling is bounded by the
//     saturation check.
//   - Space: O(1) extra beyond the graph.
//
// Determinism:
//   - Stable trial order (lattice insertion order) and one Float64 per lattice
//     edge, so a fixed topology seed reproduces the graph exactly.

package builder

import (
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

const methodSmallWorld = "SmallWorld"

// SmallWorld returns a Constructor that builds a Newman–Watts–Strogatz
// small-world contact graph over n new nodes.
func SmallWorld(n, k int, p float64) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		// 1) Validate parameters early (zero side-effects on invalid input).
		if err := validateMin(methodSmallWorld, n, minRingNodes); err != nil {
			return err
		}
		if err := validateDegree(methodSmallWorld, n, k); err != nil {
			return err
		}
		if err := validateProbability(methodSmallWorld, p); err != nil {
			return err
		}
		rng := cfg.topoRng
		if rng == nil && p > 0 {
			return fmt.Errorf("%s: topology rng is required: %w", methodSmallWorld, ErrNeedRandSource)
		}

		// 2) Ring lattice.
		base := g.NodeCount()
		firstEdge := g.EdgeCount()
		if err := ring(methodSmallWorld, g, n, k); err != nil {
			return err
		}
		if p == 0 {
			return nil
		}

		// 3) Shortcuts, one trial per lattice edge.
		lastEdge := g.EdgeCount()
		for eid := firstEdge; eid < lastEdge; eid++ {
			e, err := g.Edge(eid)
			if err != nil {
				return fmt.Errorf("%s: %w", methodSmallWorld, err)
			}
			if rng.Float64() >= p {
				continue
			}
			u := e.From
			if deg, _ := g.Degree(u); deg >= n-1 {
				continue
			}
			w := base + rng.Intn(n)
			for w == u || g.HasEdge(u, w) {
				w = base + rng.Intn(n)
			}
			if err = addEdge(methodSmallWorld, g, u, w); err != nil {
				return err
			}
		}

		return nil
	}
}
