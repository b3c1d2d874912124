// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// impl_ring.go - implementation of RingLattice(n, k) constructor.
//
// Contract:
//   • n ≥ 3 (else ErrTooFewVertices).
//   • k even, 2 ≤ k < n (else ErrInvalidDegree).
//   • Emits edges in stable order: for j=1..k/2, for i=0..n-1, i – (i+j) mod n.
//
// Complexity:
//   • Time: O(n) nodes + O(n·k/2) edges.
//   • Space: O(1) extra.

package builder

import "github.com/oudeng/Interconnected-SEIRAH/core"

const (
	methodRingLattice = "RingLattice"
	minRingNodes      = 3
)

// RingLattice returns a Constructor that joins every node to its k/2 nearest
// successors on a ring, giving every node degree k.
func RingLattice(n, k int) Constructor {
	return func(g *core.Graph, _ builderConfig) error {
		if err := validateMin(methodRingLattice, n, minRingNodes); err != nil {
			return err
		}
		if err := validateDegree(methodRingLattice, n, k); err != nil {
			return err
		}
		return ring(methodRingLattice, g, n, k)
	}
}

// ring appends n nodes and the lattice edges. Parameters are pre-validated.
func ring(method string, g *core.Graph, n, k int) error {
	base := g.NodeCount()
	if err := addNodes(method, g, n); err != nil {
		return err
	}
	for j := 1; j <= k/2; j++ {
		for i := 0; i < n; i++ {
			if err := addEdge(method, g, base+i, base+(i+j)%n); err != nil {
				return err
			}
		}
	}

	return nil
}
