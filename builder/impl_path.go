// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// impl_path.go - implementation of Path(n) constructor.
//
// Contract:
//   • n ≥ 2 (else ErrTooFewVertices).
//   • Adds n nodes, then edges i-1 – i for i=1..n-1 in that order.
//
// Complexity: O(n) nodes + O(n-1) edges.

package builder

import "github.com/oudeng/Interconnected-SEIRAH/core"

const (
	methodPath   = "Path"
	minPathNodes = 2
)

// Path returns a Constructor that builds a simple path P_n over new nodes.
// It is the smallest topology on which transmission order can be observed.
func Path(n int) Constructor {
	return func(g *core.Graph, _ builderConfig) error {
		if err := validateMin(methodPath, n, minPathNodes); err != nil {
			return err
		}
		base := g.NodeCount()
		if err := addNodes(methodPath, g, n); err != nil {
			return err
		}
		for i := 1; i < n; i++ {
			if err := addEdge(methodPath, g, base+i-1, base+i); err != nil {
				return err
			}
		}

		return nil
	}
}
