// SPDX-License-Identifier: MIT
// Package gate switches contact edges on and off according to node state.
//
// Two idempotent passes over a graph, applied node by node in index order:
//
//	DisableIfIsolated - a node that is Hospitalized OR a commuter gets every
//	                    incident edge set to weight 0.
//	EnableIfMixing    - a node that is not Hospitalized OR is a commuter gets
//	                    every incident edge set to weight 1.
//
// The passes are not inverses. EnableIfMixing run from a mixing neighbour
// re-opens an edge that touches a Hospitalized node; transmission across it
// is still impossible because only Susceptible nodes can be infected and a
// Hospitalized node never transmits. The scheduler relies on the exact call
// sequence of the daily cycle.
//
// Complexity: O(N + M) per pass.
package gate

import (
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// Isolated reports whether n must be cut from its neighbours.
func Isolated(n *core.Node) bool {
	return n.Status == core.Hospitalized || n.Commuter
}

// Mixing reports whether n takes part in contact this phase.
func Mixing(n *core.Node) bool {
	return n.Status != core.Hospitalized || n.Commuter
}

// DisableIfIsolated sets every edge incident to an isolated node to 0.
func DisableIfIsolated(g *core.Graph) error {
	return apply("DisableIfIsolated", g, Isolated, core.WeightDisabled)
}

// EnableIfMixing sets every edge incident to a mixing node to 1.
func EnableIfMixing(g *core.Graph) error {
	return apply("EnableIfMixing", g, Mixing, core.WeightEnabled)
}

func apply(method string, g *core.Graph, match func(*core.Node) bool, w int64) error {
	nodes := g.InternalNodes()
	for i := range nodes {
		if !match(&nodes[i]) {
			continue
		}
		if err := g.SetIncidentWeights(i, w); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
	}

	return nil
}
