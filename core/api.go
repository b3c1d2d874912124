// SPDX-License-Identifier: MIT
//
// File: api.go
// Role: Read-only facade over Graph: Name, Stats, CountByStatus.
// Policy:
//   - No algorithms or hidden state here.
//   - Every exported function documents complexity.

package core

import "fmt"

// Name returns the label given by WithName ("" if none).
func (g *Graph) Name() string { return g.name }

// GraphStats is a diagnostic summary of a Graph.
type GraphStats struct {
	Name          string
	NodeCount     int
	EdgeCount     int
	DisabledEdges int
	Frozen        bool
}

// String renders the summary for logs.
func (s GraphStats) String() string {
	return fmt.Sprintf("graph %q: N=%d M=%d disabled=%d frozen=%t",
		s.Name, s.NodeCount, s.EdgeCount, s.DisabledEdges, s.Frozen)
}

// Stats returns a snapshot summary of the graph.
// Complexity: O(M).
func (g *Graph) Stats() GraphStats {
	disabled := 0
	for _, w := range g.weights {
		if w == WeightDisabled {
			disabled++
		}
	}

	return GraphStats{
		Name:          g.name,
		NodeCount:     len(g.nodes),
		EdgeCount:     len(g.topo.ends),
		DisabledEdges: disabled,
		Frozen:        g.topo.frozen,
	}
}

// CountByStatus returns how many nodes are currently in each status.
// The entries always sum to NodeCount.
// Complexity: O(N).
func (g *Graph) CountByStatus() [StatusCount]int {
	var out [StatusCount]int
	for i := range g.nodes {
		out[g.nodes[i].Status]++
	}

	return out
}
