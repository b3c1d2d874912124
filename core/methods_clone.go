// File: methods_clone.go
// Role: Cloning graph instances for calibration trials and snapshots.
// Determinism:
//   - A clone holds identical node records and weights; the topology is shared.
// Concurrency:
//   - Cloning does not mutate node or weight state of the source, but it does
//     freeze the shared topology.

package core

// Clone returns an independent copy of the graph's mutable state.
//
// Node records and edge weights are copied; endpoints and incident lists are
// frozen and shared between the source and the clone, because contact
// topology never changes after generation. Mutating node state or weights on
// one side is never visible on the other.
//
// Complexity: O(N + M) time and space.
func (g *Graph) Clone() *Graph {
	g.topo.frozen = true
	clone := &Graph{
		name:    g.name,
		topo:    g.topo,
		nodes:   make([]Node, len(g.nodes)),
		weights: make([]int64, len(g.weights)),
	}
	copy(clone.nodes, g.nodes)
	copy(clone.weights, g.weights)

	return clone
}

// Frozen reports whether the topology can still grow.
func (g *Graph) Frozen() bool { return g.topo.frozen }

// Freeze prevents any further AddNode/AddEdge.
func (g *Graph) Freeze() { g.topo.frozen = true }
