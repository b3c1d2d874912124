// File: methods_adjacent.go
// Role: Neighborhood APIs (Incident, Opposite, NeighborIDs, Degree) and Validate.
// Determinism:
//   - Incident() lists edge IDs in insertion order; NeighborIDs() follows the same order.
// Concurrency:
//   - None; see Graph.

package core

import "fmt"

// Incident returns the IDs of the edges incident to node id, in insertion order.
//
// The returned slice is the live adjacency bucket shared by all clones; treat
// it as read-only. Unknown ids return nil.
//
// Complexity: O(1).
func (g *Graph) Incident(id int) []int {
	if !g.HasNode(id) {
		return nil
	}
	return g.topo.incident[id]
}

// Opposite returns the endpoint of edge eid that is not id.
// The caller guarantees that eid is incident to id.
func (g *Graph) Opposite(eid, id int) int {
	ends := g.topo.ends[eid]
	if ends[0] == id {
		return ends[1]
	}
	return ends[0]
}

// NeighborIDs returns the nodes adjacent to id in incident-edge order.
//
// Errors:
//   - ErrNodeNotFound: id outside [0, N).
//
// Complexity: O(deg(id)).
func (g *Graph) NeighborIDs(id int) ([]int, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("NeighborIDs(%d): %w", id, ErrNodeNotFound)
	}
	bucket := g.topo.incident[id]
	out := make([]int, len(bucket))
	for i, eid := range bucket {
		out[i] = g.Opposite(eid, id)
	}

	return out, nil
}

// Degree returns the number of edges incident to id.
func (g *Graph) Degree(id int) (int, error) {
	if !g.HasNode(id) {
		return 0, fmt.Errorf("Degree(%d): %w", id, ErrNodeNotFound)
	}
	return len(g.topo.incident[id]), nil
}

// Validate checks the structural invariants the simulation relies on:
//   - every edge appears in the incident lists of both endpoints, exactly once;
//   - endpoints are in range and distinct;
//   - every weight is 0 or 1;
//   - node records carry their own index and a valid status.
//
// It returns an error wrapping ErrMalformedTopology on the first violation.
// Complexity: O(N + M).
func (g *Graph) Validate() error {
	if len(g.topo.incident) != len(g.nodes) {
		return fmt.Errorf("Validate: %d adjacency buckets for %d nodes: %w",
			len(g.topo.incident), len(g.nodes), ErrMalformedTopology)
	}
	if len(g.weights) != len(g.topo.ends) {
		return fmt.Errorf("Validate: %d weights for %d edges: %w",
			len(g.weights), len(g.topo.ends), ErrMalformedTopology)
	}
	seen := make([]int, len(g.topo.ends))
	for id, bucket := range g.topo.incident {
		if g.nodes[id].ID != id || !g.nodes[id].Status.Valid() {
			return fmt.Errorf("Validate: node %d record is corrupt: %w", id, ErrMalformedTopology)
		}
		for _, eid := range bucket {
			if eid < 0 || eid >= len(g.topo.ends) {
				return fmt.Errorf("Validate: node %d lists unknown edge %d: %w", id, eid, ErrMalformedTopology)
			}
			ends := g.topo.ends[eid]
			if ends[0] != id && ends[1] != id {
				return fmt.Errorf("Validate: node %d lists foreign edge %d: %w", id, eid, ErrMalformedTopology)
			}
			seen[eid]++
		}
	}
	for eid, ends := range g.topo.ends {
		if ends[0] == ends[1] || !g.HasNode(ends[0]) || !g.HasNode(ends[1]) {
			return fmt.Errorf("Validate: edge %d has endpoints %v: %w", eid, ends, ErrMalformedTopology)
		}
		if seen[eid] != 2 {
			return fmt.Errorf("Validate: edge %d listed %d times: %w", eid, seen[eid], ErrMalformedTopology)
		}
		if w := g.weights[eid]; w != WeightDisabled && w != WeightEnabled {
			return fmt.Errorf("Validate: edge %d weight %d: %w", eid, w, ErrMalformedTopology)
		}
	}

	return nil
}
