// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge/HasEdge/Edge/Edges/EdgeCount and weight access.
// Determinism:
//   - Edge IDs are dense and assigned in insertion order.
//   - Edges() returns edges sorted by ID asc.
// Concurrency:
//   - None; see Graph.

package core

import "fmt"

// Edge weights accepted by SetWeight.
const (
	WeightDisabled int64 = 0
	WeightEnabled  int64 = 1
)

// AddEdge connects u and v with an enabled (weight 1) undirected edge and
// returns the new edge ID.
//
// Steps:
//  1. Reject frozen topology, unknown nodes and self-loops.
//  2. Normalize the pair so that from < to; reject duplicates.
//  3. Append endpoints and weight, then register the edge in both incident lists.
//
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(u, v int) (int, error) {
	if g.topo.frozen {
		return 0, fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrTopologyFrozen)
	}
	if !g.HasNode(u) || !g.HasNode(v) {
		return 0, fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrNodeNotFound)
	}
	if u == v {
		return 0, fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrLoopNotAllowed)
	}
	key := pairKey(u, v)
	if _, dup := g.topo.pairs[key]; dup {
		return 0, fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrMultiEdgeNotAllowed)
	}

	eid := len(g.topo.ends)
	g.topo.ends = append(g.topo.ends, key)
	g.topo.pairs[key] = eid
	g.weights = append(g.weights, WeightEnabled)
	g.topo.incident[u] = append(g.topo.incident[u], eid)
	g.topo.incident[v] = append(g.topo.incident[v], eid)

	return eid, nil
}

// HasEdge reports whether u and v are adjacent.
// Complexity: O(1).
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.topo.pairs[pairKey(u, v)]
	return ok
}

// EdgeBetween returns the ID of the edge joining u and v.
func (g *Graph) EdgeBetween(u, v int) (int, error) {
	eid, ok := g.topo.pairs[pairKey(u, v)]
	if !ok {
		return 0, fmt.Errorf("EdgeBetween(%d,%d): %w", u, v, ErrEdgeNotFound)
	}
	return eid, nil
}

// EdgeCount returns M.
func (g *Graph) EdgeCount() int { return len(g.topo.ends) }

// Edge returns a copy of edge eid.
func (g *Graph) Edge(eid int) (Edge, error) {
	if eid < 0 || eid >= len(g.topo.ends) {
		return Edge{}, fmt.Errorf("Edge(%d): %w", eid, ErrEdgeNotFound)
	}
	ends := g.topo.ends[eid]
	return Edge{ID: eid, From: ends[0], To: ends[1], Weight: g.weights[eid]}, nil
}

// Edges returns copies of all edges sorted by ID.
// Complexity: O(M).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.topo.ends))
	for eid, ends := range g.topo.ends {
		out[eid] = Edge{ID: eid, From: ends[0], To: ends[1], Weight: g.weights[eid]}
	}
	return out
}

// Weight returns the gate weight of edge eid. Unknown IDs panic like a slice
// index would; use Edge for checked access.
func (g *Graph) Weight(eid int) int64 { return g.weights[eid] }

// SetWeight sets the gate weight of edge eid.
//
// Errors:
//   - ErrEdgeNotFound: eid outside [0, M).
//   - ErrBadWeight: w not in {0,1}.
func (g *Graph) SetWeight(eid int, w int64) error {
	if eid < 0 || eid >= len(g.weights) {
		return fmt.Errorf("SetWeight(%d): %w", eid, ErrEdgeNotFound)
	}
	if w != WeightDisabled && w != WeightEnabled {
		return fmt.Errorf("SetWeight(%d, %d): %w", eid, w, ErrBadWeight)
	}
	g.weights[eid] = w

	return nil
}

// SetIncidentWeights sets every edge incident to node id to w.
// Complexity: O(deg(id)).
func (g *Graph) SetIncidentWeights(id int, w int64) error {
	if !g.HasNode(id) {
		return fmt.Errorf("SetIncidentWeights(%d): %w", id, ErrNodeNotFound)
	}
	if w != WeightDisabled && w != WeightEnabled {
		return fmt.Errorf("SetIncidentWeights(%d, %d): %w", id, w, ErrBadWeight)
	}
	for _, eid := range g.topo.incident[id] {
		g.weights[eid] = w
	}

	return nil
}

// EnableAll sets every edge weight to 1.
func (g *Graph) EnableAll() {
	for i := range g.weights {
		g.weights[i] = WeightEnabled
	}
}

// pairKey normalizes an unordered pair so that the smaller index comes first.
func pairKey(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}
