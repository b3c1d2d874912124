// File: methods_nodes.go
// Role: Node lifecycle & queries.
//
// Determinism:
//   - Nodes are dense indices assigned in insertion order (0, 1, 2, ...).
//
// Concurrency:
//   - None; see Graph.
package core

import "fmt"

// AddNode appends a Susceptible node and returns its index.
//
// Errors:
//   - ErrTopologyFrozen: the graph topology is shared with a clone.
//
// Complexity: O(1) amortized.
func (g *Graph) AddNode() (int, error) {
	if g.topo.frozen {
		return 0, fmt.Errorf("AddNode: %w", ErrTopologyFrozen)
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id})
	g.topo.incident = append(g.topo.incident, nil)

	return id, nil
}

// AddNodes appends n Susceptible nodes. It returns the index of the first one.
// Complexity: O(n).
func (g *Graph) AddNodes(n int) (int, error) {
	first := len(g.nodes)
	for i := 0; i < n; i++ {
		if _, err := g.AddNode(); err != nil {
			return first, fmt.Errorf("AddNodes(%d): %w", n, err)
		}
	}

	return first, nil
}

// HasNode reports whether id is a valid node index.
func (g *Graph) HasNode(id int) bool { return id >= 0 && id < len(g.nodes) }

// NodeCount returns N.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Node returns a pointer to the live node record.
//
// Errors:
//   - ErrNodeNotFound: id outside [0, N).
//
// Complexity: O(1).
func (g *Graph) Node(id int) (*Node, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("Node(%d): %w", id, ErrNodeNotFound)
	}
	return &g.nodes[id], nil
}

// Status returns the current status of node id.
func (g *Graph) Status(id int) (Status, error) {
	if !g.HasNode(id) {
		return 0, fmt.Errorf("Status(%d): %w", id, ErrNodeNotFound)
	}
	return g.nodes[id].Status, nil
}

// SetStatus overwrites the status of node id without stamping a first day.
// Used when a status is copied between the commuter graph and a city graph.
func (g *Graph) SetStatus(id int, s Status) error {
	if !g.HasNode(id) {
		return fmt.Errorf("SetStatus(%d): %w", id, ErrNodeNotFound)
	}
	if !s.Valid() {
		return fmt.Errorf("SetStatus(%d, %d): %w", id, uint8(s), ErrInvalidStatus)
	}
	g.nodes[id].Status = s

	return nil
}

// SetCommuter sets or clears the commuter flag of node id.
func (g *Graph) SetCommuter(id int, commuter bool) error {
	if !g.HasNode(id) {
		return fmt.Errorf("SetCommuter(%d): %w", id, ErrNodeNotFound)
	}
	g.nodes[id].Commuter = commuter

	return nil
}

// ResetNodes returns every node to a fresh Susceptible record with zeroed
// bookkeeping. Topology and weights are untouched.
// Complexity: O(N).
func (g *Graph) ResetNodes() {
	for i := range g.nodes {
		g.nodes[i].reset()
	}
}

// InternalNodes returns the live node slice (no copy).
// Callers may mutate node records but must not append to or reslice it.
func (g *Graph) InternalNodes() []Node { return g.nodes }
