// SPDX-License-Identifier: MIT
// Package core defines the contact Graph, its Node and Edge records, and the
// disease Status lattice shared by every simulation package.
//
// This file declares Status, StatusSet, Node, Edge, Graph, GraphOption,
// sentinel errors, and the NewGraph constructor.
//
// Errors:
//
//	ErrNodeNotFound        - node index outside [0, N).
//	ErrEdgeNotFound        - edge index outside [0, M).
//	ErrBadWeight           - edge weight other than 0 or 1.
//	ErrLoopNotAllowed      - self-loop requested.
//	ErrMultiEdgeNotAllowed - second edge between the same pair.
//	ErrTopologyFrozen      - topology mutation after the graph was cloned.
//	ErrMalformedTopology   - adjacency or weight invariant broken.
//	ErrInvalidStatus       - unknown status token.
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for core graph operations.
var (
	// ErrNodeNotFound indicates an operation referenced a non-existent node index.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge index.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadWeight indicates an edge weight outside {0,1}.
	ErrBadWeight = errors.New("core: edge weight must be 0 or 1")

	// ErrLoopNotAllowed indicates a self-loop was attempted.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a parallel edge was attempted.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")

	// ErrTopologyFrozen indicates a node or edge was added after Clone shared the topology.
	ErrTopologyFrozen = errors.New("core: topology is frozen")

	// ErrMalformedTopology indicates the adjacency catalog or the weights broke an invariant.
	ErrMalformedTopology = errors.New("core: malformed topology")

	// ErrInvalidStatus indicates an unknown status value or token.
	ErrInvalidStatus = errors.New("core: invalid status")
)

// Status is the compartment an individual currently occupies.
// Exactly one Status holds for every node at any time.
type Status uint8

// Compartments of the SEIRAH model. The numeric order is part of the
// snapshot format; do not reorder.
const (
	Susceptible Status = iota
	Exposed
	Infectious
	Asymptomatic
	Hospitalized
	Recovered

	// StatusCount is the number of compartments.
	StatusCount = 6
)

var statusTokens = [StatusCount]string{"susc", "expo", "infe", "asym", "hosp", "reco"}

// String returns the short token used in logs, snapshots and GraphML ("susc", "expo", ...).
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return statusTokens[s]
}

// Valid reports whether s is one of the six compartments.
func (s Status) Valid() bool { return s < StatusCount }

// ParseStatus converts a token produced by String back into a Status.
func ParseStatus(token string) (Status, error) {
	for i, t := range statusTokens {
		if t == token {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("ParseStatus(%q): %w", token, ErrInvalidStatus)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("MarshalText(%d): %w", uint8(s), ErrInvalidStatus)
	}
	return []byte(statusTokens[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CanTransition reports whether from→to is an edge of the disease lattice:
// S→E, E→I, E→A, I→H, A→H, A→R, H→R. Recovered is absorbing.
func CanTransition(from, to Status) bool {
	switch from {
	case Susceptible:
		return to == Exposed
	case Exposed:
		return to == Infectious || to == Asymptomatic
	case Infectious:
		return to == Hospitalized
	case Asymptomatic:
		return to == Hospitalized || to == Recovered
	case Hospitalized:
		return to == Recovered
	default:
		return false
	}
}

// StatusSet is a bit set of statuses.
type StatusSet uint8

// Has reports whether s is in the set.
func (ss StatusSet) Has(s Status) bool { return ss&(1<<s) != 0 }

// With returns the set extended by s.
func (ss StatusSet) With(s Status) StatusSet { return ss | 1<<s }

// Node is one individual of the population.
//
// FirstDay[s] is meaningful only when Entered.Has(s); statuses assigned by
// seeding are not stamped and do not count as entered.
type Node struct {
	// ID is the dense node index inside its Graph.
	ID int

	// Status is the current compartment.
	Status Status

	// FirstDay records the day each status was first entered.
	FirstDay [StatusCount]int

	// Entered marks the statuses whose FirstDay has been stamped.
	Entered StatusSet

	// InfectionsCaused counts Susceptible neighbours this node converted to Exposed.
	InfectionsCaused int

	// Commuter is set while the node belongs to the day's commuting subset.
	Commuter bool
}

// Enter moves the node to s and stamps FirstDay[s] on first entry only.
// Stamps are never overwritten or reset.
func (n *Node) Enter(s Status, day int) {
	n.Status = s
	if !n.Entered.Has(s) {
		n.FirstDay[s] = day
		n.Entered = n.Entered.With(s)
	}
}

// NewlyEntered reports whether s was first entered exactly on day.
func (n *Node) NewlyEntered(s Status, day int) bool {
	return n.Entered.Has(s) && n.FirstDay[s] == day
}

// reset returns the node to a fresh Susceptible record, keeping its ID.
func (n *Node) reset() {
	*n = Node{ID: n.ID}
}

// Edge is an undirected contact between two nodes of the same Graph.
// Weight gates transmission: 0 disables the contact for the current phase.
type Edge struct {
	// ID is the dense edge index inside its Graph.
	ID int

	// From and To are node indices; From < To for every stored edge.
	From int
	To   int

	// Weight is 0 or 1.
	Weight int64
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithName labels the graph (city name or "CBD"); used in logs and snapshots.
func WithName(name string) GraphOption {
	return func(g *Graph) { g.name = name }
}

// WithCapacity pre-allocates storage for n nodes and m edges.
func WithCapacity(n, m int) GraphOption {
	if n < 0 || m < 0 {
		panic("core: WithCapacity with negative size")
	}
	return func(g *Graph) {
		g.nodes = make([]Node, 0, n)
		g.weights = make([]int64, 0, m)
		g.topo.ends = make([][2]int, 0, m)
		g.topo.incident = make([][]int, 0, n)
	}
}

// topology is the immutable part of a Graph once frozen: endpoints and
// per-node incident edge lists in insertion order. Clones share it.
type topology struct {
	frozen   bool
	ends     [][2]int       // edge ID → (from, to), from < to
	incident [][]int        // node ID → incident edge IDs, insertion order
	pairs    map[[2]int]int // (from, to) → edge ID
}

// Graph is the contact network of one sub-population.
//
// Nodes are addressed by their dense index 0..N-1, and the incident edges of
// a node are visited in insertion order, which makes every pass over the
// graph reproducible for a fixed random stream.
//
// Graph is not safe for concurrent mutation; the simulation is single-threaded
// and each calibration trial works on its own clone.
type Graph struct {
	name    string
	topo    *topology
	nodes   []Node
	weights []int64
}

// NewGraph creates an empty Graph.
// Complexity: O(1) plus any pre-allocation requested by options.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		topo: &topology{pairs: make(map[[2]int]int)},
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
