// Package snapshot captures and restores the full node and edge state of a
// contact graph for external persistence.
//
// A Snapshot is an opaque deep copy: restoring it yields a graph with the
// same node records, the same edge IDs in the same insertion order and the
// same weights, so a restored graph replays exactly like its source.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// Version is the current snapshot layout.
const Version = 1

var (
	// ErrCorrupt indicates a frame whose magic, length or checksum is wrong.
	ErrCorrupt = errors.New("snapshot: corrupt frame")

	// ErrVersion indicates an unsupported snapshot version.
	ErrVersion = errors.New("snapshot: unsupported version")
)

// NodeState is one node record.
type NodeState struct {
	Status core.Status `json:"status"`
	// FirstDay holds stamps for entered statuses only.
	FirstDay         map[core.Status]int `json:"first_day,omitempty"`
	InfectionsCaused int                 `json:"infections_caused,omitempty"`
	Commuter         bool                `json:"commuter,omitempty"`
}

// EdgeState is one edge; its position in Snapshot.Edges is its ID.
type EdgeState struct {
	From   int   `json:"from"`
	To     int   `json:"to"`
	Weight int64 `json:"weight"`
}

// Snapshot is the serializable state of one graph.
type Snapshot struct {
	Version int         `json:"version"`
	Name    string      `json:"name,omitempty"`
	Day     int         `json:"day"`
	Nodes   []NodeState `json:"nodes"`
	Edges   []EdgeState `json:"edges"`
}

// Take copies g's state as of day.
// Complexity: O(N + M).
func Take(g *core.Graph, day int) Snapshot {
	nodes := g.InternalNodes()
	s := Snapshot{
		Version: Version,
		Name:    g.Name(),
		Day:     day,
		Nodes:   make([]NodeState, len(nodes)),
	}
	for i := range nodes {
		n := &nodes[i]
		ns := NodeState{
			Status:           n.Status,
			InfectionsCaused: n.InfectionsCaused,
			Commuter:         n.Commuter,
		}
		for st := core.Status(0); st < core.StatusCount; st++ {
			if n.Entered.Has(st) {
				if ns.FirstDay == nil {
					ns.FirstDay = make(map[core.Status]int, core.StatusCount)
				}
				ns.FirstDay[st] = n.FirstDay[st]
			}
		}
		s.Nodes[i] = ns
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, EdgeState{From: e.From, To: e.To, Weight: e.Weight})
	}

	return s
}

// Restore rebuilds a graph from s. Edges are added in ID order, which
// reproduces every node's incident order.
//
// Errors:
//   - ErrVersion for an unknown layout.
//   - core sentinels (ErrNodeNotFound, ErrBadWeight, ErrInvalidStatus, ...)
//     wrapped for invalid content.
func Restore(s Snapshot) (*core.Graph, error) {
	if s.Version != Version {
		return nil, fmt.Errorf("Restore: version %d: %w", s.Version, ErrVersion)
	}
	g := core.NewGraph(core.WithName(s.Name), core.WithCapacity(len(s.Nodes), len(s.Edges)))
	if _, err := g.AddNodes(len(s.Nodes)); err != nil {
		return nil, fmt.Errorf("Restore: %w", err)
	}
	for i, e := range s.Edges {
		eid, err := g.AddEdge(e.From, e.To)
		if err != nil {
			return nil, fmt.Errorf("Restore: edge %d: %w", i, err)
		}
		if err = g.SetWeight(eid, e.Weight); err != nil {
			return nil, fmt.Errorf("Restore: edge %d: %w", i, err)
		}
	}
	for i, ns := range s.Nodes {
		if !ns.Status.Valid() {
			return nil, fmt.Errorf("Restore: node %d: %w", i, core.ErrInvalidStatus)
		}
		n, err := g.Node(i)
		if err != nil {
			return nil, fmt.Errorf("Restore: %w", err)
		}
		n.Status = ns.Status
		n.InfectionsCaused = ns.InfectionsCaused
		n.Commuter = ns.Commuter
		for st, day := range ns.FirstDay {
			if !st.Valid() {
				return nil, fmt.Errorf("Restore: node %d: %w", i, core.ErrInvalidStatus)
			}
			n.FirstDay[st] = day
			n.Entered = n.Entered.With(st)
		}
	}

	return g, nil
}
