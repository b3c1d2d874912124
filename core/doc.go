// Package core provides the contact Graph used by the epidemic simulation.
//
// A Graph G = (V, E) is an undirected simple graph over dense node indices
// 0..N-1. Each node carries its disease Status and bookkeeping (first-day
// stamps, infections caused, commuter flag); each edge carries a binary
// weight acting as a contact gate:
//
//	weight 1 - the contact may transmit
//	weight 0 - the contact is switched off for the current phase
//
// Topology vs. state:
//
//   - Topology (endpoints, incident lists) is built once by package builder
//     and frozen by the first Clone. Clones share it.
//   - State (node records, edge weights) is copied by Clone, so a calibration
//     trial can mutate its clone freely.
//
// Determinism:
//
//   - Node indices are assigned in insertion order.
//   - Incident(i) lists edges in insertion order; the transition engine
//     visits neighbours in exactly this order, which makes a pass
//     reproducible for a fixed random stream.
//
// Status lattice:
//
//	Susceptible → Exposed → {Infectious, Asymptomatic}
//	Infectious → Hospitalized
//	Asymptomatic → {Hospitalized, Recovered}
//	Hospitalized → Recovered (absorbing)
//
// Concurrency:
//
//	Graph is not safe for concurrent use. Give each goroutine its own Clone.
//
// Errors:
//
//	All failures wrap one of the sentinel errors declared in types.go; use
//	errors.Is to branch on them.
package core
