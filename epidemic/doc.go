// Package epidemic implements the stochastic SEIRAH transition engine.
//
// One Step is an in-place pass over the nodes of a graph in index order.
// Each node is examined with its current status, including changes made
// earlier in the same pass, so an update is immediately visible to later
// nodes. The checks run as consecutive blocks:
//
//	Infectious   - infect neighbours and/or move to Hospitalized
//	Asymptomatic - infect neighbours and/or move to Recovered or Hospitalized
//	Exposed      - infect neighbours and/or move to Infectious or Asymptomatic
//	Hospitalized - move to Recovered
//
// A node moved to Hospitalized by the Infectious or Asymptomatic block
// therefore also gets its recovery draw in the same pass.
//
// Probabilities use thresholds of the form 1 - rate·τ: an event fires when a
// uniform draw exceeds the threshold. A transmission draw is taken for every
// incident edge in insertion order, and fires only when the neighbour is
// Susceptible and draw·weight exceeds 1 - β·τ, so a disabled edge never
// transmits.
//
// Recording mode stamps first-entry days; Trial mode leaves them untouched
// and is used on disposable clones during calibration.
package epidemic
