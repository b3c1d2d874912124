// Package builder generates the contact graphs and initial disease states of
// a simulated population.
//
// The package offers the following key components:
//
//   - Configuration primitives:
//     – BuilderOption: a function that mutates builderConfig before use.
//     – WithSeed / WithRand: sampling stream (initial compartments).
//     – WithTopologySeed / WithTopologyRand: topology stream (shortcuts).
//   - Constructors (Constructor closures, composed by BuildGraph):
//     – Path(n), RingLattice(n, k), SmallWorld(n, k, p).
//     – Seed(Compartments): reset and seed an existing graph.
//   - Helpers:
//     – Sample(rng, n, k): k distinct indices without replacement.
//     – NewPopulation(PopulationSpec): small world plus seeding in one call.
//
// Guarantees:
//
//   - Fast-fail on invalid option parameters via panics in option constructors.
//   - Sentinel errors (errors.Is) for invalid build parameters; a seeding
//     request larger than the population is rejected, never truncated.
//   - The same seeds and constructor order reproduce the same graph.
package builder
