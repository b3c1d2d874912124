// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// options.go - functional options for the builder package.
//
// Contract (strict):
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Algorithms themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed/WithRand and
//     WithTopologySeed/WithTopologyRand.

package builder

import "math/rand"

// BuilderOption customizes the behavior of a constructor by mutating a
// builderConfig instance before graph construction begins.
type BuilderOption func(*builderConfig)

// WithSeed creates a private RNG seeded with seed for state sampling.
// Complexity: O(1).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand shares an existing RNG for state sampling. The simulation passes
// its process-wide stream here so that seeding consumes it in order.
// Panics on nil.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithTopologySeed creates a private RNG seeded with seed for topology choices.
func WithTopologySeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.topoRng = rand.New(rand.NewSource(seed))
	}
}

// WithTopologyRand shares an existing RNG for topology choices. Panics on nil.
func WithTopologyRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithTopologyRand(nil)")
	}
	return func(c *builderConfig) {
		c.topoRng = r
	}
}
