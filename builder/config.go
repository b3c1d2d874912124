// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// config.go - internal configuration and deterministic defaults.
//
// Design:
//   • builderConfig is the single source of truth for all builder knobs.
//   • Defaults are deterministic and documented; no globals.
//   • newBuilderConfig applies options in-order (later overrides earlier).
//
// Deterministic defaults:
//   • rng     = nil (seeding fails with ErrNeedRandSource unless set)
//   • topoRng = nil (falls back to rng)

package builder

import "math/rand"

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors (immutable to callers).
type builderConfig struct {
	// rng drives stochastic state choices (compartment sampling).
	rng *rand.Rand
	// topoRng drives topology choices (small-world shortcuts). Generating
	// the contact network from its own stream keeps the topology identical
	// across runs that seed the population differently.
	topoRng *rand.Rand
}

// newBuilderConfig constructs a config with deterministic defaults and applies
// all options in order.
// Complexity: O(len(opts)) time, O(1) space.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	var cfg builderConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.topoRng == nil {
		cfg.topoRng = cfg.rng
	}

	return cfg
}
