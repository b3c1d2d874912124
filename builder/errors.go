// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Implementations attach context using `%w`.

package builder

import "errors"

// ErrTooFewVertices indicates that a size parameter is smaller than the
// allowed minimum for the requested constructor.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidDegree indicates a lattice degree that is odd, non-positive, or
// not smaller than the node count.
var ErrInvalidDegree = errors.New("builder: invalid lattice degree")

// ErrInvalidProbability indicates that a probability value is outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates that a stochastic constructor requires a non-nil
// *rand.Rand in the resolved builderConfig (WithSeed/WithRand must be set).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrNegativeCompartment indicates an initial compartment size below zero.
var ErrNegativeCompartment = errors.New("builder: negative compartment size")

// ErrSampleExceedsPopulation indicates that more distinct nodes were requested
// than the population holds. This is a configuration error and fails fast;
// the request is never truncated.
var ErrSampleExceedsPopulation = errors.New("builder: sample exceeds population")

// ErrConstructFailed indicates that the builder could not complete a graph
// without breaking invariants (or was handed a nil constructor).
var ErrConstructFailed = errors.New("builder: construction failed")
