// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// helpers.go - node insertion and sampling helpers shared by constructors
// and by the commuter scheduler.

package builder

import (
	"fmt"
	"math/rand"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// addNodes appends n nodes to g, wrapping failures with method context.
// Complexity: O(n).
func addNodes(method string, g *core.Graph, n int) error {
	if _, err := g.AddNodes(n); err != nil {
		return fmt.Errorf("%s: AddNodes(%d): %w", method, n, err)
	}
	return nil
}

// addEdge inserts u–v, wrapping failures with method context.
func addEdge(method string, g *core.Graph, u, v int) error {
	if _, err := g.AddEdge(u, v); err != nil {
		return fmt.Errorf("%s: AddEdge(%d,%d): %w", method, u, v, err)
	}
	return nil
}

// Sample draws k distinct indices from [0, n) without replacement, in draw
// order, using a partial Fisher–Yates shuffle.
//
// Errors:
//   - ErrSampleExceedsPopulation: k > n.
//   - ErrNegativeCompartment: k < 0.
//   - ErrNeedRandSource: rng is nil and k > 0.
//
// Complexity: O(n) time and space.
func Sample(rng *rand.Rand, n, k int) ([]int, error) {
	if k < 0 {
		return nil, fmt.Errorf("Sample: k=%d: %w", k, ErrNegativeCompartment)
	}
	if k > n {
		return nil, fmt.Errorf("Sample: k=%d > n=%d: %w", k, n, ErrSampleExceedsPopulation)
	}
	if k == 0 {
		return []int{}, nil
	}
	if rng == nil {
		return nil, fmt.Errorf("Sample: %w", ErrNeedRandSource)
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k:k], nil
}
