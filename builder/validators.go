// SPDX-License-Identifier: MIT
// Package: seirah/builder
//
// validators.go - parameter contracts shared by constructors.
// Each helper returns a sentinel wrapped with method context.

package builder

import "fmt"

// Probability bounds.
const (
	probMin = 0.0
	probMax = 1.0
)

// validateMin ensures that got ≥ min.
// Complexity: O(1).
func validateMin(method string, got, min int) error {
	if got < min {
		return fmt.Errorf("%s: n=%d < min=%d: %w", method, got, min, ErrTooFewVertices)
	}
	return nil
}

// validateProbability enforces p ∈ [0,1].
func validateProbability(method string, p float64) error {
	if p < probMin || p > probMax {
		return fmt.Errorf("%s: p=%.6f not in [%.1f,%.1f]: %w", method, p, probMin, probMax, ErrInvalidProbability)
	}
	return nil
}

// validateDegree enforces an even lattice degree 2 ≤ k < n.
func validateDegree(method string, n, k int) error {
	if k < 2 || k%2 != 0 || k >= n {
		return fmt.Errorf("%s: k=%d with n=%d: %w", method, k, n, ErrInvalidDegree)
	}
	return nil
}
