// File: bisect.go
// Role: the bound-comparison bisection over β ∈ [0,1].
// Determinism:
//   - Evaluates the objective at A then B on every iteration; the result is
//     deterministic whenever the objective is.

package calibrate

import (
	"fmt"
	"math"
)

// Options tunes the search.
type Options struct {
	// Epsilon is the midpoint tolerance.
	Epsilon float64 `yaml:"epsilon" json:"epsilon" validate:"gt=0,lt=1"`
	// MaxIterations bounds the search on objectives it cannot settle.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations" validate:"gte=1"`
	// Window is the number of observed days compared per evaluation,
	// including the unscored day 0.
	Window int `yaml:"window" json:"window" validate:"gte=2"`
}

// DefaultOptions returns ε=0.01, 64 iterations and a 7-day window.
func DefaultOptions() Options {
	return Options{Epsilon: 0.01, MaxIterations: 64, Window: 7}
}

// Objective scores a candidate β; lower is better.
type Objective func(beta float64) (float64, error)

// BisectResult is the outcome of Bisect.
type BisectResult struct {
	Beta       float64
	Iterations int
	// Converged is false when MaxIterations ran out first.
	Converged bool
	// Low and High are the final bounds.
	Low, High float64
}

// Bisect searches [0,1] starting from the previous estimate prev.
//
// Steps per iteration:
//  1. mid = (A+B)/2.
//  2. Evaluate the objective at A and at B.
//  3. If obj(A) > obj(B) then A = mid; if obj(A) < obj(B) then B = mid.
//  4. Compare the new midpoint with mid.
//
// The loop is entered only when |prev − 0| ≥ Epsilon, so a previous estimate
// below Epsilon is returned unchanged. The returned β is mid of the last
// iteration, the point whose comparison with the following midpoint ended the
// search. It is one of the final bounds, so it lies within High−Low of the
// minimizer of a unimodal objective.
//
// Errors from the objective abort the search and are returned with
// Beta = prev.
func Bisect(prev float64, obj Objective, opts Options) (BisectResult, error) {
	if opts.Epsilon <= 0 || math.IsNaN(opts.Epsilon) {
		opts.Epsilon = DefaultOptions().Epsilon
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}

	low, high := 0.0, 1.0
	res := BisectResult{Beta: prev, Low: low, High: high, Converged: true}
	mid, next := prev, 0.0
	for math.Abs(mid-next) >= opts.Epsilon {
		if res.Iterations == opts.MaxIterations {
			res.Converged = false
			break
		}
		res.Iterations++

		mid = (low + high) / 2
		dLow, err := obj(low)
		if err != nil {
			return BisectResult{Beta: prev, Iterations: res.Iterations, Low: low, High: high},
				fmt.Errorf("Bisect: β=%g: %w", low, err)
		}
		dHigh, err := obj(high)
		if err != nil {
			return BisectResult{Beta: prev, Iterations: res.Iterations, Low: low, High: high},
				fmt.Errorf("Bisect: β=%g: %w", high, err)
		}
		if dLow > dHigh {
			low = mid
		}
		if dLow < dHigh {
			high = mid
		}
		next = (low + high) / 2
		res.Beta, res.Low, res.High = mid, low, high
	}

	return res, nil
}
