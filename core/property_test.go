// SPDX-License-Identifier: MIT
package core_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// TestGraphInvariants checks that status counts always sum to N and that
// a graph assembled from arbitrary edge requests stays structurally valid.
func TestGraphInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("status counts sum to N", prop.ForAll(
		func(statuses []uint8) bool {
			g := core.NewGraph()
			if _, err := g.AddNodes(len(statuses)); err != nil {
				return false
			}
			for i, s := range statuses {
				if err := g.SetStatus(i, core.Status(s%core.StatusCount)); err != nil {
					return false
				}
			}
			total := 0
			for _, c := range g.CountByStatus() {
				total += c
			}
			return total == g.NodeCount()
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("arbitrary edge requests keep adjacency symmetric", prop.ForAll(
		func(n int, pairs []int) bool {
			g := core.NewGraph()
			if _, err := g.AddNodes(n); err != nil {
				return false
			}
			for i := 0; i+1 < len(pairs); i += 2 {
				_, _ = g.AddEdge(pairs[i]%n, pairs[i+1]%n) // loops and duplicates are rejected
			}
			for _, e := range g.Edges() {
				if !g.HasEdge(e.To, e.From) {
					return false
				}
			}
			return g.Validate() == nil
		},
		gen.IntRange(1, 40),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
