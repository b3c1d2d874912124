// SPDX-License-Identifier: MIT
package builder_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/core"
)

func TestConstructors_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctor builder.Constructor
		opts []builder.BuilderOption
		want error
	}{
		{"path too short", builder.Path(1), nil, builder.ErrTooFewVertices},
		{"ring too short", builder.RingLattice(2, 2), nil, builder.ErrTooFewVertices},
		{"ring odd k", builder.RingLattice(10, 3), nil, builder.ErrInvalidDegree},
		{"ring k ≥ n", builder.RingLattice(4, 4), nil, builder.ErrInvalidDegree},
		{"sw bad p", builder.SmallWorld(10, 4, 1.5), []builder.BuilderOption{builder.WithSeed(1)}, builder.ErrInvalidProbability},
		{"sw no rng", builder.SmallWorld(10, 4, 0.5), nil, builder.ErrNeedRandSource},
		{"nil constructor", nil, nil, builder.ErrConstructFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.BuildGraph(nil, tc.opts, tc.ctor)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPathAndRing_Shape(t *testing.T) {
	t.Parallel()

	p, err := builder.BuildGraph(nil, nil, builder.Path(3))
	require.NoError(t, err)
	assert.Equal(t, 3, p.NodeCount())
	assert.True(t, p.HasEdge(0, 1))
	assert.True(t, p.HasEdge(1, 2))
	assert.False(t, p.HasEdge(0, 2))

	r, err := builder.BuildGraph(nil, nil, builder.RingLattice(10, 4))
	require.NoError(t, err)
	assert.Equal(t, 20, r.EdgeCount())
	for i := 0; i < 10; i++ {
		deg, err := r.Degree(i)
		require.NoError(t, err)
		assert.Equal(t, 4, deg)
	}
	assert.True(t, r.HasEdge(9, 1), "wraps around")
	require.NoError(t, r.Validate())
}

func TestSmallWorld_Deterministic(t *testing.T) {
	t.Parallel()

	build := func(seed int64) *core.Graph {
		g, err := builder.BuildGraph(nil,
			[]builder.BuilderOption{builder.WithTopologySeed(seed)},
			builder.SmallWorld(200, 4, 0.1))
		require.NoError(t, err)
		require.NoError(t, g.Validate())
		return g
	}

	a, b := build(2020), build(2020)
	assert.Equal(t, a.Edges(), b.Edges())
	assert.Greater(t, a.EdgeCount(), 400, "shortcuts were added")

	// Lattice edges survive.
	for i := 0; i < 200; i++ {
		assert.True(t, a.HasEdge(i, (i+1)%200))
		assert.True(t, a.HasEdge(i, (i+2)%200))
	}

	// p = 1 on a tiny ring saturates without looping forever.
	full, err := builder.BuildGraph(nil,
		[]builder.BuilderOption{builder.WithTopologySeed(1)},
		builder.SmallWorld(5, 2, 1))
	require.NoError(t, err)
	assert.LessOrEqual(t, full.EdgeCount(), 10)
}

func TestSeed_Partition(t *testing.T) {
	t.Parallel()

	c := builder.Compartments{Exposed: 3, Infectious: 2, Asymptomatic: 1, Hospitalized: 2, Recovered: 1}
	g, err := builder.NewPopulation(builder.PopulationSpec{Name: "city", N: 50, K: 4, P: 0.05, Initial: c},
		builder.WithSeed(2020), builder.WithTopologySeed(2020))
	require.NoError(t, err)
	assert.Equal(t, "city", g.Name())

	counts := g.CountByStatus()
	assert.Equal(t, 41, counts[core.Susceptible])
	assert.Equal(t, 3, counts[core.Exposed])
	assert.Equal(t, 2, counts[core.Infectious])
	assert.Equal(t, 1, counts[core.Asymptomatic])
	assert.Equal(t, 2, counts[core.Hospitalized])
	assert.Equal(t, 1, counts[core.Recovered])

	for _, n := range g.InternalNodes() {
		assert.Zero(t, n.Entered, "seeding never stamps")
		for _, eid := range g.Incident(n.ID) {
			other := g.Opposite(eid, n.ID)
			st, _ := g.Status(other)
			isolated := n.Status == core.Hospitalized || st == core.Hospitalized
			assert.Equal(t, !isolated, g.Weight(eid) == core.WeightEnabled)
		}
	}
}

func TestSeed_Errors(t *testing.T) {
	t.Parallel()

	_, err := builder.NewPopulation(builder.PopulationSpec{N: 10, K: 2, Initial: builder.Compartments{Exposed: 11}},
		builder.WithSeed(1))
	assert.ErrorIs(t, err, builder.ErrSampleExceedsPopulation)

	_, err = builder.BuildGraph(nil, []builder.BuilderOption{builder.WithSeed(1)},
		builder.Path(4), builder.Seed(builder.Compartments{Infectious: -1}))
	assert.ErrorIs(t, err, builder.ErrNegativeCompartment)

	_, err = builder.BuildGraph(nil, nil, builder.Path(4), builder.Seed(builder.Compartments{Infectious: 1}))
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)
}

func TestSample(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	got, err := builder.Sample(rng, 20, 20)
	require.NoError(t, err)
	seen := map[int]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "duplicate %d", v)
		assert.True(t, v >= 0 && v < 20)
		seen[v] = true
	}

	empty, err := builder.Sample(nil, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = builder.Sample(rng, 3, 4)
	assert.ErrorIs(t, err, builder.ErrSampleExceedsPopulation)
}
