package metro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/epidemic"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
)

func smallCities() []metro.CitySpec {
	return []metro.CitySpec{
		{Name: "center", N: 400, K: 4, P: 0.1, Commuters: 120,
			Initial: builder.Compartments{Exposed: 6, Infectious: 4, Hospitalized: 1}},
		{Name: "suburb", N: 250, K: 4, P: 0.1, Commuters: 30,
			Initial: builder.Compartments{Exposed: 3}},
	}
}

func newMetro(t *testing.T, seed int64) *metro.Metro {
	t.Helper()
	m, err := metro.New(smallCities(), metro.CommuterSpec{K: 8, P: 0.05}, metro.WithSeed(seed))
	require.NoError(t, err)
	return m
}

func flagged(g *core.Graph) int {
	n := 0
	for _, rec := range g.InternalNodes() {
		if rec.Commuter {
			n++
		}
	}
	return n
}

// assertSlotsMirror checks that every commuter's city status equals its CBD slot.
func assertSlotsMirror(t *testing.T, m *metro.Metro) {
	t.Helper()
	for _, c := range m.Cities() {
		for k, id := range c.CommuterIDs {
			cityStatus, err := c.Graph.Status(id)
			require.NoError(t, err)
			slotStatus, err := m.CBD().Status(c.FirstSlot + k)
			require.NoError(t, err)
			assert.Equal(t, cityStatus, slotStatus, "%s commuter %d", c.Spec.Name, id)
		}
	}
}

func TestNew_SlotsAndFlags(t *testing.T) {
	m := newMetro(t, 2020)

	assert.Equal(t, 150, m.CBD().NodeCount())
	assert.Equal(t, metro.CBDName, m.CBD().Name())
	assert.Equal(t, 650, m.Population())

	cities := m.Cities()
	require.Len(t, cities, 2)
	assert.Equal(t, 0, cities[0].FirstSlot)
	assert.Equal(t, 120, cities[1].FirstSlot)
	assert.Equal(t, 120, flagged(cities[0].Graph))
	assert.Equal(t, 30, flagged(cities[1].Graph))
	assertSlotsMirror(t, m)

	assert.True(t, m.CBD().Frozen())
	for _, c := range cities {
		assert.True(t, c.Graph.Frozen(), c.Spec.Name)
		_, err := c.Graph.AddNode()
		assert.ErrorIs(t, err, core.ErrTopologyFrozen)
	}
	_, err := m.CBD().AddEdge(0, 1)
	assert.ErrorIs(t, err, core.ErrTopologyFrozen)

	tl, err := m.Tally(0)
	require.NoError(t, err)
	assert.Equal(t, 650, tl.Total.N())
	assert.Equal(t, 9, tl.Total.Get(core.Exposed))
	assert.Equal(t, 1, tl.Total.Get(core.Hospitalized))
}

func TestNew_Errors(t *testing.T) {
	_, err := metro.New(nil, metro.CommuterSpec{K: 8, P: 0.05})
	assert.ErrorIs(t, err, metro.ErrNoCities)

	bad := smallCities()
	bad[1].Commuters = 251
	_, err = metro.New(bad, metro.CommuterSpec{K: 8, P: 0.05})
	assert.ErrorIs(t, err, metro.ErrBadCommuters)

	over := smallCities()
	over[0].Initial.Exposed = 1000
	_, err = metro.New(over, metro.CommuterSpec{K: 8, P: 0.05})
	assert.ErrorIs(t, err, builder.ErrSampleExceedsPopulation)
}

func TestResample_ClearsYesterday(t *testing.T) {
	m := newMetro(t, 7)

	require.NoError(t, m.Resample(0.5))
	cities := m.Cities()
	assert.Equal(t, 60, flagged(cities[0].Graph))
	assert.Equal(t, 15, flagged(cities[1].Graph))
	assert.Equal(t, 60, cities[1].FirstSlot, "slots stay contiguous")
	assertSlotsMirror(t, m)

	assert.ErrorIs(t, m.Resample(1.5), metro.ErrRatioOutOfRange)
	assert.ErrorIs(t, m.Resample(-0.1), metro.ErrRatioOutOfRange)
}

func TestDay_ConservesAndMirrors(t *testing.T) {
	m := newMetro(t, 11)

	for day := 0; day < 10; day++ {
		tl, err := m.Day(day, 0.8, 0.4)
		require.NoError(t, err)
		require.Len(t, tl.Cities, 2)
		assert.Equal(t, 400, tl.Cities[0].N())
		assert.Equal(t, 250, tl.Cities[1].N())
		assert.Equal(t, 150, tl.Commuters.N())
		assertSlotsMirror(t, m)
		require.NoError(t, m.CBD().Validate())
	}
}

func TestDay_Deterministic(t *testing.T) {
	a, b := newMetro(t, 99), newMetro(t, 99)
	for day := 0; day < 6; day++ {
		ta, err := a.Day(day, 1, 0.5)
		require.NoError(t, err)
		tb, err := b.Day(day, 1, 0.5)
		require.NoError(t, err)
		assert.Equal(t, ta, tb)
	}
}

func TestClone_TrialLeavesSource(t *testing.T) {
	m := newMetro(t, 3)
	_, err := m.Day(0, 1, 0.3)
	require.NoError(t, err)

	before := append([]core.Node(nil), m.Cities()[0].Graph.InternalNodes()...)
	beforeCBD := append([]core.Node(nil), m.CBD().InternalNodes()...)
	ids := append([]int(nil), m.Cities()[0].CommuterIDs...)

	trial := m.Clone()
	for d := 1; d <= 7; d++ {
		require.NoError(t, trial.Advance(d, 1, epidemic.Trial))
	}

	assert.Equal(t, before, m.Cities()[0].Graph.InternalNodes())
	assert.Equal(t, beforeCBD, m.CBD().InternalNodes())
	assert.Equal(t, ids, m.Cities()[0].CommuterIDs)
	assert.Equal(t, ids, trial.Cities()[0].CommuterIDs)
	assert.NotSame(t, m.Cities()[0], trial.Cities()[0])
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { metro.WithRand(nil) })
	assert.Panics(t, func() { metro.WithRates(epidemic.Rates{GammaHR: -1}) })
	assert.Panics(t, func() { metro.WithTau(epidemic.Tau{Home: 3}) })
}
