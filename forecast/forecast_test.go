package forecast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/forecast"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
	"github.com/oudeng/Interconnected-SEIRAH/stats"
)

func TestTrailingMean(t *testing.T) {
	betas := []float64{0.9, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}

	got, err := forecast.TrailingMean(betas, 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, got, 1e-12)

	got, err = forecast.TrailingMean(betas[:2], 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)

	_, err = forecast.TrailingMean(nil, 7)
	assert.ErrorIs(t, err, forecast.ErrNoHistory)
}

func TestShares(t *testing.T) {
	got, err := forecast.Shares([]float64{50, 25, 15, 10}, 100)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, 0.15, 0.1}, got)

	_, err = forecast.Shares([]float64{0, 0}, 0)
	assert.ErrorIs(t, err, forecast.ErrNoHospitalizations)
}

func TestReseed_TruncatesPerCity(t *testing.T) {
	specs := []metro.CitySpec{{Name: "a", N: 100}, {Name: "b", N: 100}}
	total := builder.Compartments{Exposed: 9, Infectious: 5, Asymptomatic: 3, Hospitalized: 7, Recovered: 11}

	out, err := forecast.Reseed(specs, total, []float64{0.6, 0.4})
	require.NoError(t, err)
	assert.Equal(t, builder.Compartments{Exposed: 5, Infectious: 3, Asymptomatic: 1, Hospitalized: 4, Recovered: 6}, out[0].Initial)
	assert.Equal(t, builder.Compartments{Exposed: 3, Infectious: 2, Asymptomatic: 1, Hospitalized: 2, Recovered: 4}, out[1].Initial)
	assert.Equal(t, "a", out[0].Name)
	assert.Zero(t, specs[0].Initial.Total(), "input specs are not modified")

	_, err = forecast.Reseed(specs, total, []float64{1})
	assert.ErrorIs(t, err, forecast.ErrShareCount)
}

func TestCompartments(t *testing.T) {
	var tl stats.Tally
	tl.Counts[core.Exposed] = 1
	tl.Counts[core.Infectious] = 2
	tl.Counts[core.Asymptomatic] = 3
	tl.Counts[core.Hospitalized] = 4
	tl.Counts[core.Recovered] = 5
	tl.Counts[core.Susceptible] = 100

	assert.Equal(t, builder.Compartments{Exposed: 1, Infectious: 2, Asymptomatic: 3, Hospitalized: 4, Recovered: 5},
		forecast.Compartments(tl))
}

func newMetro(t *testing.T, initial builder.Compartments) *metro.Metro {
	t.Helper()
	m, err := metro.New([]metro.CitySpec{
		{Name: "center", N: 300, K: 4, P: 0.1, Commuters: 80, Initial: initial},
		{Name: "suburb", N: 200, K: 4, P: 0.1, Commuters: 20},
	}, metro.CommuterSpec{K: 8, P: 0.05}, metro.WithSeed(11))
	require.NoError(t, err)
	return m
}

func TestUntilExtinction_EndsWithoutTransmission(t *testing.T) {
	m := newMetro(t, builder.Compartments{Exposed: 5, Infectious: 5, Asymptomatic: 5})
	var seen []int

	opts := forecast.DefaultOptions()
	opts.OnDay = func(day int, _ metro.Tallies) { seen = append(seen, day) }
	res, err := forecast.UntilExtinction(context.Background(), m, 0, opts)
	require.NoError(t, err)

	assert.True(t, res.Ended)
	assert.Less(t, res.LastDay, forecast.DefaultMaxDays)
	assert.Len(t, res.Days, res.LastDay+1)
	assert.Len(t, seen, res.LastDay)
	assert.Zero(t, res.Days[res.LastDay].Total.Active())
	for d := 0; d < res.LastDay; d++ {
		assert.Positive(t, res.Days[d].Total.Active(), "day %d", d)
	}
	assert.Equal(t, 500, res.Days[res.LastDay].Total.N())
}

func TestUntilExtinction_AlreadyExtinct(t *testing.T) {
	m := newMetro(t, builder.Compartments{Recovered: 3})

	res, err := forecast.UntilExtinction(context.Background(), m, 0.5, forecast.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Ended)
	assert.Zero(t, res.LastDay)
	assert.Len(t, res.Days, 1)
}

func TestUntilExtinction_Cap(t *testing.T) {
	m := newMetro(t, builder.Compartments{Exposed: 20, Infectious: 20})
	opts := forecast.DefaultOptions()
	opts.MaxDays = 2

	res, err := forecast.UntilExtinction(context.Background(), m, 0.9, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.LastDay)
	assert.Len(t, res.Days, 3)
}

func TestUntilExtinction_Canceled(t *testing.T) {
	m := newMetro(t, builder.Compartments{Exposed: 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := forecast.UntilExtinction(ctx, m, 0.2, forecast.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.LastDay)
}
