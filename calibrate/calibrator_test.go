package calibrate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/logging"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
)

type fakeRecorder struct {
	iterations []int
	fallbacks  int
}

func (f *fakeRecorder) ObserveCalibration(iterations int, fallback bool) {
	f.iterations = append(f.iterations, iterations)
	if fallback {
		f.fallbacks++
	}
}

func newMetro(t *testing.T, initial builder.Compartments) *metro.Metro {
	t.Helper()
	cities := []metro.CitySpec{
		{Name: "center", N: 300, K: 4, P: 0.1, Commuters: 60, Initial: initial},
		{Name: "suburb", N: 200, K: 4, P: 0.1, Commuters: 40},
	}
	m, err := metro.New(cities, metro.CommuterSpec{K: 8, P: 0.05}, metro.WithSeed(7))
	require.NoError(t, err)
	return m
}

func TestCalibrate_NoInfectionZeroObservations(t *testing.T) {
	m := newMetro(t, builder.Compartments{})
	rec := &fakeRecorder{}
	c := New(WithRecorder(rec))

	res, err := c.Calibrate(context.Background(), 0, 0.1, m, make([]float64, 7))
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Beta)
	assert.Equal(t, 1, res.Iterations)
	assert.False(t, res.Fallback)
	assert.Equal(t, []int{1}, rec.iterations)
}

func TestCalibrate_RecoversSyntheticBeta(t *testing.T) {
	const target = 0.37
	m := newMetro(t, builder.Compartments{})
	c := New()
	// H grows linearly in β, standing in for a model run at β*.
	c.rollout = func(_ *metro.Metro, _ int, beta float64, days int) ([]float64, error) {
		out := make([]float64, days)
		for d := range out {
			out[d] = 1000 * beta * float64(d)
		}
		return out, nil
	}
	observed := make([]float64, 10)
	for d := range observed {
		observed[d] = 1000 * target * float64(d)
	}
	// Window starts at day 0 so observed[d] lines up with simulated day d.
	res, err := c.Calibrate(context.Background(), 0, 0.1, m, observed)
	require.NoError(t, err)
	// The estimate is a bound of the final bracket, which is narrower than 2ε.
	assert.Equal(t, 0.359375, res.Beta)
	assert.InDelta(t, target, res.Beta, 2*0.01)
	assert.True(t, res.Converged)
}

func TestCalibrate_WindowTooShort(t *testing.T) {
	m := newMetro(t, builder.Compartments{})
	c := New()

	res, err := c.Calibrate(context.Background(), 5, 0.3, m, make([]float64, 11))
	require.ErrorIs(t, err, ErrWindowTooShort)
	assert.Equal(t, 0.3, res.Beta)

	_, err = c.Calibrate(context.Background(), 4, 0.3, m, make([]float64, 11))
	assert.NoError(t, err)
}

func TestCalibrate_NilMetro(t *testing.T) {
	_, err := New().Calibrate(context.Background(), 0, 0.3, nil, make([]float64, 7))
	assert.ErrorIs(t, err, ErrNilMetro)
}

func TestCalibrate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Calibrate(ctx, 0, 0.3, newMetro(t, builder.Compartments{}), make([]float64, 7))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalibrate_FallbackOnRolloutFailure(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeRecorder{}
	c := New(
		WithRecorder(rec),
		WithLogger(logging.New(logging.Config{Output: &buf})),
	)
	broken := errors.New("neighbor iteration failed")
	c.rollout = func(*metro.Metro, int, float64, int) ([]float64, error) { return nil, broken }

	res, err := c.Calibrate(context.Background(), 0, 0.42, newMetro(t, builder.Compartments{}), make([]float64, 7))
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, 0.42, res.Beta)
	assert.ErrorIs(t, res.Cause, broken)
	assert.Equal(t, 1, rec.fallbacks)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "neighbor iteration failed")
}

func TestCalibrate_LeavesAuthoritativeStateAlone(t *testing.T) {
	m := newMetro(t, builder.Compartments{Exposed: 10, Infectious: 10, Asymptomatic: 5})
	before := snapshotStatuses(m)
	tallyBefore, err := m.Tally(0)
	require.NoError(t, err)

	observed := []float64{0, 1, 2, 3, 4, 5, 6}
	_, err = New().Calibrate(context.Background(), 0, 0.3, m, observed)
	require.NoError(t, err)

	tallyAfter, err := m.Tally(0)
	require.NoError(t, err)
	assert.Equal(t, tallyBefore, tallyAfter)
	assert.Equal(t, before, snapshotStatuses(m))
}

func TestRollout_ReturnsPooledHospitalized(t *testing.T) {
	m := newMetro(t, builder.Compartments{Hospitalized: 4})

	h, err := Rollout(m, 0, 0, 3)
	require.NoError(t, err)
	require.Len(t, h, 3)
	// β=0 means nobody new is infected; seeded H can only recover.
	for d := 1; d < len(h); d++ {
		assert.LessOrEqual(t, h[d], h[d-1])
	}
	assert.LessOrEqual(t, h[0], 4.0)
}

func TestSquaredError_SkipsDayZero(t *testing.T) {
	assert.Equal(t, 0.0, SquaredError([]float64{100}, []float64{0}))
	assert.Equal(t, 5.0, SquaredError([]float64{9, 1, 2}, []float64{0, 0, 0}))
	assert.Equal(t, 1.0, SquaredError([]float64{0, 1, 2}, []float64{5, 0}))
}

func TestWithOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { WithOptions(Options{Epsilon: 0, MaxIterations: 1, Window: 7}) })
	assert.Panics(t, func() { WithOptions(Options{Epsilon: 0.1, MaxIterations: 0, Window: 7}) })
	assert.Panics(t, func() { WithOptions(Options{Epsilon: 0.1, MaxIterations: 1, Window: 1}) })
	assert.NotPanics(t, func() { New(WithOptions(DefaultOptions())) })
}

func snapshotStatuses(m *metro.Metro) [][]core.Status {
	var out [][]core.Status
	for _, c := range m.Cities() {
		row := make([]core.Status, c.Graph.NodeCount())
		for i, n := range c.Graph.InternalNodes() {
			row[i] = n.Status
		}
		out = append(out, row)
	}
	return out
}
