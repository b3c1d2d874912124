package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/config"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
)

func TestDefault_IsValid(t *testing.T) {
	s := config.Default()
	require.NoError(t, s.Validate())

	assert.Len(t, s.Cities, 4)
	assert.Equal(t, 56, s.CalibrateUntil())
	assert.Equal(t, []string{"Tokyo", "Kanagawa", "Chiba", "Saitama"}, s.CityColumns())

	specs := s.CitySpecs()
	assert.Equal(t, metro.CitySpec{
		Name: "Tokyo", N: 135200, K: 4, P: 0.005, Commuters: 48640,
		Initial: builder.Compartments{Exposed: 3},
	}, specs[0])
	assert.Equal(t, metro.CommuterSpec{K: 8, P: 0.05}, s.CommuterSpec())
	assert.Len(t, s.MetroOptions(), 4)
}

const small = `
name: small
cities:
  - name: center
    n: 200
    k: 4
    p: 0.1
    commuters: 40
    initial: {exposed: 2, hospitalized: 1}
  - name: suburb
    n: 100
    k: 4
    p: 0.1
    commuters: 10
    column: SuburbH
run:
  days: 20
  initial_beta: 0.2
calibration:
  epsilon: 0.02
  max_iterations: 10
  window: 7
`

func TestParse_OverridesDefaults(t *testing.T) {
	s, err := config.Parse([]byte(small))
	require.NoError(t, err)

	assert.Equal(t, "small", s.Name)
	require.Len(t, s.Cities, 2)
	assert.Equal(t, 2, s.Cities[0].Initial.Exposed)
	assert.Equal(t, []string{"center", "SuburbH"}, s.CityColumns())
	assert.Equal(t, 0.2, s.Run.InitialBeta)
	assert.Equal(t, 14, s.CalibrateUntil())
	assert.Equal(t, 0.02, s.Calibration.Epsilon)
	// Untouched sections keep their defaults.
	assert.Equal(t, 8, s.CBD.K)
	assert.Equal(t, 0.2, s.Rates.Sigma)
	assert.Equal(t, "H_Shuto", s.Data.TotalColumn)
}

func TestParse_Empty(t *testing.T) {
	s, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := config.Parse([]byte("name: x\nbogus: 1\n"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Scenario)
		is     error
	}{
		{"no cities", func(s *config.Scenario) { s.Cities = nil }, config.ErrInvalid},
		{"odd k", func(s *config.Scenario) { s.Cities[0].K = 3 }, config.ErrInvalid},
		{"k too large", func(s *config.Scenario) { s.Cities[1].N = 4 }, config.ErrInvalid},
		{"commuters above n", func(s *config.Scenario) { s.Cities[2].Commuters = s.Cities[2].N + 1 }, config.ErrInvalid},
		{"seeded above n", func(s *config.Scenario) { s.Cities[3].Initial.Recovered = s.Cities[3].N }, builder.ErrSampleExceedsPopulation},
		{"duplicate names", func(s *config.Scenario) { s.Cities[1].Name = "Tokyo" }, config.ErrInvalid},
		{"negative exposed", func(s *config.Scenario) { s.Cities[0].Initial.Exposed = -1 }, config.ErrInvalid},
		{"beta above one", func(s *config.Scenario) { s.Run.InitialBeta = 1.5 }, config.ErrInvalid},
		{"too many days", func(s *config.Scenario) { s.Run.Days = config.MaxDays + 1 }, config.ErrInvalid},
		{"rate out of range", func(s *config.Scenario) { s.Rates.GammaHR = 2 }, config.ErrInvalid},
		{"tau out of range", func(s *config.Scenario) { s.Tau.Home = -0.1 }, config.ErrInvalid},
		{"cbd k odd", func(s *config.Scenario) { s.CBD.K = 7 }, config.ErrInvalid},
		{"bad log level", func(s *config.Scenario) { s.Log.Level = "loud" }, config.ErrInvalid},
		{"zero epsilon", func(s *config.Scenario) { s.Calibration.Epsilon = 0 }, config.ErrInvalid},
		{"calibration after run", func(s *config.Scenario) { s.Run.CalibrateFrom = 57 }, config.ErrInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := config.Default()
			tc.mutate(&s)
			assert.ErrorIs(t, s.Validate(), tc.is)
		})
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, config.Write(&buf, config.Default()))
	assert.Contains(t, buf.String(), "name: Tokyo")

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
