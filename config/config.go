// Package config loads and validates simulation scenarios.
//
// A scenario is a YAML document describing the cities, the commuter graph,
// the epidemic rates, the run length and where observed data lives. Struct
// tags carry the per-field rules; Validate adds the cross-field checks a
// generator would otherwise only hit halfway through building a graph.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/calibrate"
	"github.com/oudeng/Interconnected-SEIRAH/epidemic"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid scenario")

// validate is the shared validator instance.
var validate = validator.New()

// MaxDays is the hard cap on any run or forecast.
const MaxDays = 1000

// Initial is the seeded compartment sizes of a city.
type Initial struct {
	Exposed      int `yaml:"exposed" validate:"gte=0"`
	Infectious   int `yaml:"infectious" validate:"gte=0"`
	Asymptomatic int `yaml:"asymptomatic" validate:"gte=0"`
	Hospitalized int `yaml:"hospitalized" validate:"gte=0"`
	Recovered    int `yaml:"recovered" validate:"gte=0"`
}

// City describes one city graph.
type City struct {
	Name      string  `yaml:"name" validate:"required"`
	N         int     `yaml:"n" validate:"gte=3"`
	K         int     `yaml:"k" validate:"gte=2"`
	P         float64 `yaml:"p" validate:"gte=0,lte=1"`
	Commuters int     `yaml:"commuters" validate:"gte=0"`
	Initial   Initial `yaml:"initial"`
	// Column is the observed-data column with this city's hospitalizations.
	Column string `yaml:"column,omitempty"`
}

// CBD describes the commuter graph topology.
type CBD struct {
	K int     `yaml:"k" validate:"gte=2"`
	P float64 `yaml:"p" validate:"gte=0,lte=1"`
}

// Seeds fixes the random streams.
type Seeds struct {
	Process int64 `yaml:"process"`
	City    int64 `yaml:"city"`
	CBD     int64 `yaml:"cbd"`
}

// Run controls the authoritative loop.
type Run struct {
	Days        int     `yaml:"days" validate:"gte=1,lte=1000"`
	InitialBeta float64 `yaml:"initial_beta" validate:"gte=0,lte=1"`
	// CalibrateFrom is the first day searched for β.
	CalibrateFrom int `yaml:"calibrate_from" validate:"gte=0"`
	// CalibrateUntil is the first day no longer searched; 0 means the last
	// whole week of the run.
	CalibrateUntil int `yaml:"calibrate_until" validate:"gte=0"`
	// Ratio is the commuting ratio used when no series is loaded.
	Ratio float64 `yaml:"ratio" validate:"gte=0,lte=1"`
	// SnapshotDir receives a snapshot of every graph after the run when set.
	SnapshotDir string `yaml:"snapshot_dir,omitempty"`
}

// Forecast controls the ending projection.
type Forecast struct {
	Window  int     `yaml:"window" validate:"gte=1"`
	Ratio   float64 `yaml:"ratio" validate:"gte=0,lte=1"`
	MaxDays int     `yaml:"max_days" validate:"gte=1,lte=1000"`
}

// Data locates the observed series and the outputs.
type Data struct {
	Observed    string `yaml:"observed"`
	DateColumn  string `yaml:"date_column" validate:"required"`
	TotalColumn string `yaml:"total_column" validate:"required"`
	RatioColumn string `yaml:"ratio_column"`
	OutputDir   string `yaml:"output_dir" validate:"required"`
	// AggregateName labels the pooled output.
	AggregateName string `yaml:"aggregate_name" validate:"required"`
}

// Log mirrors logging.Config.
type Log struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Tracing mirrors observability.TracingConfig.
type Tracing struct {
	Enabled     bool    `yaml:"enabled"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

// Scenario is the root document.
type Scenario struct {
	Name        string            `yaml:"name" validate:"required"`
	Seeds       Seeds             `yaml:"seeds"`
	Cities      []City            `yaml:"cities" validate:"required,min=1,dive"`
	CBD         CBD               `yaml:"cbd"`
	Rates       epidemic.Rates    `yaml:"rates"`
	Tau         epidemic.Tau      `yaml:"tau"`
	Run         Run               `yaml:"run"`
	Calibration calibrate.Options `yaml:"calibration"`
	Forecast    Forecast          `yaml:"forecast"`
	Data        Data              `yaml:"data"`
	Log         Log               `yaml:"log"`
	Tracing     Tracing           `yaml:"tracing"`
}

// Default returns the four-city metropolitan scenario: one center and three
// outskirts, three Exposed per city, 60 days starting at β=0.1.
func Default() Scenario {
	city := func(name string, n, commuters int) City {
		return City{Name: name, N: n, K: 4, P: 0.005, Commuters: commuters,
			Initial: Initial{Exposed: 3}, Column: name}
	}
	return Scenario{
		Name:  "shuto",
		Seeds: Seeds{Process: metro.DefaultProcessSeed, City: metro.DefaultCitySeed, CBD: metro.DefaultCBDSeed},
		Cities: []City{
			city("Tokyo", 135200, 48640),
			city("Kanagawa", 92000, 8880),
			city("Chiba", 73400, 7800),
			city("Saitama", 62800, 5980),
		},
		CBD:         CBD{K: 8, P: 0.05},
		Rates:       epidemic.DefaultRates(),
		Tau:         epidemic.DefaultTau(),
		Run:         Run{Days: 60, InitialBeta: 0.1, CalibrateFrom: 1, Ratio: 1},
		Calibration: calibrate.DefaultOptions(),
		Forecast:    Forecast{Window: 7, Ratio: 0.75, MaxDays: MaxDays},
		Data: Data{
			Observed:      "new_cases_cr2020.csv",
			DateColumn:    "Date",
			TotalColumn:   "H_Shuto",
			RatioColumn:   "CR_Shuto",
			OutputDir:     "output",
			AggregateName: "Shuto",
		},
		Log:     Log{Level: "info", Format: "text"},
		Tracing: Tracing{SampleRatio: 1},
	}
}

// Load reads and validates the scenario at path. Fields absent from the file
// keep their Default values.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("Load(%s): %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("Load(%s): %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML scenario over Default and validates it. Unknown keys
// are rejected.
func Parse(data []byte) (Scenario, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("Parse: %w: %w", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Write encodes s as YAML.
func Write(w io.Writer, s Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	return enc.Close()
}

// Validate applies the struct tags and the cross-field rules:
// k even and below N, commuters and seeded nodes within N, unique city
// names, a CBD degree below its node count and a calibration range inside
// the run.
func (s Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("Validate: %w: %w", ErrInvalid, formatValidationError(err))
	}

	seen := make(map[string]bool, len(s.Cities))
	slots := 0
	for i, c := range s.Cities {
		switch {
		case seen[c.Name]:
			return invalidf("cities[%d]: duplicate name %q", i, c.Name)
		case c.K%2 != 0 || c.K >= c.N:
			return invalidf("cities[%d] %s: k=%d must be even and below n=%d", i, c.Name, c.K, c.N)
		case c.Commuters > c.N:
			return invalidf("cities[%d] %s: %d commuters exceed n=%d", i, c.Name, c.Commuters, c.N)
		case c.Initial.builder().Total() > c.N:
			return invalidf("cities[%d] %s: %d seeded nodes exceed n=%d: %w",
				i, c.Name, c.Initial.builder().Total(), c.N, builder.ErrSampleExceedsPopulation)
		}
		seen[c.Name] = true
		slots += c.Commuters
	}
	if s.CBD.K%2 != 0 || s.CBD.K >= slots {
		return invalidf("cbd: k=%d must be even and below %d commuters", s.CBD.K, slots)
	}
	if err := s.Rates.Validate(); err != nil {
		return fmt.Errorf("Validate: %w: %w", ErrInvalid, err)
	}
	if err := s.Tau.Validate(); err != nil {
		return fmt.Errorf("Validate: %w: %w", ErrInvalid, err)
	}
	if until := s.CalibrateUntil(); s.Run.CalibrateFrom > until {
		return invalidf("run: calibrate_from=%d after calibrate_until=%d", s.Run.CalibrateFrom, until)
	}

	return nil
}

// CalibrateUntil resolves Run.CalibrateUntil, defaulting to the last whole
// week of the run.
func (s Scenario) CalibrateUntil() int {
	if s.Run.CalibrateUntil > 0 {
		return s.Run.CalibrateUntil
	}
	return 7 * (s.Run.Days / 7)
}

// CitySpecs converts the cities for metro.New.
func (s Scenario) CitySpecs() []metro.CitySpec {
	out := make([]metro.CitySpec, len(s.Cities))
	for i, c := range s.Cities {
		out[i] = metro.CitySpec{
			Name:      c.Name,
			N:         c.N,
			K:         c.K,
			P:         c.P,
			Commuters: c.Commuters,
			Initial:   c.Initial.builder(),
		}
	}
	return out
}

// CommuterSpec converts the CBD section.
func (s Scenario) CommuterSpec() metro.CommuterSpec {
	return metro.CommuterSpec{K: s.CBD.K, P: s.CBD.P}
}

// MetroOptions returns the seeds, rates and time-zone weights as metro options.
func (s Scenario) MetroOptions() []metro.Option {
	return []metro.Option{
		metro.WithSeed(s.Seeds.Process),
		metro.WithTopologySeeds(s.Seeds.City, s.Seeds.CBD),
		metro.WithRates(s.Rates),
		metro.WithTau(s.Tau),
	}
}

// CityColumns lists each city's observed column, defaulting to its name.
func (s Scenario) CityColumns() []string {
	out := make([]string, len(s.Cities))
	for i, c := range s.Cities {
		out[i] = c.Column
		if out[i] == "" {
			out[i] = c.Name
		}
	}
	return out
}

func (i Initial) builder() builder.Compartments {
	return builder.Compartments{
		Exposed:      i.Exposed,
		Infectious:   i.Infectious,
		Asymptomatic: i.Asymptomatic,
		Hospitalized: i.Hospitalized,
		Recovered:    i.Recovered,
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("Validate: %w: %w", ErrInvalid, fmt.Errorf(format, args...))
}

// formatValidationError reports the first failing field in a readable form.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", e.Namespace())
	case "min", "gte":
		return fmt.Errorf("%s: must be at least %s", e.Namespace(), e.Param())
	case "max", "lte":
		return fmt.Errorf("%s: must not exceed %s", e.Namespace(), e.Param())
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", e.Namespace(), e.Param())
	case "lt":
		return fmt.Errorf("%s: must be less than %s", e.Namespace(), e.Param())
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s]", e.Namespace(), e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", e.Namespace(), e.Tag())
	}
}
