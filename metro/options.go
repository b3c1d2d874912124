package metro

import (
	"math/rand"

	"github.com/oudeng/Interconnected-SEIRAH/epidemic"
)

// Default topology seeds of the city graphs and of the CBD.
const (
	DefaultCitySeed    int64 = 2020
	DefaultCBDSeed     int64 = 2980
	DefaultProcessSeed int64 = 2020
)

// Option configures New. Option constructors panic on meaningless values.
type Option func(*settings)

type settings struct {
	rng      *rand.Rand
	citySeed int64
	cbdSeed  int64
	rates    epidemic.Rates
	tau      epidemic.Tau
	engine   []epidemic.Option
}

func newSettings(opts ...Option) settings {
	s := settings{
		citySeed: DefaultCitySeed,
		cbdSeed:  DefaultCBDSeed,
		rates:    epidemic.DefaultRates(),
		tau:      epidemic.DefaultTau(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(DefaultProcessSeed))
	}

	return s
}

// WithRand sets the process-wide stream used for seeding, commuter sampling
// and every engine pass. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("metro: WithRand(nil)")
	}
	return func(s *settings) { s.rng = r }
}

// WithSeed seeds a fresh process-wide stream.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithTopologySeeds sets the seeds of the city graphs and of the CBD graph.
// Every city graph gets its own stream seeded with city.
func WithTopologySeeds(city, cbd int64) Option {
	return func(s *settings) { s.citySeed, s.cbdSeed = city, cbd }
}

// WithRates overrides the rate vector. Panics on rates outside [0,1].
func WithRates(r epidemic.Rates) Option {
	if err := r.Validate(); err != nil {
		panic(err.Error())
	}
	return func(s *settings) { s.rates = r }
}

// WithTau overrides the phase weights. Panics on weights outside [0,1].
func WithTau(t epidemic.Tau) Option {
	if err := t.Validate(); err != nil {
		panic(err.Error())
	}
	return func(s *settings) { s.tau = t }
}

// WithEngineOptions forwards extra options to the transition engine.
func WithEngineOptions(opts ...epidemic.Option) Option {
	return func(s *settings) { s.engine = append(s.engine, opts...) }
}
