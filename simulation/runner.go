// File: runner.go
// Role: the authoritative daily loop: resample → calibrate → advance → record.
// Determinism:
//   - One process stream drives commuter sampling, calibration rollouts and
//     the recorded passes, in that order every day. A fixed seed and fixed
//     inputs reproduce the run.
// Concurrency:
//   - A Runner owns its metro; Run must not be called concurrently.

package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oudeng/Interconnected-SEIRAH/calibrate"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/epidemic"
	"github.com/oudeng/Interconnected-SEIRAH/logging"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
)

const tracerName = "github.com/oudeng/Interconnected-SEIRAH/simulation"

// MaxDays is the hard cap on a run.
const MaxDays = 1000

var (
	// ErrInvalidConfig indicates a Config that cannot be run.
	ErrInvalidConfig = errors.New("simulation: invalid config")

	// ErrNilMetro indicates New was called without a metro.
	ErrNilMetro = errors.New("simulation: nil metro")
)

// Config controls one run.
type Config struct {
	// Days is the number of authoritative days, at most MaxDays.
	Days int
	// InitialBeta is used on day 0 and until the first calibration.
	InitialBeta float64
	// CalibrateFrom and CalibrateUntil bound the calibrated days,
	// [from, until). Until 0 means the last whole week of the run.
	CalibrateFrom  int
	CalibrateUntil int
	// Ratio is the commuting ratio for days without a ratio series entry.
	Ratio float64
}

func (c Config) validate() error {
	switch {
	case c.Days < 1 || c.Days > MaxDays:
		return fmt.Errorf("days=%d outside [1,%d]: %w", c.Days, MaxDays, ErrInvalidConfig)
	case !(c.InitialBeta >= 0 && c.InitialBeta <= 1):
		return fmt.Errorf("initial beta %g outside [0,1]: %w", c.InitialBeta, ErrInvalidConfig)
	case !(c.Ratio >= 0 && c.Ratio <= 1):
		return fmt.Errorf("ratio %g outside [0,1]: %w", c.Ratio, ErrInvalidConfig)
	case c.CalibrateFrom < 0 || c.CalibrateUntil < 0:
		return fmt.Errorf("negative calibration bound: %w", ErrInvalidConfig)
	}
	return nil
}

func (c Config) calibrateUntil() int {
	if c.CalibrateUntil > 0 {
		return c.CalibrateUntil
	}
	return 7 * (c.Days / 7)
}

// Record is the outcome of one authoritative day.
type Record struct {
	Day     int
	Beta    float64
	Ratio   float64
	Tallies metro.Tallies
	// Commuters holds today's commuter count per city.
	Commuters []int
	// Calibration is nil when β was held.
	Calibration *calibrate.Result
	Elapsed     time.Duration
}

// Observer receives every Record in day order. An error stops the run.
type Observer interface {
	Observe(ctx context.Context, r Record) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, r Record) error

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, r Record) error { return f(ctx, r) }

// DayRecorder receives per-day metrics.
type DayRecorder interface {
	ObserveDay(beta float64, elapsed time.Duration, cities map[string][core.StatusCount]int)
}

// Summary describes a finished run.
type Summary struct {
	RunID string
	Days  int
	// Betas holds the β used on each day.
	Betas        []float64
	Calibrations int
	Fallbacks    int
	// HeldFrom is the first day whose calibration window was too short, or -1.
	HeldFrom int
	Last     metro.Tallies
}

// Runner drives a metro through a run.
type Runner struct {
	m        *metro.Metro
	cfg      Config
	observed []float64
	ratios   []float64
	cal      *calibrate.Calibrator
	log      logging.Logger
	rec      DayRecorder
	obs      []Observer
	tracer   trace.Tracer
	runID    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserved sets the pooled observed hospitalization series, indexed by day.
func WithObserved(total []float64) Option {
	return func(r *Runner) { r.observed = total }
}

// WithRatios sets the daily commuting-ratio series.
func WithRatios(ratios []float64) Option {
	return func(r *Runner) { r.ratios = ratios }
}

// WithCalibrator replaces the default calibrator.
func WithCalibrator(c *calibrate.Calibrator) Option {
	return func(r *Runner) {
		if c != nil {
			r.cal = c
		}
	}
}

// WithLogger sets the run logger; a run_id field is added to it.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics sets the per-day metrics sink.
func WithMetrics(rec DayRecorder) Option {
	return func(r *Runner) { r.rec = rec }
}

// WithObserver appends observers.
func WithObserver(obs ...Observer) Option {
	return func(r *Runner) { r.obs = append(r.obs, obs...) }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// New prepares a run over m.
func New(m *metro.Metro, cfg Config, opts ...Option) (*Runner, error) {
	if m == nil {
		return nil, fmt.Errorf("New: %w", ErrNilMetro)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	r := &Runner{
		m:      m,
		cfg:    cfg,
		log:    logging.Noop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, o := range opts {
		o(r)
	}
	if r.runID == "" {
		r.runID = logging.NewRunID()
	}
	r.log = r.log.With(logging.String("run_id", r.runID))
	if r.cal == nil {
		r.cal = calibrate.New(calibrate.WithLogger(r.log))
	}
	return r, nil
}

// RunID returns the run identifier.
func (r *Runner) RunID() string { return r.runID }

// Metro returns the authoritative system.
func (r *Runner) Metro() *metro.Metro { return r.m }

// ratioAt returns the commuting ratio for day.
func (r *Runner) ratioAt(day int) float64 {
	if day < len(r.ratios) {
		return r.ratios[day]
	}
	return r.cfg.Ratio
}

// Run executes every day of the configuration.
//
// Per day: resample commuters at the day's ratio; on calibrated days search β
// on clones of the resampled system; advance in recording mode; tally; notify
// observers. Once the observation window runs out, β is held for the rest of
// the run. Generator, engine, statistics and observer errors end the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	ctx = logging.ContextWithRunID(ctx, r.runID)
	ctx, span := r.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("run_id", r.runID),
		attribute.Int("days", r.cfg.Days),
	))
	defer span.End()

	sum := Summary{RunID: r.runID, HeldFrom: -1, Betas: make([]float64, 0, r.cfg.Days)}
	beta := r.cfg.InitialBeta
	until := r.cfg.calibrateUntil()
	r.log.Info(ctx, "run started",
		logging.Int("days", r.cfg.Days),
		logging.Float64("beta", beta),
		logging.Int("population", r.m.Population()),
	)

	for day := 0; day < r.cfg.Days; day++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		due := day > 0 && day >= r.cfg.CalibrateFrom && day < until && sum.HeldFrom < 0
		rec, err := r.day(ctx, day, beta, due)
		if err != nil {
			span.RecordError(err)
			return sum, err
		}
		if c := rec.Calibration; c != nil {
			sum.Calibrations++
			if c.Fallback {
				sum.Fallbacks++
			}
		} else if due {
			sum.HeldFrom = day
			r.log.Warn(ctx, "observation window exhausted; holding beta",
				logging.Int("day", day), logging.Float64("beta", rec.Beta))
		}
		beta = rec.Beta
		sum.Betas = append(sum.Betas, beta)
		sum.Days = day + 1
		sum.Last = rec.Tallies

		for _, o := range r.obs {
			if err = o.Observe(ctx, rec); err != nil {
				return sum, fmt.Errorf("Run: observer on day %d: %w", day, err)
			}
		}
	}

	r.log.Info(ctx, "run finished",
		logging.Int("days", sum.Days),
		logging.Int("calibrations", sum.Calibrations),
		logging.Int("fallbacks", sum.Fallbacks),
		logging.Float64("beta", beta),
	)
	return sum, nil
}

// day runs one authoritative day. When search is set and the window is
// available, β is searched before the recording pass.
func (r *Runner) day(ctx context.Context, day int, beta float64, search bool) (Record, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "day", trace.WithAttributes(attribute.Int("day", day)))
	defer span.End()

	rec := Record{Day: day, Beta: beta, Ratio: r.ratioAt(day)}
	if err := r.m.Resample(rec.Ratio); err != nil {
		return rec, fmt.Errorf("Run: day %d: %w", day, err)
	}
	rec.Commuters = make([]int, len(r.m.Cities()))
	for i, c := range r.m.Cities() {
		rec.Commuters[i] = len(c.CommuterIDs)
	}
	if search {
		res, err := r.cal.Calibrate(ctx, day, beta, r.m, r.observed)
		switch {
		case err == nil:
			rec.Calibration = &res
			rec.Beta = res.Beta
		case !errors.Is(err, calibrate.ErrWindowTooShort):
			return rec, fmt.Errorf("Run: day %d: %w", day, err)
		}
	}
	if err := r.m.Advance(day, rec.Beta, epidemic.Recording); err != nil {
		return rec, fmt.Errorf("Run: day %d: %w", day, err)
	}
	t, err := r.m.Tally(day)
	if err != nil {
		return rec, fmt.Errorf("Run: day %d: %w", day, err)
	}
	rec.Tallies = t
	rec.Elapsed = time.Since(start)

	span.SetAttributes(
		attribute.Float64("beta", rec.Beta),
		attribute.Float64("ratio", rec.Ratio),
		attribute.Int("hospitalized", t.Total.Get(core.Hospitalized)),
	)
	if r.rec != nil {
		cities := make(map[string][core.StatusCount]int, len(t.Cities))
		for i, c := range r.m.Cities() {
			cities[c.Spec.Name] = t.Cities[i].Counts
		}
		cities[metro.CBDName] = t.Commuters.Counts
		r.rec.ObserveDay(rec.Beta, rec.Elapsed, cities)
	}
	r.log.Debug(ctx, "day done",
		logging.Int("day", day),
		logging.Float64("beta", rec.Beta),
		logging.Int("active", t.Total.Active()),
		logging.Int("hospitalized", t.Total.Get(core.Hospitalized)),
	)

	return rec, nil
}
