// File: calibrator.go
// Role: trial rollouts on cloned metros and the per-day calibration entry point.
// Determinism:
//   - Rollouts draw from the metro's shared process stream, so calibrating
//     advances that stream exactly as the authoritative loop expects.
// Concurrency:
//   - A Calibrator is stateless between calls; the metro it is given must not
//     be mutated concurrently.

package calibrate

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/epidemic"
	"github.com/oudeng/Interconnected-SEIRAH/logging"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
)

const tracerName = "github.com/oudeng/Interconnected-SEIRAH/calibrate"

// Recorder receives one observation per calibration.
type Recorder interface {
	ObserveCalibration(iterations int, fallback bool)
}

// Result describes one calibration.
type Result struct {
	Day      int
	Previous float64
	Beta     float64

	Iterations int
	Converged  bool

	// Fallback is set when a rollout failed and Beta is Previous.
	Fallback bool
	// Cause is the rollout failure behind a fallback.
	Cause error
}

// rolloutFunc simulates days on a clone and returns pooled H per day.
type rolloutFunc func(m *metro.Metro, day int, beta float64, days int) ([]float64, error)

// Calibrator runs the β search for the authoritative loop.
type Calibrator struct {
	opts    Options
	log     logging.Logger
	rec     Recorder
	tracer  trace.Tracer
	rollout rolloutFunc
}

// Option configures a Calibrator.
type Option func(*Calibrator)

// WithOptions replaces the search options. It panics on a non-positive
// Epsilon, MaxIterations < 1 or Window < 2.
func WithOptions(o Options) Option {
	if !(o.Epsilon > 0) || o.MaxIterations < 1 || o.Window < 2 {
		panic(fmt.Sprintf("calibrate: WithOptions(%+v): invalid options", o))
	}
	return func(c *Calibrator) { c.opts = o }
}

// WithLogger sets the logger used for fallbacks and results.
func WithLogger(l logging.Logger) Option {
	return func(c *Calibrator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(c *Calibrator) { c.rec = r }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Calibrator) {
		if t != nil {
			c.tracer = t
		}
	}
}

// New returns a Calibrator with DefaultOptions, a no-op logger and the
// global tracer.
func New(opts ...Option) *Calibrator {
	c := &Calibrator{
		opts:    DefaultOptions(),
		log:     logging.Noop(),
		tracer:  otel.Tracer(tracerName),
		rollout: Rollout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Options returns the search options in use.
func (c *Calibrator) Options() Options { return c.opts }

// Calibrate searches β for day using observed[day : day+Window].
//
// The authoritative metro m is never mutated; each evaluation works on a
// fresh m.Clone(). A rollout failure is recovered: the result carries
// Beta = prev and Fallback = true, and the error is nil.
//
// Errors:
//   - ErrWindowTooShort: fewer than Window observations from day on.
//   - ErrNilMetro.
//   - ctx.Err() when the context ends before the search.
func (c *Calibrator) Calibrate(ctx context.Context, day int, prev float64, m *metro.Metro, observed []float64) (Result, error) {
	res := Result{Day: day, Previous: prev, Beta: prev}
	if m == nil {
		return res, fmt.Errorf("Calibrate(day %d): %w", day, ErrNilMetro)
	}
	if day < 0 || day+c.opts.Window > len(observed) {
		return res, fmt.Errorf("Calibrate(day %d): %d observations, need %d: %w",
			day, len(observed), day+c.opts.Window, ErrWindowTooShort)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	window := observed[day : day+c.opts.Window]

	ctx, span := c.tracer.Start(ctx, "calibrate", trace.WithAttributes(
		attribute.Int("day", day),
		attribute.Float64("beta.previous", prev),
	))
	defer span.End()

	obj := func(beta float64) (float64, error) {
		simulated, err := c.rollout(m, day, beta, len(window))
		if err != nil {
			return 0, err
		}
		return SquaredError(window, simulated), nil
	}

	br, err := Bisect(prev, obj, c.opts)
	res.Iterations = br.Iterations
	if err != nil {
		res.Fallback = true
		res.Cause = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "rollout failed")
		c.log.Warn(ctx, "calibration aborted; keeping previous beta",
			logging.Int("day", day),
			logging.Float64("beta", prev),
			logging.Err(err),
		)
		if c.rec != nil {
			c.rec.ObserveCalibration(res.Iterations, true)
		}
		return res, nil
	}

	res.Beta = br.Beta
	res.Converged = br.Converged
	span.SetAttributes(
		attribute.Float64("beta", res.Beta),
		attribute.Int("iterations", res.Iterations),
		attribute.Bool("converged", res.Converged),
	)
	if !res.Converged {
		c.log.Warn(ctx, "calibration hit the iteration cap",
			logging.Int("day", day),
			logging.Int("iterations", res.Iterations),
		)
	}
	c.log.Debug(ctx, "calibrated",
		logging.Int("day", day),
		logging.Float64("beta", res.Beta),
		logging.Int("iterations", res.Iterations),
	)
	if c.rec != nil {
		c.rec.ObserveCalibration(res.Iterations, false)
	}

	return res, nil
}

// Rollout advances a clone of m for days days in trial mode at rate beta,
// starting at day, and returns the pooled Hospitalized count after each day.
// The commuter subsets already drawn on m are reused; no resampling happens.
func Rollout(m *metro.Metro, day int, beta float64, days int) ([]float64, error) {
	trial := m.Clone()
	out := make([]float64, days)
	for d := 0; d < days; d++ {
		if err := trial.Advance(day+d, beta, epidemic.Trial); err != nil {
			return nil, fmt.Errorf("Rollout(day %d, β=%g): %w", day+d, beta, err)
		}
		t, err := trial.Tally(day + d)
		if err != nil {
			return nil, fmt.Errorf("Rollout(day %d, β=%g): %w", day+d, beta, err)
		}
		out[d] = float64(t.Total.Counts[core.Hospitalized])
	}

	return out, nil
}

// SquaredError sums (observed[d] − simulated[d])² for d ≥ 1 over the common
// length of both series. Day 0 is never scored.
func SquaredError(observed, simulated []float64) float64 {
	n := len(observed)
	if len(simulated) < n {
		n = len(simulated)
	}
	sum := 0.0
	for d := 1; d < n; d++ {
		diff := observed[d] - simulated[d]
		sum += diff * diff
	}
	return sum
}
