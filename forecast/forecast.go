// Package forecast projects an outbreak forward from its last calibrated
// state until no Exposed, Infectious or Asymptomatic node remains.
//
// A forecast restarts from fresh city graphs: the aggregate compartments of
// the last simulated day are split across cities by each city's share of
// observed hospitalizations (Shares, Reseed), and the transmission rate is
// the trailing mean of the last week of calibrated β (TrailingMean). The
// commuting ratio is held fixed.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oudeng/Interconnected-SEIRAH/builder"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/logging"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
	"github.com/oudeng/Interconnected-SEIRAH/stats"
)

var (
	// ErrNoHistory indicates TrailingMean got no values.
	ErrNoHistory = errors.New("forecast: no beta history")

	// ErrNoHospitalizations indicates shares cannot be derived from a zero total.
	ErrNoHospitalizations = errors.New("forecast: no observed hospitalizations")

	// ErrShareCount indicates the number of shares differs from the number of cities.
	ErrShareCount = errors.New("forecast: share count does not match cities")
)

// Projection defaults.
const (
	DefaultWindow  = 7
	DefaultRatio   = 0.75
	DefaultMaxDays = 1000
)

// Options tunes UntilExtinction.
type Options struct {
	// MaxDays caps the projection.
	MaxDays int
	// Ratio is the fixed commuting ratio.
	Ratio float64
	// OnDay is called after each projected day.
	OnDay func(day int, t metro.Tallies)
	Log   logging.Logger
}

// DefaultOptions returns a 1000-day cap and ratio 0.75.
func DefaultOptions() Options {
	return Options{MaxDays: DefaultMaxDays, Ratio: DefaultRatio}
}

// Result is the outcome of a projection.
type Result struct {
	// Days holds day 0 (the starting state) followed by every projected day.
	Days []metro.Tallies
	// LastDay is the last projected day.
	LastDay int
	// Ended reports whether E+I+A reached zero before MaxDays.
	Ended bool
	Beta  float64
}

// TrailingMean returns the mean of the last n values of betas, or of all of
// them when fewer are available.
func TrailingMean(betas []float64, n int) (float64, error) {
	if len(betas) == 0 || n <= 0 {
		return 0, fmt.Errorf("TrailingMean(n=%d): %w", n, ErrNoHistory)
	}
	if n > len(betas) {
		n = len(betas)
	}
	sum := 0.0
	for _, b := range betas[len(betas)-n:] {
		sum += b
	}
	return sum / float64(n), nil
}

// Shares returns cityH[i] / total for each city.
func Shares(cityH []float64, total float64) ([]float64, error) {
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("Shares(total=%g): %w", total, ErrNoHospitalizations)
	}
	out := make([]float64, len(cityH))
	for i, h := range cityH {
		out[i] = h / total
	}
	return out, nil
}

// Compartments converts a tally into the seeding counts it implies.
func Compartments(t stats.Tally) builder.Compartments {
	return builder.Compartments{
		Exposed:      t.Get(core.Exposed),
		Infectious:   t.Get(core.Infectious),
		Asymptomatic: t.Get(core.Asymptomatic),
		Hospitalized: t.Get(core.Hospitalized),
		Recovered:    t.Get(core.Recovered),
	}
}

// Reseed returns copies of specs whose Initial compartments are total scaled
// by each city's share, truncated toward zero.
func Reseed(specs []metro.CitySpec, total builder.Compartments, shares []float64) ([]metro.CitySpec, error) {
	if len(specs) != len(shares) {
		return nil, fmt.Errorf("Reseed: %d cities, %d shares: %w", len(specs), len(shares), ErrShareCount)
	}
	scale := func(n int, share float64) int { return int(float64(n) * share) }

	out := make([]metro.CitySpec, len(specs))
	for i, s := range specs {
		share := shares[i]
		s.Initial = builder.Compartments{
			Exposed:      scale(total.Exposed, share),
			Infectious:   scale(total.Infectious, share),
			Asymptomatic: scale(total.Asymptomatic, share),
			Hospitalized: scale(total.Hospitalized, share),
			Recovered:    scale(total.Recovered, share),
		}
		out[i] = s
	}
	return out, nil
}

// UntilExtinction advances m day by day at rate beta, starting after day 0,
// while the pooled E+I+A is positive and the day is below MaxDays. Every day
// resamples commuters at opts.Ratio and records stamps.
//
// Errors from the metro abort the projection and are returned along with the
// days completed so far. Context cancellation is checked between days.
func UntilExtinction(ctx context.Context, m *metro.Metro, beta float64, opts Options) (Result, error) {
	if opts.MaxDays <= 0 {
		opts.MaxDays = DefaultMaxDays
	}
	log := opts.Log
	if log == nil {
		log = logging.Noop()
	}

	ctx, span := otel.Tracer("github.com/oudeng/Interconnected-SEIRAH/forecast").Start(ctx, "forecast",
		trace.WithAttributes(attribute.Float64("beta", beta), attribute.Float64("ratio", opts.Ratio)))
	defer span.End()

	start, err := m.Tally(0)
	if err != nil {
		return Result{}, fmt.Errorf("UntilExtinction: %w", err)
	}
	res := Result{Days: []metro.Tallies{start}, Beta: beta}
	active := start.Total.Active()

	day := 0
	for active > 0 && day < opts.MaxDays {
		if err = ctx.Err(); err != nil {
			res.LastDay = day
			return res, err
		}
		day++
		t, err := m.Day(day, opts.Ratio, beta)
		if err != nil {
			res.LastDay = day - 1
			span.RecordError(err)
			return res, fmt.Errorf("UntilExtinction: %w", err)
		}
		res.Days = append(res.Days, t)
		active = t.Total.Active()
		if opts.OnDay != nil {
			opts.OnDay(day, t)
		}
	}

	res.LastDay = day
	res.Ended = active == 0
	span.SetAttributes(attribute.Int("days", day), attribute.Bool("ended", res.Ended))
	log.Info(ctx, "forecast finished",
		logging.Int("last_day", day),
		logging.Bool("ended", res.Ended),
		logging.Float64("beta", beta),
	)

	return res, nil
}
