// Package observability bundles the Prometheus collectors and OpenTelemetry
// tracer setup for simulation runs.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oudeng/Interconnected-SEIRAH/core"
)

// SimulationCollector records daily progress and calibration outcomes.
// All methods are safe to call on a nil collector.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	Days          prometheus.Counter
	Beta          prometheus.Gauge
	Compartments  *prometheus.GaugeVec
	DayDurations  prometheus.Histogram
	Iterations    prometheus.Histogram
	Fallbacks     prometheus.Counter
	Calibrations  prometheus.Counter
	ExtinctionDay prometheus.Gauge
}

// NewSimulationCollector registers the simulation metrics against reg,
// defaulting to the global Prometheus registry when nil. Registering twice on
// the same registry reuses the existing collectors.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	days, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seirah_days_total",
		Help: "Authoritative simulation days completed.",
	}), "seirah_days_total")
	if err != nil {
		return nil, err
	}
	beta, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "seirah_beta",
		Help: "Transmission rate used for the most recent day.",
	}), "seirah_beta")
	if err != nil {
		return nil, err
	}
	compartments, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "seirah_compartment_nodes",
		Help: "Nodes per compartment at the end of the most recent day, labeled by city and status.",
	}, []string{"city", "status"}), "seirah_compartment_nodes")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "seirah_day_duration_seconds",
		Help:    "Wall time of one authoritative day including calibration.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}), "seirah_day_duration_seconds")
	if err != nil {
		return nil, err
	}
	iterations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "seirah_calibration_iterations",
		Help:    "Bisection iterations per calibration.",
		Buckets: prometheus.LinearBuckets(0, 2, 10),
	}), "seirah_calibration_iterations")
	if err != nil {
		return nil, err
	}
	fallbacks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seirah_calibration_fallbacks_total",
		Help: "Calibrations that kept the previous beta because a trial rollout failed.",
	}), "seirah_calibration_fallbacks_total")
	if err != nil {
		return nil, err
	}
	calibrations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seirah_calibrations_total",
		Help: "Calibration searches performed.",
	}), "seirah_calibrations_total")
	if err != nil {
		return nil, err
	}
	extinction, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "seirah_forecast_extinction_day",
		Help: "Day on which the latest forecast reached E+I+A = 0.",
	}), "seirah_forecast_extinction_day")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:      gatherer,
		Days:          days,
		Beta:          beta,
		Compartments:  compartments,
		DayDurations:  durations,
		Iterations:    iterations,
		Fallbacks:     fallbacks,
		Calibrations:  calibrations,
		ExtinctionDay: extinction,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimulationCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveDay records one finished day: its beta, its wall time and the
// compartment counts of each city.
func (c *SimulationCollector) ObserveDay(beta float64, elapsed time.Duration, cities map[string][core.StatusCount]int) {
	if c == nil {
		return
	}
	if c.Days != nil {
		c.Days.Inc()
	}
	if c.Beta != nil {
		c.Beta.Set(beta)
	}
	if c.DayDurations != nil {
		c.DayDurations.Observe(elapsed.Seconds())
	}
	if c.Compartments != nil {
		for city, counts := range cities {
			for s, n := range counts {
				c.Compartments.WithLabelValues(city, core.Status(s).String()).Set(float64(n))
			}
		}
	}
}

// ObserveCalibration records one calibration search.
func (c *SimulationCollector) ObserveCalibration(iterations int, fallback bool) {
	if c == nil {
		return
	}
	if c.Calibrations != nil {
		c.Calibrations.Inc()
	}
	if c.Iterations != nil {
		c.Iterations.Observe(float64(iterations))
	}
	if fallback && c.Fallbacks != nil {
		c.Fallbacks.Inc()
	}
}

// ObserveExtinction records the day a forecast ended.
func (c *SimulationCollector) ObserveExtinction(day int) {
	if c == nil || c.ExtinctionDay == nil {
		return
	}
	c.ExtinctionDay.Set(float64(day))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
