package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/oudeng/Interconnected-SEIRAH/config"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/dataset"
	"github.com/oudeng/Interconnected-SEIRAH/forecast"
	"github.com/oudeng/Interconnected-SEIRAH/logging"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
	"github.com/oudeng/Interconnected-SEIRAH/simulation"
	"github.com/oudeng/Interconnected-SEIRAH/stats"
)

// errNoRun indicates predict found no aggregate rows to start from.
var errNoRun = errors.New("no simulated days; execute run first")

func predictCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	plots := fs.Bool("plots", true, "Render PNG plots next to the forecast files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := setup(ctx, common)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, log := logging.WithRunLogger(ctx, e.log)
	_, err = predict(ctx, e.scenario, log, e.collector, *plots)
	return err
}

// predict projects the aggregate state of the last run until extinction.
//
// β is the trailing mean of the last Forecast.Window daily values; the pooled
// E, I, A, H and R of the last day are split across fresh city graphs by each
// city's share of the observed hospitalizations on the last observed date.
func predict(ctx context.Context, s config.Scenario, log logging.Logger, rec recorder, plots bool) (forecast.Result, error) {
	rows, err := readAggregate(s)
	if err != nil {
		return forecast.Result{}, err
	}
	series, err := readSeries(s)
	if err != nil {
		return forecast.Result{}, err
	}

	betas := make([]float64, len(rows))
	for i, r := range rows {
		betas[i] = r.Beta
	}
	beta, err := forecast.TrailingMean(betas, s.Forecast.Window)
	if err != nil {
		return forecast.Result{}, err
	}

	lastObserved := series.Len() - 1
	shares, err := forecast.Shares(series.CityAt(lastObserved), series.TotalAt(lastObserved))
	if err != nil {
		return forecast.Result{}, err
	}
	last := rows[len(rows)-1]
	specs, err := forecast.Reseed(s.CitySpecs(), forecast.Compartments(tallyFromVector(last.Vector)), shares)
	if err != nil {
		return forecast.Result{}, err
	}
	m, err := metro.New(specs, s.CommuterSpec(), s.MetroOptions()...)
	if err != nil {
		return forecast.Result{}, err
	}

	opts := forecast.DefaultOptions()
	opts.MaxDays = s.Forecast.MaxDays
	opts.Ratio = s.Forecast.Ratio
	opts.Log = log
	res, err := forecast.UntilExtinction(ctx, m, beta, opts)
	if err != nil {
		return res, err
	}
	if rec != nil {
		rec.ObserveExtinction(last.Day + res.LastDay)
	}

	names := outputNames(s)
	set, err := dataset.CreateResultSet(s.Data.OutputDir, predictPrefix, names)
	if err != nil {
		return res, err
	}
	out := simulation.NewResultObserver(set, specs, series)
	for d, t := range res.Days {
		r := simulation.Record{Day: last.Day + d, Beta: beta, Ratio: opts.Ratio, Tallies: t}
		if err = out.Observe(ctx, r); err != nil {
			_ = set.Close()
			return res, err
		}
	}
	if err = set.Close(); err != nil {
		return res, err
	}
	log.Info(ctx, "forecast written",
		logging.String("dir", s.Data.OutputDir),
		logging.Float64("beta", beta),
		logging.Int("extinction_day", last.Day+res.LastDay),
		logging.Bool("ended", res.Ended),
	)

	if plots {
		for i, name := range names {
			if err = plotRows(s.Data.OutputDir, predictPrefix, name, out.Rows(i), false); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// readAggregate loads the aggregate rows written by run.
func readAggregate(s config.Scenario) ([]dataset.Row, error) {
	path := dataset.ResultPath(s.Data.OutputDir, runPrefix, s.Data.AggregateName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errNoRun, err)
	}
	defer f.Close()

	rows, err := dataset.ReadResults(f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNoRun
	}
	return rows, nil
}

// tallyFromVector recovers the compartment counts of a result row.
func tallyFromVector(v [stats.VectorLen]float64) stats.Tally {
	var t stats.Tally
	t.Counts[core.Susceptible] = int(v[stats.IdxS])
	t.Counts[core.Exposed] = int(v[stats.IdxE])
	t.Counts[core.Infectious] = int(v[stats.IdxI])
	t.Counts[core.Recovered] = int(v[stats.IdxR])
	t.Counts[core.Asymptomatic] = int(v[stats.IdxA])
	t.Counts[core.Hospitalized] = int(v[stats.IdxH])
	return t
}
