package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oudeng/Interconnected-SEIRAH/calibrate"
	"github.com/oudeng/Interconnected-SEIRAH/config"
	"github.com/oudeng/Interconnected-SEIRAH/core"
	"github.com/oudeng/Interconnected-SEIRAH/dataset"
	"github.com/oudeng/Interconnected-SEIRAH/logging"
	"github.com/oudeng/Interconnected-SEIRAH/metro"
	"github.com/oudeng/Interconnected-SEIRAH/report"
	"github.com/oudeng/Interconnected-SEIRAH/simulation"
	"github.com/oudeng/Interconnected-SEIRAH/snapshot"
)

const (
	runPrefix     = "output"
	predictPrefix = "predict_output"
)

func runCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	plots := fs.Bool("plots", true, "Render PNG plots next to the result files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := setup(ctx, common)
	if err != nil {
		return err
	}
	defer e.close()

	_, err = simulate(ctx, e.scenario, e.log, e.collector, *plots)
	return err
}

// simulate executes the authoritative run of s and writes its outputs.
func simulate(ctx context.Context, s config.Scenario, log logging.Logger, rec recorder, plots bool) (simulation.Summary, error) {
	series, err := readSeries(s)
	if err != nil {
		return simulation.Summary{}, err
	}

	specs := s.CitySpecs()
	m, err := metro.New(specs, s.CommuterSpec(), s.MetroOptions()...)
	if err != nil {
		return simulation.Summary{}, err
	}

	names := outputNames(s)
	set, err := dataset.CreateResultSet(s.Data.OutputDir, runPrefix, names)
	if err != nil {
		return simulation.Summary{}, err
	}
	results := simulation.NewResultObserver(set, specs, series)

	// The runner tags its own logger with the run ID.
	ctx, runID := logging.EnsureRunID(ctx)
	calOpts := []calibrate.Option{
		calibrate.WithOptions(s.Calibration),
		calibrate.WithLogger(log.With(logging.String("run_id", runID))),
	}
	runOpts := []simulation.Option{
		simulation.WithRunID(runID),
		simulation.WithObserved(series.Total),
		simulation.WithRatios(series.Ratio),
		simulation.WithLogger(log),
		simulation.WithObserver(results),
	}
	if rec != nil {
		calOpts = append(calOpts, calibrate.WithRecorder(rec))
		runOpts = append(runOpts, simulation.WithMetrics(rec))
	}
	runOpts = append(runOpts, simulation.WithCalibrator(calibrate.New(calOpts...)))

	runner, err := simulation.New(m, simulation.Config{
		Days:           s.Run.Days,
		InitialBeta:    s.Run.InitialBeta,
		CalibrateFrom:  s.Run.CalibrateFrom,
		CalibrateUntil: s.CalibrateUntil(),
		Ratio:          s.Run.Ratio,
	}, runOpts...)
	if err != nil {
		_ = set.Close()
		return simulation.Summary{}, err
	}

	sum, err := runner.Run(ctx)
	if cerr := set.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return sum, err
	}
	log.Info(ctx, "results written",
		logging.String("dir", s.Data.OutputDir),
		logging.Int("files", len(names)),
	)

	if plots {
		for i, name := range names {
			if err = plotRows(s.Data.OutputDir, runPrefix, name, results.Rows(i), i == len(names)-1); err != nil {
				return sum, err
			}
		}
	}
	if s.Run.SnapshotDir != "" {
		if err = writeSnapshots(s.Run.SnapshotDir, m, sum.Days-1); err != nil {
			return sum, err
		}
		log.Info(ctx, "snapshots written", logging.String("dir", s.Run.SnapshotDir))
	}

	return sum, nil
}

// recorder is the metrics surface the commands feed.
type recorder interface {
	calibrate.Recorder
	simulation.DayRecorder
	ObserveExtinction(day int)
}

// readSeries loads the observed data, or returns an empty series when the
// scenario names none.
func readSeries(s config.Scenario) (dataset.Series, error) {
	if s.Data.Observed == "" {
		return dataset.Series{}, nil
	}
	return dataset.ReadObserved(s.Data.Observed, dataset.Columns{
		Date:   s.Data.DateColumn,
		Total:  s.Data.TotalColumn,
		Ratio:  s.Data.RatioColumn,
		Cities: s.CityColumns(),
	})
}

// outputNames lists the result files: cities in order, then the aggregate.
func outputNames(s config.Scenario) []string {
	names := make([]string, 0, len(s.Cities)+1)
	for _, c := range s.Cities {
		names = append(names, c.Name)
	}
	return append(names, s.Data.AggregateName)
}

func plotRows(dir, prefix, name string, rows []dataset.Row, withBeta bool) error {
	if len(rows) == 0 {
		return nil
	}
	err := writeFile(filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, name)), func(f *os.File) error {
		return report.Compartments(f, name, rows)
	})
	if err != nil || !withBeta {
		return err
	}
	return writeFile(filepath.Join(dir, fmt.Sprintf("%s_%s_beta.png", prefix, name)), func(f *os.File) error {
		return report.Beta(f, name+" beta", rows)
	})
}

// writeSnapshots stores every graph of m as a snapshot and as GraphML.
func writeSnapshots(dir string, m *metro.Metro, day int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	graphs := make([]*core.Graph, 0, len(m.Cities())+1)
	for _, c := range m.Cities() {
		graphs = append(graphs, c.Graph)
	}
	graphs = append(graphs, m.CBD())

	for _, g := range graphs {
		base := filepath.Join(dir, g.Name())
		if err := writeFile(base+".snap", func(f *os.File) error {
			return snapshot.Encode(f, snapshot.Take(g, day))
		}); err != nil {
			return err
		}
		if err := writeFile(base+".graphml", func(f *os.File) error {
			return snapshot.WriteGraphML(f, g)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, fill func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = fill(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
