// Command seirah runs the interconnected SEIRAH simulator.
//
//	seirah init    [-o scenario.yaml]
//	seirah run     [-config scenario.yaml] [-metrics-addr :9090]
//	seirah predict [-config scenario.yaml] [-metrics-addr :9090]
//
// run simulates the configured days with daily β calibration against the
// observed hospitalizations and writes one result file per city plus the
// aggregate. predict reads the aggregate back and projects the outbreak
// until extinction.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/oudeng/Interconnected-SEIRAH/config"
	"github.com/oudeng/Interconnected-SEIRAH/logging"
	"github.com/oudeng/Interconnected-SEIRAH/observability"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(ctx, os.Args[2:])
	case "predict":
		err = predictCommand(ctx, os.Args[2:])
	case "init":
		err = initCommand(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "seirah: unknown command %q\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "seirah:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: seirah <init|run|predict> [flags]")
}

// commonFlags are shared by run and predict.
type commonFlags struct {
	config      string
	metricsAddr string
	logLevel    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "Path to a scenario YAML file (default: built-in four-city scenario)")
	fs.StringVar(&c.metricsAddr, "metrics-addr", "", "HTTP address for Prometheus /metrics; empty disables the endpoint")
	fs.StringVar(&c.logLevel, "log-level", "", "Override the scenario log level")
}

// env is everything a command needs besides its own flags.
type env struct {
	scenario  config.Scenario
	log       logging.Logger
	collector *observability.SimulationCollector
	close     func()
}

// logConfig layers the logging settings: scenario file, then the
// SEIRAH_LOG_* environment, then -log-level.
func logConfig(s config.Scenario, flags commonFlags) logging.Config {
	cfg := logging.WithEnv(logging.Config{Level: s.Log.Level, Format: s.Log.Format})
	if flags.logLevel != "" {
		cfg.Level = flags.logLevel
	}
	return cfg
}

// setup loads the scenario and starts logging, metrics and tracing.
func setup(ctx context.Context, flags commonFlags) (*env, error) {
	s := config.Default()
	if flags.config != "" {
		var err error
		if s, err = config.Load(flags.config); err != nil {
			return nil, err
		}
	} else if err := s.Validate(); err != nil {
		return nil, err
	}
	log := logging.New(logConfig(s, flags))

	collector, err := observability.NewSimulationCollector(nil)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	srv := serveMetrics(flags.metricsAddr, collector, log)

	tcfg := observability.DefaultTracingConfig()
	tcfg.Enabled = s.Tracing.Enabled
	tcfg.SampleRatio = s.Tracing.SampleRatio
	tcfg.Writer = os.Stderr
	shutdown, err := observability.InitTracing(ctx, tcfg, log)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	return &env{
		scenario:  s,
		log:       log,
		collector: collector,
		close: func() {
			observability.ShutdownWithTimeout(context.Background(), shutdown, log)
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}
		},
	}, nil
}

func serveMetrics(addr string, collector *observability.SimulationCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// initCommand writes the default scenario.
func initCommand(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	out := fs.String("o", "", "Write the scenario to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return config.Write(stdout, config.Default())
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err = config.Write(f, config.Default()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
