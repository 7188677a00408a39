// Command empirical sweeps a receiver along a scripted path and records the
// path loss predicted by every empirical propagation model.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/empirical/config"
	"github.com/wiless/empirical/observability"
	"github.com/wiless/empirical/report"
	"github.com/wiless/empirical/scenario"
	"github.com/wiless/empirical/sweep"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"environment":   "environment",
	"trajectory":    "trajectory",
	"steps":         "steps",
	"step-size":     "step_size",
	"step-duration": "step_duration",
	"output":        "output",
	"log-level":     "log_level",
	"metrics-out":   "metrics_out",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("empirical", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional YAML, JSON or TOML configuration file")
	fs.String("environment", "urban", "urban, suburban or rural")
	fs.String("trajectory", "lpath", "lpath or line")
	fs.Int("steps", 12, "number of samples per model")
	fs.Float64("step-size", 10, "receiver displacement per step of the line trajectory, in meters")
	fs.Duration("step-duration", 5*time.Second, "simulated time between samples")
	fs.String("output", "empirical", "base name of the .m and .json outputs")
	fs.String("log-level", "info", "logrus level")
	fs.String("metrics-out", "", "write Prometheus metrics to this file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	overrides := make(map[string]interface{})
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})

	cfg, err := config.Load(*configPath, overrides)
	if err != nil {
		return fail(stderr, err)
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	log.SetOutput(stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	s, err := scenario.Build(cfg)
	if err != nil {
		return fail(stderr, err)
	}
	log.WithFields(log.Fields{
		"environment": s.Environment,
		"trajectory":  cfg.Trajectory,
		"models":      len(s.Models),
		"steps":       cfg.Steps,
	}).Info("scenario ready")

	var recorder sweep.MetricsRecorder
	var metrics *observability.SweepCollector
	if cfg.MetricsOut != "" {
		metrics, err = observability.NewSweepCollector(prometheus.NewRegistry())
		if err != nil {
			return fail(stderr, err)
		}
		recorder = metrics
	}

	reporters := []sweep.Reporter{
		report.LogReporter{},
		report.MatlabReporter{FileName: cfg.Output + ".m"},
		report.JSONReporter{FileName: cfg.Output + ".json"},
		report.TableReporter{Writer: stdout, TxPowerDbm: cfg.TxPowerDbm},
	}
	series, err := s.Run(ctx, recorder, reporters...)
	if err != nil {
		return fail(stderr, err)
	}

	links, err := s.Links()
	if err != nil {
		return fail(stderr, err)
	}
	for _, link := range links {
		log.WithFields(log.Fields{
			"model": link.Model,
			"rsrp":  link.BestRSRP,
			"rssi":  link.RSSI,
			"sinr":  link.BestSINR,
		}).Info("final link")
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.MetricsOut); err != nil {
			return fail(stderr, err)
		}
	}
	color.New(color.FgGreen).Fprintf(stdout, "%d series written to %s.m and %s.json\n", len(series), cfg.Output, cfg.Output)
	return 0
}

func fail(w io.Writer, err error) int {
	color.New(color.FgRed).Fprintf(w, "empirical: %v\n", err)
	return 1
}
