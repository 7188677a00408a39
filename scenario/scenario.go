// Package scenario assembles the measurement runs: a base station, a mobile
// receiver on a scripted path and one propagation model per kind.
package scenario

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/empirical"
	"github.com/wiless/empirical/config"
	"github.com/wiless/empirical/deployment"
	"github.com/wiless/empirical/pathloss"
	"github.com/wiless/empirical/simclock"
	"github.com/wiless/empirical/sweep"
	"github.com/wiless/vlib"
)

var (
	ErrUnknownTrajectory = errors.New("unknown trajectory")
	ErrAlreadyRun        = errors.New("scenario already run")
)

// Base station height per environment, in meters.
var txHeights = map[pathloss.Environment]float64{
	pathloss.Urban:    33,
	pathloss.Suburban: 35,
	pathloss.Rural:    42,
}

// TxHeight returns the base station height used for env.
func TxHeight(env pathloss.Environment) (float64, error) {
	h, ok := txHeights[env]
	if !ok {
		return 0, errors.Wrapf(pathloss.ErrUnsupportedEnvironment, "environment %s", env)
	}
	return h, nil
}

// LPath is the walk of the lab measurement: five steps along x, a turn into
// y and five more steps along x, all at receiver height.
var LPath = []config.Point{
	{X: 15, Y: 0}, {X: 20, Y: 0}, {X: 25, Y: 0}, {X: 30, Y: 0}, {X: 35, Y: 0},
	{X: 35, Y: 5}, {X: 35, Y: 10},
	{X: 40, Y: 10}, {X: 45, Y: 10}, {X: 50, Y: 10}, {X: 55, Y: 10},
}

var (
	lpathStart = vlib.Location3D{X: 10, Y: 0}
	lineStart  = vlib.Location3D{X: 80, Y: 0}
)

type Scenario struct {
	Config      config.Config
	Environment pathloss.Environment
	Nodes       *deployment.NodeSystem
	Tx          deployment.Node
	Rx          deployment.Node
	Models      []pathloss.Model
	Trajectory  sweep.Trajectory
	MaxSamples  int
	StopTime    time.Duration

	ran bool
}

// Build validates cfg and creates the nodes, models and trajectory. Every
// configuration error surfaces here, before any simulated time passes.
func Build(cfg config.Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	env, err := pathloss.ParseEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}
	txHeight, err := TxHeight(env)
	if err != nil {
		return nil, err
	}

	s := &Scenario{
		Config:      cfg,
		Environment: env,
		Nodes:       deployment.NewNodeSystem(),
		MaxSamples:  cfg.Steps,
		StopTime:    cfg.StartDelay + time.Duration(cfg.Steps)*cfg.StepDuration,
	}

	var start vlib.Location3D
	switch strings.ToLower(strings.TrimSpace(cfg.Trajectory)) {
	case "lpath", "l-path":
		start = lpathStart
		start.Z = cfg.RxHeight
		points := make([]vlib.Location3D, 0, len(LPath))
		if len(cfg.Waypoints) > 0 {
			for _, p := range cfg.Waypoints {
				points = append(points, vlib.Location3D{X: p.X, Y: p.Y, Z: p.Z})
			}
		} else {
			for _, p := range LPath {
				points = append(points, vlib.Location3D{X: p.X, Y: p.Y, Z: cfg.RxHeight})
			}
		}
		s.Trajectory = sweep.NewWaypoints(points...)
	case "line":
		start = lineStart
		start.Z = cfg.RxHeight
		s.Trajectory = sweep.NewStepWalk(vlib.Location3D{X: cfg.StepSize}, cfg.Steps-1)
	default:
		return nil, errors.Wrapf(ErrUnknownTrajectory, "%q", cfg.Trajectory)
	}

	s.Tx = s.Nodes.NewNode("BS", vlib.Location3D{X: 0, Y: 0, Z: txHeight}, deployment.TransmitOnly)
	if err := s.Nodes.SetTxPower(s.Tx.ID, cfg.TxPowerDbm); err != nil {
		return nil, err
	}
	s.Tx.TxPowerDBm = cfg.TxPowerDbm
	s.Rx = s.Nodes.NewNode("UE", start, deployment.ReceiveOnly)

	s.Models, err = buildModels(cfg, env, txHeight)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewDriver wires a sweep driver over the scenario's geometry.
func (s *Scenario) NewDriver(sched sweep.Scheduler, metrics sweep.MetricsRecorder, logger *log.Entry) (*sweep.Driver, error) {
	return sweep.NewDriver(sweep.Config{
		Models:     s.Models,
		Geometry:   s.Nodes,
		Scheduler:  sched,
		Trajectory: s.Trajectory,
		TxID:       s.Tx.ID,
		RxID:       s.Rx.ID,
		Interval:   s.Config.StepDuration,
		StartDelay: s.Config.StartDelay,
		MaxSamples: s.MaxSamples,
		Metrics:    metrics,
		Logger:     logger,
	})
}

// Run executes the sweep on a fresh simulated clock bounded by StopTime and
// flushes the series to reporters. A scenario runs once. When ctx ends the
// run early, the samples taken so far are still flushed and returned along
// with the context error.
func (s *Scenario) Run(ctx context.Context, metrics sweep.MetricsRecorder, reporters ...sweep.Reporter) ([]sweep.Series, error) {
	if s.ran {
		return nil, ErrAlreadyRun
	}
	s.ran = true

	clock := simclock.New()
	defer clock.Destroy()

	logger := log.WithFields(log.Fields{"component": "sweep", "environment": s.Environment})
	driver, err := s.NewDriver(clock, metrics, logger)
	if err != nil {
		return nil, err
	}
	if err := driver.Start(); err != nil {
		return nil, err
	}
	clock.StopAt(s.StopTime)
	if err := clock.Run(ctx); err != nil {
		logger.WithError(err).WithField("samples", driver.Samples()).Warn("sweep interrupted")
		driver.Stop("interrupted")
		series, ferr := driver.Flush(reporters...)
		if ferr != nil {
			logger.WithError(ferr).Error("flushing interrupted sweep")
		}
		return series, errors.Wrap(err, "running sweep")
	}
	if err := driver.Err(); err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"state": driver.State(), "samples": driver.Samples(), "t": clock.Now()}).Info("sweep done")
	return driver.Flush(reporters...)
}

// Links evaluates the link budget of every model at the receiver's current
// position.
func (s *Scenario) Links() ([]empirical.LinkMetric, error) {
	w := empirical.NewWSystem()
	w.FrequencyGHz = s.Config.FrequencyHz / 1e9
	w.BandwidthMHz = s.Config.BandwidthMHz
	links := make([]empirical.LinkMetric, 0, len(s.Models))
	for _, m := range s.Models {
		link, err := w.EvaluateLinkMetric(s.Nodes, m, s.Rx.ID)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}
