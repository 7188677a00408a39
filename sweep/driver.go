// Package sweep moves a receiver along a trajectory on a simulated clock and
// samples every configured propagation model at each step.
package sweep

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/empirical/pathloss"
	"github.com/wiless/empirical/simclock"
	"github.com/wiless/vlib"
)

type State int

const (
	Idle State = iota
	Running
	Finished
)

var States = [...]string{
	"Idle",
	"Running",
	"Finished",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(States) {
		return "Unknown-State"
	}
	return States[s]
}

// Geometry stores node positions and measures distances between them.
type Geometry interface {
	Position(id int) (vlib.Location3D, error)
	SetPosition(id int, loc vlib.Location3D) error
	Distance(a, b vlib.Location3D) float64
}

// Scheduler is the part of simclock.Scheduler the driver needs.
type Scheduler interface {
	ScheduleAfter(d time.Duration, f func()) simclock.EventID
	Now() time.Duration
}

// MetricsRecorder receives sweep progress. observability.SweepCollector
// implements it.
type MetricsRecorder interface {
	ObserveSample(model string, distance, loss float64)
	ObserveStep()
	SetRunning(running bool)
}

// Reporter consumes flushed series.
type Reporter interface {
	Report(series []Series) error
}

// Config wires a Driver. Interval is the simulated time between two
// samples. MaxSamples bounds the samples per series; 0 leaves the bound to
// the trajectory.
type Config struct {
	Models     []pathloss.Model
	Geometry   Geometry
	Scheduler  Scheduler
	Trajectory Trajectory
	TxID       int
	RxID       int
	Interval   time.Duration
	StartDelay time.Duration
	MaxSamples int
	Metrics    MetricsRecorder
	Logger     *log.Entry
}

// Driver samples the initial receiver position on its first tick and once
// after every move, so a trajectory of N moves yields N+1 samples per model.
type Driver struct {
	cfg       Config
	log       *log.Entry
	collector *Collector
	state     State
	samples   int
	err       error
}

func NewDriver(cfg Config) (*Driver, error) {
	switch {
	case len(cfg.Models) == 0:
		return nil, errors.New("sweep: no models configured")
	case cfg.Geometry == nil:
		return nil, errors.New("sweep: nil geometry")
	case cfg.Scheduler == nil:
		return nil, errors.New("sweep: nil scheduler")
	case cfg.Trajectory == nil:
		return nil, errors.New("sweep: nil trajectory")
	case cfg.Interval <= 0:
		return nil, errors.Errorf("sweep: interval must be positive, got %v", cfg.Interval)
	case cfg.StartDelay < 0:
		return nil, errors.Errorf("sweep: negative start delay %v", cfg.StartDelay)
	case cfg.MaxSamples < 0:
		return nil, errors.Errorf("sweep: negative sample bound %d", cfg.MaxSamples)
	}
	for _, id := range []int{cfg.TxID, cfg.RxID} {
		if _, err := cfg.Geometry.Position(id); err != nil {
			return nil, errors.Wrap(err, "sweep")
		}
	}

	names := make([]string, len(cfg.Models))
	for i, m := range cfg.Models {
		names[i] = m.Name()
	}
	collector, err := NewCollector(names...)
	if err != nil {
		return nil, err
	}

	d := &Driver{cfg: cfg, collector: collector, log: cfg.Logger}
	if d.log == nil {
		d.log = log.WithField("component", "sweep")
	}
	return d, nil
}

func (d *Driver) State() State { return d.state }

// Samples is the number of ticks that sampled the models.
func (d *Driver) Samples() int { return d.samples }

// Err returns the geometry error that ended the run early, if any.
func (d *Driver) Err() error { return d.err }

// Start schedules the first tick StartDelay after the scheduler's current time.
func (d *Driver) Start() error {
	if d.state != Idle {
		return ErrAlreadyStarted
	}
	d.setState(Running)
	d.cfg.Scheduler.ScheduleAfter(d.cfg.StartDelay, d.tick)
	return nil
}

// Stop finishes a running sweep without taking further samples.
func (d *Driver) Stop(reason string) {
	if d.state == Running {
		d.finish(reason)
	}
}

func (d *Driver) tick() {
	if d.state != Running {
		return
	}
	if d.collector.Sealed() {
		d.finish("series flushed")
		return
	}

	g := d.cfg.Geometry
	tx, err := g.Position(d.cfg.TxID)
	if err != nil {
		d.fail(err)
		return
	}
	rx, err := g.Position(d.cfg.RxID)
	if err != nil {
		d.fail(err)
		return
	}

	// One distance per tick, shared by every model.
	dist := g.Distance(tx, rx)
	for _, m := range d.cfg.Models {
		loss := m.LossInDb(dist)
		if err := d.collector.Append(m.Name(), dist, loss); err != nil {
			d.fail(err)
			return
		}
		if d.cfg.Metrics != nil {
			d.cfg.Metrics.ObserveSample(m.Name(), dist, loss)
		}
		d.log.WithFields(log.Fields{"t": d.cfg.Scheduler.Now(), "model": m.Name(), "dist": dist, "loss": loss}).Debug("sample")
	}
	d.samples++
	if d.cfg.Metrics != nil {
		d.cfg.Metrics.ObserveStep()
	}

	if d.cfg.MaxSamples > 0 && d.samples >= d.cfg.MaxSamples {
		d.finish("sample bound reached")
		return
	}
	next, ok := d.cfg.Trajectory.Next(rx)
	if !ok {
		d.finish("trajectory exhausted")
		return
	}
	if err := g.SetPosition(d.cfg.RxID, next); err != nil {
		d.fail(err)
		return
	}
	d.cfg.Scheduler.ScheduleAfter(d.cfg.Interval, d.tick)
}

func (d *Driver) fail(err error) {
	d.err = errors.Wrapf(err, "sweep step %d", d.samples)
	d.log.WithError(d.err).Error("sweep aborted")
	d.finish("error")
}

func (d *Driver) finish(reason string) {
	d.log.WithFields(log.Fields{"reason": reason, "samples": d.samples}).Info("sweep finished")
	d.setState(Finished)
}

func (d *Driver) setState(s State) {
	d.log.WithFields(log.Fields{"from": d.state, "to": s}).Debug("state change")
	d.state = s
	if d.cfg.Metrics != nil {
		d.cfg.Metrics.SetRunning(s == Running)
	}
}

// Flush seals the collector and hands the series to every reporter. It is
// valid while Running, where the series are a consistent prefix of the run,
// and after Finished. Reporter errors do not stop the remaining reporters.
func (d *Driver) Flush(reporters ...Reporter) ([]Series, error) {
	if d.state == Idle {
		return nil, ErrNotStarted
	}
	series := d.collector.Flush()
	var first error
	for _, r := range reporters {
		if err := r.Report(series); err != nil {
			d.log.WithError(err).Error("report failed")
			if first == nil {
				first = errors.Wrap(err, "sweep: report")
			}
		}
	}
	return series, first
}
