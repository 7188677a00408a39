// Package observability exposes sweep progress as Prometheus metrics.
package observability

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// SweepCollector records the samples of a running sweep. It satisfies
// sweep.MetricsRecorder.
type SweepCollector struct {
	gatherer prometheus.Gatherer

	SamplesTotal *prometheus.CounterVec
	LastLossDb   *prometheus.GaugeVec
	LossDb       *prometheus.HistogramVec
	DistanceM    prometheus.Gauge
	StepsTotal   prometheus.Counter
	Running      prometheus.Gauge
}

// NewSweepCollector registers sweep metrics against reg, or the default
// registerer when reg is nil.
func NewSweepCollector(reg prometheus.Registerer) (*SweepCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	samples, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "empirical_samples_total",
		Help: "Path loss samples taken per propagation model.",
	}, []string{"model"}), "empirical_samples_total")
	if err != nil {
		return nil, err
	}
	lastLoss, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "empirical_last_loss_db",
		Help: "Most recent path loss per propagation model in dB.",
	}, []string{"model"}), "empirical_last_loss_db")
	if err != nil {
		return nil, err
	}
	loss, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "empirical_loss_db",
		Help:    "Distribution of path loss samples per propagation model in dB.",
		Buckets: prometheus.LinearBuckets(40, 20, 9),
	}, []string{"model"}), "empirical_loss_db")
	if err != nil {
		return nil, err
	}
	distance, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "empirical_distance_meters",
		Help: "Transmitter to receiver distance of the latest sample.",
	}), "empirical_distance_meters")
	if err != nil {
		return nil, err
	}
	steps, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "empirical_steps_total",
		Help: "Sweep steps completed.",
	}), "empirical_steps_total")
	if err != nil {
		return nil, err
	}
	running, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "empirical_sweep_running",
		Help: "1 while a sweep is running, 0 otherwise.",
	}), "empirical_sweep_running")
	if err != nil {
		return nil, err
	}

	return &SweepCollector{
		gatherer:     gatherer,
		SamplesTotal: samples,
		LastLossDb:   lastLoss,
		LossDb:       loss,
		DistanceM:    distance,
		StepsTotal:   steps,
		Running:      running,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SweepCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

func (c *SweepCollector) ObserveSample(model string, distance, loss float64) {
	if c == nil {
		return
	}
	c.SamplesTotal.WithLabelValues(model).Inc()
	c.LastLossDb.WithLabelValues(model).Set(loss)
	c.LossDb.WithLabelValues(model).Observe(loss)
	c.DistanceM.Set(distance)
}

func (c *SweepCollector) ObserveStep() {
	if c == nil {
		return
	}
	c.StepsTotal.Inc()
}

func (c *SweepCollector) SetRunning(running bool) {
	if c == nil {
		return
	}
	if running {
		c.Running.Set(1)
		return
	}
	c.Running.Set(0)
}

// WriteTextfile dumps the gathered metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (c *SweepCollector) WriteTextfile(path string) error {
	if c == nil {
		return errors.New("observability: nil collector")
	}
	return errors.Wrapf(prometheus.WriteToTextfile(path, c.gatherer), "writing metrics to %s", path)
}

// register adds c to reg, or returns the collector already registered under
// the same descriptors when it has the same type.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return c, errors.Wrapf(err, "registering %s", name)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, errors.Errorf("collector %s already registered with incompatible type", name)
	}
	return existing, nil
}
