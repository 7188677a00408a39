package scenario

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/empirical/config"
	"github.com/wiless/empirical/observability"
	"github.com/wiless/empirical/pathloss"
	"github.com/wiless/empirical/sweep"
)

func urbanLPath() config.Config {
	cfg := config.Default()
	cfg.Environment = "urban"
	cfg.Trajectory = "lpath"
	cfg.Steps = 12
	cfg.StepDuration = 5 * time.Second
	return cfg
}

func TestUrbanLPath(t *testing.T) {
	s, err := Build(urbanLPath())
	require.NoError(t, err)
	require.Len(t, s.Models, 6)

	series, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, series, 6)
	for i, ser := range series {
		assert.Equal(t, pathloss.Kind(i).String(), ser.Name)
		require.Equal(t, 12, ser.Len(), ser.Name)
		for j, loss := range ser.Y {
			assert.Greater(t, loss, 0.0, "%s sample %d", ser.Name, j)
		}
	}

	x := series[0].X
	assert.InDelta(t, math.Sqrt(10*10+32*32), x[0], 1e-9)
	assert.InDelta(t, math.Sqrt(55*55+10*10+32*32), x[11], 1e-9)
	// distances of every model come from the same tick
	for _, ser := range series[1:] {
		assert.Equal(t, x, ser.X)
	}
}

func TestRerunIsIdentical(t *testing.T) {
	run := func() []sweep.Series {
		s, err := Build(urbanLPath())
		require.NoError(t, err)
		series, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
		return series
	}
	assert.Equal(t, run(), run())
}

func TestStepsBoundTheLPath(t *testing.T) {
	cfg := urbanLPath()
	cfg.Steps = 4
	s, err := Build(cfg)
	require.NoError(t, err)
	series, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	for _, ser := range series {
		assert.Equal(t, 4, ser.Len())
	}

	cfg.Steps = 30
	s, err = Build(cfg)
	require.NoError(t, err)
	series, err = s.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, len(LPath)+1, series[0].Len())
}

func TestLineWalk(t *testing.T) {
	cfg := config.Default()
	cfg.Environment = "suburban"
	cfg.Trajectory = "line"
	cfg.Steps = 5
	cfg.StepSize = 10
	s, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, 35.0, s.Tx.Location.Z)

	series, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 5, series[0].Len())
	for i, d := range series[0].X {
		x := 80 + 10*float64(i)
		assert.InDelta(t, math.Sqrt(x*x+34*34), d, 1e-9)
	}
	assert.True(t, sortedAscending(series[0].Y))
}

func sortedAscending(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] < v[i-1] {
			return false
		}
	}
	return true
}

func TestCustomWaypointsAndModels(t *testing.T) {
	cfg := urbanLPath()
	cfg.Waypoints = []config.Point{{X: 20, Y: 0, Z: 1}, {X: 30, Y: 0, Z: 1}}
	cfg.Models = map[string]map[string]interface{}{
		"sui":   {"terrain": "C", "shadowingdb": 0},
		"friis": nil,
	}
	s, err := Build(cfg)
	require.NoError(t, err)
	require.Len(t, s.Models, 2)
	assert.Equal(t, pathloss.FreeSpaceKind, s.Models[0].Kind())
	sui, ok := s.Models[1].(*pathloss.SUI)
	require.True(t, ok)
	assert.Equal(t, pathloss.TerrainC, sui.Setting().Terrain)
	assert.Equal(t, 0.0, sui.Setting().ShadowingDb)
	assert.Equal(t, 33.0, sui.Setting().TxHeightM)

	series, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, series[0].Len())
}

func TestModelOptionsFollowEnvironment(t *testing.T) {
	rural := ModelOptions(pathloss.ECC33Kind, pathloss.Rural, 900e6, 42, 1)
	assert.Equal(t, "Suburban", rural["environment"])
	assert.Equal(t, "Rural", ModelOptions(pathloss.EricssonKind, pathloss.Rural, 900e6, 42, 1)["environment"])
	assert.Equal(t, "Urban", ModelOptions(pathloss.Cost231Kind, pathloss.Urban, 900e6, 33, 1)["environment"])
	assert.Equal(t, "B", ModelOptions(pathloss.SUIKind, pathloss.Suburban, 900e6, 35, 1)["terrain"])
	assert.Equal(t, "Medium", ModelOptions(pathloss.OkumuraHataKind, pathloss.Urban, 900e6, 33, 1)["citysize"])
	assert.Len(t, ModelOptions(pathloss.FreeSpaceKind, pathloss.Urban, 900e6, 33, 1), 1)

	for _, env := range []string{"urban", "suburban", "rural"} {
		cfg := urbanLPath()
		cfg.Environment = env
		s, err := Build(cfg)
		require.NoError(t, err, env)
		assert.Len(t, s.Models, 6)
	}
}

func TestBuildErrors(t *testing.T) {
	cfg := urbanLPath()
	cfg.Environment = "downtown"
	_, err := Build(cfg)
	assert.True(t, errors.Is(err, pathloss.ErrUnsupportedEnvironment))

	cfg = urbanLPath()
	cfg.Trajectory = "spiral"
	_, err = Build(cfg)
	assert.True(t, errors.Is(err, ErrUnknownTrajectory))

	cfg = urbanLPath()
	cfg.Models = map[string]map[string]interface{}{"sui": {"txheightm": 0}}
	_, err = Build(cfg)
	assert.True(t, errors.Is(err, pathloss.ErrInvalidConfig))

	cfg = urbanLPath()
	cfg.Models = map[string]map[string]interface{}{"walfisch": nil}
	_, err = Build(cfg)
	assert.Error(t, err)

	cfg = urbanLPath()
	cfg.Steps = 0
	_, err = Build(cfg)
	assert.Error(t, err)
}

func TestRunOnceWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewSweepCollector(reg)
	require.NoError(t, err)

	s, err := Build(urbanLPath())
	require.NoError(t, err)
	_, err = s.Run(context.Background(), metrics)
	require.NoError(t, err)
	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.StepsTotal))
	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.SamplesTotal.WithLabelValues("SUI")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Running))

	_, err = s.Run(context.Background(), metrics)
	assert.True(t, errors.Is(err, ErrAlreadyRun))
}

func TestRunHonoursContext(t *testing.T) {
	s, err := Build(urbanLPath())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	series, err := s.Run(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, series, 6)
	for _, ser := range series {
		assert.Equal(t, 0, ser.Len())
	}
}

// cancelAfter cancels the run once it has seen the given number of steps.
type cancelAfter struct {
	*observability.SweepCollector
	steps  int
	cancel context.CancelFunc
}

func (c *cancelAfter) ObserveStep() {
	c.SweepCollector.ObserveStep()
	c.steps--
	if c.steps == 0 {
		c.cancel()
	}
}

type captureReporter struct{ series []sweep.Series }

func (c *captureReporter) Report(series []sweep.Series) error {
	c.series = series
	return nil
}

func TestCancelledRunKeepsCollectedSamples(t *testing.T) {
	s, err := Build(urbanLPath())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics, err := observability.NewSweepCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	var rep captureReporter
	series, err := s.Run(ctx, &cancelAfter{SweepCollector: metrics, steps: 3, cancel: cancel}, &rep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, series, 6)
	for _, ser := range series {
		assert.Equal(t, 3, ser.Len(), ser.Name)
		assert.Equal(t, 3, ser.Y.Size(), ser.Name)
	}
	assert.Equal(t, series, rep.series)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.StepsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Running))
}

func TestLinksAtFinalPosition(t *testing.T) {
	s, err := Build(urbanLPath())
	require.NoError(t, err)
	series, err := s.Run(context.Background(), nil)
	require.NoError(t, err)

	links, err := s.Links()
	require.NoError(t, err)
	require.Len(t, links, len(series))
	for i, link := range links {
		last := series[i].Y[series[i].Len()-1]
		assert.Equal(t, series[i].Name, link.Model)
		assert.InDelta(t, 47-last, link.BestRSRP, 1e-9)
		assert.Equal(t, s.Tx.ID, link.BestRSRPNode)
	}
}
