package report

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/empirical/sweep"
	"github.com/wiless/vlib"
)

func sampleSeries() []sweep.Series {
	return []sweep.Series{
		{Name: "ECC33", X: vlib.VectorF{10, 20, 30}, Y: vlib.VectorF{80, 95, 90}},
		{Name: "SUI", X: vlib.VectorF{10, 20, 30}, Y: vlib.VectorF{100, 110, 120}},
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(sampleSeries()[0])
	assert.Equal(t, "ECC33", sum.Name)
	assert.Equal(t, 3, sum.Samples)
	assert.Equal(t, 80.0, sum.MinDb)
	assert.Equal(t, 95.0, sum.MaxDb)
	assert.InDelta(t, 88.333333, sum.MeanDb, 1e-6)
	assert.Equal(t, 30.0, sum.LastDistanceM)
	assert.Equal(t, 90.0, sum.LastLossDb)

	empty := Summarize(sweep.Series{Name: "none"})
	assert.Equal(t, 0, empty.Samples)
	assert.True(t, math.IsNaN(empty.MeanDb))
}

func TestVariableName(t *testing.T) {
	assert.Equal(t, "ECC33", VariableName("ECC33"))
	assert.Equal(t, "Okumura_Hata", VariableName("Okumura-Hata"))
	assert.Equal(t, "s3gpp", VariableName("3gpp"))
	assert.Equal(t, "s", VariableName(""))
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableReporter{Writer: &buf, TxPowerDbm: 47}.Report(sampleSeries()))
	out := buf.String()
	assert.Contains(t, out, "MODEL")
	assert.Contains(t, out, "RX (dBm)")
	assert.Contains(t, out, "ECC33")
	assert.Contains(t, out, "SUI")
	// rx power at the last sample: 47 - 90 and 47 - 120
	assert.Contains(t, out, "-43.00")
	assert.Contains(t, out, "-73.00")
}

func TestJSONReporter(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "sweep.json")
	require.NoError(t, JSONReporter{FileName: fname}.Report(sampleSeries()))

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	var doc struct {
		XLabel string
		YLabel string
		Series []struct {
			Name      string
			DistanceM []float64
			LossDb    []float64
		}
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Distance (m)", doc.XLabel)
	assert.Equal(t, "Propagation Loss (dB)", doc.YLabel)
	require.Len(t, doc.Series, 2)
	assert.Equal(t, "SUI", doc.Series[1].Name)
	assert.Equal(t, []float64{100, 110, 120}, doc.Series[1].LossDb)

	assert.Error(t, JSONReporter{}.Report(sampleSeries()))
}

func TestMatlabReporter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, MatlabReporter{FileName: filepath.Join(dir, "sweep.m")}.Report(sampleSeries()))

	data, err := os.ReadFile(filepath.Join(dir, "sweep.m"))
	require.NoError(t, err)
	script := string(data)
	assert.True(t, strings.Contains(script, "Distance (m)"))
	assert.True(t, strings.Contains(script, "Propagation Loss (dB)"))
	assert.True(t, strings.Contains(script, "loss_SUI"))
	assert.True(t, strings.Contains(script, "legend('ECC33','SUI');"))

	// the suffix is optional
	require.NoError(t, MatlabReporter{FileName: filepath.Join(dir, "plain")}.Report(sampleSeries()))
	assert.FileExists(t, filepath.Join(dir, "plain.m"))

	assert.Error(t, MatlabReporter{}.Report(sampleSeries()))
	assert.Error(t, MatlabReporter{FileName: filepath.Join(dir, "missing", "sweep.m")}.Report(sampleSeries()))
}

func TestReportersReplaceStaleOutput(t *testing.T) {
	dir := t.TempDir()
	jsonName := filepath.Join(dir, "sweep.json")
	scriptName := filepath.Join(dir, "sweep.m")
	for _, fname := range []string{jsonName, scriptName} {
		require.NoError(t, os.WriteFile(fname, []byte("stale"), 0o644))
	}

	require.NoError(t, JSONReporter{FileName: jsonName}.Report(sampleSeries()))
	data, err := os.ReadFile(jsonName)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Series, 2)

	require.NoError(t, MatlabReporter{FileName: scriptName}.Report(sampleSeries()))
	data, err = os.ReadFile(scriptName)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "loss_ECC33")
}

func TestJSONReporterUnwritable(t *testing.T) {
	err := JSONReporter{FileName: filepath.Join(t.TempDir(), "missing", "sweep.json")}.Report(sampleSeries())
	assert.Error(t, err)
}

func TestLogReporter(t *testing.T) {
	assert.NoError(t, LogReporter{}.Report(sampleSeries()))
}
