// Package report turns flushed sweep series into plot scripts, JSON files,
// log lines and terminal tables.
package report

import (
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/empirical/sweep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses one series. Loss statistics are NaN for empty series.
type Summary struct {
	Name          string
	Samples       int
	MinDb         float64
	MeanDb        float64
	MaxDb         float64
	LastDistanceM float64
	LastLossDb    float64
}

func Summarize(s sweep.Series) Summary {
	result := Summary{Name: s.Name, Samples: s.Len()}
	if result.Samples == 0 {
		nan := math.NaN()
		result.MinDb, result.MeanDb, result.MaxDb = nan, nan, nan
		result.LastDistanceM, result.LastLossDb = nan, nan
		return result
	}
	result.MinDb = floats.Min(s.Y)
	result.MaxDb = floats.Max(s.Y)
	result.MeanDb = stat.Mean(s.Y, nil)
	last := result.Samples - 1
	result.LastDistanceM = s.X[last]
	result.LastLossDb = s.Y[last]
	return result
}

// LogReporter writes one Info line per series.
type LogReporter struct {
	Logger *log.Entry
}

func (r LogReporter) Report(series []sweep.Series) error {
	logger := r.Logger
	if logger == nil {
		logger = log.WithField("component", "report")
	}
	for _, s := range series {
		sum := Summarize(s)
		logger.WithFields(log.Fields{
			"model":   sum.Name,
			"samples": sum.Samples,
			"min":     sum.MinDb,
			"mean":    sum.MeanDb,
			"max":     sum.MaxDb,
		}).Info("series")
	}
	return nil
}
