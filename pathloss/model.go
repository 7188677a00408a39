// Package pathloss implements empirical large-scale propagation loss models.
//
// Every model is an immutable value created from a validated setting. Losses
// are returned as positive dB quantities; received power is tx power minus
// the loss.
package pathloss

import (
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
)

const (
	// SpeedOfLight in m/s.
	SpeedOfLight = 299792458.0
	// MinDistanceM is the distance floor applied before any logarithm.
	MinDistanceM = 1.0
)

// Model is implemented only by the model types of this package.
type Model interface {
	Name() string
	Kind() Kind
	// LossInDb returns the path loss in dB for a tx-rx separation in meters.
	LossInDb(distance float64) float64
	// LossInDb3D returns the path loss between two positions.
	LossInDb3D(src, dest vlib.Location3D) float64

	sealed()
}

// ClampDistance returns distance, raised to MinDistanceM when it is smaller or not a number.
func ClampDistance(distance float64) float64 {
	if math.IsNaN(distance) || distance < MinDistanceM {
		return MinDistanceM
	}
	return distance
}

// floorLoss keeps the result a loss: short range extrapolation of the
// empirical fits can dip below zero.
func floorLoss(lossDb float64) float64 {
	if lossDb < 0 {
		return 0
	}
	return lossDb
}

func trace(name string, distance, lossDb float64) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	log.WithFields(log.Fields{"model": name, "dist": distance, "loss": lossDb}).Debug("path loss")
}

func wavelength(freqHz float64) float64 {
	return SpeedOfLight / freqHz
}
