package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// FreeSpaceSetting configures the Friis free space model.
type FreeSpaceSetting struct {
	FreqHz     float64 `mapstructure:"frequencyHz" json:"frequencyHz"`
	SystemLoss float64 `mapstructure:"systemLoss" json:"systemLoss"` // linear, >= 1
}

func DefaultFreeSpaceSetting() FreeSpaceSetting {
	return FreeSpaceSetting{FreqHz: 5.15e9, SystemLoss: 1}
}

func (s FreeSpaceSetting) Validate() error {
	const name = "FreeSpace"
	if err := requirePositive(name, "frequencyHz", s.FreqHz); err != nil {
		return err
	}
	if !(s.SystemLoss >= 1) || math.IsInf(s.SystemLoss, 0) {
		return invalid(name, "systemLoss", s.SystemLoss, "must be a finite linear factor >= 1")
	}
	return nil
}

// FreeSpace implements L = 20log10(4*pi*d/lambda) + 10log10(L_sys).
type FreeSpace struct {
	setting FreeSpaceSetting
	factor  float64 // 4*pi/lambda
}

func NewFreeSpace(s FreeSpaceSetting) (*FreeSpace, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &FreeSpace{setting: s, factor: 4 * math.Pi / wavelength(s.FreqHz)}, nil
}

func (p *FreeSpace) Name() string              { return FreeSpaceKind.String() }
func (p *FreeSpace) Kind() Kind                { return FreeSpaceKind }
func (p *FreeSpace) Setting() FreeSpaceSetting { return p.setting }
func (p *FreeSpace) Wavelength() float64       { return wavelength(p.setting.FreqHz) }
func (p *FreeSpace) sealed()                   {}

func (p *FreeSpace) LossInDb(distance float64) float64 {
	distance = ClampDistance(distance)
	result := floorLoss(20*math.Log10(p.factor*distance) + 10*math.Log10(p.setting.SystemLoss))
	trace(p.Name(), distance, result)
	return result
}

func (p *FreeSpace) LossInDb3D(src, dest vlib.Location3D) float64 {
	return p.LossInDb(src.DistanceFrom(dest))
}
