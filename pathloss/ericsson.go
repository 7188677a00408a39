package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// EricssonSetting configures the Ericsson 9999 model.
type EricssonSetting struct {
	FreqHz      float64     `mapstructure:"frequencyHz" json:"frequencyHz"`
	TxHeightM   float64     `mapstructure:"txHeightM" json:"txHeightM"`
	RxHeightM   float64     `mapstructure:"rxHeightM" json:"rxHeightM"`
	Environment Environment `mapstructure:"environment" json:"environment"`
}

func DefaultEricssonSetting() EricssonSetting {
	return EricssonSetting{FreqHz: 2e9, TxHeightM: 50, RxHeightM: 3, Environment: Urban}
}

func (s EricssonSetting) Validate() error {
	const name = "Ericsson"
	if err := requirePositive(name, "frequencyHz", s.FreqHz); err != nil {
		return err
	}
	if err := requirePositive(name, "txHeightM", s.TxHeightM); err != nil {
		return err
	}
	if err := requirePositive(name, "rxHeightM", s.RxHeightM); err != nil {
		return err
	}
	if !oneOf(s.Environment, Urban, Suburban, Rural) {
		return unsupported(name, "environment", s.Environment)
	}
	return nil
}

// ericssonA0A1 holds (a0, a1) per environment; a2 = 12 and a3 = 0.1 always.
var ericssonA0A1 = map[Environment][2]float64{
	Urban:    {36.2, 30.2},
	Suburban: {43.2, 68.93},
	Rural:    {45.95, 100.6},
}

const (
	ericssonA2 = 12.0
	ericssonA3 = 0.1
)

// Ericsson implements, with d in km and f in MHz,
//
//	L = a0 + a1log(d) + a2ln(h_r) + a3log(h_b)log(d) - 3.2[log(11.75h_r)]^2 + g(f)
//	g(f) = 44.49log(f) - 4.78[log(f)]^2
//
// The a2 term uses the natural logarithm of the receiver height while the
// remaining terms are base 10.
type Ericsson struct {
	setting EricssonSetting
	a0, a1  float64

	fixed float64 // a0 + a2 ln(h_r) - 3.2[log(11.75h_r)]^2 + g(f)
	slope float64 // a1 + a3 log(h_b)
}

func NewEricsson(s EricssonSetting) (*Ericsson, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	coeff := ericssonA0A1[s.Environment]
	logf := math.Log10(s.FreqHz / 1e6)
	gf := 44.49*logf - 4.78*logf*logf

	p := &Ericsson{setting: s, a0: coeff[0], a1: coeff[1]}
	p.fixed = p.a0 + ericssonA2*math.Log(s.RxHeightM) - 3.2*math.Pow(math.Log10(11.75*s.RxHeightM), 2) + gf
	p.slope = p.a1 + ericssonA3*math.Log10(s.TxHeightM)
	return p, nil
}

func (p *Ericsson) Name() string             { return EricssonKind.String() }
func (p *Ericsson) Kind() Kind               { return EricssonKind }
func (p *Ericsson) Setting() EricssonSetting { return p.setting }
func (p *Ericsson) sealed()                  {}

func (p *Ericsson) LossInDb(distance float64) float64 {
	distance = ClampDistance(distance)
	result := floorLoss(p.fixed + p.slope*math.Log10(distance/1e3))
	trace(p.Name(), distance, result)
	return result
}

func (p *Ericsson) LossInDb3D(src, dest vlib.Location3D) float64 {
	return p.LossInDb(src.DistanceFrom(dest))
}
