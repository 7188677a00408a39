package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// Cost231Setting configures the COST-231 model.
type Cost231Setting struct {
	FreqHz      float64     `mapstructure:"frequencyHz" json:"frequencyHz"`
	TxHeightM   float64     `mapstructure:"txHeightM" json:"txHeightM"`
	RxHeightM   float64     `mapstructure:"rxHeightM" json:"rxHeightM"`
	Environment Environment `mapstructure:"environment" json:"environment"`
	ShadowingDb float64     `mapstructure:"shadowingDb" json:"shadowingDb"`
}

func DefaultCost231Setting() Cost231Setting {
	return Cost231Setting{FreqHz: 2.3e9, TxHeightM: 50, RxHeightM: 3, Environment: Suburban, ShadowingDb: 10}
}

func (s Cost231Setting) Validate() error {
	const name = "Cost231"
	if err := requirePositive(name, "frequencyHz", s.FreqHz); err != nil {
		return err
	}
	if err := requirePositive(name, "txHeightM", s.TxHeightM); err != nil {
		return err
	}
	if err := requirePositive(name, "rxHeightM", s.RxHeightM); err != nil {
		return err
	}
	if !oneOf(s.Environment, Urban, Suburban) {
		return unsupported(name, "environment", s.Environment)
	}
	if math.IsNaN(s.ShadowingDb) || math.IsInf(s.ShadowingDb, 0) {
		return invalid(name, "shadowingDb", s.ShadowingDb, "must be finite")
	}
	return nil
}

// Cost231 implements, with d in km and f in MHz,
//
//	L = 46.3 + 33.9log(f) - 13.82log(h_b) - C_H + (44.9 - 6.55log(h_b))log(d) + C_M + shadowing
//	C_H = 0.8 + (1.11log(f) - 0.7)h_r - 1.56log(f)
//
// C_M is 3 dB in Urban (metropolitan centres) and 0 dB in Suburban.
type Cost231 struct {
	setting Cost231Setting

	fixed float64
	slope float64
}

func NewCost231(s Cost231Setting) (*Cost231, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logf := math.Log10(s.FreqHz / 1e6)
	hb := s.TxHeightM
	CH := 0.8 + (1.11*logf-0.7)*s.RxHeightM - 1.56*logf
	var CM float64
	if s.Environment == Urban {
		CM = 3
	}

	p := &Cost231{setting: s, slope: 44.9 - 6.55*math.Log10(hb)}
	p.fixed = 46.3 + 33.9*logf - 13.82*math.Log10(hb) - CH + CM + s.ShadowingDb
	return p, nil
}

func (p *Cost231) Name() string            { return Cost231Kind.String() }
func (p *Cost231) Kind() Kind              { return Cost231Kind }
func (p *Cost231) Setting() Cost231Setting { return p.setting }
func (p *Cost231) Wavelength() float64     { return wavelength(p.setting.FreqHz) }
func (p *Cost231) sealed()                 {}

func (p *Cost231) LossInDb(distance float64) float64 {
	distance = ClampDistance(distance)
	result := floorLoss(p.fixed + p.slope*math.Log10(distance/1e3))
	trace(p.Name(), distance, result)
	return result
}

func (p *Cost231) LossInDb3D(src, dest vlib.Location3D) float64 {
	return p.LossInDb(src.DistanceFrom(dest))
}
