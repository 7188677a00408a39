package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// ECC33Setting configures the ECC-33 model.
type ECC33Setting struct {
	FreqHz      float64     `mapstructure:"frequencyHz" json:"frequencyHz"`
	TxHeightM   float64     `mapstructure:"txHeightM" json:"txHeightM"`
	RxHeightM   float64     `mapstructure:"rxHeightM" json:"rxHeightM"`
	Environment Environment `mapstructure:"environment" json:"environment"`
}

func DefaultECC33Setting() ECC33Setting {
	return ECC33Setting{FreqHz: 2e9, TxHeightM: 50, RxHeightM: 3, Environment: Urban}
}

func (s ECC33Setting) Validate() error {
	const name = "ECC33"
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
	return nil
}

// ECC33 implements L = A_fs + A_bm - G_b - G_r with d in km and f in GHz.
//
//	A_fs = 92.4 + 20log(d) + 20log(f)
//	A_bm = 20.41 + 9.83log(d) + 7.89log(f) + 9.56[log(f)]^2
//	G_b  = log(h_b/200)(13.958 + 5.8log(d))^2
//	G_r  = 0.759h_r - 1.862                       (Urban)
//	G_r  = (42.57 + 13.7log(f))(log(h_r) - 0.585) (Suburban)
type ECC33 struct {
	setting ECC33Setting

	// distance independent terms
	fs, bm, gbh, gr float64
}

func NewECC33(s ECC33Setting) (*ECC33, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logf := math.Log10(s.FreqHz / 1e9)
	p := &ECC33{setting: s}
	p.fs = 92.4 + 20*logf
	p.bm = 20.41 + 7.89*logf + 9.56*logf*logf
	p.gbh = math.Log10(s.TxHeightM / 200)
	if s.Environment == Urban {
		p.gr = 0.759*s.RxHeightM - 1.862
	} else {
		p.gr = (42.57 + 13.7*logf) * (math.Log10(s.RxHeightM) - 0.585)
	}
	return p, nil
}

func (p *ECC33) Name() string          { return ECC33Kind.String() }
func (p *ECC33) Kind() Kind            { return ECC33Kind }
func (p *ECC33) Setting() ECC33Setting { return p.setting }
func (p *ECC33) sealed()               {}

func (p *ECC33) LossInDb(distance float64) float64 {
	distance = ClampDistance(distance)
	logd := math.Log10(distance / 1e3)

	afs := p.fs + 20*logd
	abm := p.bm + 9.83*logd
	gb := p.gbh * math.Pow(13.958+5.8*logd, 2)

	result := floorLoss(afs + abm - gb - p.gr)
	trace(p.Name(), distance, result)
	return result
}

func (p *ECC33) LossInDb3D(src, dest vlib.Location3D) float64 {
	return p.LossInDb(src.DistanceFrom(dest))
}
