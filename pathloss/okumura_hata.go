package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// OkumuraHataSetting configures the Okumura-Hata model.
type OkumuraHataSetting struct {
	FreqHz      float64     `mapstructure:"frequencyHz" json:"frequencyHz"`
	TxHeightM   float64     `mapstructure:"txHeightM" json:"txHeightM"`
	RxHeightM   float64     `mapstructure:"rxHeightM" json:"rxHeightM"`
	Environment Environment `mapstructure:"environment" json:"environment"`
	CitySize    CitySize    `mapstructure:"citySize" json:"citySize"`
}

func DefaultOkumuraHataSetting() OkumuraHataSetting {
	return OkumuraHataSetting{FreqHz: 2160e6, TxHeightM: 50, RxHeightM: 3, Environment: Urban, CitySize: LargeCity}
}

// hataMaxFreqHz is the upper limit of the standard Hata formula.
const hataMaxFreqHz = 1500e6

func (s OkumuraHataSetting) Validate() error {
	const name = "OkumuraHata"
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
	// COST-231 Hata has no suburban or open area correction.
	if s.FreqHz > hataMaxFreqHz && s.Environment != Urban {
		return unsupported(name, "environment", s.Environment)
	}
	switch s.CitySize {
	case SmallCity, MediumCity, LargeCity:
	default:
		return unsupported(name, "citySize", s.CitySize)
	}
	return nil
}

// OkumuraHata implements the Hata median path loss (d in km, f in MHz) up to
// 1500 MHz and the COST-231 Hata extension above it.
//
//	f <= 1500: L = 69.55 + 26.16log(f) - 13.82log(h_b) - a(h_m) + (44.9 - 6.55log(h_b))log(d) + K_env
//	f >  1500: L = 46.3 + 33.9log(f) - 13.82log(h_b) - a(h_m) + (44.9 - 6.55log(h_b))log(d) + C
//
// K_env is 0 for Urban, -2[log(f/28)]^2 - 5.4 for Suburban and
// -4.78[log(f)]^2 + 18.33log(f) - 40.94 for Rural (open area). Above 1500 MHz
// only Urban is accepted.
type OkumuraHata struct {
	setting OkumuraHataSetting

	fixed float64
	slope float64 // 44.9 - 6.55log(h_b)
}

func NewOkumuraHata(s OkumuraHataSetting) (*OkumuraHata, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	FreqMHz := s.FreqHz / 1e6
	logf := math.Log10(FreqMHz)
	hb, hm := s.TxHeightM, s.RxHeightM
	large := s.CitySize == LargeCity

	p := &OkumuraHata{setting: s, slope: 44.9 - 6.55*math.Log10(hb)}
	if FreqMHz <= 1500 {
		var ahm float64
		switch {
		case large && FreqMHz < 200:
			ahm = 8.29*math.Pow(math.Log10(1.54*hm), 2) - 1.1
		case large:
			ahm = 3.2*math.Pow(math.Log10(11.75*hm), 2) - 4.97
		default:
			ahm = 0.8 + (1.1*logf-0.7)*hm - 1.56*logf
		}
		p.fixed = 69.55 + 26.16*logf - 13.82*math.Log10(hb) - ahm
		switch s.Environment {
		case Suburban:
			p.fixed += -2*math.Pow(math.Log10(FreqMHz/28), 2) - 5.4
		case Rural:
			p.fixed += -4.78*logf*logf + 18.33*logf - 40.94
		}
		return p, nil
	}

	var ahm, C float64
	if large {
		ahm = 3.2*math.Pow(math.Log10(11.75*hm), 2) - 4.97
		C = 3
	} else {
		ahm = (1.1*logf-0.7)*hm - (1.56*logf - 0.8)
	}
	p.fixed = 46.3 + 33.9*logf - 13.82*math.Log10(hb) - ahm + C
	return p, nil
}

func (p *OkumuraHata) Name() string                { return OkumuraHataKind.String() }
func (p *OkumuraHata) Kind() Kind                  { return OkumuraHataKind }
func (p *OkumuraHata) Setting() OkumuraHataSetting { return p.setting }
func (p *OkumuraHata) sealed()                     {}

func (p *OkumuraHata) LossInDb(distance float64) float64 {
	distance = ClampDistance(distance)
	result := floorLoss(p.fixed + p.slope*math.Log10(distance/1e3))
	trace(p.Name(), distance, result)
	return result
}

func (p *OkumuraHata) LossInDb3D(src, dest vlib.Location3D) float64 {
	return p.LossInDb(src.DistanceFrom(dest))
}
