package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

const suiReferenceDistance = 100.0 // d0 in meters

// SUISetting configures the Stanford University Interim model.
type SUISetting struct {
	FreqHz      float64 `mapstructure:"frequencyHz" json:"frequencyHz"`
	TxHeightM   float64 `mapstructure:"txHeightM" json:"txHeightM"` // base station
	RxHeightM   float64 `mapstructure:"rxHeightM" json:"rxHeightM"` // subscriber station
	Terrain     Terrain `mapstructure:"terrain" json:"terrain"`
	ShadowingDb float64 `mapstructure:"shadowingDb" json:"shadowingDb"`
}

func DefaultSUISetting() SUISetting {
	return SUISetting{FreqHz: 2.5e9, TxHeightM: 50, RxHeightM: 3, Terrain: TerrainA, ShadowingDb: 10}
}

type suiParams struct{ a, b, c float64 }

var suiTerrainParams = map[Terrain]suiParams{
	TerrainA: {4.6, 0.0075, 12.6},
	TerrainB: {4.0, 0.0065, 17.1},
	TerrainC: {3.6, 0.005, 20.0},
}

func (s SUISetting) Validate() error {
	const name = "SUI"
	if err := requirePositive(name, "frequencyHz", s.FreqHz); err != nil {
		return err
	}
	if err := requirePositive(name, "txHeightM", s.TxHeightM); err != nil {
		return err
	}
	if err := requirePositive(name, "rxHeightM", s.RxHeightM); err != nil {
		return err
	}
	params, ok := suiTerrainParams[s.Terrain]
	if !ok {
		return unsupported(name, "terrain", s.Terrain)
	}
	if math.IsNaN(s.ShadowingDb) || math.IsInf(s.ShadowingDb, 0) {
		return invalid(name, "shadowingDb", s.ShadowingDb, "must be finite")
	}
	if g := suiGamma(params, s.TxHeightM); !(g > 0) {
		return invalid(name, "txHeightM", s.TxHeightM, "path loss exponent is not positive at this height")
	}
	return nil
}

func suiGamma(p suiParams, hb float64) float64 {
	return p.a - p.b*hb + p.c/hb
}

// suiHeightCorrection is X_h; terrain C uses its own constants.
func suiHeightCorrection(t Terrain, hr float64) float64 {
	if t == TerrainC {
		return -20.0 * math.Log10(hr/20000.0)
	}
	return -10.8 * math.Log10(hr/2000.0)
}

// SUI implements, with d and d0 = 100 m in meters,
//
//	L = A + 10*gamma*log(d/d0) + X_f + X_h + shadowing
//	A = 20log(4*pi*d0/lambda)
//	gamma = a - b*h_b + c/h_b
//	X_f = 6log(f_MHz/2000)
type SUI struct {
	setting SUISetting
	lambda  float64
	gamma   float64
	fixed   float64 // A + X_f + X_h + shadowing
}

func NewSUI(s SUISetting) (*SUI, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	p := &SUI{setting: s, lambda: wavelength(s.FreqHz)}
	p.gamma = suiGamma(suiTerrainParams[s.Terrain], s.TxHeightM)

	A := 20 * math.Log10(4*math.Pi*suiReferenceDistance/p.lambda)
	Xf := 6.0 * math.Log10(s.FreqHz/1e6/2000.0)
	Xh := suiHeightCorrection(s.Terrain, s.RxHeightM)
	p.fixed = A + Xf + Xh + s.ShadowingDb
	return p, nil
}

func (p *SUI) Name() string        { return SUIKind.String() }
func (p *SUI) Kind() Kind          { return SUIKind }
func (p *SUI) Setting() SUISetting { return p.setting }
func (p *SUI) Wavelength() float64 { return p.lambda }
func (p *SUI) Gamma() float64      { return p.gamma }
func (p *SUI) sealed()             {}

func (p *SUI) LossInDb(distance float64) float64 {
	distance = ClampDistance(distance)
	result := floorLoss(p.fixed + 10*p.gamma*math.Log10(distance/suiReferenceDistance))
	trace(p.Name(), distance, result)
	return result
}

func (p *SUI) LossInDb3D(src, dest vlib.Location3D) float64 {
	return p.LossInDb(src.DistanceFrom(dest))
}
