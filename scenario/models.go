package scenario

import (
	"strings"

	"github.com/wiless/empirical/config"
	"github.com/wiless/empirical/pathloss"
)

// ModelOptions returns the options a scenario in env gives a model of kind.
// ECC33 and Cost231 have no rural coefficients and use their suburban set;
// SUI maps urban, suburban and rural to terrains A, B and C.
func ModelOptions(kind pathloss.Kind, env pathloss.Environment, freqHz, txHeight, rxHeight float64) pathloss.Options {
	opts := pathloss.Options{"frequencyhz": freqHz}
	if kind == pathloss.FreeSpaceKind {
		return opts
	}
	opts["txheightm"] = txHeight
	opts["rxheightm"] = rxHeight

	switch kind {
	case pathloss.ECC33Kind, pathloss.Cost231Kind:
		if env == pathloss.Urban {
			opts["environment"] = pathloss.Urban.String()
		} else {
			opts["environment"] = pathloss.Suburban.String()
		}
	case pathloss.EricssonKind:
		opts["environment"] = env.String()
	case pathloss.OkumuraHataKind:
		opts["environment"] = env.String()
		opts["citysize"] = pathloss.MediumCity.String()
	case pathloss.SUIKind:
		terrain := map[pathloss.Environment]pathloss.Terrain{
			pathloss.Urban:    pathloss.TerrainA,
			pathloss.Suburban: pathloss.TerrainB,
			pathloss.Rural:    pathloss.TerrainC,
		}[env]
		opts["terrain"] = terrain.String()
	}
	return opts
}

// buildModels overlays the configured options of each selected kind on its
// scenario options. Keys are folded to lower case, as viper does.
func buildModels(cfg config.Config, env pathloss.Environment, txHeight float64) ([]pathloss.Model, error) {
	selected := cfg.Models
	if len(selected) == 0 {
		selected = make(map[string]map[string]interface{}, len(pathloss.Kinds))
		for _, k := range pathloss.AllKinds() {
			selected[k.String()] = nil
		}
	}

	set := make(map[string]pathloss.Options, len(selected))
	for name, user := range selected {
		kind, err := pathloss.ParseKind(name)
		if err != nil {
			return nil, err
		}
		opts := ModelOptions(kind, env, cfg.FrequencyHz, txHeight, cfg.RxHeight)
		for key, val := range user {
			opts[strings.ToLower(key)] = val
		}
		set[name] = opts
	}
	return pathloss.BuildAll(set)
}
