package pathloss

import (
	"strings"

	"github.com/pkg/errors"
)

// Environment is the clutter category used to select coefficient sets.
// The zero value is unset and rejected by every model.
type Environment int

const (
	EnvironmentUnset Environment = iota
	Urban
	Suburban
	Rural
)

var Environments = [...]string{
	"Unset",
	"Urban",
	"Suburban",
	"Rural",
}

func (e Environment) String() string {
	if e < 0 || int(e) >= len(Environments) {
		return "Unknown-Environment"
	}
	return Environments[e]
}

// ParseEnvironment accepts the names above case-insensitively; "open" and
// "openarea" are accepted as Rural.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "urban":
		return Urban, nil
	case "suburban":
		return Suburban, nil
	case "rural", "open", "openarea":
		return Rural, nil
	}
	return EnvironmentUnset, errors.Wrapf(ErrUnsupportedEnvironment, "environment %q", s)
}

// Terrain is the SUI terrain category.
type Terrain int

const (
	TerrainUnset Terrain = iota
	// TerrainA is hilly terrain with moderate to heavy tree density.
	TerrainA
	// TerrainB is mostly flat with moderate to heavy tree density, or hilly with light density.
	TerrainB
	// TerrainC is flat terrain with light tree density.
	TerrainC
)

var Terrains = [...]string{
	"Unset",
	"A",
	"B",
	"C",
}

func (t Terrain) String() string {
	if t < 0 || int(t) >= len(Terrains) {
		return "Unknown-Terrain"
	}
	return Terrains[t]
}

func ParseTerrain(s string) (Terrain, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return TerrainA, nil
	case "B":
		return TerrainB, nil
	case "C":
		return TerrainC, nil
	}
	return TerrainUnset, errors.Wrapf(ErrUnsupportedEnvironment, "terrain %q", s)
}

// CitySize selects the mobile antenna correction of the Hata formulas.
type CitySize int

const (
	CitySizeUnset CitySize = iota
	SmallCity
	MediumCity
	LargeCity
)

var CitySizes = [...]string{
	"Unset",
	"Small",
	"Medium",
	"Large",
}

func (c CitySize) String() string {
	if c < 0 || int(c) >= len(CitySizes) {
		return "Unknown-CitySize"
	}
	return CitySizes[c]
}

func ParseCitySize(s string) (CitySize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return SmallCity, nil
	case "medium":
		return MediumCity, nil
	case "large":
		return LargeCity, nil
	}
	return CitySizeUnset, errors.Wrapf(ErrUnsupportedEnvironment, "city size %q", s)
}

func oneOf(e Environment, allowed ...Environment) bool {
	for _, a := range allowed {
		if e == a {
			return true
		}
	}
	return false
}
