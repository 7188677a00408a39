package pathloss

import (
	"reflect"
	"sort"
	"strings"

	ms "github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Kind identifies one of the closed set of model formulas.
type Kind int

const (
	FreeSpaceKind Kind = iota
	ECC33Kind
	EricssonKind
	OkumuraHataKind
	Cost231Kind
	SUIKind
)

var Kinds = [...]string{
	"FreeSpace",
	"ECC33",
	"Ericsson",
	"OkumuraHata",
	"Cost231",
	"SUI",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(Kinds) {
		return "Unknown-Kind"
	}
	return Kinds[k]
}

// AllKinds lists every kind in declaration order.
func AllKinds() []Kind {
	result := make([]Kind, len(Kinds))
	for i := range Kinds {
		result[i] = Kind(i)
	}
	return result
}

// ParseKind matches a kind name case-insensitively; "friis" names FreeSpace.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "friis" {
		return FreeSpaceKind, nil
	}
	for i, k := range Kinds {
		if strings.ToLower(k) == name {
			return Kind(i), nil
		}
	}
	return 0, errors.Errorf("unknown path loss model %q", s)
}

// Options are string keyed model parameters, usually read from a config file.
// Recognised keys: frequencyHz, txHeightM, rxHeightM, environment, terrain,
// citySize, shadowingDb, systemLoss. Keys a model does not use are rejected.
type Options map[string]interface{}

// Build creates a model of the given kind from its defaults overlaid with opts.
func Build(kind Kind, opts Options) (Model, error) {
	switch kind {
	case FreeSpaceKind:
		s := DefaultFreeSpaceSetting()
		if err := decode(kind, opts, &s); err != nil {
			return nil, err
		}
		m, err := NewFreeSpace(s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ECC33Kind:
		s := DefaultECC33Setting()
		if err := decode(kind, opts, &s); err != nil {
			return nil, err
		}
		m, err := NewECC33(s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case EricssonKind:
		s := DefaultEricssonSetting()
		if err := decode(kind, opts, &s); err != nil {
			return nil, err
		}
		m, err := NewEricsson(s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case OkumuraHataKind:
		s := DefaultOkumuraHataSetting()
		if err := decode(kind, opts, &s); err != nil {
			return nil, err
		}
		m, err := NewOkumuraHata(s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case Cost231Kind:
		s := DefaultCost231Setting()
		if err := decode(kind, opts, &s); err != nil {
			return nil, err
		}
		m, err := NewCost231(s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case SUIKind:
		s := DefaultSUISetting()
		if err := decode(kind, opts, &s); err != nil {
			return nil, err
		}
		m, err := NewSUI(s)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, errors.Errorf("unknown path loss model kind %d", int(kind))
}

// BuildAll builds one model per entry, keyed by model name, in Kind order.
func BuildAll(set map[string]Options) ([]Model, error) {
	kinds := make([]Kind, 0, len(set))
	byKind := make(map[Kind]Options, len(set))
	for name, opts := range set {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if _, dup := byKind[kind]; dup {
			return nil, errors.Errorf("path loss model %s configured twice", kind)
		}
		byKind[kind] = opts
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	models := make([]Model, 0, len(kinds))
	for _, kind := range kinds {
		m, err := Build(kind, byKind[kind])
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

func decode(kind Kind, opts Options, setting interface{}) error {
	if len(opts) == 0 {
		return nil
	}
	var enumErr error
	hook := func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		result, err := parseEnum(from, to, data)
		if err != nil {
			enumErr = err
		}
		return result, err
	}
	dec, err := ms.NewDecoder(&ms.DecoderConfig{
		DecodeHook:       hook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           setting,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]interface{}(opts)); err != nil {
		if enumErr != nil {
			return errors.Wrapf(enumErr, "%s", kind)
		}
		return errors.Wrapf(ErrInvalidConfig, "%s: %v", kind, err)
	}
	return nil
}

var (
	environmentType = reflect.TypeOf(Environment(0))
	terrainType     = reflect.TypeOf(Terrain(0))
	citySizeType    = reflect.TypeOf(CitySize(0))
)

// parseEnum turns names into Environment, Terrain and CitySize values.
func parseEnum(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s, _ := data.(string)
	switch to {
	case environmentType:
		return ParseEnvironment(s)
	case terrainType:
		return ParseTerrain(s)
	case citySizeType:
		return ParseCitySize(s)
	}
	return data, nil
}
