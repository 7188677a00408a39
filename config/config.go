// Package config reads the run configuration of the empirical sweeps.
package config

import (
	"fmt"
	"strings"
	"time"

	ms "github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override settings,
// e.g. EMPIRICAL_STEPS=24.
const EnvPrefix = "EMPIRICAL"

// Point is a waypoint in meters.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Config holds every run parameter. Models maps a model kind to its option
// map (see pathloss.Build); an empty Models selects every kind.
type Config struct {
	Environment  string                            `mapstructure:"environment"`
	Trajectory   string                            `mapstructure:"trajectory"`
	Steps        int                               `mapstructure:"steps"`
	StepSize     float64                           `mapstructure:"step_size"`
	StepDuration time.Duration                     `mapstructure:"step_duration"`
	StartDelay   time.Duration                     `mapstructure:"start_delay"`
	FrequencyHz  float64                           `mapstructure:"frequency_hz"`
	RxHeight     float64                           `mapstructure:"rx_height"`
	TxPowerDbm   float64                           `mapstructure:"tx_power_dbm"`
	BandwidthMHz float64                           `mapstructure:"bandwidth_mhz"`
	Output       string                            `mapstructure:"output"`
	LogLevel     string                            `mapstructure:"log_level"`
	MetricsOut   string                            `mapstructure:"metrics_out"`
	Waypoints    []Point                           `mapstructure:"waypoints"`
	Models       map[string]map[string]interface{} `mapstructure:"models"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "urban")
	v.SetDefault("trajectory", "lpath")
	v.SetDefault("steps", 12)
	v.SetDefault("step_size", 10.0)
	v.SetDefault("step_duration", 5*time.Second)
	v.SetDefault("start_delay", time.Duration(0))
	v.SetDefault("frequency_hz", 900e6)
	v.SetDefault("rx_height", 1.0)
	v.SetDefault("tx_power_dbm", 47.0)
	v.SetDefault("bandwidth_mhz", 10.0)
	v.SetDefault("output", "empirical")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_out", "")
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load layers defaults, the optional config file at path, EMPIRICAL_*
// environment variables and overrides, in increasing precedence. Unknown
// keys are errors.
func Load(path string, overrides map[string]interface{}) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", path)
		}
		log.WithField("file", v.ConfigFileUsed()).Debug("config loaded")
	}
	for key, val := range overrides {
		v.Set(key, val)
	}

	var cfg Config
	dec, err := ms.NewDecoder(&ms.DecoderConfig{
		DecodeHook: ms.ComposeDecodeHookFunc(
			ms.StringToTimeDurationHookFunc(),
			ms.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(stringKeys(v.AllSettings())); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// stringKeys rewrites the map[interface{}]interface{} values that YAML leaves
// inside lists so every key is a string. A bare y or n key reads as a bool in
// YAML 1.1 and is turned back into its letter.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[keyString(k)] = stringKeys(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = stringKeys(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = stringKeys(val)
		}
		return s
	}
	return v
}

func keyString(k interface{}) string {
	switch k {
	case true:
		return "y"
	case false:
		return "n"
	}
	return fmt.Sprint(k)
}

// Validate checks the numeric settings. Environment, trajectory and model
// names are checked when the scenario is built.
func (c Config) Validate() error {
	switch {
	case c.Steps <= 0:
		return errors.Errorf("config: steps must be positive, got %d", c.Steps)
	case c.StepDuration <= 0:
		return errors.Errorf("config: step_duration must be positive, got %v", c.StepDuration)
	case c.StartDelay < 0:
		return errors.Errorf("config: start_delay must not be negative, got %v", c.StartDelay)
	case !(c.StepSize > 0):
		return errors.Errorf("config: step_size must be positive, got %v", c.StepSize)
	case !(c.FrequencyHz > 0):
		return errors.Errorf("config: frequency_hz must be positive, got %v", c.FrequencyHz)
	case !(c.RxHeight > 0):
		return errors.Errorf("config: rx_height must be positive, got %v", c.RxHeight)
	case !(c.BandwidthMHz > 0):
		return errors.Errorf("config: bandwidth_mhz must be positive, got %v", c.BandwidthMHz)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config: log_level")
	}
	return nil
}
