package pathloss

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig marks a setting that cannot produce a finite loss.
	ErrInvalidConfig = errors.New("invalid path loss configuration")
	// ErrUnsupportedEnvironment marks an environment, terrain or city size
	// outside the set a model declares.
	ErrUnsupportedEnvironment = errors.New("unsupported environment")
)

// ConfigError describes why a model setting was rejected.
type ConfigError struct {
	Model  string
	Field  string
	Value  interface{}
	Reason string
	kind   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", e.Model, e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig or ErrUnsupportedEnvironment.
func (e *ConfigError) Unwrap() error { return e.kind }

func invalid(model, field string, value interface{}, reason string) error {
	return &ConfigError{Model: model, Field: field, Value: value, Reason: reason, kind: ErrInvalidConfig}
}

func unsupported(model, field string, value interface{}) error {
	return &ConfigError{Model: model, Field: field, Value: value, Reason: "not supported by this model", kind: ErrUnsupportedEnvironment}
}

func requirePositive(model, field string, value float64) error {
	if !(value > 0) {
		return invalid(model, field, value, "must be strictly positive")
	}
	if math.IsInf(value, 0) {
		return invalid(model, field, value, "must be finite")
	}
	return nil
}
