package timer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when a Config violates its invariants.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidMode is returned for a mode outside Focus, ShortBreak, LongBreak.
	ErrInvalidMode = errors.New("invalid mode")
)

// ConfigError names the field that made a configuration invalid.
type ConfigError struct {
	Field string
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid configuration: %s=%q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid configuration: %s=%s must be positive", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidConfiguration, e.Cause}
	}
	return []error{ErrInvalidConfiguration}
}
