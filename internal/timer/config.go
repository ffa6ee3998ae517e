package timer

import (
	"strconv"
	"time"
)

// Config is an immutable snapshot of durations and auto-advance policy.
// Durations are whole seconds.
type Config struct {
	FocusSeconds      int
	ShortBreakSeconds int
	LongBreakSeconds  int
	LongBreakInterval int  // focus sessions between long breaks
	AutoAdvance       bool // start the next mode's countdown on completion
}

// DefaultConfig is the classic 25/5/15 cycle with a long break every fourth focus.
func DefaultConfig() Config {
	return Config{
		FocusSeconds:      1500,
		ShortBreakSeconds: 300,
		LongBreakSeconds:  900,
		LongBreakInterval: 4,
		AutoAdvance:       false,
	}
}

// Validate returns a *ConfigError wrapping ErrInvalidConfiguration for the first
// non-positive field.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"focus_duration", c.FocusSeconds},
		{"short_break_duration", c.ShortBreakSeconds},
		{"long_break_duration", c.LongBreakSeconds},
		{"long_break_interval", c.LongBreakInterval},
	}
	for _, f := range fields {
		if f.value < 1 {
			return &ConfigError{Field: f.name, Value: strconv.Itoa(f.value)}
		}
	}
	return nil
}

// Seconds returns the configured length of mode in seconds.
func (c Config) Seconds(mode Mode) int {
	switch mode {
	case ShortBreak:
		return c.ShortBreakSeconds
	case LongBreak:
		return c.LongBreakSeconds
	default:
		return c.FocusSeconds
	}
}

func (c Config) Duration(mode Mode) time.Duration {
	return time.Duration(c.Seconds(mode)) * time.Second
}
