package timer

import (
	"fmt"
	"strings"
)

// Mode is the kind of interval the controller is counting down.
type Mode int

const (
	Focus Mode = iota
	ShortBreak
	LongBreak
)

var modeNames = map[Mode]string{
	Focus:      "focus",
	ShortBreak: "short_break",
	LongBreak:  "long_break",
}

// Modes lists every valid mode in display order.
var Modes = []Mode{Focus, ShortBreak, LongBreak}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Label is the human readable name used by hosts.
func (m Mode) Label() string {
	switch m {
	case Focus:
		return "Focus"
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	}
	return m.String()
}

func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// IsBreak reports whether m is one of the break modes.
func (m Mode) IsBreak() bool {
	return m == ShortBreak || m == LongBreak
}

// ParseMode accepts the String form of a mode. "pomodoro" is accepted as an
// alias for focus.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "pomodoro" {
		return Focus, nil
	}
	for m, name := range modeNames {
		if name == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
