// Package notify provides timer.Notifier implementations: a terminal bell, a
// desktop notification, a log line and a fan-out over any of them.
package notify

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

// ErrUnsupported indicates desktop notifications are unavailable here.
var ErrUnsupported = errors.New("desktop notifications unsupported")

// Message returns the title and body shown when mode ends.
func Message(mode timer.Mode) (title, body string) {
	switch mode {
	case timer.Focus:
		return "Focus session complete", "Time for a break."
	case timer.ShortBreak:
		return "Short break over", "Back to focus."
	case timer.LongBreak:
		return "Long break over", "Ready for the next round."
	}
	return "Session complete", ""
}

// Bell rings the terminal bell.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Notify(kind timer.Kind, _ timer.Mode) error {
	if kind != timer.SessionEnded {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.w.Write([]byte{'\a'})
	return err
}

// Log records each notification at info level.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(kind timer.Kind, mode timer.Mode) error {
	title, _ := Message(mode)
	l.logger.Info(title, "kind", kind.String(), "mode", mode.String())
	return nil
}

// Multi delivers to every sink and joins their errors.
type Multi []timer.Notifier

func (m Multi) Notify(kind timer.Kind, mode timer.Mode) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(kind, mode); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Switch forwards to Target only while Enabled reports true, so a settings
// toggle takes effect without rebuilding the chain.
type Switch struct {
	Enabled func() bool
	Target  timer.Notifier
}

func (s Switch) Notify(kind timer.Kind, mode timer.Mode) error {
	if s.Target == nil || (s.Enabled != nil && !s.Enabled()) {
		return nil
	}
	return s.Target.Notify(kind, mode)
}

// Settings reads boolean user settings. *store.Store satisfies it.
type Settings interface {
	GetBool(key string, fallback bool) bool
}

// FromSettings builds the application sink chain. bell and desktop are
// gated by the sound_enabled and notify_enabled settings at delivery time;
// either may be nil. logger, when non-nil, always receives the event.
func FromSettings(s Settings, bell, desktop timer.Notifier, logger *slog.Logger) Multi {
	var m Multi
	if bell != nil {
		m = append(m, Switch{
			Enabled: func() bool { return s.GetBool(store.KeySoundEnabled, true) },
			Target:  bell,
		})
	}
	if desktop != nil {
		m = append(m, Switch{
			Enabled: func() bool { return s.GetBool(store.KeyNotifyEnabled, true) },
			Target:  desktop,
		})
	}
	if logger != nil {
		m = append(m, NewLog(logger))
	}
	return m
}
