package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

func TestBellWritesBEL(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)

	require.NoError(t, b.Notify(timer.SessionEnded, timer.Focus))
	assert.Equal(t, "\a", buf.String())
}

func TestLogRecordsMode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	require.NoError(t, NewLog(logger).Notify(timer.SessionEnded, timer.LongBreak))
	out := buf.String()
	assert.Contains(t, out, `"mode":"long_break"`)
	assert.Contains(t, out, "Long break over")
}

func TestMultiJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	var called []string
	m := Multi{
		timer.NotifierFunc(func(timer.Kind, timer.Mode) error { called = append(called, "a"); return errA }),
		nil,
		timer.NotifierFunc(func(timer.Kind, timer.Mode) error { called = append(called, "b"); return nil }),
	}

	err := m.Notify(timer.SessionEnded, timer.Focus)
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, []string{"a", "b"}, called)

	assert.NoError(t, Multi{}.Notify(timer.SessionEnded, timer.Focus))
}

func TestSwitch(t *testing.T) {
	enabled := false
	calls := 0
	s := Switch{
		Enabled: func() bool { return enabled },
		Target:  timer.NotifierFunc(func(timer.Kind, timer.Mode) error { calls++; return nil }),
	}

	require.NoError(t, s.Notify(timer.SessionEnded, timer.Focus))
	assert.Equal(t, 0, calls)

	enabled = true
	require.NoError(t, s.Notify(timer.SessionEnded, timer.Focus))
	assert.Equal(t, 1, calls)

	assert.NoError(t, Switch{}.Notify(timer.SessionEnded, timer.Focus))
}

type mapSettings map[string]bool

func (m mapSettings) GetBool(key string, fallback bool) bool {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

func TestFromSettingsHonorsToggles(t *testing.T) {
	settings := mapSettings{store.KeySoundEnabled: false}
	var bell bytes.Buffer
	desktopCalls := 0
	desktop := timer.NotifierFunc(func(timer.Kind, timer.Mode) error { desktopCalls++; return nil })

	m := FromSettings(settings, NewBell(&bell), desktop, nil)
	require.Len(t, m, 2)

	require.NoError(t, m.Notify(timer.SessionEnded, timer.Focus))
	assert.Empty(t, bell.String())
	assert.Equal(t, 1, desktopCalls)

	settings[store.KeySoundEnabled] = true
	settings[store.KeyNotifyEnabled] = false
	require.NoError(t, m.Notify(timer.SessionEnded, timer.Focus))
	assert.Equal(t, "\a", bell.String())
	assert.Equal(t, 1, desktopCalls)
}

func TestFromSettingsSkipsNilSinks(t *testing.T) {
	var buf bytes.Buffer
	m := FromSettings(mapSettings{}, nil, nil, slog.New(slog.NewJSONHandler(&buf, nil)))
	require.Len(t, m, 1)
	require.NoError(t, m.Notify(timer.SessionEnded, timer.ShortBreak))
	assert.Contains(t, buf.String(), "short_break")
}

func TestMessageCoversModes(t *testing.T) {
	for _, m := range timer.Modes {
		title, body := Message(m)
		assert.NotEmpty(t, title)
		assert.NotEmpty(t, body)
	}
}

func TestDesktopUnsupportedWhenToolMissing(t *testing.T) {
	d := NewDesktop("pomo")
	d.lookup = func(string) (string, error) { return "", errors.New("not found") }
	d.run = func(context.Context, string, ...string) error {
		t.Fatal("command should not run")
		return nil
	}

	err := d.Notify(timer.SessionEnded, timer.Focus)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDesktopRunFailureIsReported(t *testing.T) {
	d := NewDesktop("pomo")
	d.lookup = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	d.run = func(context.Context, string, ...string) error { return errors.New("exit status 1") }

	err := d.Notify(timer.SessionEnded, timer.Focus)
	require.Error(t, err)
	if !errors.Is(err, ErrUnsupported) {
		assert.True(t, strings.Contains(err.Error(), "exit status 1"))
	}
}
