package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

type settingsModel struct {
	store  *store.Store
	ctrl   *timer.Controller
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focusMin      *string
	shortMin      *string
	longMin       *string
	interval      *string
	autoAdvance   *bool
	autoCheck     *bool
	autoSwitch    *bool
	soundEnabled  *bool
	notifyEnabled *bool
}

func newSettingsModel(s *store.Store, c *timer.Controller) settingsModel {
	fm, sm, lm, iv := "", "", "", ""
	var aa, ac, as, se, ne bool
	return settingsModel{
		store:         s,
		ctrl:          c,
		focusMin:      &fm,
		shortMin:      &sm,
		longMin:       &lm,
		interval:      &iv,
		autoAdvance:   &aa,
		autoCheck:     &ac,
		autoSwitch:    &as,
		soundEnabled:  &se,
		notifyEnabled: &ne,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load settings: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func positiveValidator(field string) func(string) error {
	return func(v string) error {
		_, err := store.ParsePositiveInt(field, v)
		return err
	}
}

// durationValidator accepts whole minutes ("25") or minutes and seconds
// ("1:30").
func durationValidator(field string) func(string) error {
	return func(v string) error {
		_, err := parseDuration(field, v)
		return err
	}
}

// parseDuration converts a form value into seconds.
func parseDuration(field, v string) (int, error) {
	mins, secs, found := strings.Cut(strings.TrimSpace(v), ":")
	if !found {
		n, err := store.ParsePositiveInt(field, v)
		if err != nil {
			return 0, err
		}
		return n * 60, nil
	}

	m, errM := strconv.Atoi(mins)
	sec, errS := strconv.Atoi(secs)
	if errM != nil || errS != nil || len(secs) != 2 {
		return 0, &timer.ConfigError{Field: field, Value: v, Cause: strconv.ErrSyntax}
	}
	if m < 0 || sec < 0 || sec > 59 || m*60+sec < 1 {
		return 0, &timer.ConfigError{Field: field, Value: v}
	}
	return m*60 + sec, nil
}

// formatDuration is the inverse of parseDuration.
func formatDuration(secs int) string {
	if secs%60 == 0 {
		return strconv.Itoa(secs / 60)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// activeConfig is the config the next session will use: the pending one if a
// change was deferred, otherwise the current one.
func (s settingsModel) activeConfig() timer.Config {
	if pending, ok := s.ctrl.PendingConfig(); ok {
		return pending
	}
	return s.ctrl.Config()
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := s.activeConfig()
	*s.focusMin = formatDuration(cfg.FocusSeconds)
	*s.shortMin = formatDuration(cfg.ShortBreakSeconds)
	*s.longMin = formatDuration(cfg.LongBreakSeconds)
	*s.interval = strconv.Itoa(cfg.LongBreakInterval)
	*s.autoAdvance = cfg.AutoAdvance
	*s.autoCheck = s.store.GetBool(store.KeyAutoCheckTasks, false)
	*s.autoSwitch = s.store.GetBool(store.KeyAutoSwitchTasks, true)
	*s.soundEnabled = s.store.GetBool(store.KeySoundEnabled, true)
	*s.notifyEnabled = s.store.GetBool(store.KeyNotifyEnabled, true)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min or m:ss)").Value(s.focusMin).Validate(durationValidator(store.KeyFocusDuration)),
			huh.NewInput().Title("Short break (min or m:ss)").Value(s.shortMin).Validate(durationValidator(store.KeyShortBreakDuration)),
			huh.NewInput().Title("Long break (min or m:ss)").Value(s.longMin).Validate(durationValidator(store.KeyLongBreakDuration)),
			huh.NewInput().Title("Focus sessions before long break").Value(s.interval).Validate(positiveValidator(store.KeyLongBreakInterval)),
			huh.NewConfirm().Title("Start the next session automatically?").Value(s.autoAdvance),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Check tasks off when their estimate is reached?").Value(s.autoCheck),
			huh.NewConfirm().Title("Move to the next task when one is done?").Value(s.autoSwitch),
			huh.NewConfirm().Title("Ring the terminal bell?").Value(s.soundEnabled),
			huh.NewConfirm().Title("Show desktop notifications?").Value(s.notifyEnabled),
		).Title("Tasks & notifications"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.saveSettings()
	}

	return s, cmd
}

// formConfig converts the form fields into a timer.Config.
func (s settingsModel) formConfig() (timer.Config, error) {
	cfg := timer.Config{AutoAdvance: *s.autoAdvance}
	durations := []struct {
		key   string
		value string
		dst   *int
	}{
		{store.KeyFocusDuration, *s.focusMin, &cfg.FocusSeconds},
		{store.KeyShortBreakDuration, *s.shortMin, &cfg.ShortBreakSeconds},
		{store.KeyLongBreakDuration, *s.longMin, &cfg.LongBreakSeconds},
	}
	for _, f := range durations {
		n, err := parseDuration(f.key, f.value)
		if err != nil {
			return timer.Config{}, err
		}
		*f.dst = n
	}

	n, err := store.ParsePositiveInt(store.KeyLongBreakInterval, *s.interval)
	if err != nil {
		return timer.Config{}, err
	}
	cfg.LongBreakInterval = n
	return cfg, cfg.Validate()
}

// saveSettings persists the form and then reconfigures the controller when the
// timer config changed. Any error leaves the controller as it was.
func (s settingsModel) saveSettings() tea.Cmd {
	fail := func(err error) tea.Cmd {
		return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Settings not saved: %v", err), isError: true} }
	}

	cfg, err := s.formConfig()
	if err != nil {
		return fail(err)
	}
	if err := s.store.SaveTimerConfig(cfg); err != nil {
		return fail(err)
	}
	for k, v := range map[string]bool{
		store.KeyAutoCheckTasks:  *s.autoCheck,
		store.KeyAutoSwitchTasks: *s.autoSwitch,
		store.KeySoundEnabled:    *s.soundEnabled,
		store.KeyNotifyEnabled:   *s.notifyEnabled,
	} {
		if err := s.store.SetBool(k, v); err != nil {
			return fail(err)
		}
	}
	if cfg != s.activeConfig() {
		if err := s.ctrl.Configure(cfg); err != nil {
			return fail(err)
		}
	}

	text := "Settings saved"
	if _, pending := s.ctrl.PendingConfig(); pending {
		text = "Settings saved; new durations apply after this session"
	}
	return tea.Batch(s.refresh(), func() tea.Msg { return statusMsg{text: text} })
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")

	for _, setting := range s.settings {
		if setting.Key == "current_task" {
			continue
		}
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyFocusDuration, store.KeyShortBreakDuration, store.KeyLongBreakDuration:
		if secs, err := strconv.Atoi(v); err == nil {
			if secs%60 == 0 {
				return fmt.Sprintf("%d min", secs/60)
			}
			return formatClock(secs)
		}
	}
	return v
}
