package tui

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
	"github.com/sadopc/pomo/internal/tracker"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestController(t *testing.T, opts ...timer.Option) *timer.Controller {
	t.Helper()
	c, err := timer.New(timer.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// ============================================================
// Timer view
// ============================================================

func TestTimerToggleKey(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	tm := newTimerModel(s, c)

	tm, _ = tm.update(keyPress(" "))
	if !c.Running() {
		t.Fatal("space should start the countdown")
	}
	tm, _ = tm.update(keyPress(" "))
	if c.Running() {
		t.Fatal("second space should pause")
	}
}

func TestTimerSkipAndModeKeys(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	tm := newTimerModel(s, c)

	tm, _ = tm.update(keyPress("n"))
	st := c.Snapshot()
	if st.Mode != timer.ShortBreak || st.CompletedFocusSessions != 1 {
		t.Fatalf("skip should complete focus: %+v", st)
	}

	tm, _ = tm.update(keyPress("l"))
	if c.Mode() != timer.LongBreak || c.Snapshot().RemainingSeconds != 900 {
		t.Fatalf("l should switch to long break: %+v", c.Snapshot())
	}

	tm, _ = tm.update(keyPress("s"))
	if c.Mode() != timer.ShortBreak {
		t.Fatal("s should switch to short break")
	}

	tm, _ = tm.update(keyPress("f"))
	if c.Mode() != timer.Focus || c.Snapshot().RemainingSeconds != 1500 {
		t.Fatal("f should switch to focus")
	}
	if c.Snapshot().CompletedFocusSessions != 1 {
		t.Fatal("mode switches must not change the completed count")
	}
}

func TestTimerResetKey(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	tm := newTimerModel(s, c)

	c.Start()
	c.Tick()
	c.Tick()
	tm.update(keyPress("r"))

	st := c.Snapshot()
	if st.Running || st.RemainingSeconds != 1500 {
		t.Fatalf("reset should refill and stop: %+v", st)
	}
}

func TestTimerRefreshLoadsCurrentTask(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask("Write", "", 2)
	s.SetCurrentTask(task.ID)

	tm := newTimerModel(s, newTestController(t))
	msg, ok := tm.refresh()().(currentTaskMsg)
	if !ok {
		t.Fatal("refresh should return currentTaskMsg")
	}
	if msg.task == nil || msg.task.ID != task.ID {
		t.Fatalf("unexpected current task: %+v", msg.task)
	}

	tm, _ = tm.update(msg)
	tm.setSize(100, 30)
	out := tm.view()
	if !strings.Contains(out, "Write") || !strings.Contains(out, "(0/2)") {
		t.Fatalf("view should show the current task:\n%s", out)
	}
}

func TestTimerView(t *testing.T) {
	s := newTestStore(t)
	tm := newTimerModel(s, newTestController(t))
	tm.setSize(100, 30)

	out := tm.view()
	for _, want := range []string{"25:00", "Focus", "Short Break", "Long Break", "No task selected"} {
		if !strings.Contains(out, want) {
			t.Fatalf("timer view missing %q:\n%s", want, out)
		}
	}
}

func TestTimerProgressCounter(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	tm := newTimerModel(s, c)

	c.Skip() // focus
	c.Skip() // short break
	c.Skip() // focus

	out := tm.renderProgress(c.Snapshot())
	if !strings.Contains(out, "#2") {
		t.Fatalf("progress should count 2 focus sessions: %q", out)
	}
	if strings.Count(out, "●") != 2 {
		t.Fatalf("expected 2 filled dots: %q", out)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{300, "05:00"},
		{1500, "25:00"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.secs); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(3661); got != "01:01:01" {
		t.Fatalf("formatSeconds(3661) = %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0.0h"},
		{1800, "0.5h"},
		{5400, "1.5h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.secs); got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("truncate long = %q", got)
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	if viewNames[viewTimer] != "Timer" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("view names out of order: %v", viewNames)
	}
}

// ============================================================
// Tasks view
// ============================================================

func loadedTasks(t *testing.T, s *store.Store) tasksModel {
	t.Helper()
	m := newTasksModel(s)
	m.setSize(100, 30)
	msg, ok := m.refresh()().(tasksDataMsg)
	if !ok {
		t.Fatal("refresh should return tasksDataMsg")
	}
	m, _ = m.update(msg)
	return m
}

func reload(t *testing.T, m tasksModel) tasksModel {
	t.Helper()
	m, _ = m.update(m.refresh()())
	return m
}

func TestTasksEmptyView(t *testing.T) {
	s := newTestStore(t)
	m := loadedTasks(t, s)
	if !strings.Contains(m.view(), "No tasks yet") {
		t.Fatal("empty list should show hint")
	}
}

func TestTasksCursorBounds(t *testing.T) {
	s := newTestStore(t)
	s.CreateTask("A", "", 1)
	s.CreateTask("B", "", 1)
	m := loadedTasks(t, s)

	m, _ = m.update(keyPress("k"))
	if m.cursor != 0 {
		t.Fatal("cursor should not go above first task")
	}
	m, _ = m.update(keyPress("j"))
	m, _ = m.update(keyPress("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor should stop at last task, got %d", m.cursor)
	}
}

func TestTasksSelectCurrent(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateTask("A", "", 1)
	m := loadedTasks(t, s)

	m, _ = m.update(keyPress("enter"))
	cur, _ := s.CurrentTask()
	if cur == nil || cur.ID != a.ID {
		t.Fatal("enter should select the task as current")
	}

	m = reload(t, m)
	if m.currentID != a.ID {
		t.Fatal("refresh should carry the current task")
	}
	if !strings.Contains(m.view(), "▶") {
		t.Fatal("current task should be marked")
	}

	m.update(keyPress("enter"))
	if cur, _ := s.CurrentTask(); cur != nil {
		t.Fatal("enter on the current task should clear it")
	}
}

func TestTasksToggleDone(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateTask("A", "", 1)
	m := loadedTasks(t, s)

	m, _ = m.update(keyPress("x"))
	got, _ := s.GetTask(a.ID)
	if !got.Done {
		t.Fatal("x should mark done")
	}

	m = reload(t, m)
	if !strings.Contains(m.view(), "[x]") {
		t.Fatal("done task should render checked")
	}

	m.update(keyPress("x"))
	got, _ = s.GetTask(a.ID)
	if got.Done {
		t.Fatal("x again should reopen")
	}
}

func TestTasksMove(t *testing.T) {
	s := newTestStore(t)
	s.CreateTask("A", "", 1)
	s.CreateTask("B", "", 1)
	m := loadedTasks(t, s)

	m, _ = m.update(keyPress("J"))
	if m.cursor != 1 {
		t.Fatal("cursor should follow the moved task")
	}
	tasks, _ := s.ListTasks(true)
	if tasks[0].Title != "B" || tasks[1].Title != "A" {
		t.Fatalf("J should move A down: %v, %v", tasks[0].Title, tasks[1].Title)
	}

	m = reload(t, m)
	m, _ = m.update(keyPress("K"))
	tasks, _ = s.ListTasks(true)
	if tasks[0].Title != "A" || m.cursor != 0 {
		t.Fatal("K should move A back up")
	}
}

func TestTasksDeleteAndClear(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateTask("A", "", 1)
	b, _ := s.CreateTask("B", "", 1)
	s.SetTaskDone(b.ID, true)
	m := loadedTasks(t, s)

	m, _ = m.update(keyPress("c"))
	if _, err := s.GetTask(b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("c should clear finished tasks")
	}

	m = reload(t, m)
	m.update(keyPress("d"))
	if _, err := s.GetTask(a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("d should delete the selected task")
	}
}

func TestTasksSaveForm(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)

	*m.formTitle = "  Write report "
	*m.formNote = "draft"
	*m.formEst = "3"
	m.formType = "add"
	m.saveForm()

	tasks, _ := s.ListTasks(true)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Write report" || tasks[0].EstPomodoros != 3 || tasks[0].Note != "draft" {
		t.Fatalf("unexpected task: %+v", tasks[0])
	}

	*m.formTitle = "Edited"
	*m.formEst = "5"
	m.formType = "edit"
	m.editingID = tasks[0].ID
	m.saveForm()

	got, _ := s.GetTask(tasks[0].ID)
	if got.Title != "Edited" || got.EstPomodoros != 5 {
		t.Fatalf("edit not saved: %+v", got)
	}
}

func TestTasksSaveFormRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s)

	*m.formTitle = "Task"
	*m.formEst = "zero"
	m.formType = "add"
	msg, ok := m.saveForm()().(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("bad estimate should report an error, got %#v", msg)
	}

	*m.formTitle = "   "
	*m.formEst = "1"
	m.saveForm()

	tasks, _ := s.ListTasks(true)
	if len(tasks) != 0 {
		t.Fatal("invalid forms must not create tasks")
	}
}

func TestTaskValidators(t *testing.T) {
	if validateTitle("") == nil {
		t.Fatal("empty title should fail")
	}
	if validateTitle("x") != nil {
		t.Fatal("title should pass")
	}
	if !errors.Is(validateEstimate("0"), timer.ErrInvalidConfiguration) {
		t.Fatal("zero estimate should fail")
	}
	if validateEstimate("4") != nil {
		t.Fatal("estimate should pass")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsShowFormPrefills(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s, newTestController(t))

	m, _ = m.showForm()
	if !m.formActive {
		t.Fatal("form should be active")
	}
	if *m.focusMin != "25" || *m.shortMin != "5" || *m.longMin != "15" || *m.interval != "4" {
		t.Fatalf("unexpected prefill: %s %s %s %s", *m.focusMin, *m.shortMin, *m.longMin, *m.interval)
	}
	if !*m.autoSwitch || !*m.soundEnabled || *m.autoCheck {
		t.Fatal("boolean settings not prefilled from store defaults")
	}
}

func TestSettingsSaveConfiguresController(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	m := newSettingsModel(s, c)
	m, _ = m.showForm()

	*m.focusMin = "50"
	*m.interval = "2"
	*m.autoCheck = true
	*m.soundEnabled = false
	m.saveSettings()

	cfg := c.Config()
	if cfg.FocusSeconds != 3000 || cfg.LongBreakInterval != 2 {
		t.Fatalf("controller not reconfigured: %+v", cfg)
	}
	if c.Snapshot().RemainingSeconds != 3000 {
		t.Fatal("reset policy should refill the current mode")
	}

	stored, err := s.LoadTimerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if stored != cfg {
		t.Fatalf("stored config %+v differs from controller %+v", stored, cfg)
	}
	if !s.GetBool(store.KeyAutoCheckTasks, false) || s.GetBool(store.KeySoundEnabled, true) {
		t.Fatal("boolean settings not saved")
	}
}

func TestSettingsInvalidLeavesControllerUntouched(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	c.Start()
	c.Tick()
	m := newSettingsModel(s, c)
	m, _ = m.showForm()

	*m.shortMin = "abc"
	msg, ok := m.saveSettings()().(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}

	if c.Config() != timer.DefaultConfig() {
		t.Fatal("controller config must not change")
	}
	if st := c.Snapshot(); !st.Running || st.RemainingSeconds != 1499 {
		t.Fatalf("controller state must not change: %+v", st)
	}
	stored, _ := s.LoadTimerConfig()
	if stored != timer.DefaultConfig() {
		t.Fatal("store must not change")
	}

	if _, err := m.formConfig(); !errors.Is(err, timer.ErrInvalidConfiguration) {
		t.Fatalf("formConfig error should wrap ErrInvalidConfiguration: %v", err)
	}
}

func TestSettingsDeferredWhileRunning(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t, timer.WithReconfigurePolicy(timer.ReconfigureDefer))
	c.Start()
	m := newSettingsModel(s, c)
	m, _ = m.showForm()

	*m.focusMin = "30"
	m.saveSettings()

	if _, pending := c.PendingConfig(); !pending {
		t.Fatal("running controller should defer the new config")
	}
	if c.Snapshot().RemainingSeconds != 1500 {
		t.Fatal("deferred config must not touch the countdown")
	}
}

func TestSettingsKeepsSecondsDurations(t *testing.T) {
	s := newTestStore(t)
	cfg := timer.Config{FocusSeconds: 90, ShortBreakSeconds: 30, LongBreakSeconds: 150, LongBreakInterval: 4}
	if err := s.SaveTimerConfig(cfg); err != nil {
		t.Fatal(err)
	}
	c, err := timer.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	c.Start()
	c.Tick()

	m := newSettingsModel(s, c)
	m, _ = m.showForm()
	if *m.focusMin != "1:30" || *m.shortMin != "0:30" || *m.longMin != "2:30" {
		t.Fatalf("unexpected prefill: %s %s %s", *m.focusMin, *m.shortMin, *m.longMin)
	}

	*m.autoCheck = true
	m.saveSettings()

	if c.Config() != cfg {
		t.Fatalf("durations rewritten by an unrelated save: %+v", c.Config())
	}
	if st := c.Snapshot(); !st.Running || st.RemainingSeconds != 89 {
		t.Fatalf("running countdown should be untouched: %+v", st)
	}
	stored, err := s.LoadTimerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if stored != cfg {
		t.Fatalf("stored config changed: %+v", stored)
	}
	if !s.GetBool(store.KeyAutoCheckTasks, false) {
		t.Fatal("toggle not saved")
	}
}

func TestSettingsToggleOnlyKeepsCountdown(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	c.Start()
	c.Tick()
	c.Tick()

	m := newSettingsModel(s, c)
	m, _ = m.showForm()
	*m.soundEnabled = false
	msg, ok := m.saveSettings()().(tea.BatchMsg)
	if !ok || len(msg) == 0 {
		t.Fatalf("expected batched refresh and status, got %#v", msg)
	}

	if st := c.Snapshot(); !st.Running || st.RemainingSeconds != 1498 {
		t.Fatalf("toggle-only save should not reset the timer: %+v", st)
	}
	if s.GetBool(store.KeySoundEnabled, true) {
		t.Fatal("sound toggle not saved")
	}
}

func TestSettingsFormShowsPendingConfig(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t, timer.WithReconfigurePolicy(timer.ReconfigureDefer))
	c.Start()
	m := newSettingsModel(s, c)
	m, _ = m.showForm()
	*m.focusMin = "30"
	m.saveSettings()

	m, _ = m.showForm()
	if *m.focusMin != "30" {
		t.Fatalf("form should show the deferred focus duration, got %s", *m.focusMin)
	}

	m.saveSettings()
	pending, ok := c.PendingConfig()
	if !ok || pending.FocusSeconds != 1800 {
		t.Fatalf("pending config lost: %+v %v", pending, ok)
	}
	if c.Snapshot().RemainingSeconds != 1500 {
		t.Fatal("countdown must keep its original length")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"25", 1500, true},
		{" 5 ", 300, true},
		{"1:30", 90, true},
		{"0:45", 45, true},
		{"0:00", 0, false},
		{"1:5", 0, false},
		{"1:60", 0, false},
		{"x:10", 0, false},
		{"0", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := parseDuration(store.KeyFocusDuration, tt.in)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Errorf("parseDuration(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
			continue
		}
		if !errors.Is(err, timer.ErrInvalidConfiguration) {
			t.Errorf("parseDuration(%q) error = %v, want ErrInvalidConfiguration", tt.in, err)
		}
	}

	for _, secs := range []int{60, 90, 1500, 3661} {
		got, err := parseDuration("focus", formatDuration(secs))
		if err != nil || got != secs {
			t.Errorf("round trip of %d gave %d, %v", secs, got, err)
		}
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{store.KeyFocusDuration, "1500", "25 min"},
		{store.KeyShortBreakDuration, "90", "01:30"},
		{store.KeyLongBreakInterval, "4", "4"},
		{store.KeyAutoAdvance, "true", "true"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.val); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

func TestSettingsViewHidesCurrentTask(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s, newTestController(t))
	m.setSize(100, 40)
	m, _ = m.update(m.refresh()())

	out := m.view()
	if !strings.Contains(out, store.KeyFocusDuration) {
		t.Fatal("settings view should list timer settings")
	}
	if strings.Contains(out, "current_task") {
		t.Fatal("current_task is internal and should be hidden")
	}
}

// ============================================================
// Reports view
// ============================================================

func TestReportsDateRange(t *testing.T) {
	s := newTestStore(t)
	r := newReportsModel(s)
	r.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	from, to := r.dateRange()
	if !from.Equal(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range %v - %v", from, to)
	}

	r, _ = r.update(keyPress("left"))
	if r.offset != 1 {
		t.Fatal("left should page back")
	}
	from, _ = r.dateRange()
	if !from.Equal(time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected paged start %v", from)
	}

	r, _ = r.update(keyPress("right"))
	r, _ = r.update(keyPress("right"))
	if r.offset != 0 {
		t.Fatal("right should not page into the future")
	}
}

func TestReportsRefreshAggregatesFocus(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	s.RecordSession(nil, "focus", 1500, now.Add(-time.Hour))
	s.RecordSession(nil, "focus", 1500, now.AddDate(0, 0, -1))
	s.RecordSession(nil, "short_break", 300, now.Add(-30*time.Minute))
	s.RecordSession(nil, "focus", 1500, now.AddDate(0, 0, -20))

	r := newReportsModel(s)
	r.now = func() time.Time { return now }
	r.setSize(100, 40)

	msg, ok := r.refresh()().(reportsDataMsg)
	if !ok {
		t.Fatal("refresh should return reportsDataMsg")
	}
	if msg.sessions != 2 || msg.totalSeconds != 3000 {
		t.Fatalf("expected 2 sessions / 3000s, got %d / %d", msg.sessions, msg.totalSeconds)
	}
	if len(msg.days) != 2 {
		t.Fatalf("expected 2 days with focus, got %d", len(msg.days))
	}

	r, _ = r.update(msg)
	out := r.view()
	if !strings.Contains(out, "2026-03-10") || !strings.Contains(out, "0.8h") {
		t.Fatalf("report view missing data:\n%s", out)
	}
}

// ============================================================
// App
// ============================================================

func newTestApp(t *testing.T) (App, *store.Store, *timer.Controller) {
	t.Helper()
	s := newTestStore(t)
	c := newTestController(t)
	app := NewApp(s, c, nil)
	app.width = 120
	app.height = 40
	return app, s, c
}

func TestNewApp(t *testing.T) {
	app, _, _ := newTestApp(t)

	if app.activeView != viewTimer {
		t.Fatal("default view should be timer")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("help and export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, newTestController(t), nil)
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppViewStates(t *testing.T) {
	app, _, _ := newTestApp(t)
	for _, v := range []viewState{viewTimer, viewTasks, viewReports, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _, _ := newTestApp(t)
	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppFooterShowsTimerAndStatus(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.status = "test status"

	footer := app.renderFooter()
	if !strings.Contains(footer, "test status") || !strings.Contains(footer, "25:00") {
		t.Fatalf("footer missing status or clock:\n%s", footer)
	}
}

func TestAppTabKeys(t *testing.T) {
	app, _, _ := newTestApp(t)

	m, _ := app.Update(keyPress("3"))
	app = m.(App)
	if app.activeView != viewReports {
		t.Fatal("3 should open reports")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewSettings {
		t.Fatal("tab should advance to settings")
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewTimer {
		t.Fatal("tab should wrap to timer")
	}
}

func TestAppTickDrivesController(t *testing.T) {
	app, _, c := newTestApp(t)
	c.Start()

	m, cmd := app.Update(tickMsg(time.Now()))
	app = m.(App)
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if c.Snapshot().RemainingSeconds != 1499 {
		t.Fatalf("tick should advance the controller, remaining %d", c.Snapshot().RemainingSeconds)
	}

	c.Pause()
	app.Update(tickMsg(time.Now()))
	if c.Snapshot().RemainingSeconds != 1499 {
		t.Fatal("ticks while paused must not change the countdown")
	}
}

func TestAppSessionDoneFromTracker(t *testing.T) {
	s := newTestStore(t)
	c := newTestController(t)
	task, _ := s.CreateTask("Write", "", 4)
	s.SetCurrentTask(task.ID)

	results, handler := ResultChannel(4)
	tracker.New(s, nil, tracker.WithResultHandler(handler)).Attach(c)
	app := NewApp(s, c, results)
	app.width, app.height = 120, 40

	c.Skip()

	msg, ok := waitForResult(results)().(sessionDoneMsg)
	if !ok {
		t.Fatal("expected sessionDoneMsg")
	}
	m, cmd := app.Update(msg)
	app = m.(App)
	if cmd == nil {
		t.Fatal("session done should keep listening and refresh")
	}
	if !strings.Contains(app.status, "Focus complete") || !strings.Contains(app.status, "Short Break") {
		t.Fatalf("unexpected status %q", app.status)
	}
	if app.timer.current == nil || app.timer.current.ActPomodoros != 1 {
		t.Fatal("timer view should show the updated task")
	}
}

func TestResultChannelNeverBlocks(t *testing.T) {
	ch, handler := ResultChannel(1)
	handler(tracker.Result{})
	handler(tracker.Result{})
	if len(ch) != 1 {
		t.Fatalf("expected 1 buffered result, got %d", len(ch))
	}
}

func TestWaitForResultNilChannel(t *testing.T) {
	if waitForResult(nil) != nil {
		t.Fatal("nil channel should produce no command")
	}
}

func TestAppExportKeyDependsOnView(t *testing.T) {
	app, _, _ := newTestApp(t)

	m, _ := app.Update(keyPress("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker on the timer view")
	}
	m, _ = app.Update(keyPress("esc"))
	app = m.(App)
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}

	app.activeView = viewTasks
	m, _ = app.Update(keyPress("e"))
	app = m.(App)
	if app.exportPicking {
		t.Fatal("e edits on the tasks view")
	}
}

func TestAppExportWritesFiles(t *testing.T) {
	app, s, _ := newTestApp(t)
	app.exportDir = t.TempDir()
	s.RecordSession(nil, "focus", 1500, time.Now())

	for format := range exportFormats {
		msg, ok := app.doExport(format)().(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: expected exportDoneMsg", format)
		}
		if _, err := os.Stat(msg.path); err != nil {
			t.Fatalf("export file missing: %v", err)
		}
	}
}

func TestDescribeResult(t *testing.T) {
	r := tracker.Result{
		Event:    timer.Event{CompletedMode: timer.Focus, NextMode: timer.LongBreak, CompletedFocusSessions: 4},
		Task:     &store.Task{Title: "Next"},
		Switched: true,
	}
	got := describeResult(r)
	if !strings.Contains(got, "Long Break") || !strings.Contains(got, "now on Next") {
		t.Fatalf("unexpected description %q", got)
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test: they render something)
// ============================================================

func TestStylesRender(t *testing.T) {
	for _, m := range timer.Modes {
		if modeStyle(m).Render("test") == "" {
			t.Fatalf("mode style %v rendered empty", m)
		}
	}
	for name, st := range map[string]func() string{
		"activeTab":   func() string { return activeTabStyle.Render("test") },
		"panel":       func() string { return panelStyle.Render("test") },
		"activePanel": func() string { return activePanelStyle.Render("test") },
		"timerPaused": func() string { return timerPausedStyle.Render("test") },
		"error":       func() string { return errorStyle.Render("test") },
	} {
		if st() == "" {
			t.Fatalf("style %q rendered empty", name)
		}
	}
}
