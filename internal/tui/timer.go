package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

// timerModel renders the controller and forwards timer keys to it. The
// controller owns all countdown state; this model only keeps what it shows
// alongside it.
type timerModel struct {
	store  *store.Store
	ctrl   *timer.Controller
	width  int
	height int

	current *store.Task
}

func newTimerModel(s *store.Store, c *timer.Controller) timerModel {
	return timerModel{store: s, ctrl: c}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		task, err := t.store.CurrentTask()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load current task: %v", err), isError: true}
		}
		return currentTaskMsg{task: task}
	}
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case currentTaskMsg:
		t.current = msg.task
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle):
			t.ctrl.Toggle()
		case key.Matches(msg, keys.Reset):
			t.ctrl.Reset()
		case key.Matches(msg, keys.Skip):
			t.ctrl.Skip()
		case key.Matches(msg, keys.Focus):
			return t, t.switchMode(timer.Focus)
		case key.Matches(msg, keys.ShortBreak):
			return t, t.switchMode(timer.ShortBreak)
		case key.Matches(msg, keys.LongBreak):
			return t, t.switchMode(timer.LongBreak)
		}
	}
	return t, nil
}

func (t timerModel) switchMode(m timer.Mode) tea.Cmd {
	if err := t.ctrl.SwitchMode(m); err != nil {
		return func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	return nil
}

func modeStyle(m timer.Mode) lipgloss.Style {
	switch m {
	case timer.ShortBreak:
		return successStyle
	case timer.LongBreak:
		return highlightStyle
	}
	return accentStyle
}

func (t timerModel) view() string {
	w := t.width - 4
	st := t.ctrl.Snapshot()
	style := modeStyle(st.Mode)

	var tabs []string
	for _, m := range timer.Modes {
		if m == st.Mode {
			tabs = append(tabs, activeTabStyle.Foreground(modeStyle(m).GetForeground()).Render(m.Label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(m.Label()))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	clock := style.Bold(true).Width(max(w-6, 10)).Align(lipgloss.Center).Render(formatClock(st.RemainingSeconds))

	var stateLabel string
	switch {
	case st.Running:
		stateLabel = style.Render("RUNNING")
	case t.ctrl.Progress() > 0:
		stateLabel = timerPausedStyle.Render("PAUSED")
	default:
		stateLabel = mutedStyle.Render("Press space to start")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		modeTabs,
		"",
		clock,
		stateLabel,
		"",
		t.renderProgress(st),
		"",
		t.renderCurrentTask(),
	)

	controls := mutedStyle.Render("space: start/pause  r: reset  n: skip  f/s/l: focus/short/long")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderProgress shows completed focus sessions toward the next long break.
func (t timerModel) renderProgress(st timer.State) string {
	interval := t.ctrl.Config().LongBreakInterval
	done := st.CompletedFocusSessions % interval
	if done == 0 && st.CompletedFocusSessions > 0 && st.Mode == timer.LongBreak {
		done = interval
	}

	var parts []string
	for i := 0; i < interval; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && st.Mode == timer.Focus && st.Running:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  #%d", st.CompletedFocusSessions))
	return strings.Join(parts, " ") + counter
}

func (t timerModel) renderCurrentTask() string {
	if t.current == nil {
		return mutedStyle.Render("No task selected. Pick one in Tasks (2).")
	}
	return fmt.Sprintf("%s %s %s",
		subtitleStyle.Render("Working on"),
		titleStyle.Render(t.current.Title),
		mutedStyle.Render(fmt.Sprintf("(%d/%d)", t.current.ActPomodoros, t.current.EstPomodoros)),
	)
}
