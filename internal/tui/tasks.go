package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/store"
)

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks     []store.Task
	cursor    int
	currentID int64

	formActive bool
	form       *huh.Form
	formType   string // "add", "edit"
	editingID  int64

	// Form field pointers (survive value copies)
	formTitle *string
	formNote  *string
	formEst   *string
}

func newTasksModel(s *store.Store) tasksModel {
	title, note, est := "", "", "1"
	return tasksModel{
		store:     s,
		formTitle: &title,
		formNote:  &note,
		formEst:   &est,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks     []store.Task
	currentID int64
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.ListTasks(true)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load tasks: %v", err), isError: true}
		}
		var currentID int64
		if cur, _ := m.store.CurrentTask(); cur != nil {
			currentID = cur.ID
		}
		return tasksDataMsg{tasks: tasks, currentID: currentID}
	}
}

func (m tasksModel) selected() (store.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return store.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.currentID = msg.currentID
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Add):
		return m.showForm("add", store.Task{EstPomodoros: 1})
	case key.Matches(msg, keys.Edit):
		if t, ok := m.selected(); ok {
			return m.showForm("edit", t)
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok {
			return m, m.run(m.store.DeleteTask(t.ID), "Deleted "+t.Title)
		}
	case key.Matches(msg, keys.Enter):
		if t, ok := m.selected(); ok {
			if t.ID == m.currentID {
				return m, m.run(m.store.SetCurrentTask(0), "Current task cleared")
			}
			return m, m.run(m.store.SetCurrentTask(t.ID), "Working on "+t.Title)
		}
	case key.Matches(msg, keys.Done):
		if t, ok := m.selected(); ok {
			return m, m.run(m.store.SetTaskDone(t.ID, !t.Done), "")
		}
	case key.Matches(msg, keys.MoveUp):
		if t, ok := m.selected(); ok {
			err := m.store.MoveTask(t.ID, -1)
			if err == nil && m.cursor > 0 {
				m.cursor--
			}
			return m, m.run(err, "")
		}
	case key.Matches(msg, keys.MoveDown):
		if t, ok := m.selected(); ok {
			err := m.store.MoveTask(t.ID, 1)
			if err == nil && m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, m.run(err, "")
		}
	case key.Matches(msg, keys.Clear):
		n, err := m.store.ClearDoneTasks()
		return m, m.run(err, fmt.Sprintf("Cleared %d finished task(s)", n))
	}
	return m, nil
}

// run reports err or ok as a status and reloads the list and the timer's
// current task.
func (m tasksModel) run(err error, ok string) tea.Cmd {
	if err != nil {
		return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true} }
	}
	cmds := []tea.Cmd{m.refresh(), currentTaskCmd(m.store)}
	if ok != "" {
		cmds = append(cmds, func() tea.Msg { return statusMsg{text: ok} })
	}
	return tea.Batch(cmds...)
}

func currentTaskCmd(s *store.Store) tea.Cmd {
	return func() tea.Msg {
		task, _ := s.CurrentTask()
		return currentTaskMsg{task: task}
	}
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateEstimate(s string) error {
	_, err := store.ParsePositiveInt("estimate", s)
	return err
}

func (m tasksModel) showForm(kind string, t store.Task) (tasksModel, tea.Cmd) {
	*m.formTitle = t.Title
	*m.formNote = t.Note
	*m.formEst = strconv.Itoa(max(t.EstPomodoros, 1))
	m.formType = kind
	m.editingID = t.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).Validate(validateTitle),
			huh.NewInput().Title("Note").Value(m.formNote),
			huh.NewInput().Title("Estimated pomodoros").Value(m.formEst).Validate(validateEstimate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		return m, m.saveForm()
	}
	return m, cmd
}

func (m tasksModel) saveForm() tea.Cmd {
	title := strings.TrimSpace(*m.formTitle)
	if err := validateTitle(title); err != nil {
		return m.run(err, "")
	}
	est, err := store.ParsePositiveInt("estimate", *m.formEst)
	if err != nil {
		return m.run(err, "")
	}
	note := strings.TrimSpace(*m.formNote)

	if m.formType == "edit" {
		return m.run(m.store.UpdateTask(m.editingID, title, note, est), "Updated "+title)
	}
	_, err = m.store.CreateTask(title, note, est)
	return m.run(err, "Added "+title)
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.formType == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Tasks")
	if len(m.tasks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press a to add one."),
		))
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-36s %7s", "", "Title", "Pomos")))

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "[ ]"
		if t.Done {
			check = "[x]"
			if i != m.cursor {
				style = mutedStyle.Strikethrough(true)
			}
		}
		marker := " "
		if t.ID == m.currentID {
			marker = accentStyle.Render("▶")
		}
		row := style.Render(fmt.Sprintf("%s%s %-36s %3d/%-3d", cursor, check, truncate(t.Title, 36), t.ActPomodoros, t.EstPomodoros))
		rows = append(rows, row+" "+marker)
		if t.Note != "" && i == m.cursor {
			rows = append(rows, mutedStyle.Render("      "+t.Note))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  a: add  e: edit  d: delete  enter: current  x: done  K/J: move  c: clear done"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
