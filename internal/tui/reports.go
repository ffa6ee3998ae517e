package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomo/internal/store"
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	days         []store.DailyFocus
	sessions     int
	totalSeconds int64
	offset       int // 7-day blocks back from today (0 = current)
	now          func() time.Time

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		now:   time.Now,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	days         []store.DailyFocus
	sessions     int
	totalSeconds int64
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		days, err := r.store.GetDailyFocus(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load report: %v", err), isError: true}
		}
		n, secs, err := r.store.GetFocusStats(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load report: %v", err), isError: true}
		}
		return reportsDataMsg{days: days, sessions: n, totalSeconds: secs}
	}
}

// dateRange is the 7-day window ending today, shifted back by offset weeks.
func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*r.offset)
	return end.AddDate(0, 0, -7), end
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.days = msg.days
		r.sessions = msg.sessions
		r.totalSeconds = msg.totalSeconds
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[string]store.DailyFocus, len(r.days))
	for _, d := range r.days {
		byDate[d.Date] = d
	}

	from, to := r.dateRange()
	barStyle := lipgloss.NewStyle().Foreground(colorAccent)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		minutes := float64(byDate[d.Format("2006-01-02")].TotalSeconds) / 60
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{{
				Name:  "focus",
				Value: minutes,
				Style: barStyle,
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Focus minutes per day"), "  ", dateLabel,
	)

	totals := fmt.Sprintf("  %s %s   %s %s",
		subtitleStyle.Render("Sessions"), highlightStyle.Render(fmt.Sprintf("%d", r.sessions)),
		subtitleStyle.Render("Focused"), highlightStyle.Render(formatHours(r.totalSeconds)),
	)

	nav := mutedStyle.Render("  ←/h: older  →: newer")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", totals, "", r.renderTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderTable(w int) string {
	if len(r.days) == 0 {
		return mutedStyle.Render("  No focus sessions in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s", "Date", "Sessions", "Focused")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 34))))
	for _, d := range r.days {
		rows = append(rows, fmt.Sprintf("  %-12s %10d %10s", d.Date, d.Sessions, formatSeconds(d.TotalSeconds)))
	}
	return strings.Join(rows, "\n")
}
