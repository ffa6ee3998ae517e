package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomo/internal/store"
)

var csvHeader = []string{"ID", "Mode", "Task", "Completed", "Duration (s)", "Duration"}

// ToCSV writes sessions to path, one row per completed interval.
func ToCSV(sessions []store.Session, tasks map[int64]*store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range sessions {
		row := []string{
			fmt.Sprintf("%d", s.ID),
			s.Mode,
			taskTitle(s, tasks),
			s.CompletedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", s.Duration),
			formatDuration(s.Duration),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// taskTitle is empty for sessions without a task and "Unknown" for tasks
// that no longer exist.
func taskTitle(s store.Session, tasks map[int64]*store.Task) string {
	if s.TaskID == nil {
		return ""
	}
	if t, ok := tasks[*s.TaskID]; ok {
		return t.Title
	}
	return "Unknown"
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
