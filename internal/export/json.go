package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomo/internal/store"
)

type jsonExport struct {
	ExportedAt   string        `json:"exported_at"`
	Count        int           `json:"count"`
	FocusSeconds int64         `json:"focus_seconds"`
	Sessions     []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID          int64  `json:"id"`
	Mode        string `json:"mode"`
	TaskID      *int64 `json:"task_id,omitempty"`
	Task        string `json:"task,omitempty"`
	CompletedAt string `json:"completed_at"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

// ToJSON writes sessions to path as an indented document with a focus total.
func ToJSON(sessions []store.Session, tasks map[int64]*store.Task, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}

	for _, s := range sessions {
		if s.Mode == "focus" {
			export.FocusSeconds += s.Duration
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:          s.ID,
			Mode:        s.Mode,
			TaskID:      s.TaskID,
			Task:        taskTitle(s, tasks),
			CompletedAt: s.CompletedAt.Local().Format(time.RFC3339),
			DurationSec: s.Duration,
			Duration:    formatDuration(s.Duration),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
