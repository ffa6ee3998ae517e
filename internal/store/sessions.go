package store

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordSession stores a completed interval. taskID may be nil.
func (s *Store) RecordSession(taskID *int64, mode string, duration int64, completedAt time.Time) (*Session, error) {
	res, err := s.db.Exec(
		`INSERT INTO sessions (task_id, mode, duration, completed_at) VALUES (?, ?, ?, ?)`,
		taskID, mode, duration, completedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSession(id)
}

func (s *Store) GetSession(id int64) (*Session, error) {
	e := &Session{}
	var completedAt string
	var taskID sql.NullInt64

	err := s.db.QueryRow(
		`SELECT id, task_id, mode, duration, completed_at FROM sessions WHERE id = ?`, id,
	).Scan(&e.ID, &taskID, &e.Mode, &e.Duration, &completedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	if taskID.Valid {
		e.TaskID = &taskID.Int64
	}
	e.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
	return e, nil
}

func (s *Store) ListSessions(f SessionFilter) ([]Session, error) {
	query := `SELECT id, task_id, mode, duration, completed_at FROM sessions WHERE 1=1`
	var args []any

	if f.TaskID != nil {
		query += ` AND task_id = ?`
		args = append(args, *f.TaskID)
	}
	if f.Mode != "" {
		query += ` AND mode = ?`
		args = append(args, f.Mode)
	}
	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var e Session
		var completedAt string
		var taskID sql.NullInt64
		if err := rows.Scan(&e.ID, &taskID, &e.Mode, &e.Duration, &completedAt); err != nil {
			return nil, err
		}
		if taskID.Valid {
			e.TaskID = &taskID.Int64
		}
		e.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		sessions = append(sessions, e)
	}
	return sessions, rows.Err()
}

// GetDailyFocus aggregates completed focus sessions per UTC day in [from, to).
func (s *Store) GetDailyFocus(from, to time.Time) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT date(completed_at) AS day, COUNT(*), COALESCE(SUM(duration), 0)
		FROM sessions
		WHERE mode = 'focus'
		  AND completed_at >= ? AND completed_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	defer rows.Close()

	var days []DailyFocus
	for rows.Next() {
		var d DailyFocus
		if err := rows.Scan(&d.Date, &d.Sessions, &d.TotalSeconds); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetFocusStats counts completed focus sessions and their total seconds in
// [from, to).
func (s *Store) GetFocusStats(from, to time.Time) (completed int, totalSeconds int64, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration), 0)
		FROM sessions
		WHERE mode = 'focus'
		  AND completed_at >= ? AND completed_at < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&completed, &totalSeconds)
	return
}
