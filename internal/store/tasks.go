package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const taskColumns = `id, title, note, est_pomodoros, act_pomodoros, done, position, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	t := &Task{}
	var createdAt, updatedAt string
	var done int
	if err := row.Scan(&t.ID, &t.Title, &t.Note, &t.EstPomodoros, &t.ActPomodoros, &done, &t.Position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Done = done == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

// CreateTask appends a task at the end of the list.
func (s *Store) CreateTask(title, note string, estPomodoros int) (*Task, error) {
	if estPomodoros < 1 {
		estPomodoros = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, note, est_pomodoros, position, created_at, updated_at)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks), ?, ?)`,
		title, note, estPomodoros, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasks returns tasks in list order.
func (s *Store) ListTasks(includeDone bool) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeDone {
		query += ` WHERE done = 0`
	}
	query += ` ORDER BY position, id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(id int64, title, note string, estPomodoros int) error {
	if estPomodoros < 1 {
		estPomodoros = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, note = ?, est_pomodoros = ?, updated_at = ? WHERE id = ?`,
		title, note, estPomodoros, now, id,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return requireAffected(res, "update task", id)
}

func (s *Store) SetTaskDone(id int64, done bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE tasks SET done = ?, updated_at = ? WHERE id = ?`, boolToInt(done), now, id,
	)
	if err != nil {
		return fmt.Errorf("set task %d done: %w", id, err)
	}
	return requireAffected(res, "set task done", id)
}

// IncrementTaskPomodoros adds one completed focus session to the task and
// returns the updated row.
func (s *Store) IncrementTaskPomodoros(id int64) (*Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE tasks SET act_pomodoros = act_pomodoros + 1, updated_at = ? WHERE id = ?`, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("increment task %d: %w", id, err)
	}
	if err := requireAffected(res, "increment task", id); err != nil {
		return nil, err
	}
	return s.GetTask(id)
}

// DeleteTask removes the task. Recorded sessions keep their history with a
// NULL task id; a deleted current task is cleared.
func (s *Store) DeleteTask(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete task: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if err := requireAffected(res, "delete task", id); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`UPDATE settings SET value = '' WHERE key = 'current_task' AND value = ?`, strconv.FormatInt(id, 10),
	); err != nil {
		return fmt.Errorf("clear current task: %w", err)
	}
	return tx.Commit()
}

// ClearDoneTasks deletes every finished task and returns how many were removed.
func (s *Store) ClearDoneTasks() (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin clear done: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE settings SET value = '' WHERE key = 'current_task'
		 AND value IN (SELECT CAST(id AS TEXT) FROM tasks WHERE done = 1)`,
	); err != nil {
		return 0, fmt.Errorf("clear current task: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM tasks WHERE done = 1`)
	if err != nil {
		return 0, fmt.Errorf("clear done tasks: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

// MoveTask swaps the task with its neighbour delta steps away in list order.
// Moving past either end is a no-op.
func (s *Store) MoveTask(id int64, delta int) error {
	if delta == 0 {
		return nil
	}
	tasks, err := s.ListTasks(true)
	if err != nil {
		return err
	}

	from := -1
	for i, t := range tasks {
		if t.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("move task %d: %w", id, ErrNotFound)
	}
	to := from + delta
	if to < 0 || to >= len(tasks) {
		return nil
	}

	moved := tasks[from]
	tasks = append(tasks[:from], tasks[from+1:]...)
	tasks = append(tasks[:to], append([]Task{moved}, tasks[to:]...)...)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin move task: %w", err)
	}
	defer tx.Rollback()
	for i, t := range tasks {
		if _, err := tx.Exec(`UPDATE tasks SET position = ? WHERE id = ?`, i+1, t.ID); err != nil {
			return fmt.Errorf("reposition task %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// CurrentTask returns the task focus sessions are attributed to, or nil.
func (s *Store) CurrentTask() (*Task, error) {
	v, err := s.GetSetting("current_task")
	if err != nil || v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, nil
	}
	t, err := s.GetTask(id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return t, err
}

// SetCurrentTask selects the current task. id 0 clears the selection.
func (s *Store) SetCurrentTask(id int64) error {
	if id == 0 {
		return s.SetSetting("current_task", "")
	}
	if _, err := s.GetTask(id); err != nil {
		return err
	}
	return s.SetSetting("current_task", strconv.FormatInt(id, 10))
}

// NextOpenTask returns the first unfinished task after afterID in list order,
// wrapping to the start of the list. It returns nil when nothing is open.
func (s *Store) NextOpenTask(afterID int64) (*Task, error) {
	tasks, err := s.ListTasks(false)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	start := 0
	all, err := s.ListTasks(true)
	if err != nil {
		return nil, err
	}
	afterPos := -1
	for _, t := range all {
		if t.ID == afterID {
			afterPos = t.Position
			break
		}
	}
	if afterPos >= 0 {
		for i, t := range tasks {
			if t.Position > afterPos {
				start = i
				break
			}
			start = len(tasks)
		}
	}
	for i := 0; i < len(tasks); i++ {
		t := tasks[(start+i)%len(tasks)]
		if t.ID != afterID {
			return &t, nil
		}
	}
	return nil, nil
}

func requireAffected(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
