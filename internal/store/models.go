package store

import "time"

type Task struct {
	ID           int64
	Title        string
	Note         string
	EstPomodoros int
	ActPomodoros int
	Done         bool
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is one completed focus or break interval.
type Session struct {
	ID          int64
	TaskID      *int64
	Mode        string // focus, short_break, long_break
	Duration    int64  // seconds
	CompletedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter sessions in queries.
type SessionFilter struct {
	TaskID *int64
	Mode   string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DailyFocus is the focus time completed on one day.
type DailyFocus struct {
	Date         string
	Sessions     int
	TotalSeconds int64
}
