// Package tracker connects timer completions to the task list: it records
// every completed interval and moves the current task along.
package tracker

import (
	"log/slog"
	"time"

	"github.com/sadopc/pomo/internal/store"
	"github.com/sadopc/pomo/internal/timer"
)

// Store is the part of *store.Store the tracker needs.
type Store interface {
	CurrentTask() (*store.Task, error)
	SetCurrentTask(id int64) error
	IncrementTaskPomodoros(id int64) (*store.Task, error)
	SetTaskDone(id int64, done bool) error
	NextOpenTask(afterID int64) (*store.Task, error)
	RecordSession(taskID *int64, mode string, duration int64, completedAt time.Time) (*store.Session, error)
	GetBool(key string, fallback bool) bool
}

// Result describes what the tracker did for one event.
type Result struct {
	Event       timer.Event
	Session     *store.Session
	Task        *store.Task // current task after the event, if any
	TaskChecked bool        // the task reached its estimate and was marked done
	Switched    bool        // the current task moved to the next open task
}

type Tracker struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	onResult func(Result)
}

// Option configures a Tracker.
type Option func(*Tracker)

// withClock overrides time.Now for recorded timestamps.
func withClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithResultHandler is called after each event has been handled.
func WithResultHandler(fn func(Result)) Option {
	return func(t *Tracker) { t.onResult = fn }
}

func New(s Store, logger *slog.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &Tracker{store: s, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Attach subscribes the tracker to c. The configured duration of the completed
// mode is read from c at event time.
func (t *Tracker) Attach(c *timer.Controller) (detach func()) {
	return c.OnSessionCompleted(func(ev timer.Event) {
		t.Handle(ev, c.Config().Seconds(ev.CompletedMode))
	})
}

// Handle processes one completion. Failures are logged and never returned:
// persistence problems must not disturb the timer.
func (t *Tracker) Handle(ev timer.Event, durationSeconds int) Result {
	res := Result{Event: ev}

	current, err := t.store.CurrentTask()
	if err != nil {
		t.logger.Error("load current task", "error", err)
	}

	var taskID *int64
	if ev.CompletedMode == timer.Focus && current != nil {
		id := current.ID
		taskID = &id
	}

	sess, err := t.store.RecordSession(taskID, ev.CompletedMode.String(), int64(durationSeconds), t.now())
	if err != nil {
		t.logger.Error("record session", "mode", ev.CompletedMode.String(), "error", err)
	}
	res.Session = sess
	res.Task = current

	if ev.CompletedMode.IsBreak() || current == nil {
		t.finish(res)
		return res
	}

	updated, err := t.store.IncrementTaskPomodoros(current.ID)
	if err != nil {
		t.logger.Error("increment task pomodoros", "task", current.ID, "error", err)
		t.finish(res)
		return res
	}
	res.Task = updated

	if t.store.GetBool(store.KeyAutoCheckTasks, false) && !updated.Done && updated.ActPomodoros >= updated.EstPomodoros {
		if err := t.store.SetTaskDone(updated.ID, true); err != nil {
			t.logger.Error("check task", "task", updated.ID, "error", err)
		} else {
			updated.Done = true
			res.TaskChecked = true
		}
	}

	if updated.Done && t.store.GetBool(store.KeyAutoSwitchTasks, true) {
		next, err := t.store.NextOpenTask(updated.ID)
		if err != nil {
			t.logger.Error("find next task", "after", updated.ID, "error", err)
		} else if next != nil {
			if err := t.store.SetCurrentTask(next.ID); err != nil {
				t.logger.Error("switch task", "task", next.ID, "error", err)
			} else {
				res.Task = next
				res.Switched = true
			}
		}
	}

	t.finish(res)
	return res
}

func (t *Tracker) finish(res Result) {
	attrs := []any{
		"completed", res.Event.CompletedMode.String(),
		"next", res.Event.NextMode.String(),
		"focus_sessions", res.Event.CompletedFocusSessions,
	}
	if res.Task != nil {
		attrs = append(attrs, "task", res.Task.ID)
	}
	if res.Switched {
		attrs = append(attrs, "switched", true)
	}
	t.logger.Debug("session tracked", attrs...)

	if t.onResult != nil {
		t.onResult(res)
	}
}
