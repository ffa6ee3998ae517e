// Package timer implements the Pomodoro session controller: a countdown that
// cycles through focus and break modes and reports each completion.
//
// The controller performs no I/O and never blocks. Time only moves when Tick
// is called, normally once per second by a Scheduler or by the host UI.
package timer

import (
	"fmt"
	"log/slog"
	"sync"
)

// State is the controller's run-time state. Values returned by Snapshot are
// copies.
type State struct {
	Mode                   Mode
	RemainingSeconds       int
	Running                bool
	CompletedFocusSessions int
}

// Event is emitted each time a mode completes, either naturally or via Skip.
type Event struct {
	CompletedMode          Mode
	NextMode               Mode
	CompletedFocusSessions int
}

// ReconfigurePolicy decides what Configure does to an active countdown.
type ReconfigurePolicy int

const (
	// ReconfigureReset applies a new configuration at once and resets the
	// current mode, whether or not the countdown is running.
	ReconfigureReset ReconfigurePolicy = iota
	// ReconfigureDefer leaves a running countdown alone; the configuration is
	// picked up at the next reset, mode switch or completion.
	ReconfigureDefer
)

func (p ReconfigurePolicy) String() string {
	if p == ReconfigureDefer {
		return "defer"
	}
	return "reset"
}

// Option customises a Controller at construction.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

func WithReconfigurePolicy(p ReconfigurePolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

type listener struct {
	id int
	fn func(Event)
}

// Controller owns a single State and advances it under a Config. All methods
// are safe for concurrent use; they are serialized by one mutex.
type Controller struct {
	mu      sync.Mutex
	config  Config
	pending *Config
	policy  ReconfigurePolicy
	state   State

	notifier  Notifier
	logger    *slog.Logger
	listeners []listener
	nextID    int
}

// New returns a controller in Focus mode with a full, paused countdown.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		config: cfg,
		logger: slog.New(slog.DiscardHandler),
		state: State{
			Mode:             Focus,
			RemainingSeconds: cfg.FocusSeconds,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Configure replaces the active configuration. An invalid cfg is rejected with
// an error wrapping ErrInvalidConfiguration and leaves the controller untouched.
func (c *Controller) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.policy == ReconfigureDefer && c.state.Running {
		next := cfg
		c.pending = &next
		c.logger.Debug("configuration deferred", "mode", c.state.Mode.String())
		return nil
	}

	c.config = cfg
	c.pending = nil
	c.resetLocked()
	c.logger.Debug("configuration applied",
		"focus", cfg.FocusSeconds,
		"short_break", cfg.ShortBreakSeconds,
		"long_break", cfg.LongBreakSeconds,
		"long_break_interval", cfg.LongBreakInterval,
		"auto_advance", cfg.AutoAdvance,
	)
	return nil
}

// Start resumes the countdown. No-op if already running.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Running = true
}

// Pause halts the countdown, keeping the remaining time. No-op if paused.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Running = false
}

// Toggle starts a paused countdown or pauses a running one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Running = !c.state.Running
}

// Reset stops the countdown and refills it for the current mode.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyPendingLocked()
	c.resetLocked()
}

// SwitchMode is a manual override. It is not a completion: the focus counter
// is left alone and no Event is emitted.
func (c *Controller) SwitchMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyPendingLocked()
	c.state.Mode = mode
	c.resetLocked()
	return nil
}

// Skip completes the current mode immediately, exactly as if the countdown had
// reached zero.
func (c *Controller) Skip() {
	c.mu.Lock()
	ev := c.completeLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.dispatch(ev, listeners)
}

// Tick advances a running countdown by one second and completes the mode when
// it reaches zero. Ticks while paused are ignored.
func (c *Controller) Tick() {
	c.mu.Lock()
	if !c.state.Running {
		c.mu.Unlock()
		return
	}
	if c.state.RemainingSeconds > 0 {
		c.state.RemainingSeconds--
	}
	if c.state.RemainingSeconds > 0 {
		c.mu.Unlock()
		return
	}
	ev := c.completeLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.dispatch(ev, listeners)
}

// OnSessionCompleted registers fn to receive every Event, synchronously and in
// registration order.
func (c *Controller) OnSessionCompleted(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Config returns the active configuration. A deferred configuration is not
// reported until it has been applied.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// PendingConfig reports a configuration waiting for the running countdown to
// end.
func (c *Controller) PendingConfig() (Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Config{}, false
	}
	return *c.pending, true
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Mode
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Running
}

// Progress is the elapsed fraction of the current mode, from 0 to 1.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.config.Seconds(c.state.Mode)
	if total <= 0 {
		return 1
	}
	p := float64(total-c.state.RemainingSeconds) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (c *Controller) resetLocked() {
	c.state.RemainingSeconds = c.config.Seconds(c.state.Mode)
	c.state.Running = false
}

func (c *Controller) applyPendingLocked() {
	if c.pending == nil {
		return
	}
	c.config = *c.pending
	c.pending = nil
}

// completeLocked runs the transition for the current mode and returns the
// event describing it.
func (c *Controller) completeLocked() Event {
	c.applyPendingLocked()

	completed := c.state.Mode
	next := Focus
	if completed == Focus {
		c.state.CompletedFocusSessions++
		if c.state.CompletedFocusSessions%c.config.LongBreakInterval == 0 {
			next = LongBreak
		} else {
			next = ShortBreak
		}
	}

	c.state.Mode = next
	c.state.RemainingSeconds = c.config.Seconds(next)
	c.state.Running = c.config.AutoAdvance

	c.logger.Info("session completed",
		"completed", completed.String(),
		"next", next.String(),
		"focus_sessions", c.state.CompletedFocusSessions,
		"auto_advance", c.config.AutoAdvance,
	)

	return Event{
		CompletedMode:          completed,
		NextMode:               next,
		CompletedFocusSessions: c.state.CompletedFocusSessions,
	}
}

func (c *Controller) listenersLocked() []listener {
	return append([]listener(nil), c.listeners...)
}

// dispatch runs outside the lock so listeners may call back into the
// controller.
func (c *Controller) dispatch(ev Event, listeners []listener) {
	for _, l := range listeners {
		l.fn(ev)
	}
	c.notify(ev.CompletedMode)
}

func (c *Controller) notify(mode Mode) {
	if c.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("notifier panic ignored", "error", r)
		}
	}()
	if err := c.notifier.Notify(SessionEnded, mode); err != nil {
		c.logger.Debug("notification failed", "mode", mode.String(), "error", err)
	}
}
