package timer

import (
	"sync"
	"time"
)

// Scheduler delivers a callback once per (real or simulated) second until the
// returned stop function is called.
type Scheduler interface {
	OnEverySecond(fn func()) (stop func())
}

// Bind drives c.Tick from s.
func Bind(c *Controller, s Scheduler) (stop func()) {
	return s.OnEverySecond(c.Tick)
}

// TickerScheduler is a Scheduler backed by time.Ticker. Each registration runs
// its own goroutine.
type TickerScheduler struct {
	interval time.Duration
}

func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickerScheduler{interval: interval}
}

func (s *TickerScheduler) OnEverySecond(fn func()) (stop func()) {
	ticker := time.NewTicker(s.interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// ManualScheduler only fires when Advance is called. Hosts that already own a
// tick source, such as the TUI's one-second tea.Tick, bind the controller to
// it and call Advance(1) per tick.
type ManualScheduler struct {
	mu        sync.Mutex
	callbacks map[int]func()
	nextID    int
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{callbacks: make(map[int]func())}
}

func (s *ManualScheduler) OnEverySecond(fn func()) (stop func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.callbacks[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.callbacks, id)
		s.mu.Unlock()
	}
}

// Advance simulates n elapsed seconds.
func (s *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		s.mu.Lock()
		fns := make([]func(), 0, len(s.callbacks))
		for id := 0; id < s.nextID; id++ {
			if fn, ok := s.callbacks[id]; ok {
				fns = append(fns, fn)
			}
		}
		s.mu.Unlock()

		for _, fn := range fns {
			fn()
		}
	}
}
