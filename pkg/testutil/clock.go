package testutil

import (
	"sync"
	"time"

	"github.com/arthur-debert/modsync/pkg/coalesce"
)

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts at an arbitrary fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward. It does not fire timers; pair with
// ManualScheduler for that.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ManualScheduler collects scheduled callbacks and fires them only when
// the test says so. Sleep returns immediately.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
	Slept  []time.Duration
}

// ManualTimer is a callback registered with a ManualScheduler.
type ManualTimer struct {
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
	mu      sync.Mutex
}

// Stop prevents the callback from firing.
func (t *ManualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Fire runs the callback unless it was stopped or already fired.
func (t *ManualTimer) Fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) coalesce.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &ManualTimer{Delay: d, fn: f}
	s.timers = append(s.timers, timer)
	return timer
}

func (s *ManualScheduler) Sleep(d time.Duration) {
	s.mu.Lock()
	s.Slept = append(s.Slept, d)
	s.mu.Unlock()
}

// Timers returns every timer registered so far, fired or not.
func (s *ManualScheduler) Timers() []*ManualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ManualTimer(nil), s.timers...)
}

// FireAll fires all currently registered timers in registration order,
// including any registered by earlier callbacks in the same call.
func (s *ManualScheduler) FireAll() {
	for i := 0; ; i++ {
		s.mu.Lock()
		if i >= len(s.timers) {
			s.mu.Unlock()
			return
		}
		timer := s.timers[i]
		s.mu.Unlock()
		timer.Fire()
	}
}

// FireDelay fires every pending timer registered with exactly delay d.
func (s *ManualScheduler) FireDelay(d time.Duration) {
	for _, timer := range s.Timers() {
		if timer.Delay == d {
			timer.Fire()
		}
	}
}
