package coalesce

import "time"

// Clock supplies the current time. Injectable so rename-window
// arithmetic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Timer is a cancellable scheduled callback. Stop reports whether the
// callback was prevented from firing; cancellation is cooperative, a
// callback already running is never interrupted.
type Timer interface {
	Stop() bool
}

// Scheduler schedules delayed callbacks and pauses. Injectable so tests
// fire timers by hand instead of waiting out real delays.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

func (systemScheduler) Sleep(d time.Duration) { time.Sleep(d) }

// SystemScheduler returns a scheduler backed by the runtime timers.
func SystemScheduler() Scheduler { return systemScheduler{} }
