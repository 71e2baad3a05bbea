package presentation

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) Timer

// AfterFunc calls f.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) Timer { return f(d, fn) }

// ClockScheduler schedules on the wall clock.
type ClockScheduler struct{}

// AfterFunc implements Scheduler with time.AfterFunc.
func (ClockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
