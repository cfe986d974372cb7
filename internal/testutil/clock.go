package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic wall clock for tests.
//
// Every call to Now returns the current instant and then advances it by a fixed
// step, so successive runs get strictly increasing timestamps without sleeping.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// DefaultStart is the first instant returned by a clock from NewStepClock.
var DefaultStart = time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

// NewStepClock creates a clock starting at DefaultStart advancing one minute per call.
func NewStepClock() *StepClock {
	return NewStepClockAt(DefaultStart, time.Minute)
}

// NewStepClockAt creates a clock starting at start advancing step per call.
func NewStepClockAt(start time.Time, step time.Duration) *StepClock {
	return &StepClock{now: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}
