package testutil

import (
	"sync"
	"time"
)

// DefaultClockStart is the first reading of a StepClock built with start 0:
// 2023-11-14T22:13:20Z in nanoseconds since the Unix epoch.
const DefaultClockStart int64 = 1_700_000_000_000_000_000

// StepClock is a deterministic wall clock for tests.
//
// Each call to Now returns the current reading and then advances the clock
// by a fixed step, so a sequence of operations sees strictly increasing,
// reproducible timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start int64
	next  int64
	step  time.Duration
}

// NewStepClock creates a clock whose first reading is start nanoseconds since
// the epoch. A zero start uses DefaultClockStart; a non-positive step uses one
// second.
func NewStepClock(start int64, step time.Duration) *StepClock {
	if start == 0 {
		start = DefaultClockStart
	}
	if step <= 0 {
		step = time.Second
	}
	return &StepClock{start: start, next: start, step: step}
}

// Now returns the current reading and advances the clock by one step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Unix(0, c.next).UTC()
	c.next += int64(c.step)
	return t
}

// Peek returns the reading the next call to Now will return, without
// advancing.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Unix(0, c.next).UTC()
}

// Reset rewinds the clock to its start.
//
// Used for test reuse. After Reset(), Now returns the start reading again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = c.start
}
