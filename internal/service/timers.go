package service

import (
	"sync"
	"time"
)

// Clock abstracts wall time so delayed transitions can be driven by a
// virtual clock in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// realClock implements Clock over the time package.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewRealClock returns a Clock backed by the time package.
func NewRealClock() Clock {
	return realClock{}
}

// TimerRegistry tracks the delayed transition scheduled per checklist row.
// At most one timer exists per row id: scheduling replaces any previous
// timer, and an explicit cancel (operator reset) guarantees a stale timer
// can never fire against a row that has since changed state.
type TimerRegistry struct {
	mu     sync.Mutex
	clock  Clock
	timers map[string]Timer
}

// NewTimerRegistry creates a registry using the given clock.
func NewTimerRegistry(clock Clock) *TimerRegistry {
	return &TimerRegistry{
		clock:  clock,
		timers: make(map[string]Timer),
	}
}

// Schedule arms fn to run after d for the given row, replacing any timer
// already armed for that row.
func (r *TimerRegistry) Schedule(rowID string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.timers[rowID]; ok {
		old.Stop()
	}
	r.timers[rowID] = r.clock.AfterFunc(d, func() {
		r.mu.Lock()
		delete(r.timers, rowID)
		r.mu.Unlock()
		fn()
	})
}

// Cancel stops and removes the timer for the given row, if any.
func (r *TimerRegistry) Cancel(rowID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[rowID]; ok {
		t.Stop()
		delete(r.timers, rowID)
	}
}

// CancelAll stops every armed timer. Used on session reset and teardown.
func (r *TimerRegistry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

// Pending returns the number of armed timers.
func (r *TimerRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}
