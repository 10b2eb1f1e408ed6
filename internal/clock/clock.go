package clock

import (
	"sync"
	"time"
)

// Clock supplies the reference instant for every date-dependent view.
type Clock interface {
	Now() time.Time
}

type System struct {
	loc *time.Location
}

// NewSystem returns a wall clock reporting times in loc.
func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.Local
	}
	return System{loc: loc}
}

func (s System) Now() time.Time {
	return time.Now().In(s.loc)
}

// Fixed is a settable clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
