package clock

import (
	"sync"
	"time"
)

// Clock provides the current instant to schedule evaluation and the session
// lifecycle. Injecting it keeps the time-domain logic deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a settable clock for tests. Safe for concurrent use.
type Fixed struct {
	mu      sync.Mutex
	current time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

// Set pins the fixed clock to an exact instant.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
}
