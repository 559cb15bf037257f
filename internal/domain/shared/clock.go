package shared

import (
	"sort"
	"sync"
	"time"
)

// Clock is an abstraction for time operations, allowing time to be mocked in tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	// AfterFunc schedules f to run once after d has elapsed
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a pending AfterFunc callback
type Timer interface {
	// Stop prevents the callback from firing. Returns false if it already fired or was stopped.
	Stop() bool
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep blocks for the given duration
func (r *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// AfterFunc delegates to time.AfterFunc
func (r *RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// MockClock implements Clock with a controllable time for testing.
// Timers registered through AfterFunc fire synchronously from Advance once their deadline passes.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	timers      []*mockTimer
	nextID      int
}

type mockTimer struct {
	id       int
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
	clock    *MockClock
}

func (t *mockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentTime
}

// Sleep advances the mock clock without blocking (instant in tests)
func (m *MockClock) Sleep(d time.Duration) {
	m.Advance(d)
}

// AfterFunc registers a callback fired by Advance when the deadline is reached
func (m *MockClock) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &mockTimer{id: m.nextID, deadline: m.CurrentTime.Add(d), fn: f, clock: m}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the mock clock forward by the given duration, firing due timers in deadline order.
// Callbacks run without the clock lock held so they may register new timers.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.CurrentTime.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.CurrentTime = target
			m.mu.Unlock()
			return
		}
		if next.deadline.After(m.CurrentTime) {
			m.CurrentTime = next.deadline
		}
		next.fired = true
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDueLocked returns the earliest pending timer whose deadline is not after target
func (m *MockClock) nextDueLocked(target time.Time) *mockTimer {
	pending := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			pending = append(pending, t)
		}
	}
	m.timers = pending
	if len(pending) == 0 {
		return nil
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].deadline.Equal(pending[j].deadline) {
			return pending[i].id < pending[j].id
		}
		return pending[i].deadline.Before(pending[j].deadline)
	})
	if pending[0].deadline.After(target) {
		return nil
	}
	return pending[0]
}

// PendingTimers returns how many timers are armed and not yet fired
func (m *MockClock) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

// SetTime sets the mock clock to a specific time
func (m *MockClock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentTime = t
}

// NewMockClock creates a MockClock starting at the given time
// If zero time is provided, starts at current time
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}
