package engine

import (
	"context"
	"sync"
	"time"
)

// Clock is the wall time source the scheduler measures frames against
type Clock interface {
	Now() time.Time
}

// sleeper is implemented by clocks that control how the loop waits
type sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// SystemClock reads the monotonic wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// MockClock is a manually driven clock for tests
// Sleep advances it instead of blocking
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *MockClock) Sleep(_ context.Context, d time.Duration) {
	m.Advance(d)
}
