package data

import (
	"sync"
	"time"
)

// TimeProvider is the clock used by repositories and services when stamping rows.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the wall clock in UTC.
type RealTimeProvider struct{}

func (*RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// FixedTimeProvider returns a settable instant. Tests advance it with AddTime.
type FixedTimeProvider struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider stopped at t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{now: t}
}

func (f *FixedTimeProvider) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// AddTime moves the clock forward by d.
func (f *FixedTimeProvider) AddTime(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
