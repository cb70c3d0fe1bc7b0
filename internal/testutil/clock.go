package testutil

import (
	"sync"
	"time"

	"photocat/internal/catalog"
)

var _ catalog.Clock = (*StubClock)(nil)

// IndexBuildTime is the instant FixedClock reports. Photos indexed under a
// fixed clock carry it as their AddedAt.
var IndexBuildTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// StubClock is a catalog.Clock that only moves when told to, so tests can
// rebuild an index at a later instant. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock reading t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock reading IndexBuildTime.
func FixedClock() *StubClock {
	return NewStubClock(IndexBuildTime)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d; the next index build stamps the new time.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
