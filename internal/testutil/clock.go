package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/joseph-ayodele/contracts-tracker/internal/reminder"
)

var _ reminder.Clock = (*FakeClock)(nil)

// FakeClock is a manually advanced reminder.Clock. Callbacks run
// synchronously inside Advance, in fire-time order.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	stopped int
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

type fakeTimer struct {
	clock  *FakeClock
	at     time.Time
	f      func()
	active bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if !t.active {
		return false
	}
	t.active = false
	t.clock.stopped++
	return true
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) reminder.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f, active: true}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every active timer that came due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if t.active && !t.at.After(c.now) {
			t.active = false
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

// Active returns how many timers are armed and not stopped.
func (c *FakeClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.active {
			n++
		}
	}
	return n
}

// Stopped returns how many timers were cancelled before firing.
func (c *FakeClock) Stopped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
