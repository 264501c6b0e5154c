package schedulex

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock for tests. Tickers created from it
// fire only when Advance moves the clock past their next deadline.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

type fakeTicker struct {
	clock    *FakeClock
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

// NewFakeClock returns a FakeClock frozen at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	ft := &fakeTicker{
		clock:    c,
		interval: d,
		next:     c.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, ft)
	return ft
}

// Advance moves the clock forward and delivers every tick that became due,
// in order. Delivery is non-blocking per ticker (a slow consumer coalesces
// ticks, like the real time.Ticker).
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.now.Add(d)
	for {
		earliest := time.Time{}
		var due *fakeTicker
		for _, ft := range c.tickers {
			if ft.stopped {
				continue
			}
			if !ft.next.After(target) && (due == nil || ft.next.Before(earliest)) {
				earliest = ft.next
				due = ft
			}
		}
		if due == nil {
			break
		}
		c.now = due.next
		due.next = due.next.Add(due.interval)
		select {
		case due.ch <- c.now:
		default:
		}
		// Let the consumer goroutine observe the tick before the next one.
		c.mu.Unlock()
		time.Sleep(time.Millisecond)
		c.mu.Lock()
	}
	c.now = target
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.clock.mu.Lock()
	defer f.clock.mu.Unlock()
	f.stopped = true
}
