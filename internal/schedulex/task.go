package schedulex

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by Start when the task is active.
var ErrAlreadyRunning = errors.New("task already running")

// Task runs fn once immediately and then on every tick of a fixed interval
// until Stop is called or the context is cancelled. A tick either completes
// or errors inside fn; Stop only prevents future ticks.
type Task struct {
	clock    Clock
	interval time.Duration
	fn       func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewTask builds a task; it does not start it. A nil clock defaults to the
// system clock.
func NewTask(clock Clock, interval time.Duration, fn func(ctx context.Context)) *Task {
	if clock == nil {
		clock = SystemClock()
	}
	return &Task{clock: clock, interval: interval, fn: fn}
}

// Start fires fn immediately, then schedules it every interval. It returns
// ErrAlreadyRunning if the task is active.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.running = true

	go t.loop(ctx)
	return nil
}

func (t *Task) loop(ctx context.Context) {
	defer close(t.done)

	t.fn(ctx)

	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			t.fn(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels future ticks and waits for the loop to exit. A tick already
// in progress is allowed to finish. Stop is safe to call more than once.
func (t *Task) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the task is currently scheduled.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
