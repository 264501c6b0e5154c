package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/logging"
	"github.com/responderhq/fieldsync/internal/netx"
	"github.com/responderhq/fieldsync/internal/schedulex"
)

// ErrNotEligible is returned by Start when the signed-in identity does not
// hold the trainee capability.
var ErrNotEligible = fmt.Errorf("presence beacon requires the trainee role")

// heartbeater lets tests substitute the LAN client.
type heartbeater interface {
	SendHeartbeat(ctx context.Context, hb Heartbeat) error
}

// localAddr is a seam over netx.LocalIPv4 for tests.
type localAddr func() (string, error)

// Status is the beacon's last-attempt outcome, surfaced as a connectivity
// indicator. Heartbeat failures never stop the schedule.
type Status struct {
	Connected   bool
	LastAttempt time.Time
	LastError   error
}

// Beacon periodically announces the signed-in trainee's liveness to the LAN
// presence service: one heartbeat immediately on Start, then one per
// interval until Stop. Best effort, fire and forget.
type Beacon struct {
	client   heartbeater
	clock    schedulex.Clock
	interval time.Duration
	log      logging.Logger
	addrFn   localAddr

	mu     sync.Mutex
	task   *schedulex.Task
	status Status
	hb     Heartbeat
}

// NewBeacon builds a beacon. A nil clock uses the system clock, a zero
// interval uses HeartbeatInterval, a nil logger discards output.
func NewBeacon(client *Client, clock schedulex.Clock, interval time.Duration, log logging.Logger) *Beacon {
	return newBeacon(client, clock, interval, log, netx.LocalIPv4)
}

func newBeacon(client heartbeater, clock schedulex.Clock, interval time.Duration, log logging.Logger, addrFn localAddr) *Beacon {
	if clock == nil {
		clock = schedulex.SystemClock()
	}
	if interval <= 0 {
		interval = HeartbeatInterval
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Beacon{client: client, clock: clock, interval: interval, log: log, addrFn: addrFn}
}

// Start qualifies the network once, then begins heartbeating for identity.
// It fails if the identity is not a trainee or no qualifying local network
// address exists. The network is not re-verified mid-session; a changed
// address only shows up after a restart.
func (b *Beacon) Start(ctx context.Context, identity models.Identity) error {
	if !identity.IsTrainee() {
		return ErrNotEligible
	}

	ip, err := b.addrFn()
	if err != nil {
		return fmt.Errorf("qualifying network check: %w", err)
	}

	b.mu.Lock()
	if b.task != nil && b.task.Running() {
		b.mu.Unlock()
		return schedulex.ErrAlreadyRunning
	}
	b.hb = Heartbeat{
		UserID:    identity.ID,
		Name:      identity.Name,
		Role:      identity.Role,
		IPAddress: ip,
	}
	task := schedulex.NewTask(b.clock, b.interval, b.beat)
	b.task = task
	b.mu.Unlock()

	b.log.Info(ctx, "presence beacon started", "userId", identity.ID, "ip", ip, "interval", b.interval)
	return task.Start(ctx)
}

func (b *Beacon) beat(ctx context.Context) {
	b.mu.Lock()
	hb := b.hb
	b.mu.Unlock()

	err := b.client.SendHeartbeat(ctx, hb)

	b.mu.Lock()
	b.status = Status{
		Connected:   err == nil,
		LastAttempt: b.clock.Now(),
		LastError:   err,
	}
	b.mu.Unlock()

	if err != nil {
		// Status signal only; the next scheduled tick still fires.
		b.log.Warn(ctx, "heartbeat failed", "error", err)
		return
	}
	b.log.Debug(ctx, "heartbeat sent", "userId", hb.UserID)
}

// Stop cancels future heartbeats. No out-of-band retry happens between
// ticks, so a tick in progress simply finishes.
func (b *Beacon) Stop() {
	b.mu.Lock()
	task := b.task
	b.mu.Unlock()
	if task != nil {
		task.Stop()
	}
}

// Running reports whether the beacon is currently scheduled.
func (b *Beacon) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.task != nil && b.task.Running()
}

// Status returns the last heartbeat outcome.
func (b *Beacon) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}
