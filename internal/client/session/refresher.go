package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/responderhq/fieldsync/internal/common"
	"github.com/responderhq/fieldsync/internal/logging"
)

// DefaultExchangeTimeout bounds a refresh exchange so a hung request cannot
// leave the in-flight flag blocking all waiters indefinitely.
const DefaultExchangeTimeout = 10 * time.Second

// Exchanger performs the network exchange of a refresh token for a new
// access token. Implemented by the cloud API client.
type Exchanger interface {
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (string, error)
}

type refreshResult struct {
	accessToken string
	err         error
}

// Refresher is the single-flight refresh coordinator. However many callers
// discover an expired access token at once, exactly one exchange goes out;
// the rest park on one-shot result channels and receive the same outcome.
type Refresher struct {
	store    *Store
	exchange Exchanger
	timeout  time.Duration
	log      logging.Logger

	mu       sync.Mutex
	inFlight bool
	waiters  []chan refreshResult
}

// NewRefresher builds a coordinator over the given store and exchanger.
// A nil logger discards output; a zero timeout uses DefaultExchangeTimeout.
func NewRefresher(store *Store, exchange Exchanger, timeout time.Duration, log logging.Logger) *Refresher {
	if log == nil {
		log = logging.Discard()
	}
	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}
	return &Refresher{store: store, exchange: exchange, timeout: timeout, log: log}
}

// Refresh returns a freshly issued access token. If an exchange is already
// in flight the caller waits for its outcome instead of starting another.
// On failure the store is cleared and every waiter receives the same error;
// the in-flight flag is always reset so a later call can try again.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.inFlight {
		ch := make(chan refreshResult, 1)
		r.waiters = append(r.waiters, ch)
		r.mu.Unlock()

		select {
		case res := <-ch:
			return res.accessToken, res.err
		case <-ctx.Done():
			// The exchange keeps running for the other waiters; this
			// caller just stops waiting.
			return "", ctx.Err()
		}
	}
	r.inFlight = true
	r.mu.Unlock()

	res := r.exchangeOnce(ctx)

	// Reset flag and drain waiters before returning control, whatever the
	// outcome. Each waiter channel is buffered and signalled exactly once.
	r.mu.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.inFlight = false
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- res
	}
	return res.accessToken, res.err
}

func (r *Refresher) exchangeOnce(ctx context.Context) refreshResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	refreshToken, err := r.store.Refresh(ctx)
	if err != nil {
		return refreshResult{err: fmt.Errorf("reading refresh token: %w", err)}
	}
	if refreshToken == "" {
		return refreshResult{err: common.ErrUnauthenticated}
	}

	accessToken, err := r.exchange.ExchangeRefreshToken(ctx, refreshToken)
	if err != nil {
		r.log.Warn(ctx, "refresh exchange failed, clearing session", "error", err)
		if clearErr := r.store.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			r.log.Error(ctx, "failed to clear credentials", "error", clearErr)
		}
		return refreshResult{err: fmt.Errorf("%w: %v", common.ErrSessionExpired, err)}
	}

	// The observed protocol does not rotate the refresh token; the pair is
	// rewritten as a unit with the existing refresh token.
	if err := r.store.Save(ctx, accessToken, refreshToken); err != nil {
		return refreshResult{err: fmt.Errorf("persisting refreshed tokens: %w", err)}
	}

	r.log.Debug(ctx, "access token refreshed")
	return refreshResult{accessToken: accessToken}
}

// state reports the in-flight flag and waiter count; used by tests to check
// the drain invariant.
func (r *Refresher) state() (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight, len(r.waiters)
}
