package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/responderhq/fieldsync/internal/common"
)

// fakeExchanger counts exchanges and can hold them open on a gate so tests
// can pile up concurrent callers deterministically.
type fakeExchanger struct {
	calls atomic.Int64
	gate  chan struct{} // if non-nil, exchange blocks until closed

	token string
	err   error

	LastRefreshToken string
}

func (f *fakeExchanger) ExchangeRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	f.calls.Add(1)
	f.LastRefreshToken = refreshToken
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.token, f.err
}

func waitForWaiters(t *testing.T, r *Refresher, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, n := r.state(); n >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	_, n := r.state()
	t.Fatalf("expected %d waiters, got %d", want, n)
}

func TestRefresher_SingleFlight(t *testing.T) {
	store := setupStore(t, "refresher_singleflight")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "expired", "ref-valid"))

	ex := &fakeExchanger{token: "acc-new", gate: make(chan struct{})}
	r := NewRefresher(store, ex, 0, nil)

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Refresh(ctx)
		}(i)
	}

	// One initiator plus n-1 parked waiters, then let the exchange finish.
	waitForWaiters(t, r, n-1)
	close(ex.gate)
	wg.Wait()

	require.EqualValues(t, 1, ex.calls.Load(), "exactly one exchange per expiry event")
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "acc-new", results[i], "all callers share the same new token")
	}
}

func TestRefresher_DrainsStateAfterSuccess(t *testing.T) {
	store := setupStore(t, "refresher_drain_ok")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "expired", "ref-valid"))

	ex := &fakeExchanger{token: "acc-new"}
	r := NewRefresher(store, ex, 0, nil)

	_, err := r.Refresh(ctx)
	require.NoError(t, err)

	inFlight, waiters := r.state()
	require.False(t, inFlight)
	require.Zero(t, waiters)

	// A later call starts a fresh exchange rather than deadlocking.
	_, err = r.Refresh(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, ex.calls.Load())
}

func TestRefresher_FailureRejectsAllAndClearsStore(t *testing.T) {
	store := setupStore(t, "refresher_fail")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "expired", "ref-dead"))

	ex := &fakeExchanger{err: errors.New("invalid refresh token"), gate: make(chan struct{})}
	r := NewRefresher(store, ex, 0, nil)

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Refresh(ctx)
		}(i)
	}
	waitForWaiters(t, r, n-1)
	close(ex.gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.ErrorIs(t, errs[i], common.ErrSessionExpired, "caller %d", i)
	}

	pair, err := store.Pair(ctx)
	require.NoError(t, err)
	require.True(t, pair.Empty(), "store must be cleared on unrecoverable failure")

	inFlight, waiters := r.state()
	require.False(t, inFlight, "flag must not wedge after failure")
	require.Zero(t, waiters)

	// The next attempt is allowed to try (and fail) again.
	ex.gate = nil
	_, err = r.Refresh(ctx)
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestRefresher_NoRefreshTokenShortCircuits(t *testing.T) {
	store := setupStore(t, "refresher_norefresh")

	ex := &fakeExchanger{token: "never"}
	r := NewRefresher(store, ex, 0, nil)

	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthenticated)
	require.Zero(t, ex.calls.Load(), "no network exchange without a refresh token")
}

func TestRefresher_PersistsPairWithoutRotation(t *testing.T) {
	store := setupStore(t, "refresher_norotate")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "expired", "ref-keep"))

	ex := &fakeExchanger{token: "acc-new"}
	r := NewRefresher(store, ex, 0, nil)

	token, err := r.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, "acc-new", token)
	require.Equal(t, "ref-keep", ex.LastRefreshToken)

	pair, err := store.Pair(ctx)
	require.NoError(t, err)
	require.Equal(t, "acc-new", pair.AccessToken)
	require.Equal(t, "ref-keep", pair.RefreshToken, "refresh token is reused, not rotated")
}

func TestRefresher_WaiterContextCancellation(t *testing.T) {
	store := setupStore(t, "refresher_cancel")
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "expired", "ref-valid"))

	ex := &fakeExchanger{token: "acc-new", gate: make(chan struct{})}
	r := NewRefresher(store, ex, 0, nil)

	initiatorDone := make(chan struct{})
	go func() {
		defer close(initiatorDone)
		_, _ = r.Refresh(ctx)
	}()

	waiterCtx, cancel := context.WithCancel(ctx)
	waiterErr := make(chan error, 1)
	go func() {
		_, err := r.Refresh(waiterCtx)
		waiterErr <- err
	}()

	waitForWaiters(t, r, 1)
	cancel()
	require.ErrorIs(t, <-waiterErr, context.Canceled)

	close(ex.gate)
	<-initiatorDone

	inFlight, waiters := r.state()
	require.False(t, inFlight)
	require.Zero(t, waiters)
}
