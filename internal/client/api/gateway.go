package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/responderhq/fieldsync/internal/client/session"
	"github.com/responderhq/fieldsync/internal/common"
	"github.com/responderhq/fieldsync/internal/logging"
)

// Refresher is the single-flight coordinator surface the gateway needs.
// Satisfied by *session.Refresher.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Gateway issues authenticated cloud calls. It attaches the current access
// token as a bearer credential, and on a 401 runs one refresh through the
// coordinator and replays the request exactly once with the new token. A
// second 401 after replay is a genuine failure and is surfaced as-is.
type Gateway struct {
	baseURL   string
	http      *http.Client
	store     *session.Store
	refresher Refresher
	log       logging.Logger
}

// NewGateway builds the authenticated request gateway. A zero timeout uses
// DefaultTimeout; a nil logger discards output.
func NewGateway(baseURL string, store *session.Store, refresher Refresher, timeout time.Duration, log logging.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Gateway{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: timeout},
		store:     store,
		refresher: refresher,
		log:       log,
	}
}

// Do performs an authenticated JSON call. body may be nil for GETs; a 2xx
// response is decoded into out (which may also be nil). Without a stored
// access token it fails immediately with common.ErrUnauthenticated and no
// network call is made.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	access, err := g.store.Access(ctx)
	if err != nil {
		return fmt.Errorf("reading access token: %w", err)
	}
	if access == "" {
		return common.ErrUnauthenticated
	}

	var raw []byte
	if body != nil {
		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	status, err := g.send(ctx, method, path, access, raw, out)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return nil
	}

	// Transient-auth path: one refresh, one replay with the new token.
	access, err = g.refresher.Refresh(ctx)
	if err != nil {
		return err
	}

	g.log.Debug(ctx, "replaying request after refresh", "method", method, "path", path)
	status, err = g.send(ctx, method, path, access, raw, out)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: request rejected after refresh", common.ErrUnauthenticated)
	}
	return nil
}

// send performs one attempt. It reports a 401 via the returned status with a
// nil error so Do can decide on recovery; every other non-2xx becomes an
// *APIError, and 2xx bodies are decoded into out.
func (g *Gateway) send(ctx context.Context, method, path, accessToken string, body []byte, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+accessToken)
	if id, err := g.store.InstanceID(ctx); err == nil && id != "" {
		req.Header.Set(common.InstanceHeaderName, id)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return http.StatusUnauthorized, nil
	}
	return resp.StatusCode, decodeResponse(resp, out)
}
