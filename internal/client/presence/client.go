// Package presence talks to the LAN presence service: it pushes liveness
// heartbeats for the signed-in trainee and pulls the current roster. The
// service lives at a fixed LAN address and requires no credentials.
package presence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/common"
)

// DefaultTimeout bounds LAN requests; the service is on the same network,
// so anything slower is treated as unreachable.
const DefaultTimeout = 10 * time.Second

// Client is the HTTP client for the local presence service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a LAN presence client. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// Heartbeat is one liveness announcement for a device on the local network.
type Heartbeat struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IPAddress string `json:"ipAddress"`
}

type heartbeatResponse struct {
	Success bool `json:"success"`
}

// SendHeartbeat announces liveness once. Transport failures are wrapped in
// common.ErrLocalServiceUnreachable so callers can treat them as a
// connectivity signal rather than a fault.
func (c *Client) SendHeartbeat(ctx context.Context, hb Heartbeat) error {
	raw, err := json.Marshal(hb)
	if err != nil {
		return fmt.Errorf("encoding heartbeat: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/heartbeat", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalServiceUnreachable, err)
	}
	defer resp.Body.Close()

	var body heartbeatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: decoding response: %v", common.ErrLocalServiceUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		return fmt.Errorf("%w: heartbeat rejected (status %d)", common.ErrLocalServiceUnreachable, resp.StatusCode)
	}
	return nil
}

type attendeesResponse struct {
	Success   bool                    `json:"success"`
	Attendees []models.PresenceRecord `json:"attendees"`
}

// FetchSnapshot returns the service's current roster. On failure it returns
// an explicit error, never a stale or cached list, so callers can tell
// "could not reach the service" apart from "zero people present".
func (c *Client) FetchSnapshot(ctx context.Context) ([]models.PresenceRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/attendees", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLocalServiceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", common.ErrLocalServiceUnreachable, resp.StatusCode)
	}

	var body attendeesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", common.ErrLocalServiceUnreachable, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: service reported failure", common.ErrLocalServiceUnreachable)
	}
	return body.Attendees, nil
}
