// Package api implements the cloud backend HTTP surface: the public auth
// endpoints and the authenticated request gateway that every other cloud
// call goes through.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/logging"
)

// DefaultTimeout bounds every cloud request so a hung transport cannot
// stall the refresh coordinator or its waiters.
const DefaultTimeout = 10 * time.Second

// Client talks to the unauthenticated cloud endpoints (login, refresh).
// Authenticated traffic goes through the Gateway instead.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewClient builds a cloud API client. A zero timeout uses DefaultTimeout;
// a nil logger discards output.
func NewClient(baseURL string, timeout time.Duration, log logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         models.Identity `json:"user"`
}

// Login exchanges credentials for a token pair and the signed-in identity.
func (c *Client) Login(ctx context.Context, email, password string) (models.TokenPair, models.Identity, error) {
	var resp loginResponse
	err := postJSON(ctx, c.http, c.baseURL+"/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return models.TokenPair{}, models.Identity{}, err
	}
	pair := models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	return pair, resp.User, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// ExchangeRefreshToken trades the stored refresh token for a new access
// token. The backend does not rotate the refresh token; any extra response
// fields are ignored.
func (c *Client) ExchangeRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var resp refreshResponse
	err := postJSON(ctx, c.http, c.baseURL+"/auth/refresh-token", refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// postJSON sends body as JSON and decodes a 2xx response into out.
// Non-2xx responses become *APIError.
func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
