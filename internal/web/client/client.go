// Package client is the front end's HTTP client for the
// authentication service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/logger"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/session"
)

const defaultTimeout = 3 * time.Second

var (
	// ErrTimeout reports that the auth service call exceeded its
	// deadline.
	ErrTimeout = errors.New("auth service timeout")

	// ErrUnavailable reports a transport-level failure reaching the
	// auth service (DNS, refused connection, ...).
	ErrUnavailable = errors.New("auth service unavailable")

	// ErrBadPayload reports a response that was not the JSON shape
	// the contract promises.
	ErrBadPayload = errors.New("auth service returned a malformed response")
)

// StatusError reports a non-2xx HTTP status from the auth service so
// callers can propagate it.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("auth service returned HTTP %d", e.Code)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetTimeout overrides the per-call deadline. Tests use this to keep
// failure cases fast.
func (c *Client) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// LoginURL fetches the provider authorization URL from the auth
// service. Failure classes stay distinguishable so the login page can
// report them separately.
func (c *Client) LoginURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/login/google", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode}
	}

	var body struct {
		AuthURL string `json:"auth_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", ErrBadPayload
	}
	if body.AuthURL == "" {
		return "", ErrBadPayload
	}

	return body.AuthURL, nil
}

// Verify checks a session id against the auth service. Every failure
// mode collapses to nil (not logged in) for the caller; the distinct
// causes are only logged. The stored record arrives double-encoded (a
// JSON string inside the JSON response), so the inner document is
// parsed here.
func (c *Client) Verify(ctx context.Context, sessionID string) *session.User {
	payload, _ := json.Marshal(map[string]string{"session_id": sessionID})

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/verify",
		bytes.NewReader(payload),
	)
	if err != nil {
		logger.Error("verify request build failed", map[string]any{"error": err.Error()})
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("verify network error", map[string]any{
			"error":   err.Error(),
			"timeout": errors.Is(classifyTransport(err), ErrTimeout),
		})
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("verify rejected", map[string]any{"status": resp.StatusCode})
		return nil
	}

	var body struct {
		User string `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Error("verify response parse error", map[string]any{"error": err.Error()})
		return nil
	}

	var user session.User
	if err := json.Unmarshal([]byte(body.User), &user); err != nil {
		logger.Error("verify user payload parse error", map[string]any{"error": err.Error()})
		return nil
	}

	return &user
}

// Logout tells the auth service to drop the session. Callers treat
// this as best-effort; the error exists for logging only.
func (c *Client) Logout(ctx context.Context, sessionID string) error {
	payload, _ := json.Marshal(map[string]string{"session_id": sessionID})

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/logout",
		bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	return nil
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
