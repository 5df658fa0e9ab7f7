package auth

import (
	"context"
	"errors"
	"fmt"
)

// Profile represents the subset of a provider user-info payload that
// the session record is built from. Facts only, no decisions.
type Profile struct {
	Email string
	Name  string
}

// Provider defines the contract for the external OAuth identity
// provider. Implementations talk to the provider's HTTP endpoints and
// must not touch session state.
type Provider interface {
	// AuthCodeURL returns the provider authorization URL built from
	// static configuration.
	AuthCodeURL() string

	// Exchange trades the authorization code for an access token,
	// fetches the user profile with it, and returns the normalized
	// profile. Failures are reported as *UpstreamError (or
	// ErrNoAccessToken) so callers can map them to HTTP statuses.
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// Upstream call stages, used in error classification.
const (
	StageToken    = "token"
	StageUserInfo = "user-info"
)

// ErrNoAccessToken reports a well-formed token response that carried
// no access token.
var ErrNoAccessToken = errors.New("no access token returned from provider")

// UpstreamError classifies a failed outbound call to the provider.
// Timeout distinguishes deadline expiry (gateway-timeout class) from
// every other transport, status, or payload failure (bad-gateway
// class).
type UpstreamError struct {
	Stage   string
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s endpoint timed out: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s endpoint error: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
