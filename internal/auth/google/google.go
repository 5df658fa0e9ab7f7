package google

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/auth"
	"github.com/programmingwithalex/fastapi-with-google-oauth-and-redis-sessions/internal/logger"
)

const defaultTimeout = 5 * time.Second

// Config carries the provider endpoints and client credentials. All
// endpoints are explicit so deployments (and tests) can point them
// anywhere; no network discovery happens at construction time.
type Config struct {
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration // defaults to 5s
}

type Provider struct {
	oauthConfig *oauth2.Config
	oidcProv    *oidc.Provider
	client      *http.Client
}

func New(cfg Config) (*Provider, error) {

	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	if cfg.TokenURL == "" || cfg.UserInfoURL == "" {
		return nil, errors.New("google oauth config missing endpoint urls")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	oidcProv := (&oidc.ProviderConfig{
		AuthURL:     cfg.AuthURL,
		TokenURL:    cfg.TokenURL,
		UserInfoURL: cfg.UserInfoURL,
	}).NewProvider(context.Background())

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		oidcProv:    oidcProv,
		client:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AuthCodeURL builds the OAuth authorization URL.
func (p *Provider) AuthCodeURL() string {
	return p.oauthConfig.AuthCodeURL("")
}

// Exchange trades the authorization code for an access token and
// fetches the user profile. Each outbound call is a single attempt
// bounded by the configured timeout.
func (p *Provider) Exchange(ctx context.Context, code string) (*auth.Profile, error) {

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		// x/oauth2 rejects a well-formed token response that lacks
		// access_token before returning it; surface that case on its
		// own so the caller can report it distinctly.
		if strings.Contains(err.Error(), "missing access_token") {
			return nil, auth.ErrNoAccessToken
		}
		return nil, &auth.UpstreamError{
			Stage:   auth.StageToken,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}

	if token.AccessToken == "" {
		return nil, auth.ErrNoAccessToken
	}

	userInfo, err := p.oidcProv.UserInfo(
		oidc.ClientContext(ctx, p.client),
		oauth2.StaticTokenSource(token),
	)
	if err != nil {
		return nil, &auth.UpstreamError{
			Stage:   auth.StageUserInfo,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}

	var claims struct {
		Name string `json:"name"`
	}
	if err := userInfo.Claims(&claims); err != nil {
		logger.Warn("user-info claims parse failed, name unavailable", map[string]any{
			"error": err.Error(),
		})
	}

	return &auth.Profile{
		Email: userInfo.Email,
		Name:  claims.Name,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// x/oauth2 flattens transport errors into plain strings, which
	// cuts the unwrap chain; fall back to matching the net/http and
	// context deadline messages.
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout exceeded") ||
		strings.Contains(msg, "context deadline exceeded")
}
