package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/config"
)

// ErrUnknownProvider is returned when the auth config names no usable authenticator.
var ErrUnknownProvider = errors.New("unknown auth provider")

// Authenticator verifies a credential once during agent init.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (Session, error)
}

// Session is the outcome of a successful authentication.
type Session struct {
	// Token is the access token issued by a remote endpoint, if any.
	Token string
	// ExpiresAt is zero when the session does not expire.
	ExpiresAt time.Time
}

// Expired reports whether the session has an expiry at or before now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// LocalAuthenticator accepts any non-blank credential without network access.
type LocalAuthenticator struct{}

// NewLocalAuthenticator creates a local authenticator.
func NewLocalAuthenticator() *LocalAuthenticator {
	return &LocalAuthenticator{}
}

// Authenticate implements Authenticator.
func (a *LocalAuthenticator) Authenticate(ctx context.Context, credential string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(credential) == "" {
		return Session{}, agent.ErrMissingCredential
	}
	return Session{}, nil
}

// HTTPAuthenticator exchanges the credential for an access token by POSTing
// to an endpoint with the credential in a header.
type HTTPAuthenticator struct {
	endpoint string
	header   string
	client   *http.Client
}

// HTTPConfig configures the HTTP authenticator.
type HTTPConfig struct {
	Endpoint string        // Required: token exchange URL
	Header   string        // Default: x-api-key
	Timeout  time.Duration // Default: 10s
}

// NewHTTPAuthenticator creates an HTTP token-exchange authenticator.
func NewHTTPAuthenticator(config HTTPConfig) *HTTPAuthenticator {
	header := config.Header
	if header == "" {
		header = "x-api-key"
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPAuthenticator{
		endpoint: config.Endpoint,
		header:   header,
		client:   &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Authenticate implements Authenticator.
func (a *HTTPAuthenticator) Authenticate(ctx context.Context, credential string) (Session, error) {
	if strings.TrimSpace(credential) == "" {
		return Session{}, agent.ErrMissingCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, http.NoBody)
	if err != nil {
		return Session{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(a.header, credential)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Session{}, fmt.Errorf("failed to read auth response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Session{}, fmt.Errorf("%w: status %d", agent.ErrAuthentication, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Session{}, fmt.Errorf("auth endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &tr); err != nil {
			return Session{}, fmt.Errorf("failed to parse auth response: %w", err)
		}
	}

	s := Session{Token: tr.AccessToken}
	if s.Token == "" {
		s.Token = tr.Token
	}
	if tr.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s, nil
}

// New returns the authenticator selected by cfg.Provider.
func New(cfg config.AuthConfig) (Authenticator, error) {
	switch cfg.Provider {
	case config.AuthLocal, "":
		return NewLocalAuthenticator(), nil
	case config.AuthHTTP:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("%w: http auth needs an endpoint", ErrUnknownProvider)
		}
		return NewHTTPAuthenticator(HTTPConfig{
			Endpoint: cfg.Endpoint,
			Header:   cfg.Header,
			Timeout:  cfg.Timeout.Duration(),
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
