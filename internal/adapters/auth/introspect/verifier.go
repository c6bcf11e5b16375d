package introspect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pasture-rotation/internal/platform/httpclient"
	"pasture-rotation/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("token introspection not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrUnauthorized  = errors.New("token rejected")
	ErrUpstream      = errors.New("introspection upstream error")
)

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Verifier implementa auth.AuthVerifier contra un endpoint de introspección
// que recibe {"token": ...} y responde {"active", "user_id", "email"}.
type Verifier struct {
	client *httpclient.Client
	url    string
	apiKey string
}

func New(cfg Config) (*Verifier, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.NewWithBaseURL("", cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Verifier{client: c, url: u, apiKey: strings.TrimSpace(cfg.APIKey)}, nil
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	headers := map[string]string{}
	if v.apiKey != "" {
		headers["X-Api-Key"] = v.apiKey
	}

	var out introspectResponse
	err := v.client.DoJSON(ctx, http.MethodPost, v.url, headers, map[string]string{"token": token}, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && (he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	uid := strings.TrimSpace(out.UserID)
	if !out.Active || uid == "" {
		return auth.Claims{}, ErrUnauthorized
	}
	return auth.Claims{UserID: uid, Email: strings.TrimSpace(out.Email)}, nil
}
