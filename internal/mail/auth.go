package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://oauth2.googleapis.com/token" //nolint:gosec // not a credential
	refreshBuffer   = 60 * time.Second
)

// RefreshTokenProvider implements TokenProvider using the Google OAuth2
// refresh token grant. It caches access tokens and refreshes automatically
// when expired or within 60 seconds of expiry. Thread-safe via mutex.
type RefreshTokenProvider struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string
	client       *http.Client

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// AuthOption configures the RefreshTokenProvider.
type AuthOption func(*RefreshTokenProvider)

// WithTokenURL overrides the default Google token endpoint.
func WithTokenURL(u string) AuthOption {
	return func(p *RefreshTokenProvider) {
		p.tokenURL = u
	}
}

// WithAuthHTTPClient overrides the default HTTP client.
func WithAuthHTTPClient(c *http.Client) AuthOption {
	return func(p *RefreshTokenProvider) {
		p.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) AuthOption {
	return func(p *RefreshTokenProvider) {
		p.nowFunc = f
	}
}

// NewRefreshTokenProvider creates a token provider for the given OAuth2
// client and refresh token.
func NewRefreshTokenProvider(
	clientID, clientSecret, refreshToken string,
	opts ...AuthOption,
) *RefreshTokenProvider {
	p := &RefreshTokenProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		tokenURL:     defaultTokenURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		nowFunc:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Token returns a valid access token, refreshing if necessary.
func (p *RefreshTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

func (p *RefreshTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {p.clientID},
		"client_secret": {p.clientSecret},
		"refresh_token": {p.refreshToken},
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, p.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp tokenErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != "" {
			return "", fmt.Errorf(
				"token refresh failed (status %d): %s: %s",
				resp.StatusCode, errResp.Error, errResp.ErrorDescription,
			)
		}
		return "", fmt.Errorf("token refresh failed (status %d)", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response has no access_token")
	}

	p.token = tok.AccessToken
	p.expiry = p.nowFunc().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return p.token, nil
}
