package redhat

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

	"github.com/avigier/rhcases/internal/domain"
	"github.com/avigier/rhcases/internal/ports"
)

const (
	refreshGrantType    = "refresh_token"
	defaultTokenTTL     = 300 * time.Second
	defaultSafetyMargin = 30 * time.Second
)

// TokenConfig tunes the SSO exchange. Zero values fall back to the public
// Red Hat endpoints and conservative defaults.
type TokenConfig struct {
	SSOBaseURL     string
	TokenPath      string
	ClientID       string
	SafetyMargin   time.Duration
	RequestTimeout time.Duration
}

func (c TokenConfig) withDefaults() TokenConfig {
	if c.SSOBaseURL == "" {
		c.SSOBaseURL = DefaultSSOBaseURL
	}
	if c.TokenPath == "" {
		c.TokenPath = DefaultTokenPath
	}
	if c.ClientID == "" {
		c.ClientID = DefaultClientID
	}
	if c.SafetyMargin <= 0 {
		c.SafetyMargin = defaultSafetyMargin
	}
	return c
}

// TokenManager exchanges the long-lived offline token for short-lived
// bearer tokens and caches the current one. There is exactly one live
// token at a time; a refresh replaces it wholesale.
type TokenManager struct {
	offlineToken string
	cfg          TokenConfig
	httpClient   *http.Client
	clock        ports.Clock

	mu    sync.Mutex
	token domain.AccessToken
}

var _ ports.TokenSource = (*TokenManager)(nil)

func NewTokenManager(offlineToken string, cfg TokenConfig, client *http.Client, clock ports.Clock) (*TokenManager, error) {
	if strings.TrimSpace(offlineToken) == "" {
		return nil, &domain.AuthError{Reason: domain.AuthReasonMissingCredential}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &TokenManager{
		offlineToken: offlineToken,
		cfg:          cfg.withDefaults(),
		httpClient:   client,
		clock:        clock,
	}, nil
}

// Token returns the cached token when it is still valid under the safety
// margin, otherwise performs exactly one exchange call. There is no retry
// here; a failed exchange degrades the caller's cycle and the next cycle
// tries again.
func (m *TokenManager) Token(ctx context.Context) (domain.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token.Valid(m.clock.Now(), m.cfg.SafetyMargin) {
		return m.token, nil
	}

	token, err := m.exchange(ctx)
	if err != nil {
		return domain.AccessToken{}, err
	}

	m.token = token
	return token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (m *TokenManager) exchange(ctx context.Context) (domain.AccessToken, error) {
	endpoint, err := buildAPIURL(m.cfg.SSOBaseURL, m.cfg.TokenPath)
	if err != nil {
		return domain.AccessToken{}, err
	}

	values := url.Values{}
	values.Set("grant_type", refreshGrantType)
	values.Set("refresh_token", m.offlineToken)
	values.Set("client_id", m.cfg.ClientID)

	reqCtx, cancel := requestContext(ctx, m.cfg.RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClientOrDefault(m.httpClient).Do(req)
	if err != nil {
		return domain.AccessToken{}, &domain.AuthError{
			Reason: domain.AuthReasonExchangeFailed,
			Detail: err.Error(),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.AccessToken{}, &domain.AuthError{
			Reason: domain.AuthReasonExchangeFailed,
			Detail: fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	var payload tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.AccessToken{}, &domain.AuthError{
			Reason: domain.AuthReasonExchangeFailed,
			Detail: fmt.Sprintf("decode token response: %v", err),
		}
	}
	if payload.AccessToken == "" {
		return domain.AccessToken{}, &domain.AuthError{
			Reason: domain.AuthReasonExchangeFailed,
			Detail: "token response missing access token",
		}
	}

	ttl := defaultTokenTTL
	if payload.ExpiresIn > 0 {
		ttl = time.Duration(payload.ExpiresIn) * time.Second
	}

	return domain.AccessToken{
		Value:      payload.AccessToken,
		ObtainedAt: m.clock.Now(),
		TTL:        ttl,
	}, nil
}
