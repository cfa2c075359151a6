package redhat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avigier/rhcases/internal/domain"
	"github.com/avigier/rhcases/internal/ports"
)

// filterStatuses is the fixed status filter every query carries; the
// dashboard only tracks cases waiting on one of the two parties.
var filterStatuses = []string{
	string(domain.StatusWaitingOnCustomer),
	string(domain.StatusWaitingOnRedHat),
}

// CaseConfig tunes the case filter endpoint.
type CaseConfig struct {
	APIBaseURL     string
	FilterPath     string
	RequestTimeout time.Duration
}

func (c CaseConfig) withDefaults() CaseConfig {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.FilterPath == "" {
		c.FilterPath = DefaultFilterPath
	}
	return c
}

// CaseClient issues one bearer-authenticated filter query per account.
// Calls hold no shared state and are safe to fan out across accounts.
type CaseClient struct {
	cfg        CaseConfig
	httpClient *http.Client
}

var _ ports.CaseFetcher = (*CaseClient)(nil)

func NewCaseClient(cfg CaseConfig, client *http.Client) *CaseClient {
	return &CaseClient{cfg: cfg.withDefaults(), httpClient: client}
}

type caseFilterRequest struct {
	AccountNumber string   `json:"accountNumber"`
	Statuses      []string `json:"statuses"`
}

type caseRecord struct {
	CaseNumber       string `json:"caseNumber"`
	Summary          string `json:"summary"`
	Severity         string `json:"severity"`
	Status           string `json:"status"`
	Product          string `json:"product"`
	LastModifiedDate string `json:"lastModifiedDate"`
}

type caseFilterResponse struct {
	Cases []caseRecord `json:"cases"`
}

func (c *CaseClient) FetchCases(ctx context.Context, account domain.Account, token domain.AccessToken) ([]domain.Case, error) {
	endpoint, err := buildAPIURL(c.cfg.APIBaseURL, c.cfg.FilterPath)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(caseFilterRequest{
		AccountNumber: string(account.ID),
		Statuses:      filterStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("encode case filter request: %w", err)
	}

	reqCtx, cancel := requestContext(ctx, c.cfg.RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create case filter request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Value)

	resp, err := httpClientOrDefault(c.httpClient).Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, &domain.FetchError{Reason: domain.FetchReasonTimeout, AccountID: account.ID}
		}
		// Cancellation is not an account failure; pass it through so the
		// caller (and its logs) see the quit for what it is.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &domain.FetchError{
			Reason:    domain.FetchReasonUnexpected,
			AccountID: account.ID,
			Detail:    err.Error(),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &domain.FetchError{Reason: domain.FetchReasonForbidden, AccountID: account.ID}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &domain.FetchError{
			Reason:     domain.FetchReasonRateLimited,
			AccountID:  account.ID,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return nil, &domain.FetchError{
			Reason:    domain.FetchReasonUnexpected,
			AccountID: account.ID,
			Detail:    fmt.Sprintf("status %d", resp.StatusCode),
		}
	}

	var payload caseFilterResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, &domain.FetchError{
			Reason:    domain.FetchReasonUnexpected,
			AccountID: account.ID,
			Detail:    fmt.Sprintf("decode case filter response: %v", err),
		}
	}

	// Response order is preserved; any display sort happens downstream.
	cases := make([]domain.Case, 0, len(payload.Cases))
	for _, record := range payload.Cases {
		cases = append(cases, domain.Case{
			Number:       record.CaseNumber,
			Summary:      record.Summary,
			Severity:     domain.Severity(record.Severity),
			Status:       domain.ParseCaseStatus(record.Status),
			Product:      record.Product,
			LastModified: parseAPITime(record.LastModifiedDate),
		})
	}

	return cases, nil
}

// parseRetryAfter handles the delay-seconds form of the header. The
// HTTP-date form is rare on this API and falls back to zero, which the
// caller replaces with its fixed backoff.
func parseRetryAfter(raw string) time.Duration {
	if raw == "" {
		return 0
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func parseAPITime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
