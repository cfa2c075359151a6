// Package redhat talks to the Red Hat customer portal APIs: the SSO token
// exchange and the support-case filter endpoint.
package redhat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const maxResponseBytes = 1 << 20

// Defaults for the public Red Hat endpoints. Every value can be overridden
// through the adapter config for testing or alternate deployments.
const (
	DefaultSSOBaseURL = "https://sso.redhat.com"
	DefaultTokenPath  = "/auth/realms/redhat-external/protocol/openid-connect/token"
	DefaultAPIBaseURL = "https://api.access.redhat.com"
	DefaultFilterPath = "/support/v1/cases/filter"
	DefaultClientID   = "rhsm-api"
)

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}

func requestContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return context.WithTimeout(ctx, timeout)
}

func httpClientOrDefault(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return http.DefaultClient
}
