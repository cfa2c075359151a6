package domain

import (
	"errors"
	"fmt"
	"time"
)

// AuthError reasons.
const (
	AuthReasonMissingCredential = "missing_credential"
	AuthReasonExchangeFailed    = "exchange_failed"
)

// FetchError reasons.
const (
	FetchReasonForbidden   = "forbidden"
	FetchReasonRateLimited = "rate_limited"
	FetchReasonTimeout     = "timeout"
	FetchReasonUnexpected  = "unexpected"
)

// AuthError covers credential and token-exchange failures. It is fatal only
// when the very first cycle cannot obtain a token; afterwards it degrades
// the cycle it occurred in.
type AuthError struct {
	Reason string
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "auth: " + e.Reason
	}
	return fmt.Sprintf("auth: %s: %s", e.Reason, e.Detail)
}

// FetchError covers per-account case-query failures. It is never fatal to
// the process; the affected account is rendered degraded instead.
type FetchError struct {
	Reason    string
	AccountID AccountID
	// RetryAfter is the server-suggested backoff for rate_limited errors,
	// zero when the server gave none.
	RetryAfter time.Duration
	Detail     string
}

func (e *FetchError) Error() string {
	msg := "fetch"
	if e.AccountID != "" {
		msg += " account " + string(e.AccountID)
	}
	msg += ": " + e.Reason
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ConfigError prevents startup; it is reported on stderr before the render
// loop begins.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Detail
}

// AsFetchError unwraps err into a *FetchError if one is in the chain.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// AsAuthError unwraps err into an *AuthError if one is in the chain.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
