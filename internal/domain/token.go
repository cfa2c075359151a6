package domain

import "time"

// AccessToken is a short-lived bearer token exchanged from the offline
// credential. Tokens are replaced wholesale on refresh, never mutated.
type AccessToken struct {
	Value      string
	ObtainedAt time.Time
	TTL        time.Duration
}

// Valid reports whether the token can still be attached to a request.
// A token counts as expired safetyMargin before its actual expiry so a
// request issued now does not race the upstream clock.
func (t AccessToken) Valid(now time.Time, safetyMargin time.Duration) bool {
	if t.Value == "" || t.ObtainedAt.IsZero() {
		return false
	}
	return now.Before(t.ObtainedAt.Add(t.TTL - safetyMargin))
}
