package ports

import (
	"context"

	"github.com/avigier/rhcases/internal/domain"
)

// TokenSource yields a bearer token that is valid at the time of the call,
// refreshing it from the long-lived credential when needed.
type TokenSource interface {
	Token(ctx context.Context) (domain.AccessToken, error)
}
