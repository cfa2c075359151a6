package ports

import (
	"context"

	"github.com/avigier/rhcases/internal/domain"
)

// CaseFetcher runs one filtered case query for one account. Calls are
// stateless and safe to run concurrently across accounts.
type CaseFetcher interface {
	FetchCases(ctx context.Context, account domain.Account, token domain.AccessToken) ([]domain.Case, error)
}
