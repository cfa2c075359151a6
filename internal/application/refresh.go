package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/avigier/rhcases/internal/domain"
	"github.com/avigier/rhcases/internal/ports"
	"golang.org/x/sync/errgroup"
)

const (
	defaultCallTimeout     = 10 * time.Second
	defaultBackoffFallback = 60 * time.Second
	maxConcurrentFetches   = 4
)

// AccountResult is the outcome of one account's fetch within a cycle.
type AccountResult struct {
	Account domain.Account
	Cases   []domain.Case
	Err     error
	// Skipped marks accounts that were not queried this cycle because a
	// rate-limit backoff window is still open.
	Skipped bool
}

// CycleResult is the fan-in of one complete fetch pass. Results keep the
// configured account order regardless of completion order.
type CycleResult struct {
	Results   []AccountResult
	StartedAt time.Time
	// TokenErr is set when the cycle could not obtain a bearer token; in
	// that case every account result carries the same error.
	TokenErr error
}

// RefresherOptions tunes one Refresher. Zero values get conservative
// defaults.
type RefresherOptions struct {
	CallTimeout     time.Duration
	BackoffFallback time.Duration
	Clock           ports.Clock
	Logger          *slog.Logger
}

// Refresher runs fetch cycles: one token resolution, then a bounded
// parallel fan-out of case queries with a barrier before results are
// handed back. Run is invoked by the render loop one cycle at a time;
// the backoff table relies on that single-caller discipline.
type Refresher struct {
	tokens  ports.TokenSource
	fetcher ports.CaseFetcher
	opts    RefresherOptions

	backoff map[domain.AccountID]time.Time
}

func NewRefresher(tokens ports.TokenSource, fetcher ports.CaseFetcher, opts RefresherOptions) *Refresher {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if opts.BackoffFallback <= 0 {
		opts.BackoffFallback = defaultBackoffFallback
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Refresher{
		tokens:  tokens,
		fetcher: fetcher,
		opts:    opts,
		backoff: make(map[domain.AccountID]time.Time),
	}
}

// Run executes one complete cycle for the given accounts. Per-account
// failures never abort the cycle; a token failure degrades every account
// but still returns a well-formed result for rendering.
func (r *Refresher) Run(ctx context.Context, accounts []domain.Account) CycleResult {
	started := r.opts.Clock.Now()
	results := make([]AccountResult, len(accounts))

	token, err := r.tokens.Token(ctx)
	if err != nil {
		r.opts.Logger.Warn("token resolution failed", "err", err)
		for i, account := range accounts {
			results[i] = AccountResult{Account: account, Err: err}
		}
		return CycleResult{Results: results, StartedAt: started, TokenErr: err}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentFetches)

	for i, account := range accounts {
		if until, ok := r.backoff[account.ID]; ok && started.Before(until) {
			results[i] = AccountResult{
				Account: account,
				Err: &domain.FetchError{
					Reason:     domain.FetchReasonRateLimited,
					AccountID:  account.ID,
					RetryAfter: until.Sub(started),
				},
				Skipped: true,
			}
			continue
		}

		group.Go(func() error {
			callCtx, cancel := context.WithTimeout(groupCtx, r.opts.CallTimeout)
			defer cancel()

			cases, err := r.fetcher.FetchCases(callCtx, account, token)
			results[i] = AccountResult{Account: account, Cases: cases, Err: err}
			return nil
		})
	}

	// Fan-in barrier: nothing is merged before every outstanding call has
	// completed or individually failed.
	_ = group.Wait()

	r.rearmBackoff(results)
	r.logCycle(results)

	return CycleResult{Results: results, StartedAt: started}
}

func (r *Refresher) rearmBackoff(results []AccountResult) {
	now := r.opts.Clock.Now()
	for _, result := range results {
		if result.Skipped {
			continue
		}

		fetchErr, ok := domain.AsFetchError(result.Err)
		if !ok || fetchErr.Reason != domain.FetchReasonRateLimited {
			delete(r.backoff, result.Account.ID)
			continue
		}

		delay := fetchErr.RetryAfter
		if delay <= 0 {
			delay = r.opts.BackoffFallback
		}
		r.backoff[result.Account.ID] = now.Add(delay)
		r.opts.Logger.Info("account rate limited",
			"account", result.Account.ID, "retry_in", delay)
	}
}

func (r *Refresher) logCycle(results []AccountResult) {
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	r.opts.Logger.Debug("cycle complete", "accounts", len(results), "failed", failed)
}
