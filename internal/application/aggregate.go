package application

import (
	"sort"
	"time"

	"github.com/avigier/rhcases/internal/domain"
)

// SortKey selects the documented display sort for cases within an account.
// The default keeps the upstream API order untouched.
type SortKey string

const (
	SortNone     SortKey = ""
	SortSeverity SortKey = "severity"
	SortModified SortKey = "modified"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortSeverity, SortModified:
		return true
	default:
		return false
	}
}

// Aggregate merges one cycle's results with the previous dashboard state
// into a fresh state. Accounts that failed this cycle keep their last
// successful cases, marked stale, so partial failure stays visible without
// blanking data. The returned state is a new value; prev is not mutated.
func Aggregate(prev domain.DashboardState, cycle CycleResult, sortKey SortKey, refreshInterval time.Duration, now time.Time) domain.DashboardState {
	state := domain.DashboardState{
		Snapshots:   make(map[domain.AccountID]domain.AccountSnapshot, len(cycle.Results)),
		Order:       make([]domain.AccountID, 0, len(cycle.Results)),
		LastRefresh: now,
		NextRefresh: now.Add(refreshInterval),
	}

	for _, result := range cycle.Results {
		state.Order = append(state.Order, result.Account.ID)

		if result.Err != nil {
			snapshot := domain.AccountSnapshot{
				Account: result.Account,
				Err:     result.Err,
			}
			if previous, ok := prev.Snapshots[result.Account.ID]; ok && len(previous.Cases) > 0 {
				snapshot.Cases = previous.Cases
				snapshot.FetchedAt = previous.FetchedAt
				snapshot.Stale = true
			}
			state.Snapshots[result.Account.ID] = snapshot
			continue
		}

		state.Snapshots[result.Account.ID] = domain.AccountSnapshot{
			Account:   result.Account,
			Cases:     sortCases(result.Cases, sortKey),
			FetchedAt: cycle.StartedAt,
		}
	}

	return state
}

// sortCases applies the configured sort; ties always break by case number
// ascending and the sort is stable, so equal keys keep API order.
func sortCases(cases []domain.Case, key SortKey) []domain.Case {
	if key == SortNone || len(cases) < 2 {
		return cases
	}

	sorted := make([]domain.Case, len(cases))
	copy(sorted, cases)

	sort.SliceStable(sorted, func(i, j int) bool {
		switch key {
		case SortSeverity:
			if sorted[i].Severity.Rank() != sorted[j].Severity.Rank() {
				return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
			}
		case SortModified:
			if !sorted[i].LastModified.Equal(sorted[j].LastModified) {
				return sorted[i].LastModified.After(sorted[j].LastModified)
			}
		}
		return sorted[i].Number < sorted[j].Number
	})

	return sorted
}

// Totals are the dashboard-wide counters shown in the summary bar.
type Totals struct {
	Total      int
	ByStatus   map[domain.CaseStatus]int
	BySeverity map[domain.Severity]int
	PerAccount map[domain.AccountID]int
}

// Summarize walks a state and computes the summary counters. Stale
// snapshots still count: they are the best known data for that account.
func Summarize(state domain.DashboardState) Totals {
	totals := Totals{
		ByStatus:   make(map[domain.CaseStatus]int),
		BySeverity: make(map[domain.Severity]int),
		PerAccount: make(map[domain.AccountID]int, len(state.Snapshots)),
	}

	for id, snapshot := range state.Snapshots {
		totals.PerAccount[id] = len(snapshot.Cases)
		for _, c := range snapshot.Cases {
			totals.Total++
			totals.ByStatus[c.Status]++
			totals.BySeverity[c.Severity]++
		}
	}

	return totals
}
