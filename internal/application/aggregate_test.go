package application

import (
	"testing"
	"time"

	"github.com/avigier/rhcases/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoCaseCycle(started time.Time) CycleResult {
	return CycleResult{
		StartedAt: started,
		Results: []AccountResult{{
			Account: acme,
			Cases: []domain.Case{
				{Number: "03400002", Severity: domain.SeverityUrgent, Status: domain.StatusWaitingOnRedHat},
				{Number: "03400001", Severity: domain.SeverityLow, Status: domain.StatusWaitingOnCustomer},
			},
		}},
	}
}

func TestAggregateBuildsFreshState(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	state := Aggregate(domain.DashboardState{}, twoCaseCycle(now), SortNone, 15*time.Minute, now)

	require.Len(t, state.Order, 1)
	snapshot := state.Snapshots[acme.ID]
	require.Len(t, snapshot.Cases, 2)
	assert.Equal(t, "03400002", snapshot.Cases[0].Number, "API order preserved")
	assert.False(t, snapshot.Stale)
	assert.Equal(t, now, state.LastRefresh)
	assert.Equal(t, now.Add(15*time.Minute), state.NextRefresh)
}

func TestAggregateKeepsPreviousCasesOnError(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	prev := Aggregate(domain.DashboardState{}, twoCaseCycle(now), SortNone, 15*time.Minute, now)

	later := now.Add(15 * time.Minute)
	failed := CycleResult{
		StartedAt: later,
		Results: []AccountResult{{
			Account: acme,
			Err:     &domain.FetchError{Reason: domain.FetchReasonForbidden, AccountID: acme.ID},
		}},
	}

	state := Aggregate(prev, failed, SortNone, 15*time.Minute, later)

	snapshot := state.Snapshots[acme.ID]
	require.Len(t, snapshot.Cases, 2, "last successful snapshot stays displayed")
	assert.True(t, snapshot.Stale)
	assert.Error(t, snapshot.Err)
	assert.Equal(t, now, snapshot.FetchedAt, "fetch time reflects the data's cycle")
}

func TestAggregateNeverDropsFailedAccounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	cycle := CycleResult{
		StartedAt: now,
		Results: []AccountResult{
			{Account: acme, Cases: []domain.Case{{Number: "1"}}},
			{Account: globex, Err: &domain.FetchError{Reason: domain.FetchReasonRateLimited, AccountID: globex.ID}},
		},
	}

	state := Aggregate(domain.DashboardState{}, cycle, SortNone, 15*time.Minute, now)

	require.Len(t, state.Order, 2)
	assert.Len(t, state.Snapshots[acme.ID].Cases, 1)
	degraded := state.Snapshots[globex.ID]
	assert.Empty(t, degraded.Cases)
	assert.Error(t, degraded.Err)
}

func TestSortCasesSeverityStableWithNumberTiebreak(t *testing.T) {
	t.Parallel()

	cases := []domain.Case{
		{Number: "30", Severity: domain.SeverityNormal},
		{Number: "10", Severity: domain.SeverityUrgent},
		{Number: "20", Severity: domain.SeverityNormal},
		{Number: "05", Severity: domain.SeverityNormal},
	}

	sorted := sortCases(cases, SortSeverity)

	require.Len(t, sorted, 4)
	assert.Equal(t, "10", sorted[0].Number)
	assert.Equal(t, []string{sorted[1].Number, sorted[2].Number, sorted[3].Number}, []string{"05", "20", "30"})
	assert.Equal(t, "30", cases[0].Number, "input slice untouched")
}

func TestSortCasesModifiedMostRecentFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []domain.Case{
		{Number: "2", LastModified: base},
		{Number: "1", LastModified: base.Add(time.Hour)},
		{Number: "3", LastModified: base},
	}

	sorted := sortCases(cases, SortModified)

	assert.Equal(t, "1", sorted[0].Number)
	assert.Equal(t, "2", sorted[1].Number)
	assert.Equal(t, "3", sorted[2].Number)
}

func TestSummarizeCounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	state := Aggregate(domain.DashboardState{}, twoCaseCycle(now), SortNone, 15*time.Minute, now)

	totals := Summarize(state)

	assert.Equal(t, 2, totals.Total)
	assert.Equal(t, 1, totals.ByStatus[domain.StatusWaitingOnRedHat])
	assert.Equal(t, 1, totals.ByStatus[domain.StatusWaitingOnCustomer])
	assert.Equal(t, 1, totals.BySeverity[domain.SeverityUrgent])
	assert.Equal(t, 1, totals.BySeverity[domain.SeverityLow])
	assert.Equal(t, 2, totals.PerAccount[acme.ID])
}

func TestConsecutiveIdenticalCyclesSummarizeIdentically(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	first := Aggregate(domain.DashboardState{}, twoCaseCycle(now), SortNone, 15*time.Minute, now)

	later := now.Add(15 * time.Minute)
	second := Aggregate(first, twoCaseCycle(later), SortNone, 15*time.Minute, later)

	assert.Equal(t, Summarize(first), Summarize(second))
}

func TestSortKeyValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortNone.Valid())
	assert.True(t, SortSeverity.Valid())
	assert.True(t, SortModified.Valid())
	assert.False(t, SortKey("alphabetical").Valid())
}
