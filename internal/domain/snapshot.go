package domain

import "time"

// AccountSnapshot is the per-account result of one fetch cycle. When a
// cycle fails for an account the previous cases are carried over with
// Stale set, so the dashboard never goes blank on a transient failure.
type AccountSnapshot struct {
	Account   Account
	Cases     []Case
	FetchedAt time.Time
	Err       error
	Stale     bool
}

// DashboardState is the single process-wide dashboard snapshot. It is owned
// by the render loop and swapped wholesale after each cycle's fan-in; no
// other component holds a writable reference.
type DashboardState struct {
	Snapshots   map[AccountID]AccountSnapshot
	Order       []AccountID
	LastRefresh time.Time
	NextRefresh time.Time
}
