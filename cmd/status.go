package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avigier/rhcases/internal/adapters/render/dashboard"
	"github.com/avigier/rhcases/internal/application"
	"github.com/avigier/rhcases/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var overrides flagOverrides
	var asJSON bool
	var width int

	cmd := &cobra.Command{
		Use:   "status <accounts-file> [offline-token]",
		Short: "Fetch all accounts once and print the dashboard",
		Long:  "status runs a single fetch cycle and prints the result to stdout, for scripts and quick checks without the live screen.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(overrides)
			if err != nil {
				return err
			}

			credential := ""
			if len(args) > 1 {
				credential = args[1]
			}

			app, err := wireApp(args[0], credential, s)
			if err != nil {
				return err
			}
			defer app.close()

			cycle := app.refresher.Run(cmd.Context(), app.accounts)
			if cycle.TokenErr != nil {
				return fmt.Errorf("authenticate with Red Hat SSO: %w", cycle.TokenErr)
			}

			state := application.Aggregate(domain.DashboardState{}, cycle,
				application.SortKey(s.Sort), s.RefreshInterval, time.Now())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stateJSON(state))
			}

			rendered, err := dashboard.RenderState(state, width)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	addCommonFlags(cmd, &overrides)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().IntVar(&width, "width", 120, "Render width in columns")

	return cmd
}

type caseView struct {
	Number       string `json:"number"`
	Summary      string `json:"summary"`
	Severity     string `json:"severity"`
	Status       string `json:"status"`
	Product      string `json:"product"`
	LastModified string `json:"lastModified,omitempty"`
	URL          string `json:"url"`
}

type accountView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Error string     `json:"error,omitempty"`
	Stale bool       `json:"stale,omitempty"`
	Cases []caseView `json:"cases"`
}

type dashboardView struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	BySeverity map[string]int `json:"bySeverity"`
	Accounts   []accountView  `json:"accounts"`
}

func stateJSON(state domain.DashboardState) dashboardView {
	totals := application.Summarize(state)

	view := dashboardView{
		Total:      totals.Total,
		ByStatus:   make(map[string]int, len(totals.ByStatus)),
		BySeverity: make(map[string]int, len(totals.BySeverity)),
		Accounts:   make([]accountView, 0, len(state.Order)),
	}
	for status, count := range totals.ByStatus {
		view.ByStatus[string(status)] = count
	}
	for severity, count := range totals.BySeverity {
		view.BySeverity[string(severity)] = count
	}

	for _, id := range state.Order {
		snapshot := state.Snapshots[id]
		account := accountView{
			ID:    string(snapshot.Account.ID),
			Name:  snapshot.Account.Name,
			Stale: snapshot.Stale,
			Cases: make([]caseView, 0, len(snapshot.Cases)),
		}
		if snapshot.Err != nil {
			account.Error = snapshot.Err.Error()
		}
		for _, c := range snapshot.Cases {
			entry := caseView{
				Number:   c.Number,
				Summary:  c.Summary,
				Severity: string(c.Severity),
				Status:   string(c.Status),
				Product:  c.Product,
				URL:      c.URL(),
			}
			if !c.LastModified.IsZero() {
				entry.LastModified = c.LastModified.Format(time.RFC3339)
			}
			account.Cases = append(account.Cases, entry)
		}
		view.Accounts = append(view.Accounts, account)
	}

	return view
}
