package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/avigier/rhcases/internal/application"
	"github.com/avigier/rhcases/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// compactWidth is the terminal width below which the product and modified
// columns are dropped instead of producing a broken layout.
const compactWidth = 80

const minSummaryWidth = 16

type columnLayout struct {
	number   int
	severity int
	status   int
	product  int
	modified int
	summary  int
	compact  bool
}

func layoutForWidth(width int) columnLayout {
	layout := columnLayout{
		number:   10,
		severity: 8,
		status:   len(domain.StatusWaitingOnCustomer),
		product:  16,
		modified: 16,
	}

	if width < compactWidth {
		layout.compact = true
		layout.product = 0
		layout.modified = 0
	}

	fixed := layout.number + layout.severity + layout.status
	gaps := 3
	if !layout.compact {
		fixed += layout.product + layout.modified
		gaps += 2
	}

	layout.summary = width - fixed - 2*gaps
	if layout.summary < minSummaryWidth {
		layout.summary = minSummaryWidth
	}

	return layout
}

func renderFrame(m Model) string {
	now := m.opts.Clock.Now()

	sections := []string{
		renderHeader(m, now),
		renderSummary(m.totals, m.styles),
	}

	layout := layoutForWidth(m.width)
	for _, id := range m.state.Order {
		snapshot := m.state.Snapshots[id]
		sections = append(sections, m.styles.section.Render(renderAccount(snapshot, layout, m.styles)))
	}

	sections = append(sections, m.styles.section.Render(renderFooter(m.keys, m.styles)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHeader(m Model, now time.Time) string {
	lines := []string{m.styles.title.Render("Red Hat Cases Monitor")}

	switch {
	case m.phase == phaseFetching:
		lines = append(lines, fmt.Sprintf("%s %s", m.spin.View(), m.styles.dim.Render("refreshing...")))
	case m.state.LastRefresh.IsZero():
		lines = append(lines, m.styles.dim.Render("loading..."))
	default:
		lines = append(lines, m.styles.header.Render(fmt.Sprintf(
			"last refresh: %s | next refresh in %s",
			m.state.LastRefresh.Format("15:04:05"),
			formatCountdown(m.state.NextRefresh, now),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSummary(totals application.Totals, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.summaryLabel.Render(fmt.Sprintf("Total: %d", totals.Total)),
		s.dim.Render("  |  "),
		s.onRedHat.Render(fmt.Sprintf("Waiting on Red Hat: %d", totals.ByStatus[domain.StatusWaitingOnRedHat])),
		s.dim.Render("  |  "),
		s.onCustomer.Render(fmt.Sprintf("Waiting on Customer: %d", totals.ByStatus[domain.StatusWaitingOnCustomer])),
	)
}

func renderAccount(snapshot domain.AccountSnapshot, layout columnLayout, s styles) string {
	title := s.account.Render(fmt.Sprintf("%s (%s)", snapshot.Account.Name, snapshot.Account.ID))
	if snapshot.Stale {
		title += " " + s.stale.Render("[stale]")
	}
	lines := []string{title}

	if snapshot.Err != nil {
		lines = append(lines, s.warning.Render("fetch failed: "+errorReason(snapshot.Err)))
	}

	switch {
	case len(snapshot.Cases) == 0 && snapshot.Err == nil:
		lines = append(lines, s.empty.Render("No waiting cases"))
	case len(snapshot.Cases) > 0:
		lines = append(lines, renderCaseTable(snapshot.Cases, layout, s)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCaseTable(cases []domain.Case, layout columnLayout, s styles) []string {
	lines := make([]string, 0, len(cases)+1)
	lines = append(lines, renderCaseHeader(layout, s))

	for _, c := range cases {
		cells := []string{
			s.detail.Render(pad(c.Number, layout.number)),
			s.severityStyle(c.Severity).Render(pad(string(c.Severity), layout.severity)),
			s.statusStyle(c.Status).Render(pad(string(c.Status), layout.status)),
		}
		if !layout.compact {
			cells = append(cells,
				s.detail.Render(pad(c.Product, layout.product)),
				s.dim.Render(pad(formatModified(c.LastModified), layout.modified)),
			)
		}
		cells = append(cells, s.detail.Render(pad(c.Summary, layout.summary)))

		lines = append(lines, strings.Join(cells, "  "))
	}

	return lines
}

func renderCaseHeader(layout columnLayout, s styles) string {
	cells := []string{
		pad("Case #", layout.number),
		pad("Severity", layout.severity),
		pad("Status", layout.status),
	}
	if !layout.compact {
		cells = append(cells, pad("Product", layout.product), pad("Modified", layout.modified))
	}
	cells = append(cells, pad("Summary", layout.summary))

	return s.tableHeader.Render(strings.Join(cells, "  "))
}

func renderFooter(keys KeyMap, s styles) string {
	return s.footer.Render(fmt.Sprintf(
		"%s %s  •  %s %s",
		keys.Refresh.Help().Key, keys.Refresh.Help().Desc,
		keys.Quit.Help().Key, keys.Quit.Help().Desc,
	))
}

// RenderState renders one frame of a dashboard state without a running
// program; the status command uses it for one-shot output.
func RenderState(state domain.DashboardState, width int) (string, error) {
	s := newStyles()
	if err := s.verifyCoverage(); err != nil {
		return "", err
	}

	totals := application.Summarize(state)
	layout := layoutForWidth(width)

	sections := []string{
		s.title.Render("Red Hat Cases Monitor"),
		renderSummary(totals, s),
	}
	for _, id := range state.Order {
		sections = append(sections, s.section.Render(renderAccount(state.Snapshots[id], layout, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...), nil
}

// pad truncates to the column width (display cells, not bytes) and fills
// the remainder so styled cells line up.
func pad(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(value, width, "…"), width)
}

func formatModified(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04")
}

func formatCountdown(next, now time.Time) string {
	if next.IsZero() || !next.After(now) {
		return "now"
	}

	remaining := next.Sub(now).Round(time.Second)
	if remaining >= time.Minute {
		return fmt.Sprintf("%dm", int(remaining.Minutes()))
	}
	return fmt.Sprintf("%ds", int(remaining.Seconds()))
}

func errorReason(err error) string {
	if fetchErr, ok := domain.AsFetchError(err); ok {
		return fetchErr.Reason
	}
	if authErr, ok := domain.AsAuthError(err); ok {
		return "auth " + authErr.Reason
	}
	return err.Error()
}
