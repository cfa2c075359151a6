package dashboard

import (
	"fmt"

	"github.com/avigier/rhcases/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	account      lipgloss.Style
	detail       lipgloss.Style
	dim          lipgloss.Style
	warning      lipgloss.Style
	stale        lipgloss.Style
	empty        lipgloss.Style
	section      lipgloss.Style
	summaryLabel lipgloss.Style
	onRedHat     lipgloss.Style
	onCustomer   lipgloss.Style
	footer       lipgloss.Style
	tableHeader  lipgloss.Style

	severity map[domain.Severity]lipgloss.Style
	status   map[domain.CaseStatus]lipgloss.Style
	fallback lipgloss.Style
}

func newStyles() styles {
	onRedHat := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	onCustomer := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("221"))

	return styles{
		title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		header:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		warning:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		stale:        lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("221")),
		empty:        lipgloss.NewStyle().Faint(true),
		section:      lipgloss.NewStyle().MarginTop(1),
		summaryLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		onRedHat:     onRedHat,
		onCustomer:   onCustomer,
		footer:       lipgloss.NewStyle().Faint(true),
		tableHeader:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),

		severity: map[domain.Severity]lipgloss.Style{
			domain.SeverityUrgent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			domain.SeverityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			domain.SeverityNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
			domain.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("77")),
		},
		status: map[domain.CaseStatus]lipgloss.Style{
			domain.StatusWaitingOnRedHat:   onRedHat,
			domain.StatusWaitingOnCustomer: onCustomer,
			domain.StatusOther:             lipgloss.NewStyle().Faint(true),
		},
		fallback: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	}
}

// severityStyle is total over the severity enum: unknown upstream values
// render with the fallback style instead of disappearing.
func (s styles) severityStyle(severity domain.Severity) lipgloss.Style {
	if style, ok := s.severity[severity]; ok {
		return style
	}
	return s.fallback
}

func (s styles) statusStyle(status domain.CaseStatus) lipgloss.Style {
	if style, ok := s.status[status]; ok {
		return style
	}
	return s.fallback
}

// verifyCoverage checks at startup that every known enum variant has an
// explicit style, so a new severity or status fails loudly instead of
// silently falling through to the fallback.
func (s styles) verifyCoverage() error {
	for _, severity := range domain.Severities {
		if _, ok := s.severity[severity]; !ok {
			return fmt.Errorf("no style defined for severity %q", severity)
		}
	}
	for _, status := range []domain.CaseStatus{
		domain.StatusWaitingOnCustomer,
		domain.StatusWaitingOnRedHat,
		domain.StatusOther,
	} {
		if _, ok := s.status[status]; !ok {
			return fmt.Errorf("no style defined for status %q", status)
		}
	}
	return nil
}
