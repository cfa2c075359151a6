package domain

import "time"

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityNormal Severity = "Normal"
	SeverityHigh   Severity = "High"
	SeverityUrgent Severity = "Urgent"
)

// Severities lists every known severity, most urgent first.
var Severities = []Severity{SeverityUrgent, SeverityHigh, SeverityNormal, SeverityLow}

// Rank orders severities for sorting: lower rank is more urgent. Unknown
// severities sort after every known one.
func (s Severity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return len(Severities)
}

type CaseStatus string

const (
	StatusWaitingOnCustomer CaseStatus = "Waiting on Customer"
	StatusWaitingOnRedHat   CaseStatus = "Waiting on Red Hat"
	StatusOther             CaseStatus = "Other"
)

// ParseCaseStatus maps an upstream status string onto the two statuses the
// dashboard filters on. Anything else collapses to StatusOther; the raw
// data may carry statuses outside the filter.
func ParseCaseStatus(raw string) CaseStatus {
	switch raw {
	case string(StatusWaitingOnCustomer):
		return StatusWaitingOnCustomer
	case string(StatusWaitingOnRedHat):
		return StatusWaitingOnRedHat
	default:
		return StatusOther
	}
}

const casePortalBaseURL = "https://access.redhat.com/support/cases/#/case/"

// Case is an immutable snapshot of one support case as returned by a single
// fetch cycle. Summaries are kept at full fidelity; any truncation is a
// rendering concern.
type Case struct {
	Number       string
	Summary      string
	Severity     Severity
	Status       CaseStatus
	Product      string
	LastModified time.Time
}

// URL returns the customer-portal link for the case.
func (c Case) URL() string {
	return casePortalBaseURL + c.Number
}
