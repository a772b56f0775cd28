package domain

import "time"

// PeriodStatus is the lifecycle state of a fiscal period.
type PeriodStatus string

const (
	PeriodFuture  PeriodStatus = "FUTURE"
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodCurrent PeriodStatus = "CURRENT"
	PeriodClosing PeriodStatus = "CLOSING"
	PeriodClosed  PeriodStatus = "CLOSED" // Terminal except for non-financial notes
)

// YearStatus is the lifecycle state of a fiscal year.
type YearStatus string

const (
	YearFuture  YearStatus = "FUTURE"
	YearCurrent YearStatus = "CURRENT"
	YearClosed  YearStatus = "CLOSED"
)

// FiscalPeriod gates whether a transaction date may still receive
// postings. Periods are created lazily the first time a date falls inside
// them. Version supports the optimistic check that serializes a close
// against concurrent postings.
type FiscalPeriod struct {
	PeriodID       string       `json:"periodID"`
	OrganizationID string       `json:"organizationID"`
	FiscalYear     int          `json:"fiscalYear"`
	PeriodNumber   int          `json:"periodNumber"` // 1-12
	PeriodCode     string       `json:"periodCode"`   // YYYY-MM
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	Status         PeriodStatus `json:"status"`
	IsYearEnd      bool         `json:"isYearEnd"` // December
	ClosedBy       *string      `json:"closedBy"`
	ClosedAt       *time.Time   `json:"closedAt"`
	Version        int          `json:"version"`
	AuditFields
}

// Contains reports whether the date falls inside the period bounds.
func (p FiscalPeriod) Contains(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// FiscalYear is the parent calendar of twelve fiscal periods, created
// lazily when its first period is created.
type FiscalYear struct {
	YearID               string     `json:"yearID"`
	OrganizationID       string     `json:"organizationID"`
	Year                 int        `json:"year"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              time.Time  `json:"endDate"`
	Status               YearStatus `json:"status"`
	PeriodCount          int        `json:"periodCount"` // Fixed at 12
	BaseCurrency         string     `json:"baseCurrency"`
	RetainedEarningsAcct string     `json:"retainedEarningsAccount"`
	YearEndProcessed     bool       `json:"yearEndProcessed"`
	AuditFields
}

// PostingDecision is the outcome of the period gatekeeper's state-machine
// check for one (period, date) pair.
type PostingDecision struct {
	Allowed          bool   `json:"allowed"`
	RequiresApproval bool   `json:"requiresApproval"` // Elevated approval needed (CLOSING periods)
	Reason           string `json:"reason"`           // Set when not allowed
	Warning          string `json:"warning"`          // Non-fatal hint (future posting, stale period)
}
