package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingLine is one generated debit or credit line. Exactly one of
// Debit/Credit is non-zero on a valid line.
type PostingLine struct {
	LineNumber   int             `json:"lineNumber"` // 1-based, persisted in ascending order
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description"`
	SmartCode    SmartCode       `json:"smartCode"` // Line-level audit tag
	EntityID     *string         `json:"entityID"`  // Optional staff/customer/vendor tag
	CostCenterID *string         `json:"costCenterID"`
	DepartmentID *string         `json:"departmentID"`
}

// IsDebit reports whether the line carries a debit amount.
func (l PostingLine) IsDebit() bool {
	return l.Debit.GreaterThan(decimal.Zero)
}

// JournalEntry is a persisted, balanced set of posting lines derived from
// one finance event. Entries are immutable once written; corrections are
// new offsetting entries.
type JournalEntry struct {
	TransactionID   string              `json:"transactionID"`  // Header id in the store
	JournalEntryID  string              `json:"journalEntryID"` // Stable id exposed to callers
	OrganizationID  string              `json:"organizationID"`
	PeriodCode      string              `json:"periodCode"` // YYYY-MM posting period
	Category        TransactionCategory `json:"category"`
	TransactionDate time.Time           `json:"transactionDate"`
	CurrencyCode    string              `json:"currencyCode"`
	TotalDebits     decimal.Decimal     `json:"totalDebits"`
	TotalCredits    decimal.Decimal     `json:"totalCredits"`
	IsBalanced      bool                `json:"isBalanced"`
	OriginSmartCode SmartCode           `json:"originSmartCode"` // Smart code of the originating event
	CorrelationID   *string             `json:"correlationID"`
	Lines           []PostingLine       `json:"lines"`
	AuditFields
}

// PostingResult is the successful outcome of running one finance event
// through the posting pipeline.
type PostingResult struct {
	TransactionID  string        `json:"transactionID"`
	JournalEntryID string        `json:"journalEntryID"`
	PeriodCode     string        `json:"periodCode"`
	Lines          []PostingLine `json:"lines"`
	Warnings       []string      `json:"warnings"`
	Duplicate      bool          `json:"duplicate"` // True when an existing entry was returned for the same correlation id
}
