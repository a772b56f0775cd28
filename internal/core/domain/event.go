package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategory classifies the business occurrence a finance event
// describes. The line generator dispatches on this value.
type TransactionCategory string

const (
	CategoryExpense    TransactionCategory = "EXPENSE"
	CategoryRevenue    TransactionCategory = "REVENUE"
	CategoryBankFee    TransactionCategory = "BANK_FEE"
	CategoryCommission TransactionCategory = "COMMISSION"
	CategoryPOSSummary TransactionCategory = "POS_DAILY_SUMMARY"
	CategoryGeneric    TransactionCategory = "GENERIC"
)

// BusinessContext carries the business-facing context of a finance event.
type BusinessContext struct {
	Channel      string  `json:"channel"`      // e.g. "pos", "chat", "api"
	Note         string  `json:"note"`         // Free-text description
	Category     string  `json:"category"`     // Business category label
	VATInclusive bool    `json:"vatInclusive"` // Whether TotalAmount already includes VAT
	BranchID     *string `json:"branchID"`     // Optional branch reference
	TerminalID   *string `json:"terminalID"`   // Optional POS terminal reference
	ShiftID      *string `json:"shiftID"`      // Optional shift reference
}

// EventMetadata carries technical metadata about how the event arrived.
type EventMetadata struct {
	IngestSource      string  `json:"ingestSource"`      // e.g. "pos_eod", "nl_parser"
	OriginalReference string  `json:"originalReference"` // Upstream document/reference number
	CorrelationID     *string `json:"correlationID"`     // Deduplication key, unique per organization
}

// POSTotals is the aggregate breakdown attached only to POS daily-summary
// events. Each amount drives at most one generated posting line; zero
// amounts produce no line.
type POSTotals struct {
	GrossSales     decimal.Decimal `json:"grossSales"`
	VATAmount      decimal.Decimal `json:"vatAmount"`
	Tips           decimal.Decimal `json:"tips"`
	Fees           decimal.Decimal `json:"fees"`
	CashCollected  decimal.Decimal `json:"cashCollected"`
	CardSettlement decimal.Decimal `json:"cardSettlement"`
	Discounts      decimal.Decimal `json:"discounts"`
	Commission     decimal.Decimal `json:"commission"`
}

// FinanceEvent is the Universal Finance Event: the normalized description
// of one business occurrence before ledger expansion. It is ephemeral
// input and is never persisted as-is; only the journal entry derived from
// it is stored.
type FinanceEvent struct {
	OrganizationID      string              `json:"organizationID"`
	TransactionCategory TransactionCategory `json:"transactionCategory"`
	SmartCode           SmartCode           `json:"smartCode"`
	TransactionDate     time.Time           `json:"transactionDate"`
	SourceEntityID      *string             `json:"sourceEntityID"` // Customer/vendor/staff reference
	TotalAmount         decimal.Decimal     `json:"totalAmount"`    // Must be > 0
	TransactionCurrency string              `json:"transactionCurrency"`
	BaseCurrency        string              `json:"baseCurrency"`
	ExchangeRate        decimal.Decimal     `json:"exchangeRate"` // Must be > 0
	BusinessContext     BusinessContext     `json:"businessContext"`
	Metadata            EventMetadata       `json:"metadata"`
	Lines               []PostingLine       `json:"lines"`  // Must be empty on input; the pipeline is the only line producer
	Totals              *POSTotals          `json:"totals"` // POS daily summaries only
}
