package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRow is the persisted journal-entry header in the universal
// transaction store.
type TransactionRow struct {
	TransactionID   string          `json:"transactionID"`
	JournalEntryID  string          `json:"journalEntryID"`
	OrganizationID  string          `json:"organizationID"`
	Category        string          `json:"category"`
	TransactionDate time.Time       `json:"transactionDate"`
	CurrencyCode    string          `json:"currencyCode"`
	PeriodCode      string          `json:"periodCode"`
	SmartCode       string          `json:"smartCode"` // System auto-posting marker
	OriginSmartCode string          `json:"originSmartCode"`
	CorrelationID   *string         `json:"correlationID"`
	TotalDebits     decimal.Decimal `json:"totalDebits"`
	TotalCredits    decimal.Decimal `json:"totalCredits"`
	IsBalanced      bool            `json:"isBalanced"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// TransactionLineRow is one persisted posting line.
type TransactionLineRow struct {
	LineID        string          `json:"lineID"`
	TransactionID string          `json:"transactionID"`
	LineNumber    int             `json:"lineNumber"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description"`
	SmartCode     string          `json:"smartCode"`
	EntityID      *string         `json:"entityID"`
	CostCenterID  *string         `json:"costCenterID"`
	DepartmentID  *string         `json:"departmentID"`
}
