package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// POSSalesBlock aggregates one sales category (services, products or
// packages) for a business day.
type POSSalesBlock struct {
	Gross decimal.Decimal `json:"gross"`
	VAT   decimal.Decimal `json:"vat"`
	Net   decimal.Decimal `json:"net"`
	Count int             `json:"count"`
}

// POSPayments aggregates how the day's sales were settled.
type POSPayments struct {
	CashCollected  decimal.Decimal `json:"cashCollected"` // Includes cash tips
	CashTips       decimal.Decimal `json:"cashTips"`
	CardSettlement decimal.Decimal `json:"cardSettlement"`
	CardFees       decimal.Decimal `json:"cardFees"`
	CardTips       decimal.Decimal `json:"cardTips"`
	Vouchers       decimal.Decimal `json:"vouchers"`
	Other          decimal.Decimal `json:"other"`
}

// StaffCommission is one staff member's commission accrual row.
type StaffCommission struct {
	StaffID       string          `json:"staffID"`
	StaffName     string          `json:"staffName"`
	Revenue       decimal.Decimal `json:"revenue"`
	Rate          decimal.Decimal `json:"rate"`
	Commission    decimal.Decimal `json:"commission"`
	AllocatedTips decimal.Decimal `json:"allocatedTips"`
}

// POSAdjustments holds the day's discounts, refunds and voids.
type POSAdjustments struct {
	Discounts decimal.Decimal `json:"discounts"`
	Refunds   decimal.Decimal `json:"refunds"`
	Voids     decimal.Decimal `json:"voids"`
}

// POSReconciliation compares expected against actual collected totals.
type POSReconciliation struct {
	ExpectedTotal decimal.Decimal `json:"expectedTotal"`
	ActualTotal   decimal.Decimal `json:"actualTotal"`
	Variance      decimal.Decimal `json:"variance"`
}

// IsZero reports whether the POS supplied no reconciliation figures.
func (r POSReconciliation) IsZero() bool {
	return r.ExpectedTotal.IsZero() && r.ActualTotal.IsZero() && r.Variance.IsZero()
}

// POSDailySummary is one business day of aggregated point-of-sale
// activity. It is constructed by the POS system, validated, then
// decomposed into one sales event, N commission events and an optional
// fee event.
type POSDailySummary struct {
	OrganizationID string            `json:"organizationID"`
	BusinessDate   time.Time         `json:"businessDate"`
	CurrencyCode   string            `json:"currencyCode"`
	BranchID       *string           `json:"branchID"`
	TerminalID     *string           `json:"terminalID"`
	ShiftID        *string           `json:"shiftID"`
	Services       POSSalesBlock     `json:"services"`
	Products       POSSalesBlock     `json:"products"`
	Packages       POSSalesBlock     `json:"packages"`
	Payments       POSPayments       `json:"payments"`
	Commissions    []StaffCommission `json:"commissions"`
	Adjustments    *POSAdjustments   `json:"adjustments"`
	Reconciliation POSReconciliation `json:"reconciliation"`
}

// GrossSalesTotal sums the gross of all sales blocks.
func (s POSDailySummary) GrossSalesTotal() decimal.Decimal {
	return s.Services.Gross.Add(s.Products.Gross).Add(s.Packages.Gross)
}

// VATTotal sums the VAT of all sales blocks.
func (s POSDailySummary) VATTotal() decimal.Decimal {
	return s.Services.VAT.Add(s.Products.VAT).Add(s.Packages.VAT)
}

// PaymentTotal sums the sales portion of all settlements. CashCollected
// includes cash tips, so tips are backed out; CardSettlement already
// excludes card tips and processing fees.
func (s POSDailySummary) PaymentTotal() decimal.Decimal {
	cash := s.Payments.CashCollected.Sub(s.Payments.CashTips)
	return cash.Add(s.Payments.CardSettlement).Add(s.Payments.Vouchers).Add(s.Payments.Other)
}

// TipsTotal sums cash and card tips.
func (s POSDailySummary) TipsTotal() decimal.Decimal {
	return s.Payments.CashTips.Add(s.Payments.CardTips)
}

// CollectedTotal is all money received during the day before processing
// fees: sales payments plus tips. The reconciliation block's actual
// total must agree with this figure.
func (s POSDailySummary) CollectedTotal() decimal.Decimal {
	return s.PaymentTotal().Add(s.TipsTotal())
}

// POSSummaryRecord is the audit record persisted after a day's summary is
// decomposed, referencing every journal entry the orchestrator produced.
type POSSummaryRecord struct {
	SummaryID       string          `json:"summaryID"`
	OrganizationID  string          `json:"organizationID"`
	BusinessDate    time.Time       `json:"businessDate"`
	Summary         POSDailySummary `json:"summary"`
	JournalEntryIDs []string        `json:"journalEntryIDs"`
	Warnings        []string        `json:"warnings"`
	AuditFields
}

// CommissionAccrual links one staff commission row to the journal entry
// that accrued it.
type CommissionAccrual struct {
	StaffID        string          `json:"staffID"`
	StaffName      string          `json:"staffName"`
	Amount         decimal.Decimal `json:"amount"`
	JournalEntryID string          `json:"journalEntryID"`
}

// EODReport is the aggregate result of processing one POS daily summary.
type EODReport struct {
	SummaryID          string              `json:"summaryID"`
	BusinessDate       time.Time           `json:"businessDate"`
	SalesJournalID     string              `json:"salesJournalID"`
	CommissionAccruals []CommissionAccrual `json:"commissionAccruals"`
	FeeJournalID       *string             `json:"feeJournalID"`
	GrossSales         decimal.Decimal     `json:"grossSales"`
	VATTotal           decimal.Decimal     `json:"vatTotal"`
	TipsTotal          decimal.Decimal     `json:"tipsTotal"`
	CommissionTotal    decimal.Decimal     `json:"commissionTotal"`
	Warnings           []string            `json:"warnings"`
}
