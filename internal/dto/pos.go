package dto

import (
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// POSSalesBlockRequest aggregates one sales category for the day.
type POSSalesBlockRequest struct {
	Gross decimal.Decimal `json:"gross"`
	VAT   decimal.Decimal `json:"vat"`
	Net   decimal.Decimal `json:"net"`
	Count int             `json:"count"`
}

// POSPaymentsRequest aggregates the day's settlements.
type POSPaymentsRequest struct {
	CashCollected  decimal.Decimal `json:"cashCollected"`
	CashTips       decimal.Decimal `json:"cashTips"`
	CardSettlement decimal.Decimal `json:"cardSettlement"`
	CardFees       decimal.Decimal `json:"cardFees"`
	CardTips       decimal.Decimal `json:"cardTips"`
	Vouchers       decimal.Decimal `json:"vouchers"`
	Other          decimal.Decimal `json:"other"`
}

// StaffCommissionRequest is one staff member's commission row.
type StaffCommissionRequest struct {
	StaffID       string          `json:"staffID" binding:"required"`
	StaffName     string          `json:"staffName"`
	Revenue       decimal.Decimal `json:"revenue"`
	Rate          decimal.Decimal `json:"rate"`
	Commission    decimal.Decimal `json:"commission"`
	AllocatedTips decimal.Decimal `json:"allocatedTips"`
}

// POSAdjustmentsRequest holds discounts, refunds and voids.
type POSAdjustmentsRequest struct {
	Discounts decimal.Decimal `json:"discounts"`
	Refunds   decimal.Decimal `json:"refunds"`
	Voids     decimal.Decimal `json:"voids"`
}

// POSReconciliationRequest compares expected and actual totals.
type POSReconciliationRequest struct {
	ExpectedTotal decimal.Decimal `json:"expectedTotal"`
	ActualTotal   decimal.Decimal `json:"actualTotal"`
	Variance      decimal.Decimal `json:"variance"`
}

// ProcessDailySummaryRequest is one business day of POS activity
// submitted for end-of-day decomposition.
type ProcessDailySummaryRequest struct {
	OrganizationID string                   `json:"organizationID" binding:"required"`
	BusinessDate   time.Time                `json:"businessDate" binding:"required"`
	CurrencyCode   string                   `json:"currencyCode" binding:"required,len=3"`
	BranchID       *string                  `json:"branchID"`
	TerminalID     *string                  `json:"terminalID"`
	ShiftID        *string                  `json:"shiftID"`
	Services       POSSalesBlockRequest     `json:"services"`
	Products       POSSalesBlockRequest     `json:"products"`
	Packages       POSSalesBlockRequest     `json:"packages"`
	Payments       POSPaymentsRequest       `json:"payments"`
	Commissions    []StaffCommissionRequest `json:"commissions"`
	Adjustments    *POSAdjustmentsRequest   `json:"adjustments"`
	Reconciliation POSReconciliationRequest `json:"reconciliation"`
}

// ToDomainSummary converts the request into the orchestrator's input.
func (r ProcessDailySummaryRequest) ToDomainSummary() domain.POSDailySummary {
	summary := domain.POSDailySummary{
		OrganizationID: r.OrganizationID,
		BusinessDate:   r.BusinessDate,
		CurrencyCode:   r.CurrencyCode,
		BranchID:       r.BranchID,
		TerminalID:     r.TerminalID,
		ShiftID:        r.ShiftID,
		Services:       domain.POSSalesBlock(r.Services),
		Products:       domain.POSSalesBlock(r.Products),
		Packages:       domain.POSSalesBlock(r.Packages),
		Payments:       domain.POSPayments(r.Payments),
		Reconciliation: domain.POSReconciliation(r.Reconciliation),
	}
	for _, row := range r.Commissions {
		summary.Commissions = append(summary.Commissions, domain.StaffCommission(row))
	}
	if r.Adjustments != nil {
		adj := domain.POSAdjustments(*r.Adjustments)
		summary.Adjustments = &adj
	}
	return summary
}

// CommissionAccrualResponse links one staff row to its accrual journal.
type CommissionAccrualResponse struct {
	StaffID        string          `json:"staffID"`
	StaffName      string          `json:"staffName"`
	Amount         decimal.Decimal `json:"amount"`
	JournalEntryID string          `json:"journalEntryID"`
}

// EODReportResponse is the aggregate report of one processed POS day.
type EODReportResponse struct {
	SummaryID          string                      `json:"summaryID"`
	BusinessDate       time.Time                   `json:"businessDate"`
	SalesJournalID     string                      `json:"salesJournalID"`
	CommissionAccruals []CommissionAccrualResponse `json:"commissionAccruals"`
	FeeJournalID       *string                     `json:"feeJournalID,omitempty"`
	GrossSales         decimal.Decimal             `json:"grossSales"`
	VATTotal           decimal.Decimal             `json:"vatTotal"`
	TipsTotal          decimal.Decimal             `json:"tipsTotal"`
	CommissionTotal    decimal.Decimal             `json:"commissionTotal"`
	Warnings           []string                    `json:"warnings,omitempty"`
}

// ToEODReportResponse converts the orchestrator's report.
func ToEODReportResponse(report *domain.EODReport) EODReportResponse {
	accruals := make([]CommissionAccrualResponse, len(report.CommissionAccruals))
	for i, a := range report.CommissionAccruals {
		accruals[i] = CommissionAccrualResponse(a)
	}
	return EODReportResponse{
		SummaryID:          report.SummaryID,
		BusinessDate:       report.BusinessDate,
		SalesJournalID:     report.SalesJournalID,
		CommissionAccruals: accruals,
		FeeJournalID:       report.FeeJournalID,
		GrossSales:         report.GrossSales,
		VATTotal:           report.VATTotal,
		TipsTotal:          report.TipsTotal,
		CommissionTotal:    report.CommissionTotal,
		Warnings:           report.Warnings,
	}
}
