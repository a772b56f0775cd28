package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/middleware"
)

// Smart codes of the events a POS end-of-day decomposes into. Every
// organization's rule set must register rules for these.
const (
	POSDailySalesSmartCode domain.SmartCode = "SALON.POS.DAILY.SALES.v1"
	CommissionSmartCode    domain.SmartCode = "SALON.FIN.HR.COMMISSION.v1"
	CardFeeSmartCode       domain.SmartCode = "SALON.FIN.BANK.CARD_FEE.v1"
)

// commissionTolerance is the allowed |commission - revenue*rate| drift
// for a staff row to validate.
var commissionTolerance = decimal.NewFromFloat(0.5)

// paymentTolerance is the allowed |payments - gross sales| drift, one
// currency unit.
var paymentTolerance = decimal.NewFromInt(1)

// vatTolerance is the allowed drift between reported VAT and the amount
// implied by the standard rate.
var vatTolerance = decimal.NewFromFloat(0.5)

// varianceTolerance is the allowed rounding drift in the reconciliation
// block's variance arithmetic.
var varianceTolerance = decimal.NewFromFloat(0.01)

// posService decomposes one day's point-of-sale activity into a sales
// journal, per-staff commission accruals and a processing-fee posting.
type posService struct {
	postingSvc  portssvc.PostingSvcFacade
	summaryRepo portsrepo.POSSummaryRepositoryFacade
	vatRate     decimal.Decimal // Standard VAT rate used for consistency checks
	now         func() time.Time
}

// NewPOSService creates the POS end-of-day orchestrator.
func NewPOSService(postingSvc portssvc.PostingSvcFacade, summaryRepo portsrepo.POSSummaryRepositoryFacade, vatRate decimal.Decimal) portssvc.POSSvcFacade {
	return &posService{
		postingSvc:  postingSvc,
		summaryRepo: summaryRepo,
		vatRate:     vatRate,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.POSSvcFacade = (*posService)(nil)

// ProcessDailySummary runs the end-of-day state machine:
// Validate -> PostSales -> PostCommissions* -> PostFees? -> Finalize.
// A sales-posting failure aborts the whole day; commission and fee
// failures are demoted to warnings on an otherwise successful result.
func (s *posService) ProcessDailySummary(ctx context.Context, callerOrgID string, summary domain.POSDailySummary) (*domain.EODReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("organization_id", summary.OrganizationID),
		slog.String("business_date", summary.BusinessDate.Format("2006-01-02")),
	)

	if violations := s.validateSummary(summary, callerOrgID); len(violations) > 0 {
		logger.Warn("POS daily summary rejected by validator", slog.Int("violations", len(violations)))
		return nil, violations
	}

	var warnings []string
	journalIDs := make([]string, 0, len(summary.Commissions)+2)

	// PostSales: one POS-summary event from the aggregate totals. This
	// is the fatal stage; without a sales journal there is no day.
	salesResult, err := s.postingSvc.PostEvent(ctx, callerOrgID, s.buildSalesEvent(summary))
	if err != nil {
		logger.Error("Sales posting failed; aborting day", slog.String("error", err.Error()))
		return nil, fmt.Errorf("sales posting failed: %w", err)
	}
	warnings = append(warnings, salesResult.Warnings...)
	journalIDs = append(journalIDs, salesResult.JournalEntryID)

	// PostCommissions: one independent expense event per staff row with
	// a positive commission.
	accruals := make([]domain.CommissionAccrual, 0, len(summary.Commissions))
	commissionTotal := decimal.Zero
	for _, row := range summary.Commissions {
		if row.Commission.LessThanOrEqual(decimal.Zero) {
			continue
		}
		result, err := s.postingSvc.PostEvent(ctx, callerOrgID, s.buildCommissionEvent(summary, row))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("commission accrual failed for staff %s: %v", row.StaffID, err))
			continue
		}
		warnings = append(warnings, result.Warnings...)
		journalIDs = append(journalIDs, result.JournalEntryID)
		commissionTotal = commissionTotal.Add(row.Commission)
		accruals = append(accruals, domain.CommissionAccrual{
			StaffID:        row.StaffID,
			StaffName:      row.StaffName,
			Amount:         row.Commission,
			JournalEntryID: result.JournalEntryID,
		})
	}

	// PostFees: one bank-fee event when card processing fees were charged.
	var feeJournalID *string
	if summary.Payments.CardFees.GreaterThan(decimal.Zero) {
		result, err := s.postingSvc.PostEvent(ctx, callerOrgID, s.buildFeeEvent(summary))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("card fee posting failed: %v", err))
		} else {
			warnings = append(warnings, result.Warnings...)
			journalIDs = append(journalIDs, result.JournalEntryID)
			feeJournalID = &result.JournalEntryID
		}
	}

	// Finalize: persist the audit record referencing every produced
	// journal entry.
	now := s.now()
	record := domain.POSSummaryRecord{
		SummaryID:       uuid.NewString(),
		OrganizationID:  summary.OrganizationID,
		BusinessDate:    summary.BusinessDate,
		Summary:         summary,
		JournalEntryIDs: journalIDs,
		Warnings:        warnings,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}
	if err := s.summaryRepo.SaveSummaryRecord(ctx, record); err != nil {
		// The journals exist; losing the audit record is a warning, not
		// a reason to fail the day.
		logger.Error("Failed to persist POS summary record", slog.String("error", err.Error()))
		warnings = append(warnings, fmt.Sprintf("audit summary record not persisted: %v", err))
	}

	logger.Info("POS day processed",
		slog.String("sales_journal_id", salesResult.JournalEntryID),
		slog.Int("commission_accruals", len(accruals)),
		slog.Int("warnings", len(warnings)))
	return &domain.EODReport{
		SummaryID:          record.SummaryID,
		BusinessDate:       summary.BusinessDate,
		SalesJournalID:     salesResult.JournalEntryID,
		CommissionAccruals: accruals,
		FeeJournalID:       feeJournalID,
		GrossSales:         summary.GrossSalesTotal(),
		VATTotal:           summary.VATTotal(),
		TipsTotal:          summary.TipsTotal(),
		CommissionTotal:    commissionTotal,
		Warnings:           warnings,
	}, nil
}

// validateSummary checks the daily summary before any posting occurs.
func (s *posService) validateSummary(summary domain.POSDailySummary, callerOrgID string) ValidationErrors {
	var errs ValidationErrors

	if summary.OrganizationID == "" {
		errs = append(errs, "organization id is required")
	}
	if callerOrgID != "" && summary.OrganizationID != "" && summary.OrganizationID != callerOrgID {
		errs = append(errs, fmt.Sprintf("summary organization %s does not match calling context %s", summary.OrganizationID, callerOrgID))
	}
	if len(summary.CurrencyCode) != 3 {
		errs = append(errs, fmt.Sprintf("currency %q must be a 3-letter code", summary.CurrencyCode))
	}
	if summary.BusinessDate.IsZero() {
		errs = append(errs, "business date is required")
	} else if summary.BusinessDate.After(s.now()) {
		errs = append(errs, fmt.Sprintf("business date %s is in the future", summary.BusinessDate.Format("2006-01-02")))
	}

	gross := summary.GrossSalesTotal()
	if gross.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "gross sales must be positive")
	}

	// Payments must reconcile with sales to within one currency unit.
	payments := summary.PaymentTotal()
	if payments.Sub(gross).Abs().GreaterThan(paymentTolerance) {
		errs = append(errs, fmt.Sprintf("payment total %s does not reconcile with gross sales %s", payments, gross))
	}

	// VAT must be consistent with the standard rate on the net amount.
	vat := summary.VATTotal()
	expectedVAT := gross.Sub(vat).Mul(s.vatRate).Round(2)
	if vat.Sub(expectedVAT).Abs().GreaterThan(vatTolerance) {
		errs = append(errs, fmt.Sprintf("VAT total %s inconsistent with standard rate %s (expected %s)", vat, s.vatRate, expectedVAT))
	}

	// When the POS reports a reconciliation block it must be internally
	// consistent and its actual total must match the money collected.
	if rec := summary.Reconciliation; !rec.IsZero() {
		if rec.ActualTotal.Sub(rec.ExpectedTotal).Sub(rec.Variance).Abs().GreaterThan(varianceTolerance) {
			errs = append(errs, fmt.Sprintf("reconciliation variance %s does not equal actual %s minus expected %s",
				rec.Variance, rec.ActualTotal, rec.ExpectedTotal))
		}
		collected := summary.CollectedTotal()
		if rec.ActualTotal.Sub(collected).Abs().GreaterThan(paymentTolerance) {
			errs = append(errs, fmt.Sprintf("reconciliation actual total %s does not match collected payments %s",
				rec.ActualTotal, collected))
		}
	}

	for _, row := range summary.Commissions {
		expected := row.Revenue.Mul(row.Rate)
		if row.Commission.Sub(expected).Abs().GreaterThan(commissionTolerance) {
			errs = append(errs, fmt.Sprintf("staff %s commission %s deviates from revenue %s at rate %s (expected %s)",
				row.StaffID, row.Commission, row.Revenue, row.Rate, expected.Round(2)))
		}
	}

	return errs
}

// buildSalesEvent maps the aggregate totals into one POS-summary finance
// event. CardSettlement in the totals block is the money actually
// received on card: settlement plus card tips minus processing fees.
func (s *posService) buildSalesEvent(summary domain.POSDailySummary) domain.FinanceEvent {
	cardReceived := summary.Payments.CardSettlement.Add(summary.Payments.CardTips).Sub(summary.Payments.CardFees)
	correlationID := eodCorrelationID(summary, "sales")
	return domain.FinanceEvent{
		OrganizationID:      summary.OrganizationID,
		TransactionCategory: domain.CategoryPOSSummary,
		SmartCode:           POSDailySalesSmartCode,
		TransactionDate:     summary.BusinessDate,
		TotalAmount:         summary.GrossSalesTotal(),
		TransactionCurrency: summary.CurrencyCode,
		BaseCurrency:        summary.CurrencyCode,
		ExchangeRate:        decimal.NewFromInt(1),
		BusinessContext: domain.BusinessContext{
			Channel:    "pos",
			Note:       fmt.Sprintf("POS daily sales %s", summary.BusinessDate.Format("2006-01-02")),
			BranchID:   summary.BranchID,
			TerminalID: summary.TerminalID,
			ShiftID:    summary.ShiftID,
		},
		Metadata: domain.EventMetadata{
			IngestSource:  "pos_eod",
			CorrelationID: &correlationID,
		},
		Totals: &domain.POSTotals{
			GrossSales:     summary.GrossSalesTotal(),
			VATAmount:      summary.VATTotal(),
			Tips:           summary.TipsTotal(),
			Fees:           summary.Payments.CardFees,
			CashCollected:  summary.Payments.CashCollected,
			CardSettlement: cardReceived,
			Discounts:      discountsOf(summary),
		},
	}
}

// buildCommissionEvent maps one staff row into an independent commission
// accrual event tagged with the staff entity.
func (s *posService) buildCommissionEvent(summary domain.POSDailySummary, row domain.StaffCommission) domain.FinanceEvent {
	staffID := row.StaffID
	correlationID := eodCorrelationID(summary, "commission-"+row.StaffID)
	return domain.FinanceEvent{
		OrganizationID:      summary.OrganizationID,
		TransactionCategory: domain.CategoryCommission,
		SmartCode:           CommissionSmartCode,
		TransactionDate:     summary.BusinessDate,
		SourceEntityID:      &staffID,
		TotalAmount:         row.Commission,
		TransactionCurrency: summary.CurrencyCode,
		BaseCurrency:        summary.CurrencyCode,
		ExchangeRate:        decimal.NewFromInt(1),
		BusinessContext: domain.BusinessContext{
			Channel:  "pos",
			Note:     fmt.Sprintf("Commission accrual %s (%s)", row.StaffName, summary.BusinessDate.Format("2006-01-02")),
			BranchID: summary.BranchID,
		},
		Metadata: domain.EventMetadata{
			IngestSource:  "pos_eod",
			CorrelationID: &correlationID,
		},
	}
}

// buildFeeEvent maps the day's card processing fees into one bank-fee
// event.
func (s *posService) buildFeeEvent(summary domain.POSDailySummary) domain.FinanceEvent {
	correlationID := eodCorrelationID(summary, "fees")
	return domain.FinanceEvent{
		OrganizationID:      summary.OrganizationID,
		TransactionCategory: domain.CategoryBankFee,
		SmartCode:           CardFeeSmartCode,
		TransactionDate:     summary.BusinessDate,
		TotalAmount:         summary.Payments.CardFees,
		TransactionCurrency: summary.CurrencyCode,
		BaseCurrency:        summary.CurrencyCode,
		ExchangeRate:        decimal.NewFromInt(1),
		BusinessContext: domain.BusinessContext{
			Channel:  "pos",
			Note:     fmt.Sprintf("Card processing fees %s", summary.BusinessDate.Format("2006-01-02")),
			BranchID: summary.BranchID,
		},
		Metadata: domain.EventMetadata{
			IngestSource:  "pos_eod",
			CorrelationID: &correlationID,
		},
	}
}

// eodCorrelationID derives a deterministic correlation id so a replayed
// day never double-posts.
func eodCorrelationID(summary domain.POSDailySummary, part string) string {
	return fmt.Sprintf("pos-eod:%s:%s:%s", summary.OrganizationID, summary.BusinessDate.Format("2006-01-02"), part)
}

func discountsOf(summary domain.POSDailySummary) decimal.Decimal {
	if summary.Adjustments == nil {
		return decimal.Zero
	}
	return summary.Adjustments.Discounts
}
