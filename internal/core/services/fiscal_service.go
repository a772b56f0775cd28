package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/middleware"
)

// YearEndCloseSmartCode tags the single closing journal emitted by
// CloseFiscalYear. It is the one entry allowed into a closed period.
const YearEndCloseSmartCode domain.SmartCode = "SALON.FIN.GL.YEAR_END_CLOSE.v1"

// FiscalError is a period-gate rejection: one explanatory reason, plus
// any non-fatal warning the gate emitted before rejecting.
type FiscalError struct {
	PeriodCode string
	Reason     string
}

func (e *FiscalError) Error() string {
	return fmt.Sprintf("posting to period %s rejected: %s", e.PeriodCode, e.Reason)
}

// fiscalService owns period/year lookup, lazy creation and status-based
// posting permission.
type fiscalService struct {
	fiscalRepo           portsrepo.FiscalRepositoryFacade
	journalRepo          portsrepo.JournalRepositoryFacade
	ruleRepo             portsrepo.RuleRepositoryFacade
	baseCurrency         string
	retainedEarningsAcct string
	now                  func() time.Time
}

// NewFiscalService creates the fiscal period gatekeeper.
func NewFiscalService(fiscalRepo portsrepo.FiscalRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, ruleRepo portsrepo.RuleRepositoryFacade, baseCurrency, retainedEarningsAcct string) portssvc.FiscalSvcFacade {
	return &fiscalService{
		fiscalRepo:           fiscalRepo,
		journalRepo:          journalRepo,
		ruleRepo:             ruleRepo,
		baseCurrency:         baseCurrency,
		retainedEarningsAcct: retainedEarningsAcct,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// PeriodCodeFor derives the YYYY-MM period code from a transaction date.
func PeriodCodeFor(date time.Time) string {
	return date.Format("2006-01")
}

// ResolvePeriod looks up the period covering the date, creating it (and
// its parent fiscal year) lazily on first use.
func (s *fiscalService) ResolvePeriod(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	code := PeriodCodeFor(date)

	period, err := s.fiscalRepo.FindPeriodByCode(ctx, organizationID, code)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up period %s: %w", code, err)
	}

	created := s.derivePeriod(organizationID, date)
	if err := s.ensureFiscalYear(ctx, organizationID, created.FiscalYear); err != nil {
		return nil, err
	}

	if err := s.fiscalRepo.SavePeriod(ctx, created); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a creation race; the winner's row is authoritative.
			return s.fiscalRepo.FindPeriodByCode(ctx, organizationID, code)
		}
		return nil, fmt.Errorf("failed to create period %s: %w", code, err)
	}

	logger.Info("Fiscal period created lazily",
		slog.String("organization_id", organizationID),
		slog.String("period_code", code),
		slog.String("status", string(created.Status)))
	return &created, nil
}

// derivePeriod computes a new period's bounds and initial status from the
// transaction date and "now".
func (s *fiscalService) derivePeriod(organizationID string, date time.Time) domain.FiscalPeriod {
	now := s.now()
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	status := domain.PeriodFuture
	switch {
	case !now.Before(start) && !now.After(end):
		status = domain.PeriodCurrent
	case now.After(end):
		status = domain.PeriodOpen
	}

	return domain.FiscalPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: organizationID,
		FiscalYear:     date.Year(),
		PeriodNumber:   int(date.Month()),
		PeriodCode:     PeriodCodeFor(date),
		StartDate:      start,
		EndDate:        end,
		Status:         status,
		IsYearEnd:      date.Month() == time.December,
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}
}

// ensureFiscalYear lazily creates the parent fiscal year with the default
// 12-period calendar layout and the organization's base currency.
func (s *fiscalService) ensureFiscalYear(ctx context.Context, organizationID string, year int) error {
	_, err := s.fiscalRepo.FindYear(ctx, organizationID, year)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up fiscal year %d: %w", year, err)
	}

	now := s.now()
	status := domain.YearCurrent
	if year > now.Year() {
		status = domain.YearFuture
	}

	fy := domain.FiscalYear{
		YearID:               uuid.NewString(),
		OrganizationID:       organizationID,
		Year:                 year,
		StartDate:            time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		Status:               status,
		PeriodCount:          12,
		BaseCurrency:         s.baseCurrency,
		RetainedEarningsAcct: s.retainedEarningsAcct,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}
	if err := s.fiscalRepo.SaveYear(ctx, fy); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
		return fmt.Errorf("failed to create fiscal year %d: %w", year, err)
	}
	return nil
}

// monthIndex flattens a date to a comparable year*12+month ordinal.
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// CanPost is the pure state-machine decision over period status.
func (s *fiscalService) CanPost(period domain.FiscalPeriod, date time.Time) domain.PostingDecision {
	now := s.now()

	switch period.Status {
	case domain.PeriodClosed:
		return domain.PostingDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("period %s is closed", period.PeriodCode),
		}
	case domain.PeriodClosing:
		return domain.PostingDecision{
			Allowed:          false,
			RequiresApproval: true,
			Reason:           fmt.Sprintf("period %s is closing; posting requires elevated approval", period.PeriodCode),
		}
	case domain.PeriodFuture:
		// Postings one calendar month ahead are tolerated with a warning;
		// anything further out is rejected.
		if monthIndex(date)-monthIndex(now) > 1 {
			return domain.PostingDecision{
				Allowed: false,
				Reason:  fmt.Sprintf("date %s is more than one month in the future", date.Format("2006-01-02")),
			}
		}
		return domain.PostingDecision{
			Allowed: true,
			Warning: fmt.Sprintf("posting into future period %s", period.PeriodCode),
		}
	case domain.PeriodOpen:
		decision := domain.PostingDecision{Allowed: true}
		if period.EndDate.AddDate(0, 2, 0).Before(now) {
			decision.Warning = fmt.Sprintf("period %s ended more than two months ago", period.PeriodCode)
		}
		return decision
	default: // CURRENT
		return domain.PostingDecision{Allowed: true}
	}
}

// GetPeriod retrieves a period by code.
func (s *fiscalService) GetPeriod(ctx context.Context, organizationID, periodCode string) (*domain.FiscalPeriod, error) {
	return s.fiscalRepo.FindPeriodByCode(ctx, organizationID, periodCode)
}

// ListPeriods returns all known periods of an organization.
func (s *fiscalService) ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	return s.fiscalRepo.ListPeriods(ctx, organizationID)
}

// ClosePeriod transitions a period to CLOSED, stamping actor and time.
// The repository applies the optimistic version check that serializes the
// close against concurrent postings.
func (s *fiscalService) ClosePeriod(ctx context.Context, organizationID, periodCode, actor string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.fiscalRepo.FindPeriodByCode(ctx, organizationID, periodCode)
	if err != nil {
		return nil, err
	}
	if period.Status == domain.PeriodClosed {
		return nil, fmt.Errorf("%w: period %s is already closed", apperrors.ErrConflict, periodCode)
	}

	closedAt := s.now()
	if err := s.fiscalRepo.ClosePeriod(ctx, organizationID, periodCode, actor, closedAt, period.Version); err != nil {
		logger.Warn("Period close failed", slog.String("period_code", periodCode), slog.String("error", err.Error()))
		return nil, err
	}

	period.Status = domain.PeriodClosed
	period.ClosedBy = &actor
	period.ClosedAt = &closedAt
	period.Version++
	period.LastUpdatedAt = closedAt
	period.LastUpdatedBy = actor

	logger.Info("Fiscal period closed",
		slog.String("organization_id", organizationID),
		slog.String("period_code", periodCode),
		slog.String("actor", actor))
	return period, nil
}

// CloseFiscalYear rolls the year's revenue/expense activity into retained
// earnings via one closing journal and marks the year processed. All
// periods of the year must already be closed.
func (s *fiscalService) CloseFiscalYear(ctx context.Context, organizationID string, year int, actor string) (*domain.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	fy, err := s.fiscalRepo.FindYear(ctx, organizationID, year)
	if err != nil {
		return nil, err
	}
	if fy.YearEndProcessed {
		return nil, fmt.Errorf("%w: fiscal year %d already processed", apperrors.ErrConflict, year)
	}

	periods, err := s.fiscalRepo.ListPeriods(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	for _, p := range periods {
		if p.FiscalYear == year && p.Status != domain.PeriodClosed {
			return nil, fmt.Errorf("%w: period %s is not closed", apperrors.ErrConflict, p.PeriodCode)
		}
	}

	// The rule set declares which accounts carry P&L activity.
	ruleSet, err := s.ruleRepo.LoadRuleSet(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule set for year-end close: %w", err)
	}
	plAccounts := append(append([]string{}, ruleSet.RevenueAccounts...), ruleSet.ExpenseAccounts...)
	if len(plAccounts) == 0 {
		return nil, fmt.Errorf("%w: rule set declares no revenue/expense accounts", apperrors.ErrValidation)
	}

	activity, err := s.journalRepo.SumAccountActivity(ctx, organizationID, fy.StartDate, fy.EndDate, plAccounts)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate account activity: %w", err)
	}

	now := s.now()
	entry := buildYearEndEntry(*fy, activity, now, actor)
	if len(entry.Lines) == 0 {
		// Nothing to close; still mark the year processed.
		if err := s.fiscalRepo.MarkYearProcessed(ctx, organizationID, year, actor, now); err != nil {
			return nil, err
		}
		return &domain.PostingResult{PeriodCode: entry.PeriodCode}, nil
	}

	if err := s.journalRepo.SaveClosingEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write year-end closing journal: %w", err)
	}
	if err := s.fiscalRepo.MarkYearProcessed(ctx, organizationID, year, actor, now); err != nil {
		return nil, err
	}

	logger.Info("Fiscal year closed",
		slog.String("organization_id", organizationID),
		slog.Int("year", year),
		slog.String("journal_entry_id", entry.JournalEntryID))
	return &domain.PostingResult{
		TransactionID:  entry.TransactionID,
		JournalEntryID: entry.JournalEntryID,
		PeriodCode:     entry.PeriodCode,
		Lines:          entry.Lines,
	}, nil
}

// buildYearEndEntry offsets each P&L account's net movement and balances
// the remainder into retained earnings.
func buildYearEndEntry(fy domain.FiscalYear, activity []portsrepo.AccountActivity, now time.Time, actor string) domain.JournalEntry {
	entry := domain.JournalEntry{
		TransactionID:   uuid.NewString(),
		JournalEntryID:  uuid.NewString(),
		OrganizationID:  fy.OrganizationID,
		PeriodCode:      fmt.Sprintf("%04d-12", fy.Year),
		Category:        domain.CategoryGeneric,
		TransactionDate: fy.EndDate,
		CurrencyCode:    fy.BaseCurrency,
		OriginSmartCode: YearEndCloseSmartCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	netToRetained := decimal.Zero
	for _, act := range activity {
		net := act.TotalCredits.Sub(act.TotalDebits)
		if net.IsZero() {
			continue
		}
		line := domain.PostingLine{
			LineNumber:  len(entry.Lines) + 1,
			AccountCode: act.AccountCode,
			Description: fmt.Sprintf("Year-end close %d", fy.Year),
			SmartCode:   YearEndCloseSmartCode,
		}
		if net.GreaterThan(decimal.Zero) {
			// Credit-balance account (revenue): debit it closed.
			line.Debit = net
		} else {
			line.Credit = net.Neg()
		}
		entry.Lines = append(entry.Lines, line)
		netToRetained = netToRetained.Add(net)
	}

	if len(entry.Lines) == 0 {
		return entry
	}

	if !netToRetained.IsZero() {
		retained := domain.PostingLine{
			LineNumber:  len(entry.Lines) + 1,
			AccountCode: fy.RetainedEarningsAcct,
			Description: fmt.Sprintf("Retained earnings %d", fy.Year),
			SmartCode:   YearEndCloseSmartCode,
		}
		if netToRetained.GreaterThan(decimal.Zero) {
			retained.Credit = netToRetained
		} else {
			retained.Debit = netToRetained.Neg()
		}
		entry.Lines = append(entry.Lines, retained)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range entry.Lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	entry.TotalDebits = debits
	entry.TotalCredits = credits
	entry.IsBalanced = debits.Sub(credits).Abs().LessThan(decimal.NewFromFloat(0.01))
	return entry
}
