package services

import (
	"context"
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
)

// FiscalSvcFacade owns period/year lookup, lazy creation and status-based
// posting permission.
type FiscalSvcFacade interface {
	// ResolvePeriod derives the YYYY-MM period for a transaction date,
	// creating the period (and, if needed, its parent fiscal year)
	// lazily on first use.
	ResolvePeriod(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error)

	// CanPost decides whether a date may be posted into a period. Pure
	// state-machine decision; never touches the store.
	CanPost(period domain.FiscalPeriod, date time.Time) domain.PostingDecision

	// ClosePeriod transitions a period to CLOSED. Rejects an already
	// closed period with apperrors.ErrConflict.
	ClosePeriod(ctx context.Context, organizationID, periodCode, actor string) (*domain.FiscalPeriod, error)

	// ListPeriods returns all known periods of an organization.
	ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error)

	// GetPeriod retrieves a period by code.
	GetPeriod(ctx context.Context, organizationID, periodCode string) (*domain.FiscalPeriod, error)

	// CloseFiscalYear closes all revenue/expense activity of a fully
	// closed year into retained earnings via one closing journal and
	// marks the year processed.
	CloseFiscalYear(ctx context.Context, organizationID string, year int, actor string) (*domain.PostingResult, error)
}

// RuleSvcFacade resolves posting rules by smart code.
type RuleSvcFacade interface {
	// Resolve returns the rule registered for a smart code in the
	// organization's rule set. A missing rule is services.ErrRuleNotFound
	// wrapped with the smart code; it is never defaulted.
	Resolve(ctx context.Context, organizationID string, code domain.SmartCode) (*domain.PostingRule, error)

	// Invalidate drops the cached rule set of an organization so the
	// next Resolve reloads it from the store.
	Invalidate(organizationID string)
}

// POSSvcFacade orchestrates one POS end-of-day decomposition.
type POSSvcFacade interface {
	// ProcessDailySummary validates a daily summary, posts the sales
	// event, per-staff commission accruals and the optional fee event,
	// persists the audit record and returns the aggregate report.
	ProcessDailySummary(ctx context.Context, callerOrgID string, summary domain.POSDailySummary) (*domain.EODReport, error)
}
