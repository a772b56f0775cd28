package repositories

import (
	"context"
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
)

// FiscalPeriodReader defines read operations for fiscal calendar data.
type FiscalPeriodReader interface {
	// FindPeriodByCode retrieves a fiscal period by its YYYY-MM code.
	// Returns apperrors.ErrNotFound when the period does not exist yet.
	FindPeriodByCode(ctx context.Context, organizationID, periodCode string) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all fiscal periods of an organization, ordered by period code.
	ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error)

	// FindYear retrieves a fiscal year by calendar year.
	FindYear(ctx context.Context, organizationID string, year int) (*domain.FiscalYear, error)
}

// FiscalPeriodWriter defines write operations for fiscal calendar data.
type FiscalPeriodWriter interface {
	// SavePeriod persists a newly derived fiscal period.
	// Returns apperrors.ErrDuplicate if the period code already exists for the organization.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// SaveYear persists a newly derived fiscal year.
	SaveYear(ctx context.Context, year domain.FiscalYear) error

	// ClosePeriod transitions a period to CLOSED, stamping actor and time.
	// The update is conditional on expectedVersion; a version mismatch
	// (a concurrent close or status change) returns apperrors.ErrConflict.
	ClosePeriod(ctx context.Context, organizationID, periodCode, actor string, closedAt time.Time, expectedVersion int) error

	// MarkYearProcessed flags a fiscal year as year-end processed and closes it.
	MarkYearProcessed(ctx context.Context, organizationID string, year int, actor string, processedAt time.Time) error
}

// FiscalRepositoryFacade combines all fiscal calendar repository interfaces.
type FiscalRepositoryFacade interface {
	FiscalPeriodReader
	FiscalPeriodWriter
}
