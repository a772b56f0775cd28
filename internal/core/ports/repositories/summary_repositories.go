package repositories

import (
	"context"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
)

// POSSummaryRepositoryFacade persists the audit record a POS end-of-day
// run leaves behind.
type POSSummaryRepositoryFacade interface {
	// SaveSummaryRecord persists the decomposed summary with references
	// to every journal entry it produced.
	SaveSummaryRecord(ctx context.Context, record domain.POSSummaryRecord) error

	// FindSummaryRecord retrieves the audit record for a business date.
	FindSummaryRecord(ctx context.Context, organizationID, summaryID string) (*domain.POSSummaryRecord, error)
}
