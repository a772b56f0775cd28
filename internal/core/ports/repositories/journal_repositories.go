package repositories

import (
	"context"
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountActivity is the aggregate debit/credit movement of one account
// over a date range, used by year-end closing.
type AccountActivity struct {
	AccountCode  string
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

// JournalEntryReader defines read operations for persisted journal entries.
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry header with its lines in
	// ascending line-number order.
	FindEntryByID(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error)

	// FindEntryByCorrelationID retrieves the journal entry previously
	// written for a correlation id, if any. Returns apperrors.ErrNotFound
	// when no entry exists for the id.
	FindEntryByCorrelationID(ctx context.Context, organizationID, correlationID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of journal entry headers (without
	// lines), newest first, using token-based pagination. It returns the
	// entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// SumAccountActivity aggregates debit/credit totals per account code
	// over the given date range, restricted to the provided accounts.
	SumAccountActivity(ctx context.Context, organizationID string, from, to time.Time, accountCodes []string) ([]AccountActivity, error)
}

// JournalEntryWriter defines write operations for journal entries.
type JournalEntryWriter interface {
	// SaveEntry persists a journal entry header and its lines as one
	// atomic unit, lines in ascending line-number order. Within the same
	// database transaction it re-checks that the posting period has not
	// been closed (apperrors.ErrConflict) and that no entry exists for
	// the entry's correlation id (apperrors.ErrDuplicate).
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// SaveClosingEntry persists a year-end closing journal. It skips the
	// closed-period gate: the closing entry is the single exception to
	// closed-period immutability.
	SaveClosingEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
