package services

import (
	"context"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
)

// PostingSvcFacade is the top of the posting pipeline: it accepts one
// finance event and expands it into a balanced, persisted journal entry.
type PostingSvcFacade interface {
	// PostEvent runs a finance event through validation, period gating,
	// rule resolution, line generation, balance validation and the
	// journal writer. Pipeline rejections are returned as typed errors
	// (services.ValidationErrors, services.FiscalError,
	// services.ErrRuleNotFound, accounting.BalanceError); any other error
	// is a persistence failure and the whole event is retryable.
	PostEvent(ctx context.Context, callerOrgID string, event domain.FinanceEvent) (*domain.PostingResult, error)
}

// JournalSvcFacade exposes read access to persisted journal entries.
type JournalSvcFacade interface {
	// GetJournalEntry retrieves a journal entry with its lines.
	GetJournalEntry(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of journal entry headers,
	// newest first, with a token for the next page.
	ListJournalEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}
