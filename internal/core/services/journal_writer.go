package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/utils/accounting"
)

// BuildJournalEntry assembles the persisted journal entry for a finance
// event and its generated lines. The header carries the system posting
// smart code marking it as auto-posted; the originating event's smart
// code travels in OriginSmartCode and on every line.
func BuildJournalEntry(event domain.FinanceEvent, lines []domain.PostingLine, period domain.FiscalPeriod, now time.Time) domain.JournalEntry {
	debits, credits := accounting.SumLines(lines)
	return domain.JournalEntry{
		TransactionID:   uuid.NewString(),
		JournalEntryID:  uuid.NewString(),
		OrganizationID:  event.OrganizationID,
		PeriodCode:      period.PeriodCode,
		Category:        event.TransactionCategory,
		TransactionDate: event.TransactionDate,
		CurrencyCode:    event.TransactionCurrency,
		TotalDebits:     debits,
		TotalCredits:    credits,
		IsBalanced:      debits.Sub(credits).Abs().LessThan(accounting.BalanceTolerance),
		OriginSmartCode: event.SmartCode,
		CorrelationID:   event.Metadata.CorrelationID,
		Lines:           lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}
}

// journalService exposes read access to persisted journal entries.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewJournalService creates the journal read service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// GetJournalEntry retrieves a journal entry with its lines in ascending
// line-number order.
func (s *journalService) GetJournalEntry(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, organizationID, journalEntryID)
}

// ListJournalEntries retrieves a page of journal entry headers, newest
// first, with a token for the next page.
func (s *journalService) ListJournalEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	return s.journalRepo.ListEntries(ctx, organizationID, limit, nextToken)
}
