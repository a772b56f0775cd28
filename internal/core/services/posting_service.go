package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/middleware"
	"github.com/salonledger/finance_posting_app/internal/utils/accounting"
)

// postingService composes the posting pipeline: validator, period gate,
// rule resolver, line generator, balance validator and journal writer.
// Each event passes through as one synchronous unit of work.
type postingService struct {
	fiscalSvc   portssvc.FiscalSvcFacade
	ruleSvc     portssvc.RuleSvcFacade
	journalRepo portsrepo.JournalRepositoryFacade
	now         func() time.Time
}

// NewPostingService creates the posting pipeline.
func NewPostingService(fiscalSvc portssvc.FiscalSvcFacade, ruleSvc portssvc.RuleSvcFacade, journalRepo portsrepo.JournalRepositoryFacade) portssvc.PostingSvcFacade {
	return &postingService{
		fiscalSvc:   fiscalSvc,
		ruleSvc:     ruleSvc,
		journalRepo: journalRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostEvent runs one finance event through the full pipeline. Pipeline
// rejections come back as typed errors; anything else is a persistence
// failure and the whole event is retryable.
func (s *postingService) PostEvent(ctx context.Context, callerOrgID string, event domain.FinanceEvent) (*domain.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("organization_id", event.OrganizationID),
		slog.String("smart_code", event.SmartCode.String()),
	)

	if violations := ValidateFinanceEvent(event, callerOrgID); len(violations) > 0 {
		logger.Warn("Finance event rejected by validator", slog.Int("violations", len(violations)))
		return nil, violations
	}

	// Resubmissions with a known correlation id short-circuit before any
	// period or rule work.
	if existing, err := s.findExisting(ctx, event); err != nil {
		return nil, err
	} else if existing != nil {
		logger.Info("Duplicate correlation id; returning existing journal entry",
			slog.String("journal_entry_id", existing.JournalEntryID))
		return existing, nil
	}

	period, err := s.fiscalSvc.ResolvePeriod(ctx, event.OrganizationID, event.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	var warnings []string
	decision := s.fiscalSvc.CanPost(*period, event.TransactionDate)
	if !decision.Allowed {
		logger.Warn("Posting rejected by period gate",
			slog.String("period_code", period.PeriodCode),
			slog.String("reason", decision.Reason))
		return nil, &FiscalError{PeriodCode: period.PeriodCode, Reason: decision.Reason}
	}
	if decision.Warning != "" {
		warnings = append(warnings, decision.Warning)
	}

	rule, err := s.ruleSvc.Resolve(ctx, event.OrganizationID, event.SmartCode)
	if err != nil {
		return nil, err
	}

	lines, err := GenerateLines(event, *rule)
	if err != nil {
		return nil, err
	}

	if err := accounting.ValidateBalance(lines); err != nil {
		logger.Error("Generated lines do not balance", slog.String("error", err.Error()))
		return nil, err
	}

	entry := BuildJournalEntry(event, lines, *period, s.now())
	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			// Lost an idempotency race; the first writer's entry wins.
			existing, findErr := s.findExisting(ctx, event)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return existing, nil
			}
			return nil, err
		case errors.Is(err, apperrors.ErrConflict):
			// Period was closed between the gate check and the write.
			return nil, &FiscalError{PeriodCode: period.PeriodCode, Reason: "period was closed concurrently"}
		default:
			logger.Error("Failed to persist journal entry", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to persist journal entry: %w", err)
		}
	}

	logger.Info("Finance event posted",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("period_code", period.PeriodCode),
		slog.Int("line_count", len(lines)))
	return &domain.PostingResult{
		TransactionID:  entry.TransactionID,
		JournalEntryID: entry.JournalEntryID,
		PeriodCode:     period.PeriodCode,
		Lines:          lines,
		Warnings:       warnings,
	}, nil
}

// findExisting returns the result of a previous posting with the same
// correlation id, or nil when the event has no correlation id or none
// was posted yet.
func (s *postingService) findExisting(ctx context.Context, event domain.FinanceEvent) (*domain.PostingResult, error) {
	if event.Metadata.CorrelationID == nil || *event.Metadata.CorrelationID == "" {
		return nil, nil
	}

	entry, err := s.journalRepo.FindEntryByCorrelationID(ctx, event.OrganizationID, *event.Metadata.CorrelationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check correlation id: %w", err)
	}

	return &domain.PostingResult{
		TransactionID:  entry.TransactionID,
		JournalEntryID: entry.JournalEntryID,
		PeriodCode:     entry.PeriodCode,
		Lines:          entry.Lines,
		Duplicate:      true,
	}, nil
}
