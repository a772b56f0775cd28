package dto

import (
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BusinessContextRequest carries the business-facing context of a
// submitted finance event.
type BusinessContextRequest struct {
	Channel      string  `json:"channel"`
	Note         string  `json:"note"`
	Category     string  `json:"category"`
	VATInclusive bool    `json:"vatInclusive"`
	BranchID     *string `json:"branchID"`
	TerminalID   *string `json:"terminalID"`
	ShiftID      *string `json:"shiftID"`
}

// EventMetadataRequest carries technical ingest metadata.
type EventMetadataRequest struct {
	IngestSource      string  `json:"ingestSource"`
	OriginalReference string  `json:"originalReference"`
	CorrelationID     *string `json:"correlationID"`
}

// POSTotalsRequest is the aggregate breakdown for POS daily-summary events.
type POSTotalsRequest struct {
	GrossSales     decimal.Decimal `json:"grossSales"`
	VATAmount      decimal.Decimal `json:"vatAmount"`
	Tips           decimal.Decimal `json:"tips"`
	Fees           decimal.Decimal `json:"fees"`
	CashCollected  decimal.Decimal `json:"cashCollected"`
	CardSettlement decimal.Decimal `json:"cardSettlement"`
	Discounts      decimal.Decimal `json:"discounts"`
	Commission     decimal.Decimal `json:"commission"`
}

// SubmitFinanceEventRequest is the submission endpoint's request body:
// one Universal Finance Event. Binding catches only gross shape errors;
// the full discrete-violation list comes from the event validator.
type SubmitFinanceEventRequest struct {
	OrganizationID      string                 `json:"organizationID" binding:"required"`
	TransactionCategory string                 `json:"transactionCategory" binding:"required"`
	SmartCode           string                 `json:"smartCode" binding:"required"`
	TransactionDate     time.Time              `json:"transactionDate" binding:"required"`
	SourceEntityID      *string                `json:"sourceEntityID"`
	TotalAmount         decimal.Decimal        `json:"totalAmount" binding:"required"`
	TransactionCurrency string                 `json:"transactionCurrency" binding:"required,len=3"`
	BaseCurrency        string                 `json:"baseCurrency" binding:"required,len=3"`
	ExchangeRate        decimal.Decimal        `json:"exchangeRate"`
	BusinessContext     BusinessContextRequest `json:"businessContext"`
	Metadata            EventMetadataRequest   `json:"metadata"`
	Totals              *POSTotalsRequest      `json:"totals"`
}

// ToDomainFinanceEvent converts the request into the pipeline's input.
func (r SubmitFinanceEventRequest) ToDomainFinanceEvent() domain.FinanceEvent {
	rate := r.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	event := domain.FinanceEvent{
		OrganizationID:      r.OrganizationID,
		TransactionCategory: domain.TransactionCategory(r.TransactionCategory),
		SmartCode:           domain.SmartCode(r.SmartCode),
		TransactionDate:     r.TransactionDate,
		SourceEntityID:      r.SourceEntityID,
		TotalAmount:         r.TotalAmount,
		TransactionCurrency: r.TransactionCurrency,
		BaseCurrency:        r.BaseCurrency,
		ExchangeRate:        rate,
		BusinessContext: domain.BusinessContext{
			Channel:      r.BusinessContext.Channel,
			Note:         r.BusinessContext.Note,
			Category:     r.BusinessContext.Category,
			VATInclusive: r.BusinessContext.VATInclusive,
			BranchID:     r.BusinessContext.BranchID,
			TerminalID:   r.BusinessContext.TerminalID,
			ShiftID:      r.BusinessContext.ShiftID,
		},
		Metadata: domain.EventMetadata{
			IngestSource:      r.Metadata.IngestSource,
			OriginalReference: r.Metadata.OriginalReference,
			CorrelationID:     r.Metadata.CorrelationID,
		},
	}
	if r.Totals != nil {
		event.Totals = &domain.POSTotals{
			GrossSales:     r.Totals.GrossSales,
			VATAmount:      r.Totals.VATAmount,
			Tips:           r.Totals.Tips,
			Fees:           r.Totals.Fees,
			CashCollected:  r.Totals.CashCollected,
			CardSettlement: r.Totals.CardSettlement,
			Discounts:      r.Totals.Discounts,
			Commission:     r.Totals.Commission,
		}
	}
	return event
}

// PostingLineResponse is one generated GL line in a success payload.
type PostingLineResponse struct {
	LineNumber  int             `json:"lineNumber"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	SmartCode   string          `json:"smartCode"`
	EntityID    *string         `json:"entityID,omitempty"`
}

// PostEventResponse is the submission endpoint's success payload.
type PostEventResponse struct {
	TransactionID  string                `json:"transaction_id"`
	JournalEntryID string                `json:"journal_entry_id"`
	PostingPeriod  string                `json:"posting_period"`
	Lines          []PostingLineResponse `json:"lines"`
	Warnings       []string              `json:"warnings,omitempty"`
	Duplicate      bool                  `json:"duplicate,omitempty"`
}

// PostEventFailureResponse is the structured failure payload. Exactly one
// of ValidationErrors/PostingErrors is populated.
type PostEventFailureResponse struct {
	Message          string   `json:"message"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	PostingErrors    []string `json:"posting_errors,omitempty"`
}

// ToPostingLineResponses converts generated domain lines.
func ToPostingLineResponses(lines []domain.PostingLine) []PostingLineResponse {
	responses := make([]PostingLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = PostingLineResponse{
			LineNumber:  line.LineNumber,
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			SmartCode:   line.SmartCode.String(),
			EntityID:    line.EntityID,
		}
	}
	return responses
}

// ToPostEventResponse converts a posting result into the success payload.
func ToPostEventResponse(result *domain.PostingResult) PostEventResponse {
	return PostEventResponse{
		TransactionID:  result.TransactionID,
		JournalEntryID: result.JournalEntryID,
		PostingPeriod:  result.PeriodCode,
		Lines:          ToPostingLineResponses(result.Lines),
		Warnings:       result.Warnings,
		Duplicate:      result.Duplicate,
	}
}

// JournalEntryResponse is the read payload for a persisted journal entry.
type JournalEntryResponse struct {
	TransactionID   string                `json:"transactionID"`
	JournalEntryID  string                `json:"journalEntryID"`
	PeriodCode      string                `json:"periodCode"`
	Category        string                `json:"category"`
	TransactionDate time.Time             `json:"transactionDate"`
	CurrencyCode    string                `json:"currencyCode"`
	TotalDebits     decimal.Decimal       `json:"totalDebits"`
	TotalCredits    decimal.Decimal       `json:"totalCredits"`
	IsBalanced      bool                  `json:"isBalanced"`
	OriginSmartCode string                `json:"originSmartCode"`
	Lines           []PostingLineResponse `json:"lines"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// ListJournalEntriesResponse is one page of journal entry headers.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListJournalEntriesResponse converts one page of domain entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}
}

// ToJournalEntryResponse converts a domain journal entry.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		TransactionID:   entry.TransactionID,
		JournalEntryID:  entry.JournalEntryID,
		PeriodCode:      entry.PeriodCode,
		Category:        string(entry.Category),
		TransactionDate: entry.TransactionDate,
		CurrencyCode:    entry.CurrencyCode,
		TotalDebits:     entry.TotalDebits,
		TotalCredits:    entry.TotalCredits,
		IsBalanced:      entry.IsBalanced,
		OriginSmartCode: entry.OriginSmartCode.String(),
		Lines:           ToPostingLineResponses(entry.Lines),
		CreatedAt:       entry.CreatedAt,
	}
}
