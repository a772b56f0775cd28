package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildJournalEntry(t *testing.T) {
	event := validEvent()
	correlationID := "expense-7781"
	event.Metadata.CorrelationID = &correlationID

	lines := []domain.PostingLine{
		{LineNumber: 1, AccountCode: "6100", Debit: decimal.NewFromInt(1000)},
		{LineNumber: 2, AccountCode: "1410", Debit: decimal.NewFromInt(50)},
		{LineNumber: 3, AccountCode: "1100", Credit: decimal.NewFromInt(1050)},
	}
	period := *testPeriod("2026-03", domain.PeriodCurrent)
	now := time.Date(2026, time.March, 10, 18, 30, 0, 0, time.UTC)

	entry := services.BuildJournalEntry(event, lines, period, now)

	assert.NotEmpty(t, entry.TransactionID)
	assert.NotEmpty(t, entry.JournalEntryID)
	assert.NotEqual(t, entry.TransactionID, entry.JournalEntryID)
	assert.Equal(t, "org-1", entry.OrganizationID)
	assert.Equal(t, "2026-03", entry.PeriodCode)
	assert.Equal(t, event.SmartCode, entry.OriginSmartCode)
	assert.True(t, entry.TotalDebits.Equal(decimal.NewFromInt(1050)))
	assert.True(t, entry.TotalCredits.Equal(decimal.NewFromInt(1050)))
	assert.True(t, entry.IsBalanced)
	require.NotNil(t, entry.CorrelationID)
	assert.Equal(t, correlationID, *entry.CorrelationID)
	assert.Equal(t, "system", entry.CreatedBy)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestJournalServiceListEntries(t *testing.T) {
	mockRepo := new(MockJournalRepository)
	svc := services.NewJournalService(mockRepo)
	ctx := context.Background()

	entries := []domain.JournalEntry{{JournalEntryID: "je-1"}, {JournalEntryID: "je-2"}}
	mockRepo.On("ListEntries", ctx, "org-1", 20, (*string)(nil)).Return(entries, "next-page", nil).Once()

	page, nextToken, err := svc.ListJournalEntries(ctx, "org-1", 20, nil)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	require.NotNil(t, nextToken)
	assert.Equal(t, "next-page", *nextToken)
	mockRepo.AssertExpectations(t)
}

func TestJournalServiceGetEntry(t *testing.T) {
	mockRepo := new(MockJournalRepository)
	svc := services.NewJournalService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindEntryByID", ctx, "org-1", "je-1").Return(&domain.JournalEntry{JournalEntryID: "je-1"}, nil).Once()

	entry, err := svc.GetJournalEntry(ctx, "org-1", "je-1")
	require.NoError(t, err)
	assert.Equal(t, "je-1", entry.JournalEntryID)
}
