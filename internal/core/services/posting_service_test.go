package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockFiscal  *MockFiscalService
	mockRules   *MockRuleService
	mockJournal *MockJournalRepository
	postingSvc  portssvc.PostingSvcFacade
	ctx         context.Context
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockFiscal = new(MockFiscalService)
	suite.mockRules = new(MockRuleService)
	suite.mockJournal = new(MockJournalRepository)
	suite.postingSvc = services.NewPostingService(suite.mockFiscal, suite.mockRules, suite.mockJournal)
	suite.ctx = context.Background()
}

func testPeriod(code string, status domain.PeriodStatus) *domain.FiscalPeriod {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &domain.FiscalPeriod{
		PeriodID:       "period-1",
		OrganizationID: "org-1",
		FiscalYear:     2026,
		PeriodNumber:   3,
		PeriodCode:     code,
		StartDate:      start,
		EndDate:        start.AddDate(0, 1, 0).Add(-time.Nanosecond),
		Status:         status,
		Version:        1,
	}
}

func (suite *PostingServiceTestSuite) TestPostEventHappyPath() {
	event := validEvent()
	period := testPeriod("2026-03", domain.PeriodCurrent)

	suite.mockFiscal.On("ResolvePeriod", suite.ctx, "org-1", event.TransactionDate).Return(period, nil).Once()
	suite.mockFiscal.On("CanPost", *period, event.TransactionDate).Return(domain.PostingDecision{Allowed: true}).Once()
	suite.mockRules.On("Resolve", suite.ctx, "org-1", event.SmartCode).Return(ptrRule(expenseRule(nil)), nil).Once()
	suite.mockJournal.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	result, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), result)

	assert.NotEmpty(suite.T(), result.TransactionID)
	assert.NotEmpty(suite.T(), result.JournalEntryID)
	assert.Equal(suite.T(), "2026-03", result.PeriodCode)
	assert.Len(suite.T(), result.Lines, 2)
	assert.False(suite.T(), result.Duplicate)
	assert.Empty(suite.T(), result.Warnings)

	savedEntry := suite.mockJournal.Calls[0].Arguments.Get(1).(domain.JournalEntry)
	assert.True(suite.T(), savedEntry.IsBalanced)
	assert.Equal(suite.T(), event.SmartCode, savedEntry.OriginSmartCode)
	assert.Equal(suite.T(), "2026-03", savedEntry.PeriodCode)
	suite.mockFiscal.AssertExpectations(suite.T())
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostEventValidationRejection() {
	event := validEvent()
	event.TotalAmount = decimal.Zero

	_, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	require.Error(suite.T(), err)

	var violations services.ValidationErrors
	require.ErrorAs(suite.T(), err, &violations)
	assert.NotEmpty(suite.T(), violations)

	suite.mockFiscal.AssertNotCalled(suite.T(), "ResolvePeriod", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournal.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEventClosedPeriod() {
	event := validEvent()
	period := testPeriod("2026-03", domain.PeriodClosed)

	suite.mockFiscal.On("ResolvePeriod", suite.ctx, "org-1", event.TransactionDate).Return(period, nil).Once()
	suite.mockFiscal.On("CanPost", *period, event.TransactionDate).Return(domain.PostingDecision{
		Allowed: false,
		Reason:  "period 2026-03 is closed",
	}).Once()

	_, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	require.Error(suite.T(), err)

	var fiscalErr *services.FiscalError
	require.ErrorAs(suite.T(), err, &fiscalErr)
	assert.Equal(suite.T(), "2026-03", fiscalErr.PeriodCode)
	assert.Contains(suite.T(), fiscalErr.Reason, "closed")

	suite.mockRules.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournal.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEventFuturePeriodWarning() {
	event := validEvent()
	period := testPeriod("2026-03", domain.PeriodFuture)

	suite.mockFiscal.On("ResolvePeriod", suite.ctx, "org-1", event.TransactionDate).Return(period, nil).Once()
	suite.mockFiscal.On("CanPost", *period, event.TransactionDate).Return(domain.PostingDecision{
		Allowed: true,
		Warning: "posting into future period 2026-03",
	}).Once()
	suite.mockRules.On("Resolve", suite.ctx, "org-1", event.SmartCode).Return(ptrRule(expenseRule(nil)), nil).Once()
	suite.mockJournal.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	result, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"posting into future period 2026-03"}, result.Warnings)
}

func (suite *PostingServiceTestSuite) TestPostEventRuleNotFound() {
	event := validEvent()
	period := testPeriod("2026-03", domain.PeriodCurrent)

	suite.mockFiscal.On("ResolvePeriod", suite.ctx, "org-1", event.TransactionDate).Return(period, nil).Once()
	suite.mockFiscal.On("CanPost", *period, event.TransactionDate).Return(domain.PostingDecision{Allowed: true}).Once()
	suite.mockRules.On("Resolve", suite.ctx, "org-1", event.SmartCode).Return(nil, services.ErrRuleNotFound).Once()

	_, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	assert.ErrorIs(suite.T(), err, services.ErrRuleNotFound)
	suite.mockJournal.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEventDuplicateCorrelationShortCircuits() {
	event := validEvent()
	correlationID := "whatsapp-msg-123"
	event.Metadata.CorrelationID = &correlationID

	existing := &domain.JournalEntry{
		TransactionID:  "txn-1",
		JournalEntryID: "je-1",
		PeriodCode:     "2026-03",
		CorrelationID:  &correlationID,
	}
	suite.mockJournal.On("FindEntryByCorrelationID", suite.ctx, "org-1", correlationID).Return(existing, nil).Once()

	result, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Duplicate)
	assert.Equal(suite.T(), "je-1", result.JournalEntryID)

	suite.mockFiscal.AssertNotCalled(suite.T(), "ResolvePeriod", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournal.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEventConcurrentPeriodClose() {
	event := validEvent()
	period := testPeriod("2026-03", domain.PeriodCurrent)

	suite.mockFiscal.On("ResolvePeriod", suite.ctx, "org-1", event.TransactionDate).Return(period, nil).Once()
	suite.mockFiscal.On("CanPost", *period, event.TransactionDate).Return(domain.PostingDecision{Allowed: true}).Once()
	suite.mockRules.On("Resolve", suite.ctx, "org-1", event.SmartCode).Return(ptrRule(expenseRule(nil)), nil).Once()
	suite.mockJournal.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry")).Return(apperrors.ErrConflict).Once()

	_, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	require.Error(suite.T(), err)

	var fiscalErr *services.FiscalError
	require.ErrorAs(suite.T(), err, &fiscalErr)
	assert.Equal(suite.T(), "period was closed concurrently", fiscalErr.Reason)
}

func (suite *PostingServiceTestSuite) TestPostEventIdempotencyRaceReturnsWinner() {
	event := validEvent()
	correlationID := "pos-eod:org-1:2026-03-10:sales"
	event.Metadata.CorrelationID = &correlationID
	period := testPeriod("2026-03", domain.PeriodCurrent)

	winner := &domain.JournalEntry{
		TransactionID:  "txn-winner",
		JournalEntryID: "je-winner",
		PeriodCode:     "2026-03",
	}

	// Pre-check sees nothing, the write loses the unique-index race, the
	// re-check returns the first writer's entry.
	suite.mockJournal.On("FindEntryByCorrelationID", suite.ctx, "org-1", correlationID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockFiscal.On("ResolvePeriod", suite.ctx, "org-1", event.TransactionDate).Return(period, nil).Once()
	suite.mockFiscal.On("CanPost", *period, event.TransactionDate).Return(domain.PostingDecision{Allowed: true}).Once()
	suite.mockRules.On("Resolve", suite.ctx, "org-1", event.SmartCode).Return(ptrRule(expenseRule(nil)), nil).Once()
	suite.mockJournal.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry")).Return(apperrors.ErrDuplicate).Once()
	suite.mockJournal.On("FindEntryByCorrelationID", suite.ctx, "org-1", correlationID).Return(winner, nil).Once()

	result, err := suite.postingSvc.PostEvent(suite.ctx, "org-1", event)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Duplicate)
	assert.Equal(suite.T(), "je-winner", result.JournalEntryID)
	suite.mockJournal.AssertExpectations(suite.T())
}

func ptrRule(rule domain.PostingRule) *domain.PostingRule {
	return &rule
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
