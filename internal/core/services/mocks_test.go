package services_test

import (
	"context"
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock FiscalRepository ---
type MockFiscalRepository struct {
	mock.Mock
}

// Ensure MockFiscalRepository implements portsrepo.FiscalRepositoryFacade
var _ portsrepo.FiscalRepositoryFacade = (*MockFiscalRepository)(nil)

func (m *MockFiscalRepository) FindPeriodByCode(ctx context.Context, organizationID, periodCode string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID, periodCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) FindYear(ctx context.Context, organizationID string, year int) (*domain.FiscalYear, error) {
	args := m.Called(ctx, organizationID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockFiscalRepository) SaveYear(ctx context.Context, year domain.FiscalYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

func (m *MockFiscalRepository) ClosePeriod(ctx context.Context, organizationID, periodCode, actor string, closedAt time.Time, expectedVersion int) error {
	args := m.Called(ctx, organizationID, periodCode, actor, closedAt, expectedVersion)
	return args.Error(0)
}

func (m *MockFiscalRepository) MarkYearProcessed(ctx context.Context, organizationID string, year int, actor string, processedAt time.Time) error {
	args := m.Called(ctx, organizationID, year, actor, processedAt)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByCorrelationID(ctx context.Context, organizationID, correlationID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) SumAccountActivity(ctx context.Context, organizationID string, from, to time.Time, accountCodes []string) ([]portsrepo.AccountActivity, error) {
	args := m.Called(ctx, organizationID, from, to, accountCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.AccountActivity), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveClosingEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock RuleRepository ---
type MockRuleRepository struct {
	mock.Mock
}

// Ensure MockRuleRepository implements portsrepo.RuleRepositoryFacade
var _ portsrepo.RuleRepositoryFacade = (*MockRuleRepository)(nil)

func (m *MockRuleRepository) LoadRuleSet(ctx context.Context, organizationID string) (*domain.RuleSet, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RuleSet), args.Error(1)
}

func (m *MockRuleRepository) SaveRuleSet(ctx context.Context, ruleSet domain.RuleSet) error {
	args := m.Called(ctx, ruleSet)
	return args.Error(0)
}

// --- Mock POSSummaryRepository ---
type MockPOSSummaryRepository struct {
	mock.Mock
}

// Ensure MockPOSSummaryRepository implements portsrepo.POSSummaryRepositoryFacade
var _ portsrepo.POSSummaryRepositoryFacade = (*MockPOSSummaryRepository)(nil)

func (m *MockPOSSummaryRepository) SaveSummaryRecord(ctx context.Context, record domain.POSSummaryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPOSSummaryRepository) FindSummaryRecord(ctx context.Context, organizationID, summaryID string) (*domain.POSSummaryRecord, error) {
	args := m.Called(ctx, organizationID, summaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.POSSummaryRecord), args.Error(1)
}

// --- Mock FiscalService ---
type MockFiscalService struct {
	mock.Mock
}

// Ensure MockFiscalService implements portssvc.FiscalSvcFacade
var _ portssvc.FiscalSvcFacade = (*MockFiscalService)(nil)

func (m *MockFiscalService) ResolvePeriod(ctx context.Context, organizationID string, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) CanPost(period domain.FiscalPeriod, date time.Time) domain.PostingDecision {
	args := m.Called(period, date)
	return args.Get(0).(domain.PostingDecision)
}

func (m *MockFiscalService) ClosePeriod(ctx context.Context, organizationID, periodCode, actor string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID, periodCode, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) ListPeriods(ctx context.Context, organizationID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) GetPeriod(ctx context.Context, organizationID, periodCode string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, organizationID, periodCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) CloseFiscalYear(ctx context.Context, organizationID string, year int, actor string) (*domain.PostingResult, error) {
	args := m.Called(ctx, organizationID, year, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

// --- Mock RuleService ---
type MockRuleService struct {
	mock.Mock
}

// Ensure MockRuleService implements portssvc.RuleSvcFacade
var _ portssvc.RuleSvcFacade = (*MockRuleService)(nil)

func (m *MockRuleService) Resolve(ctx context.Context, organizationID string, code domain.SmartCode) (*domain.PostingRule, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingRule), args.Error(1)
}

func (m *MockRuleService) Invalidate(organizationID string) {
	m.Called(organizationID)
}

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

// Ensure MockPostingService implements portssvc.PostingSvcFacade
var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) PostEvent(ctx context.Context, callerOrgID string, event domain.FinanceEvent) (*domain.PostingResult, error) {
	args := m.Called(ctx, callerOrgID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}
