package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/salonledger/finance_posting_app/internal/dto"
	"github.com/salonledger/finance_posting_app/internal/handlers"
	"github.com/salonledger/finance_posting_app/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) PostEvent(ctx context.Context, callerOrgID string, event domain.FinanceEvent) (*domain.PostingResult, error) {
	args := m.Called(ctx, callerOrgID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostingResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, organizationID, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListJournalEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type FinanceEventHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPostingService *MockPostingService
	mockJournalService *MockJournalService
	jwtSecret          string
}

func (suite *FinanceEventHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockPostingService = new(MockPostingService)
	suite.mockJournalService = new(MockJournalService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterFinanceRoutes(v1, suite.mockPostingService, suite.mockJournalService)
}

// generateTestToken creates a signed JWT carrying the caller's org.
func (suite *FinanceEventHandlerTestSuite) generateTestToken(userID, orgID string) string {
	claims := middleware.OrgClaims{
		OrganizationID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fpp-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *FinanceEventHandlerTestSuite) postEvent(body any, orgID string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/finance/events", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1", orgID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testSubmitRequest() dto.SubmitFinanceEventRequest {
	return dto.SubmitFinanceEventRequest{
		OrganizationID:      "org-1",
		TransactionCategory: "EXPENSE",
		SmartCode:           "SALON.FIN.EXPENSE.RENT.v1",
		TransactionDate:     time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:         decimal.NewFromInt(1050),
		TransactionCurrency: "AED",
		BaseCurrency:        "AED",
	}
}

func (suite *FinanceEventHandlerTestSuite) TestSubmitEvent_Success() {
	expected := &domain.PostingResult{
		TransactionID:  "txn-1",
		JournalEntryID: "je-1",
		PeriodCode:     "2026-03",
		Lines: []domain.PostingLine{
			{LineNumber: 1, AccountCode: "6100", Debit: decimal.NewFromInt(1050)},
			{LineNumber: 2, AccountCode: "1100", Credit: decimal.NewFromInt(1050)},
		},
	}
	suite.mockPostingService.On("PostEvent", mock.Anything, "org-1", mock.MatchedBy(func(e domain.FinanceEvent) bool {
		return e.OrganizationID == "org-1" &&
			e.SmartCode == "SALON.FIN.EXPENSE.RENT.v1" &&
			e.ExchangeRate.Equal(decimal.NewFromInt(1)) // defaulted when omitted
	})).Return(expected, nil).Once()

	w := suite.postEvent(testSubmitRequest(), "org-1")

	suite.Equal(http.StatusOK, w.Code)
	var response dto.PostEventResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("je-1", response.JournalEntryID)
	suite.Equal("2026-03", response.PostingPeriod)
	suite.Len(response.Lines, 2)
	suite.mockPostingService.AssertExpectations(suite.T())
}

func (suite *FinanceEventHandlerTestSuite) TestSubmitEvent_DuplicateResubmissionReturnsConflict() {
	existing := &domain.PostingResult{
		TransactionID:  "txn-1",
		JournalEntryID: "je-1",
		PeriodCode:     "2026-03",
		Duplicate:      true,
	}
	suite.mockPostingService.On("PostEvent", mock.Anything, "org-1", mock.Anything).
		Return(existing, nil).Once()

	w := suite.postEvent(testSubmitRequest(), "org-1")

	suite.Equal(http.StatusConflict, w.Code)
	var response dto.PostEventResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("je-1", response.JournalEntryID)
	suite.Equal("txn-1", response.TransactionID)
	suite.True(response.Duplicate)
	suite.mockPostingService.AssertExpectations(suite.T())
}

func (suite *FinanceEventHandlerTestSuite) TestSubmitEvent_ValidationFailure() {
	suite.mockPostingService.On("PostEvent", mock.Anything, "org-1", mock.Anything).
		Return(nil, services.ValidationErrors{"total amount must be positive, got -5"}).Once()

	w := suite.postEvent(testSubmitRequest(), "org-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	var response dto.PostEventFailureResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Event failed validation", response.Message)
	suite.Len(response.ValidationErrors, 1)
	suite.Empty(response.PostingErrors)
}

func (suite *FinanceEventHandlerTestSuite) TestSubmitEvent_ClosedPeriod() {
	suite.mockPostingService.On("PostEvent", mock.Anything, "org-1", mock.Anything).
		Return(nil, &services.FiscalError{PeriodCode: "2026-02", Reason: "period 2026-02 is closed"}).Once()

	w := suite.postEvent(testSubmitRequest(), "org-1")

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var response dto.PostEventFailureResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Contains(response.Message, "2026-02")
	suite.Contains(response.PostingErrors[0], "closed")
}

func (suite *FinanceEventHandlerTestSuite) TestSubmitEvent_RuleNotFound() {
	suite.mockPostingService.On("PostEvent", mock.Anything, "org-1", mock.Anything).
		Return(nil, services.ErrRuleNotFound).Once()

	w := suite.postEvent(testSubmitRequest(), "org-1")
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *FinanceEventHandlerTestSuite) TestSubmitEvent_MissingToken() {
	payload, _ := json.Marshal(testSubmitRequest())
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/finance/events", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPostingService.AssertNotCalled(suite.T(), "PostEvent", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceEventHandlerTestSuite) TestGetJournal_NotFound() {
	suite.mockJournalService.On("GetJournalEntry", mock.Anything, "org-1", "je-missing").
		Return(nil, apperrors.ErrNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/finance/journals/je-missing", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1", "org-1"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *FinanceEventHandlerTestSuite) TestListJournals() {
	entries := []domain.JournalEntry{
		{JournalEntryID: "je-2", PeriodCode: "2026-03"},
		{JournalEntryID: "je-1", PeriodCode: "2026-03"},
	}
	suite.mockJournalService.On("ListJournalEntries", mock.Anything, "org-1", 10, (*string)(nil)).
		Return(entries, "tok-next", nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/finance/journals?limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1", "org-1"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var response dto.ListJournalEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Entries, 2)
	suite.Equal("je-2", response.Entries[0].JournalEntryID)
	suite.Require().NotNil(response.NextToken)
	suite.Equal("tok-next", *response.NextToken)
	suite.mockJournalService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestFinanceEventHandler(t *testing.T) {
	suite.Run(t, new(FinanceEventHandlerTestSuite))
}
