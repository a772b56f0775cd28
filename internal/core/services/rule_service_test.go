package services_test

import (
	"context"
	"testing"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portssvc "github.com/salonledger/finance_posting_app/internal/core/ports/services"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RuleServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRuleRepository
	ruleSvc  portssvc.RuleSvcFacade
	ctx      context.Context
}

func (suite *RuleServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRuleRepository)
	suite.ruleSvc = services.NewRuleService(suite.mockRepo)
	suite.ctx = context.Background()
}

func testRuleSet() *domain.RuleSet {
	return &domain.RuleSet{
		OrganizationID: "org-1",
		Version:        3,
		Rules: []domain.PostingRule{
			{
				SmartCode:      "SALON.FIN.EXPENSE.RENT.v1",
				DebitAccounts:  []string{"6100"},
				CreditAccounts: []string{"1100"},
			},
		},
		RevenueAccounts: []string{"4100"},
		ExpenseAccounts: []string{"6100"},
	}
}

func (suite *RuleServiceTestSuite) TestResolveLoadsOnceAndCaches() {
	suite.mockRepo.On("LoadRuleSet", suite.ctx, "org-1").Return(testRuleSet(), nil).Once()

	rule, err := suite.ruleSvc.Resolve(suite.ctx, "org-1", "SALON.FIN.EXPENSE.RENT.v1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"6100"}, rule.DebitAccounts)

	// Second resolve is served from cache; the mock would fail on a
	// second LoadRuleSet call.
	_, err = suite.ruleSvc.Resolve(suite.ctx, "org-1", "SALON.FIN.EXPENSE.RENT.v1")
	require.NoError(suite.T(), err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestResolveUnknownSmartCode() {
	suite.mockRepo.On("LoadRuleSet", suite.ctx, "org-1").Return(testRuleSet(), nil).Once()

	_, err := suite.ruleSvc.Resolve(suite.ctx, "org-1", "SALON.FIN.EXPENSE.UTILITIES.v1")
	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, services.ErrRuleNotFound)
	assert.ErrorContains(suite.T(), err, "SALON.FIN.EXPENSE.UTILITIES.v1")
}

func (suite *RuleServiceTestSuite) TestResolveRejectsInvalidRuleSet() {
	broken := testRuleSet()
	broken.Rules[0].CreditAccounts = nil
	suite.mockRepo.On("LoadRuleSet", suite.ctx, "org-1").Return(broken, nil).Once()

	_, err := suite.ruleSvc.Resolve(suite.ctx, "org-1", "SALON.FIN.EXPENSE.RENT.v1")
	require.Error(suite.T(), err)
	assert.ErrorContains(suite.T(), err, "configuration invalid")
}

func (suite *RuleServiceTestSuite) TestInvalidateForcesReload() {
	suite.mockRepo.On("LoadRuleSet", suite.ctx, "org-1").Return(testRuleSet(), nil).Twice()

	_, err := suite.ruleSvc.Resolve(suite.ctx, "org-1", "SALON.FIN.EXPENSE.RENT.v1")
	require.NoError(suite.T(), err)

	suite.ruleSvc.Invalidate("org-1")

	_, err = suite.ruleSvc.Resolve(suite.ctx, "org-1", "SALON.FIN.EXPENSE.RENT.v1")
	require.NoError(suite.T(), err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestRuleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RuleServiceTestSuite))
}
