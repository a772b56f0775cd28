package services_test

import (
	"testing"
	"time"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/salonledger/finance_posting_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() domain.FinanceEvent {
	return domain.FinanceEvent{
		OrganizationID:      "org-1",
		TransactionCategory: domain.CategoryExpense,
		SmartCode:           "SALON.FIN.EXPENSE.RENT.v1",
		TransactionDate:     time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:         decimal.NewFromFloat(1050),
		TransactionCurrency: "AED",
		BaseCurrency:        "AED",
		ExchangeRate:        decimal.NewFromInt(1),
	}
}

func TestValidateFinanceEventAccepts(t *testing.T) {
	assert.Empty(t, services.ValidateFinanceEvent(validEvent(), "org-1"))
	// An empty calling context skips the organization match.
	assert.Empty(t, services.ValidateFinanceEvent(validEvent(), ""))
}

func TestValidateFinanceEventAccumulatesAllViolations(t *testing.T) {
	event := domain.FinanceEvent{
		TransactionCategory: "SOMETHING_ELSE",
		SmartCode:           "bad code",
		TransactionCurrency: "DIRHAMS",
		BaseCurrency:        "D",
		TotalAmount:         decimal.NewFromInt(-5),
	}
	violations := services.ValidateFinanceEvent(event, "org-1")
	require.NotEmpty(t, violations)

	assert.Contains(t, violations, "organization id is required")
	assert.Contains(t, violations, `unknown transaction category "SOMETHING_ELSE"`)
	assert.Contains(t, violations, "transaction date is required")
	assert.GreaterOrEqual(t, len(violations), 7)
	assert.Contains(t, violations.Error(), "finance event validation failed")
}

func TestValidateFinanceEventRejectsPreGeneratedLines(t *testing.T) {
	event := validEvent()
	event.Lines = []domain.PostingLine{{LineNumber: 1, AccountCode: "6100", Debit: decimal.NewFromInt(10)}}
	violations := services.ValidateFinanceEvent(event, "org-1")
	assert.Contains(t, violations, "lines must be empty on input; posting lines are generated by the pipeline")
}

func TestValidateFinanceEventRequiresPOSTotals(t *testing.T) {
	event := validEvent()
	event.TransactionCategory = domain.CategoryPOSSummary
	violations := services.ValidateFinanceEvent(event, "org-1")
	assert.Contains(t, violations, "POS daily summary events require a totals breakdown")
}

func TestValidateFinanceEventRejectsOrgMismatch(t *testing.T) {
	violations := services.ValidateFinanceEvent(validEvent(), "org-2")
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "does not match calling context")
}
