package services

import (
	"fmt"
	"strings"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidationErrors is the full list of discrete rule violations found in
// a finance event. Callers render every violation, never a single opaque
// message.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("finance event validation failed: %s", strings.Join(v, "; "))
}

var knownCategories = map[domain.TransactionCategory]struct{}{
	domain.CategoryExpense:    {},
	domain.CategoryRevenue:    {},
	domain.CategoryBankFee:    {},
	domain.CategoryCommission: {},
	domain.CategoryPOSSummary: {},
	domain.CategoryGeneric:    {},
}

// ValidateFinanceEvent checks a finance event before any pipeline stage
// runs: structural shape first, then business rules, then the
// organization match against the calling context. It accumulates every
// violation and has no side effects.
func ValidateFinanceEvent(event domain.FinanceEvent, callerOrgID string) ValidationErrors {
	var errs ValidationErrors

	if event.OrganizationID == "" {
		errs = append(errs, "organization id is required")
	}
	if _, ok := knownCategories[event.TransactionCategory]; !ok {
		errs = append(errs, fmt.Sprintf("unknown transaction category %q", event.TransactionCategory))
	}
	if !event.SmartCode.IsValid() {
		errs = append(errs, fmt.Sprintf("smart code %q does not match DOMAIN.MODULE.CATEGORY.KIND.vN format", event.SmartCode))
	}
	if event.TransactionDate.IsZero() {
		errs = append(errs, "transaction date is required")
	}
	if len(event.TransactionCurrency) != 3 {
		errs = append(errs, fmt.Sprintf("transaction currency %q must be a 3-letter code", event.TransactionCurrency))
	}
	if len(event.BaseCurrency) != 3 {
		errs = append(errs, fmt.Sprintf("base currency %q must be a 3-letter code", event.BaseCurrency))
	}
	if event.TotalAmount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, fmt.Sprintf("total amount must be positive, got %s", event.TotalAmount))
	}
	if event.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, fmt.Sprintf("exchange rate must be positive, got %s", event.ExchangeRate))
	}

	// The pipeline is the only line producer.
	if len(event.Lines) != 0 {
		errs = append(errs, "lines must be empty on input; posting lines are generated by the pipeline")
	}

	if event.TransactionCategory == domain.CategoryPOSSummary && event.Totals == nil {
		errs = append(errs, "POS daily summary events require a totals breakdown")
	}

	if callerOrgID != "" && event.OrganizationID != "" && event.OrganizationID != callerOrgID {
		errs = append(errs, fmt.Sprintf("event organization %s does not match calling context %s", event.OrganizationID, callerOrgID))
	}

	return errs
}
