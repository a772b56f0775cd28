package services

import (
	"errors"
	"fmt"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/salonledger/finance_posting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ErrRuleMisconfigured indicates a resolved rule cannot drive line
// generation for the event (missing account slots, missing totals).
var ErrRuleMisconfigured = errors.New("posting rule misconfigured for event")

// GenerateLines expands one validated finance event into its ordered
// posting lines using the resolved rule. Pure function of its inputs;
// balance is checked separately by accounting.ValidateBalance.
func GenerateLines(event domain.FinanceEvent, rule domain.PostingRule) ([]domain.PostingLine, error) {
	switch event.TransactionCategory {
	case domain.CategoryExpense, domain.CategoryCommission:
		return generateExpenseLines(event, rule)
	case domain.CategoryRevenue:
		return generateRevenueLines(event, rule)
	case domain.CategoryBankFee:
		return generateBankFeeLines(event, rule)
	case domain.CategoryPOSSummary:
		return generatePOSSummaryLines(event, rule)
	default:
		return generateGenericLines(event, rule)
	}
}

// lineBuilder accumulates posting lines with sequential 1-based numbers.
type lineBuilder struct {
	event domain.FinanceEvent
	lines []domain.PostingLine
}

func (b *lineBuilder) add(accountCode, description string, debit, credit decimal.Decimal) {
	b.lines = append(b.lines, domain.PostingLine{
		LineNumber:  len(b.lines) + 1,
		AccountCode: accountCode,
		Debit:       debit,
		Credit:      credit,
		Description: description,
		SmartCode:   b.event.SmartCode,
		EntityID:    b.event.SourceEntityID,
	})
}

func (b *lineBuilder) debit(accountCode, description string, amount decimal.Decimal) {
	b.add(accountCode, description, amount, decimal.Zero)
}

func (b *lineBuilder) credit(accountCode, description string, amount decimal.Decimal) {
	b.add(accountCode, description, decimal.Zero, amount)
}

func lineDescription(event domain.FinanceEvent, fallback string) string {
	if event.BusinessContext.Note != "" {
		return event.BusinessContext.Note
	}
	return fallback
}

// generateGenericLines produces the plain two-line posting: full amount
// debit on the rule's first debit account, matching credit on its first
// credit account.
func generateGenericLines(event domain.FinanceEvent, rule domain.PostingRule) ([]domain.PostingLine, error) {
	b := &lineBuilder{event: event}
	desc := lineDescription(event, "Journal posting")
	b.debit(rule.DebitAccounts[0], desc, event.TotalAmount)
	b.credit(rule.CreditAccounts[0], desc, event.TotalAmount)
	return b.lines, nil
}

// generateExpenseLines posts an expense (or commission accrual). Without
// VAT handling this is the generic two-line form. With VAT handling the
// total is split into net + input VAT, credited gross against the
// cash/bank/payable account.
func generateExpenseLines(event domain.FinanceEvent, rule domain.PostingRule) ([]domain.PostingLine, error) {
	if rule.VATHandling == nil {
		return generateGenericLines(event, rule)
	}

	net, vat := accounting.SplitVAT(event.TotalAmount, rule.VATHandling.Rate, rule.VATHandling.Inclusive)
	gross := event.TotalAmount
	if !rule.VATHandling.Inclusive {
		gross = accounting.GrossFromExclusive(net, vat)
	}

	b := &lineBuilder{event: event}
	desc := lineDescription(event, "Expense posting")
	b.debit(rule.DebitAccounts[0], desc, net)
	if vat.GreaterThan(decimal.Zero) {
		b.debit(rule.VATHandling.VATAccount, desc+" (input VAT)", vat)
	}
	b.credit(rule.CreditAccounts[0], desc, gross)
	return b.lines, nil
}

// generateRevenueLines posts a revenue receipt: gross into cash/bank,
// net revenue and output VAT on the credit side.
func generateRevenueLines(event domain.FinanceEvent, rule domain.PostingRule) ([]domain.PostingLine, error) {
	if rule.VATHandling == nil {
		return generateGenericLines(event, rule)
	}

	net, vat := accounting.SplitVAT(event.TotalAmount, rule.VATHandling.Rate, rule.VATHandling.Inclusive)
	gross := event.TotalAmount
	if !rule.VATHandling.Inclusive {
		gross = accounting.GrossFromExclusive(net, vat)
	}

	b := &lineBuilder{event: event}
	desc := lineDescription(event, "Revenue posting")
	b.debit(rule.DebitAccounts[0], desc, gross)
	b.credit(rule.CreditAccounts[0], desc, net)
	if vat.GreaterThan(decimal.Zero) {
		b.credit(rule.VATHandling.VATAccount, desc+" (output VAT)", vat)
	}
	return b.lines, nil
}

// generateBankFeeLines posts a bank/processing fee: debit fee expense,
// credit bank, both for the full amount.
func generateBankFeeLines(event domain.FinanceEvent, rule domain.PostingRule) ([]domain.PostingLine, error) {
	b := &lineBuilder{event: event}
	desc := lineDescription(event, "Bank fee")
	b.debit(rule.DebitAccounts[0], desc, event.TotalAmount)
	b.credit(rule.CreditAccounts[0], desc, event.TotalAmount)
	return b.lines, nil
}

// generatePOSSummaryLines expands a POS daily summary into up to six
// lines driven by the event's totals block. Account slots: debit side
// [cash, card settlement, processing fees], credit side [net sales, VAT
// payable, tips payable]. A zero amount produces no line. Convention:
// CashCollected includes cash tips, CardSettlement is net of processing
// fees, so debits balance gross sales plus tips on the credit side.
func generatePOSSummaryLines(event domain.FinanceEvent, rule domain.PostingRule) ([]domain.PostingLine, error) {
	if event.Totals == nil {
		return nil, fmt.Errorf("%w: POS summary event has no totals block", ErrRuleMisconfigured)
	}
	t := event.Totals

	type slot struct {
		amount decimal.Decimal
		side   string // "debit" or "credit"
		index  int
		desc   string
	}
	slots := []slot{
		{t.CashCollected, "debit", 0, "Cash collected"},
		{t.CardSettlement, "debit", 1, "Card settlement"},
		{t.Fees, "debit", 2, "Card processing fees"},
		{t.GrossSales.Sub(t.VATAmount), "credit", 0, "Net sales"},
		{t.VATAmount, "credit", 1, "VAT payable"},
		{t.Tips, "credit", 2, "Tips payable"},
	}

	b := &lineBuilder{event: event}
	for _, s := range slots {
		if s.amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if s.side == "debit" {
			if s.index >= len(rule.DebitAccounts) {
				return nil, fmt.Errorf("%w: rule %s has no debit account for %s", ErrRuleMisconfigured, rule.SmartCode, s.desc)
			}
			b.debit(rule.DebitAccounts[s.index], s.desc, s.amount)
			continue
		}
		if s.index >= len(rule.CreditAccounts) {
			return nil, fmt.Errorf("%w: rule %s has no credit account for %s", ErrRuleMisconfigured, rule.SmartCode, s.desc)
		}
		b.credit(rule.CreditAccounts[s.index], s.desc, s.amount)
	}
	return b.lines, nil
}
