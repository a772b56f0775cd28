package accounting

import (
	"fmt"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed |debits - credits| for a line
// set to count as balanced, in the posting currency.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// BalanceError reports an unbalanced line set with both sums and their
// difference so callers can diagnose which rule produced bad arithmetic.
type BalanceError struct {
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Difference   decimal.Decimal
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("posting lines do not balance: debits %s, credits %s, difference %s",
		e.TotalDebits.String(), e.TotalCredits.String(), e.Difference.String())
}

// SumLines returns the debit and credit totals of a line set.
func SumLines(lines []domain.PostingLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// ValidateBalance checks that the generated lines net to zero within
// BalanceTolerance. This is the single gate that keeps an unbalanced
// journal from reaching the writer.
func ValidateBalance(lines []domain.PostingLine) error {
	debits, credits := SumLines(lines)
	diff := debits.Sub(credits)
	if diff.Abs().GreaterThanOrEqual(BalanceTolerance) {
		return &BalanceError{TotalDebits: debits, TotalCredits: credits, Difference: diff}
	}
	return nil
}

// SplitVAT splits a total into net and VAT portions.
//
// Inclusive: the total already contains VAT, so VAT = total*rate/(1+rate)
// and net = total - VAT. Exclusive: net = total and VAT = total*rate.
// Results are rounded to 2 decimal places with net absorbing the rounding
// remainder in the inclusive case so that net + VAT reconstructs the
// total exactly.
func SplitVAT(total, rate decimal.Decimal, inclusive bool) (net, vat decimal.Decimal) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return total, decimal.Zero
	}
	if inclusive {
		one := decimal.NewFromInt(1)
		vat = total.Mul(rate).Div(one.Add(rate)).Round(2)
		net = total.Sub(vat)
		return net, vat
	}
	net = total
	vat = total.Mul(rate).Round(2)
	return net, vat
}

// GrossFromExclusive returns the gross amount for an exclusive net/VAT split.
func GrossFromExclusive(net, vat decimal.Decimal) decimal.Decimal {
	return net.Add(vat)
}
