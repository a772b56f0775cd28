package accounting

import (
	"testing"

	"github.com/salonledger/finance_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitVATInclusive(t *testing.T) {
	// 105.00 gross at 5% inclusive: VAT = 105*0.05/1.05 = 5.00
	net, vat := SplitVAT(decimal.NewFromFloat(105), decimal.NewFromFloat(0.05), true)
	assert.True(t, net.Equal(decimal.NewFromFloat(100)), "net should be 100, got %s", net)
	assert.True(t, vat.Equal(decimal.NewFromFloat(5)), "vat should be 5, got %s", vat)

	// Net absorbs the rounding remainder so net + vat == total exactly.
	total := decimal.NewFromFloat(99.99)
	net, vat = SplitVAT(total, decimal.NewFromFloat(0.05), true)
	assert.True(t, net.Add(vat).Equal(total), "net %s + vat %s should reconstruct %s", net, vat, total)
}

func TestSplitVATExclusive(t *testing.T) {
	net, vat := SplitVAT(decimal.NewFromFloat(100), decimal.NewFromFloat(0.05), false)
	assert.True(t, net.Equal(decimal.NewFromFloat(100)))
	assert.True(t, vat.Equal(decimal.NewFromFloat(5)))
	assert.True(t, GrossFromExclusive(net, vat).Equal(decimal.NewFromFloat(105)))
}

func TestSplitVATZeroRate(t *testing.T) {
	total := decimal.NewFromFloat(250)
	net, vat := SplitVAT(total, decimal.Zero, true)
	assert.True(t, net.Equal(total))
	assert.True(t, vat.IsZero())
}

func TestSumLines(t *testing.T) {
	lines := []domain.PostingLine{
		{LineNumber: 1, Debit: decimal.NewFromFloat(100)},
		{LineNumber: 2, Debit: decimal.NewFromFloat(5)},
		{LineNumber: 3, Credit: decimal.NewFromFloat(105)},
	}
	debits, credits := SumLines(lines)
	assert.True(t, debits.Equal(decimal.NewFromFloat(105)))
	assert.True(t, credits.Equal(decimal.NewFromFloat(105)))
}

func TestValidateBalance(t *testing.T) {
	balanced := []domain.PostingLine{
		{Debit: decimal.NewFromFloat(105)},
		{Credit: decimal.NewFromFloat(105)},
	}
	assert.NoError(t, ValidateBalance(balanced))

	// A sub-tolerance remainder is accepted.
	nearlyBalanced := []domain.PostingLine{
		{Debit: decimal.NewFromFloat(100.005)},
		{Credit: decimal.NewFromFloat(100)},
	}
	assert.NoError(t, ValidateBalance(nearlyBalanced))

	unbalanced := []domain.PostingLine{
		{Debit: decimal.NewFromFloat(100)},
		{Credit: decimal.NewFromFloat(90)},
	}
	err := ValidateBalance(unbalanced)
	require.Error(t, err)

	var balErr *BalanceError
	require.ErrorAs(t, err, &balErr)
	assert.True(t, balErr.TotalDebits.Equal(decimal.NewFromFloat(100)))
	assert.True(t, balErr.TotalCredits.Equal(decimal.NewFromFloat(90)))
	assert.True(t, balErr.Difference.Equal(decimal.NewFromFloat(10)))
}
