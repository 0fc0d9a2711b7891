package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteRental(t *testing.T) {
	// 3-day rental at 89.99/day
	quote := QuoteRental(269.97)

	assert.Equal(t, 269.97, quote.Subtotal)
	assert.Equal(t, 31.05, quote.TaxAmount)
	assert.Equal(t, 450.00, quote.SecurityDeposit)
	assert.Equal(t, 751.02, quote.TotalPrice)
}

func TestQuoteRentalTotalIsSumOfParts(t *testing.T) {
	subtotals := []float64{0, 50, 89.99, 100, 269.97, 1234.56, 9999.99}

	for _, subtotal := range subtotals {
		quote := QuoteRental(subtotal)
		assert.Equal(t, Round2(quote.Subtotal+quote.TaxAmount+quote.SecurityDeposit), quote.TotalPrice,
			"subtotal %v", subtotal)
	}
}

func TestQuoteRentalRoundsInputSubtotal(t *testing.T) {
	quote := QuoteRental(89.999)

	assert.Equal(t, 90.00, quote.Subtotal)
}

func TestQuoteRentalZeroSubtotal(t *testing.T) {
	quote := QuoteRental(0)

	assert.Equal(t, 0.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.TaxAmount)
	assert.Equal(t, 450.00, quote.TotalPrice)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 31.05, Round2(269.97*0.115))
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, -1.23, Round2(-1.234))
}
