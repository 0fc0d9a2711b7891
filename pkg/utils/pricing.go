package utils

import "math"

const (
	// TaxRate is the Puerto Rico IVU: 10.5% state + 1% municipal.
	TaxRate = 0.115
	// SecurityDeposit is the fixed refundable deposit per rental, in USD.
	SecurityDeposit = 450.00
)

// RentalQuote contains the calculated rental totals and breakdown.
// All values are exact to 2 decimal places.
type RentalQuote struct {
	Subtotal        float64 `json:"subtotal"`
	TaxAmount       float64 `json:"taxAmount"`
	SecurityDeposit float64 `json:"securityDeposit"`
	TotalPrice      float64 `json:"totalPrice"`
}

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// QuoteRental calculates the checkout totals for a rental subtotal:
// IVU tax on the subtotal plus the fixed security deposit.
func QuoteRental(rentalSubtotal float64) RentalQuote {
	subtotal := Round2(rentalSubtotal)
	taxAmount := Round2(subtotal * TaxRate)
	totalPrice := Round2(subtotal + taxAmount + SecurityDeposit)

	return RentalQuote{
		Subtotal:        subtotal,
		TaxAmount:       taxAmount,
		SecurityDeposit: SecurityDeposit,
		TotalPrice:      totalPrice,
	}
}
