package utils

import (
	"math"
)

// RoundToCents rounds a monetary amount to the currency's minor unit
// (2 decimal places) using round-half-up.
func RoundToCents(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}

// CommissionAmount computes the commission owed on a sale at the given
// percentage rate, rounded to cents.
func CommissionAmount(saleAmount, rate float64) float64 {
	return RoundToCents(saleAmount * rate / 100)
}
