// Package money rounds and formats currency amounts for display.
package money

import "github.com/shopspring/decimal"

// Round2 rounds v to cents, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Format renders v with exactly two decimal places.
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Sum adds amounts in decimal so long schedules do not drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
