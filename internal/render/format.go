// Package render writes trend reports as terminal tables, CSV and JSON.
package render

import (
	"github.com/shopspring/decimal"

	"stockDash/internal/domain"
)

// Absent is printed in place of a value that is not defined.
const Absent = "-"

// Price rounds v to two decimals.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent renders a fraction as a percentage with two decimals.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// PricePoint renders a derived value, or Absent.
func PricePoint(p domain.Point) string {
	if !p.Valid {
		return Absent
	}
	return Price(p.Value)
}

// PercentPoint renders a derived fraction as a percentage, or Absent.
func PercentPoint(p domain.Point) string {
	if !p.Valid {
		return Absent
	}
	return Percent(p.Value)
}
