// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/leotrv/dcf-calculator/pkg/constants"
)

// RoundCurrency rounds a value to two decimals with ties going away from
// zero, i.e. to represent real currency. Intended for the serialization
// boundary only; internal arithmetic stays at full precision.
func RoundCurrency(val float64) float64 {
	rounded, _ := decimal.NewFromFloat(val).Round(constants.CurrencyDecimalPlaces).Float64()
	return rounded
}

// RoundCurrencySlice rounds every element of a slice to currency precision,
// preserving order. Returns a new slice; the input is not modified.
func RoundCurrencySlice(vals []float64) []float64 {
	rounded := make([]float64, len(vals))
	for i, val := range vals {
		rounded[i] = RoundCurrency(val)
	}
	return rounded
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val float64) bool {
	return val < -constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
