// Package finance provides common financial calculation utilities.
package finance

import (
	"errors"
	"math"

	"github.com/leotrv/dcf-calculator/pkg/constants"
)

// ErrGrowthExceedsDiscount is returned by TerminalValueGordon when the
// terminal growth rate is not strictly below the discount rate, which would
// make the perpetuity denominator zero or negative.
var ErrGrowthExceedsDiscount = errors.New("terminal growth rate must be strictly less than discount rate")

// ProjectCashFlows derives a forecast free cash flow series from the last
// historical cash flow and a constant growth rate. The first forecast year is
// startingFCF * (1 + growthRate) where growthRate is given in percent.
func ProjectCashFlows(startingFCF, growthRatePercent float64, years int) []float64 {
	growthFactor := 1.0 + growthRatePercent/constants.PercentageMultiplier
	cashFlows := make([]float64, years)
	for year := 1; year <= years; year++ {
		cashFlows[year-1] = startingFCF * math.Pow(growthFactor, float64(year))
	}
	return cashFlows
}

// DiscountFactor returns 1 / (1 + r)^period where r is the fractional form of
// the given percentage rate.
func DiscountFactor(discountRatePercent float64, period int) float64 {
	rate := discountRatePercent / constants.PercentageMultiplier
	return 1.0 / math.Pow(1.0+rate, float64(period))
}

// PresentValue discounts a future value back the given number of periods at
// the given percentage rate.
func PresentValue(value, discountRatePercent float64, period int) float64 {
	return value * DiscountFactor(discountRatePercent, period)
}

// TerminalValueGordon computes a Gordon Growth Model terminal value from the
// final forecast cash flow: TV = lastCashFlow * (1 + g) / (r - g), with both
// rates supplied in percent and converted to fractions before use. Returns
// ErrGrowthExceedsDiscount when terminalGrowthPercent >= discountRatePercent.
func TerminalValueGordon(lastCashFlow, terminalGrowthPercent, discountRatePercent float64) (float64, error) {
	if terminalGrowthPercent >= discountRatePercent {
		return 0, ErrGrowthExceedsDiscount
	}
	g := terminalGrowthPercent / constants.PercentageMultiplier
	rate := discountRatePercent / constants.PercentageMultiplier
	return lastCashFlow * (1.0 + g) / (rate - g), nil
}
