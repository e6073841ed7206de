package valuation

import (
	"fmt"
	"math"

	"github.com/leotrv/dcf-calculator/pkg/constants"
	"github.com/leotrv/dcf-calculator/pkg/finance"
)

// RequestInput is the raw valuation request as supplied by a caller, before
// validation. Pointer fields distinguish absent values from zero values.
//
// Units: cash amounts (starting_fcf, terminal_value, net_debt) share one
// consistent unit, conventionally billions. Rates (fcf_growth_rate,
// discount_rate, terminal_growth_rate) are percentages, e.g. 8.0 means 8%.
type RequestInput struct {
	StartingFCF        *float64 `json:"starting_fcf"`
	FCFGrowthRate      *float64 `json:"fcf_growth_rate"`
	Years              *int     `json:"years"`
	DiscountRate       *float64 `json:"discount_rate"`
	TerminalGrowthRate *float64 `json:"terminal_growth_rate,omitempty"`
	TerminalValue      *float64 `json:"terminal_value,omitempty"`
	NetDebt            *float64 `json:"net_debt,omitempty"`
}

// Request is a fully validated, internally consistent valuation request.
// The forecast cash flow series and the terminal value are derived once at
// construction; the object is treated as immutable afterwards.
type Request struct {
	StartingFCF        float64
	FCFGrowthRate      float64
	Years              int
	DiscountRate       float64 // percent
	TerminalGrowthRate *float64
	NetDebt            float64

	// CashFlows is the derived forecast series, one entry per forecast year:
	// CashFlows[i] = StartingFCF * (1 + FCFGrowthRate/100)^(i+1).
	CashFlows []float64

	// TerminalValue is the resolved terminal value: the explicit input when
	// supplied, otherwise the Gordon Growth value when a terminal growth rate
	// is given, otherwise nil.
	TerminalValue *float64
}

// NewRequest validates raw input against the valuation business rules and
// derives the forecast series and terminal value. It fails fast: the first
// violated rule is returned as a coded *Error and no computation happens.
func NewRequest(input RequestInput) (*Request, error) {
	if err := validateRealNumber(input.StartingFCF, CodeFCFInvalid, "starting_fcf", true); err != nil {
		return nil, err
	}
	if *input.StartingFCF < 0 {
		return nil, newError(CodeStartingFCFNegative, "starting_fcf must be non-negative")
	}

	if err := validateRealNumber(input.FCFGrowthRate, CodeFCFInvalid, "fcf_growth_rate", true); err != nil {
		return nil, err
	}

	if input.Years == nil || *input.Years < constants.MinForecastYears || *input.Years > constants.MaxForecastYears {
		return nil, newError(CodeYearsLength, fmt.Sprintf("years must be between %d and %d",
			constants.MinForecastYears, constants.MaxForecastYears))
	}

	if input.DiscountRate == nil {
		return nil, newError(CodeDiscountRateRequired, "discount_rate is required")
	}
	if err := validateRealNumber(input.DiscountRate, CodeDiscountRateInvalid, "discount_rate", false); err != nil {
		return nil, err
	}
	if *input.DiscountRate <= 0 {
		return nil, newError(CodeDiscountRateNonPositive, "discount_rate must be > 0")
	}

	if input.TerminalGrowthRate != nil {
		if err := validateRealNumber(input.TerminalGrowthRate, CodeGInvalid, "terminal_growth_rate", false); err != nil {
			return nil, err
		}
		if *input.TerminalGrowthRate < 0 {
			return nil, newError(CodeGNegative, "terminal_growth_rate must be >= 0")
		}
		if *input.TerminalGrowthRate >= *input.DiscountRate {
			return nil, newError(CodeGGTEDiscountRate, "terminal_growth_rate must be strictly less than discount_rate")
		}
	}

	if input.TerminalValue != nil {
		if err := validateRealNumber(input.TerminalValue, CodeFCFInvalid, "terminal_value", false); err != nil {
			return nil, err
		}
	}

	netDebt := 0.0
	if input.NetDebt != nil {
		// Negative net debt represents a net cash position and is allowed.
		if err := validateRealNumber(input.NetDebt, CodeNetDebtInvalid, "net_debt", false); err != nil {
			return nil, err
		}
		netDebt = *input.NetDebt
	}

	req := &Request{
		StartingFCF:   *input.StartingFCF,
		FCFGrowthRate: *input.FCFGrowthRate,
		Years:         *input.Years,
		DiscountRate:  *input.DiscountRate,
		NetDebt:       netDebt,
	}
	if input.TerminalGrowthRate != nil {
		growth := *input.TerminalGrowthRate
		req.TerminalGrowthRate = &growth
	}

	req.CashFlows = finance.ProjectCashFlows(req.StartingFCF, req.FCFGrowthRate, req.Years)
	for i, cashFlow := range req.CashFlows {
		if math.IsInf(cashFlow, 0) || math.IsNaN(cashFlow) {
			return nil, newError(CodeFCFInvalid, fmt.Sprintf("derived cash flow for year %d is not a real number", i+1))
		}
		if cashFlow < 0 {
			return nil, newError(CodeFCFNegative, fmt.Sprintf("derived cash flow for year %d is negative", i+1))
		}
	}

	if input.TerminalValue != nil {
		terminalValue := *input.TerminalValue
		req.TerminalValue = &terminalValue
	} else if req.TerminalGrowthRate != nil {
		lastCashFlow := req.CashFlows[len(req.CashFlows)-1]
		terminalValue, err := finance.TerminalValueGordon(lastCashFlow, *req.TerminalGrowthRate, req.DiscountRate)
		if err != nil {
			return nil, newError(CodeGGTEDiscountRate, "terminal_growth_rate must be strictly less than discount_rate")
		}
		req.TerminalValue = &terminalValue
	}

	return req, nil
}

// validateRealNumber checks that a field is present (when required) and is a
// finite real number. The code parameter selects which business rule is
// reported for the field.
func validateRealNumber(value *float64, code Code, field string, required bool) error {
	if value == nil {
		if required {
			return newError(code, field+" is required and must be a number")
		}
		return nil
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return newError(code, field+" must be a real number")
	}
	return nil
}
