// Package valuation implements discounted cash flow valuation: the request
// model with its validation contract, and the engine that discounts a
// validated request into enterprise and equity values.
package valuation

import "errors"

// Code identifies one business-rule violation. The set is closed: every
// validation and calculation failure surfaced to callers carries exactly one
// of these codes.
type Code string

const (
	// CodeStartingFCFNegative flags a negative starting free cash flow.
	CodeStartingFCFNegative Code = "STARTING_FCF_NEGATIVE"

	// CodeFCFNegative flags a negative value in the forecast cash flow series.
	CodeFCFNegative Code = "FCF_NEGATIVE"

	// CodeFCFInvalid flags a cash flow field that is missing or not a real number.
	CodeFCFInvalid Code = "FCF_INVALID"

	// CodeFCFLength flags a cash flow series whose length is outside the
	// accepted horizon.
	CodeFCFLength Code = "FCF_LENGTH"

	// CodeYearsLength flags a forecast horizon outside the accepted bounds.
	CodeYearsLength Code = "YEARS_LENGTH"

	// CodeDiscountRateRequired flags a missing discount rate.
	CodeDiscountRateRequired Code = "DISCOUNT_RATE_REQUIRED"

	// CodeDiscountRateInvalid flags a discount rate that is not a real number.
	CodeDiscountRateInvalid Code = "DISCOUNT_RATE_INVALID"

	// CodeDiscountRateNonPositive flags a discount rate <= 0.
	CodeDiscountRateNonPositive Code = "DISCOUNT_RATE_NONPOSITIVE"

	// CodeGInvalid flags a terminal growth rate that is not a real number.
	CodeGInvalid Code = "G_INVALID"

	// CodeGNegative flags a negative terminal growth rate.
	CodeGNegative Code = "G_NEGATIVE"

	// CodeGGTEDiscountRate flags a terminal growth rate at or above the
	// discount rate.
	CodeGGTEDiscountRate Code = "G_GTE_DISCOUNT_RATE"

	// CodeNetDebtInvalid flags a net debt value that is not a real number.
	CodeNetDebtInvalid Code = "NET_DEBT_INVALID"

	// CodeWACCLEG flags a discount rate below the terminal growth rate at
	// terminal value derivation time.
	CodeWACCLEG Code = "WACC_LE_G"

	// CodeDivByZero flags a discount rate exactly equal to the terminal
	// growth rate, which makes the perpetuity denominator zero.
	CodeDivByZero Code = "DIV_BY_ZERO"
)

// Error is a coded business-rule violation. Its string form is
// "CODE: message" so the code survives plain-text transports.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the business-rule code from an error. It returns false when
// the error does not carry one, e.g. for infrastructure failures.
func CodeOf(err error) (Code, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Code, true
	}
	return "", false
}
