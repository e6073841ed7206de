// Package output provides utilities for formatting and displaying valuation results.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/leotrv/dcf-calculator/internal/valuation"
	"github.com/leotrv/dcf-calculator/pkg/format"
	"github.com/leotrv/dcf-calculator/pkg/mathutil"
)

// Response is the wire form of a valuation result. All currency amounts are
// rounded to 2 decimal places here; the engine itself keeps full precision.
type Response struct {
	EnterpriseValue         float64   `json:"enterprise_value"`
	EquityValue             float64   `json:"equity_value"`
	DiscountedFCFs          []float64 `json:"discounted_fcfs"`
	DiscountedTerminalValue float64   `json:"discounted_terminal_value"`
}

// BuildResponse converts a full-precision valuation result into its rounded
// wire form. The result's own slices are left untouched.
func BuildResponse(result *valuation.Result) Response {
	return Response{
		EnterpriseValue:         mathutil.RoundCurrency(result.EnterpriseValue),
		EquityValue:             mathutil.RoundCurrency(result.EquityValue),
		DiscountedFCFs:          mathutil.RoundCurrencySlice(result.DiscountedCashFlows),
		DiscountedTerminalValue: mathutil.RoundCurrency(result.DiscountedTerminalValue),
	}
}

// JSONString returns the response as JSON indented with two spaces.
func JSONString(resp Response) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling valuation response: %w", err)
	}
	return string(data), nil
}

// JSONFormat outputs the response as indented JSON.
func JSONFormat(resp Response) error {
	s, err := JSONString(resp)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(resp Response) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- DCF Valuation ---\n")
	fmt.Printf("Year | Discounted FCF\n")
	fmt.Printf("____ | ______________\n")
	for i, pv := range resp.DiscountedFCFs {
		_, _ = p.Printf("%4d | $%.2f\n", i+1, pv)
	}
	fmt.Printf("\n")
	fmt.Printf("Discounted terminal value: %s\n", format.Currency(resp.DiscountedTerminalValue))
	fmt.Printf("Enterprise value:          %s\n", format.Currency(resp.EnterpriseValue))
	fmt.Printf("Equity value:              %s\n", format.Currency(resp.EquityValue))
}

// CsvString returns the response in comma-separated value format, one row per
// metric so the file loads cleanly into a spreadsheet.
func CsvString(resp Response) string {
	var builder strings.Builder
	builder.WriteString("\"metric\",\"year\",\"value\"\n")
	for i, pv := range resp.DiscountedFCFs {
		builder.WriteString(fmt.Sprintf("\"discounted_fcf\",\"%d\",\"%.2f\"\n", i+1, pv))
	}
	builder.WriteString(fmt.Sprintf("\"discounted_terminal_value\",\"\",\"%.2f\"\n", resp.DiscountedTerminalValue))
	builder.WriteString(fmt.Sprintf("\"enterprise_value\",\"\",\"%.2f\"\n", resp.EnterpriseValue))
	builder.WriteString(fmt.Sprintf("\"equity_value\",\"\",\"%.2f\"\n", resp.EquityValue))
	return builder.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(resp Response) {
	fmt.Print(CsvString(resp))
}
