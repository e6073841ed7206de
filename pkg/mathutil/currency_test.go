package mathutil

import (
	"math"
	"testing"
)

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number away from zero at midpoint", -1.235, -1.24},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Very small negative", -0.001, 0.00},
		{"Exactly one cent", 0.01, 0.01},
		{"Nearly two cents", 0.019, 0.02},
		{"Single year present value", 100.0 / 1.10, 90.91},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundCurrency(tt.input)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("RoundCurrency(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundCurrencySlice(t *testing.T) {
	input := []float64{90.909090909, 90.909090909, 90.157775, -0.005}
	expected := []float64{90.91, 90.91, 90.16, -0.01}

	result := RoundCurrencySlice(input)

	if len(result) != len(expected) {
		t.Fatalf("RoundCurrencySlice() returned %d values, expected %d", len(result), len(expected))
	}
	for i := range expected {
		if math.Abs(result[i]-expected[i]) > 0.0001 {
			t.Errorf("RoundCurrencySlice()[%d] = %v, expected %v", i, result[i], expected[i])
		}
	}

	// The input slice must not be modified.
	if input[0] != 90.909090909 {
		t.Errorf("RoundCurrencySlice() modified its input: %v", input[0])
	}
}

func TestRoundCurrencySliceEmpty(t *testing.T) {
	result := RoundCurrencySlice(nil)
	if len(result) != 0 {
		t.Errorf("RoundCurrencySlice(nil) = %v, expected empty", result)
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Just below negative tolerance", -0.02, false},
		{"Exactly tolerance", 0.01, true},
		{"Exactly negative tolerance", -0.01, true},
		{"Large positive", 100.0, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.input)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsPositive(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Large positive", 100.0, true},
		{"Small positive above tolerance", 0.02, true},
		{"Exactly tolerance", 0.01, false},
		{"Below tolerance", 0.001, false},
		{"Zero", 0.0, false},
		{"Negative", -1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPositive(tt.input)
			if result != tt.expected {
				t.Errorf("IsPositive(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsNegative(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Large negative", -100.0, true},
		{"Small negative below tolerance", -0.02, true},
		{"Exactly negative tolerance", -0.01, false},
		{"Above negative tolerance", -0.001, false},
		{"Zero", 0.0, false},
		{"Positive", 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsNegative(tt.input)
			if result != tt.expected {
				t.Errorf("IsNegative(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Identical values", 90.91, 90.91, 0.001, true},
		{"Within tolerance", 90.909, 90.91, 0.01, true},
		{"Outside tolerance", 90.90, 90.92, 0.01, false},
		{"Negative values within", -50.005, -50.0, 0.01, true},
		{"Zero tolerance exact", 1.0, 1.0, 0.0, true},
		{"Zero tolerance different", 1.0, 1.0001, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v",
					tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}
