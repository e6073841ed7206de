package valuation

import (
	"errors"

	"go.uber.org/zap"

	"github.com/leotrv/dcf-calculator/pkg/finance"
)

// Result holds the valuation outputs at full floating point precision.
// Rounding for display happens at the serialization boundary, never here.
type Result struct {
	EnterpriseValue         float64
	EquityValue             float64
	DiscountedCashFlows     []float64
	DiscountedTerminalValue float64
}

// Engine computes discounted cash flow valuations from validated requests.
// It is stateless; one engine may serve any number of concurrent calls.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a valuation engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Calculate discounts the request's forecast cash flows and terminal value to
// present value and combines them into enterprise and equity value.
//
// The request is assumed to come from NewRequest. The cheap invariants are
// still re-verified so that hand-built requests fail with the same coded
// errors instead of producing garbage.
func (e *Engine) Calculate(req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("valuation request is nil")
	}
	if len(req.CashFlows) == 0 {
		return nil, newError(CodeFCFLength, "cash flow series must contain at least 1 item")
	}

	discounted := make([]float64, len(req.CashFlows))
	presentValueOfCashFlows := 0.0
	for i, cashFlow := range req.CashFlows {
		discounted[i] = finance.PresentValue(cashFlow, req.DiscountRate, i+1)
		presentValueOfCashFlows += discounted[i]
	}

	terminalValue, err := e.resolveTerminalValue(req)
	if err != nil {
		return nil, err
	}

	// The terminal value sits at the end of the forecast horizon, so it is
	// discounted over the full horizon length.
	discountedTerminalValue := 0.0
	if terminalValue != nil {
		horizon := len(req.CashFlows)
		discountedTerminalValue = finance.PresentValue(*terminalValue, req.DiscountRate, horizon)
	}

	enterpriseValue := presentValueOfCashFlows + discountedTerminalValue
	equityValue := enterpriseValue - req.NetDebt

	e.logger.Debug("valuation computed",
		zap.String("op", "valuation.Calculate"),
		zap.Int("years", len(req.CashFlows)),
		zap.Float64("enterpriseValue", enterpriseValue),
		zap.Float64("equityValue", equityValue),
	)

	return &Result{
		EnterpriseValue:         enterpriseValue,
		EquityValue:             equityValue,
		DiscountedCashFlows:     discounted,
		DiscountedTerminalValue: discountedTerminalValue,
	}, nil
}

// resolveTerminalValue picks the terminal value for a request: the resolved
// value carried by the request when present, otherwise a Gordon Growth
// derivation for requests that bypassed NewRequest. Returns nil when no
// terminal value applies.
func (e *Engine) resolveTerminalValue(req *Request) (*float64, error) {
	if req.TerminalValue != nil {
		return req.TerminalValue, nil
	}
	if req.TerminalGrowthRate == nil {
		return nil, nil
	}

	growth := *req.TerminalGrowthRate
	if growth == req.DiscountRate {
		return nil, newError(CodeDivByZero, "discount_rate equals terminal_growth_rate")
	}

	lastCashFlow := req.CashFlows[len(req.CashFlows)-1]
	terminalValue, err := finance.TerminalValueGordon(lastCashFlow, growth, req.DiscountRate)
	if err != nil {
		return nil, newError(CodeWACCLEG, "discount_rate must be greater than terminal_growth_rate")
	}
	return &terminalValue, nil
}
