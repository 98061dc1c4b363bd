package quant

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SimulationResult is the projected outcome of a hypothetical investment.
type SimulationResult struct {
	Investment     float64 `json:"investment"`
	ProjectedValue float64 `json:"projectedValue"`
	Profit         float64 `json:"profit"`
}

var hundred = decimal.NewFromInt(100)

// Simulate parses a raw investment amount and applies changePct to it.
// Unparsable, zero or negative amounts yield a zero result rather than an error.
func Simulate(investment string, changePct float64) SimulationResult {
	amount, err := decimal.NewFromString(strings.TrimSpace(investment))
	if err != nil {
		return SimulationResult{}
	}
	return simulate(amount, changePct)
}

// SimulateAmount is Simulate for callers that already hold a number.
func SimulateAmount(investment, changePct float64) SimulationResult {
	if math.IsNaN(investment) || math.IsInf(investment, 0) {
		return SimulationResult{}
	}
	return simulate(decimal.NewFromFloat(investment), changePct)
}

func simulate(amount decimal.Decimal, changePct float64) SimulationResult {
	if !amount.IsPositive() || math.IsNaN(changePct) || math.IsInf(changePct, 0) {
		return SimulationResult{}
	}
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(changePct).Div(hundred))
	projected := amount.Mul(factor).Round(2)
	return SimulationResult{
		Investment:     amount.Round(2).InexactFloat64(),
		ProjectedValue: projected.InexactFloat64(),
		Profit:         projected.Sub(amount).Round(2).InexactFloat64(),
	}
}
