package service

import (
	"context"
	"fmt"
	"math"

	"quantmind/quant"
)

// DefaultDriftLookback is how many recent returns the drift model averages.
const DefaultDriftLookback = 20

// DriftModel projects the mean daily simple return of the recent history
// forward. It is the fallback anchor when no model service is configured.
type DriftModel struct {
	Lookback int
}

func (DriftModel) Name() string { return "drift" }

// Anchor compounds the mean return over horizonDays from the last close.
func (d DriftModel) Anchor(_ context.Context, ticker string, horizonDays int, history quant.PriceSeries) (quant.Anchor, error) {
	if err := quant.ValidateHorizon(horizonDays); err != nil {
		return quant.Anchor{}, err
	}
	if len(history) < 2 {
		return quant.Anchor{}, fmt.Errorf("drift for %s needs 2 closes, have %d: %w", ticker, len(history), quant.ErrInsufficientData)
	}

	lookback := d.Lookback
	if lookback <= 0 {
		lookback = DefaultDriftLookback
	}
	prices := history.Prices()
	if len(prices) > lookback+1 {
		prices = prices[len(prices)-lookback-1:]
	}

	sum := 0.0
	for i := 1; i < len(prices); i++ {
		if !(prices[i-1] > 0) {
			return quant.Anchor{}, fmt.Errorf("drift for %s: price %v: %w", ticker, prices[i-1], quant.ErrInvalidParameter)
		}
		sum += (prices[i] - prices[i-1]) / prices[i-1]
	}
	mean := sum / float64(len(prices)-1)

	current := prices[len(prices)-1]
	return quant.Anchor{
		CurrentPrice: current,
		TargetPrice:  current * math.Pow(1+mean, float64(horizonDays)),
	}, nil
}
