package quant

import (
	"fmt"
	"math"
)

// Volatility is the Low/Medium/High bucket of return dispersion.
type Volatility string

const (
	LowVolatility    Volatility = "Low"
	MediumVolatility Volatility = "Medium"
	HighVolatility   Volatility = "High"
)

// ReturnStdDev is the sample standard deviation of simple day-over-day
// returns. A single return has no dispersion and yields 0.
func ReturnStdDev(prices []float64) (float64, error) {
	if len(prices) < 2 {
		return 0, fmt.Errorf("volatility needs 2 prices, got %d: %w", len(prices), ErrInsufficientData)
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if !(prev > 0) || !(prices[i] > 0) {
			return 0, fmt.Errorf("price at index %d is not positive: %w", i, ErrInvalidParameter)
		}
		returns = append(returns, (prices[i]-prev)/prev)
	}
	if len(returns) < 2 {
		return 0, nil
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	return math.Sqrt(variance), nil
}

// ClassifyVolatility buckets sigma with an inclusive lower bound per bucket.
func ClassifyVolatility(sigma float64, class AssetClass, t Thresholds) Volatility {
	bands := t.Volatility(class)
	switch {
	case sigma < bands.Medium:
		return LowVolatility
	case sigma < bands.High:
		return MediumVolatility
	default:
		return HighVolatility
	}
}

// VolatilityOf computes sigma and its bucket in one pass.
func VolatilityOf(prices []float64, class AssetClass, t Thresholds) (Volatility, float64, error) {
	sigma, err := ReturnStdDev(prices)
	if err != nil {
		return "", 0, err
	}
	return ClassifyVolatility(sigma, class, t), sigma, nil
}
