package quant

import (
	"fmt"
	"math"
)

const (
	MinHorizonDays     = 1
	MaxHorizonDays     = 7
	DefaultHorizonDays = 3
)

// ForecastPoint is one projected day. Lower <= Price <= Upper always holds and
// Upper-Lower never shrinks as Day grows.
type ForecastPoint struct {
	Day       int     `json:"day"`
	Date      string  `json:"date,omitempty"`
	Price     float64 `json:"price"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	ChangePct float64 `json:"changePct"`
}

// ValidateHorizon rejects horizons outside 1..7 days.
func ValidateHorizon(days int) error {
	if days < MinHorizonDays || days > MaxHorizonDays {
		return fmt.Errorf("horizon %d days outside %d..%d: %w", days, MinHorizonDays, MaxHorizonDays, ErrInvalidParameter)
	}
	return nil
}

// PredictedChangePct is the percent move from current to target.
func PredictedChangePct(current, target float64) (float64, error) {
	if !(current > 0) || math.IsInf(current, 0) {
		return 0, fmt.Errorf("current price %v: %w", current, ErrInvalidParameter)
	}
	return (target - current) / current * 100, nil
}

// Project interpolates linearly from current to target over horizonDays and
// wraps each day in a band of half-width price*coef*day. When start is a
// date, day d is dated start+d.
func Project(current, target float64, horizonDays int, coef float64, start string) ([]ForecastPoint, error) {
	if err := ValidateHorizon(horizonDays); err != nil {
		return nil, err
	}
	if !(current > 0) || math.IsInf(current, 0) {
		return nil, fmt.Errorf("current price %v: %w", current, ErrInvalidParameter)
	}
	if !(target > 0) || math.IsInf(target, 0) {
		return nil, fmt.Errorf("target price %v: %w", target, ErrInvalidParameter)
	}
	if math.IsNaN(coef) || coef < 0 {
		coef = 0
	}

	points := make([]ForecastPoint, horizonDays)
	widest := 0.0
	for day := 1; day <= horizonDays; day++ {
		price := current + (target-current)*float64(day)/float64(horizonDays)
		if day == horizonDays {
			price = target
		}
		halfWidth := math.Max(price*coef*float64(day), 0)
		// a falling path can shrink price*day; keep the band from narrowing
		if halfWidth < widest {
			halfWidth = widest
		}
		widest = halfWidth

		p := ForecastPoint{
			Day:       day,
			Price:     price,
			Lower:     price - halfWidth,
			Upper:     price + halfWidth,
			ChangePct: (price - current) / current * 100,
		}
		if start != "" {
			date, err := addDays(start, day)
			if err != nil {
				return nil, err
			}
			p.Date = date
		}
		points[day-1] = p
	}
	return points, nil
}

// Confidence describes how far the forecast reaches.
type Confidence string

const (
	HighConfidence   Confidence = "High"
	MediumConfidence Confidence = "Medium"
	LowConfidence    Confidence = "Low"
)

// ConfidenceFor grades a horizon: up to 2 days High, up to 5 Medium.
func ConfidenceFor(horizonDays int) Confidence {
	switch {
	case horizonDays <= 2:
		return HighConfidence
	case horizonDays <= 5:
		return MediumConfidence
	default:
		return LowConfidence
	}
}
