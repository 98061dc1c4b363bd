package quant

import "errors"

var (
	// ErrInsufficientData means the series is shorter than an indicator's minimum window.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidParameter covers non-positive prices, bad horizons and malformed input.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUpstreamUnavailable wraps market data provider failures.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
