package quant

import "math"

const (
	DefaultRSIPeriod = 14
	DefaultMACDFast  = 12
	DefaultMACDSlow  = 26
	DefaultMAWindow  = 50
)

// RSI computes Wilder's relative strength index. The output is aligned with
// prices; the first period entries are NaN.
//
// The seed window accumulates raw gain and loss sums over deltas 1..period and
// later steps smooth with (x*(period-1)+delta)/period. A zero loss is read as
// 1, so a rising series approaches 100 only as its gains grow and a flat series
// reads 0.
func RSI(prices []float64, period int) []float64 {
	out := undefined(len(prices))
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		delta := prices[i] - prices[i-1]
		if delta >= 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	out[period] = rsiValue(gain, loss)

	p := float64(period)
	for i := period + 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gain = (gain*(p-1) + math.Max(delta, 0)) / p
		loss = (loss*(p-1) + math.Max(-delta, 0)) / p
		out[i] = rsiValue(gain, loss)
	}
	return out
}

func rsiValue(gain, loss float64) float64 {
	if loss == 0 {
		loss = 1
	}
	return 100 - 100/(1+gain/loss)
}

// EMA is an exponential moving average seeded with the first price.
func EMA(prices []float64, span int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	if span <= 0 {
		return undefined(len(prices))
	}
	k := 2.0 / float64(span+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACD returns the fast EMA minus the slow EMA, defined from index 0.
func MACD(prices []float64, fast, slow int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	f := EMA(prices, fast)
	s := EMA(prices, slow)
	out := make([]float64, len(prices))
	for i := range prices {
		out[i] = f[i] - s[i]
	}
	return out
}

// SMA is a trailing simple moving average; entries before window-1 are NaN.
func SMA(prices []float64, window int) []float64 {
	out := undefined(len(prices))
	if window <= 0 || len(prices) < window {
		return out
	}
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// MACDState is the derived trend label of the latest MACD value.
type MACDState string

const (
	Bullish MACDState = "Bullish"
	Bearish MACDState = "Bearish"
)

// MACDStateOf is Bullish when the latest MACD is strictly positive.
func MACDStateOf(latest float64) MACDState {
	if latest > 0 {
		return Bullish
	}
	return Bearish
}

// RSIZone buckets an RSI reading for display.
type RSIZone string

const (
	Overbought RSIZone = "Overbought"
	Oversold   RSIZone = "Oversold"
	Neutral    RSIZone = "Neutral"
)

// RSIZoneOf uses the conventional 70/30 bands.
func RSIZoneOf(rsi float64) RSIZone {
	switch {
	case rsi > 70:
		return Overbought
	case rsi < 30:
		return Oversold
	default:
		return Neutral
	}
}

// Indicators is the full indicator pass over one series.
type Indicators struct {
	RSI  []float64
	MACD []float64
	MA50 []float64
}

// ComputeIndicators runs every indicator with its default parameters.
func ComputeIndicators(prices []float64) Indicators {
	return Indicators{
		RSI:  RSI(prices, DefaultRSIPeriod),
		MACD: MACD(prices, DefaultMACDFast, DefaultMACDSlow),
		MA50: SMA(prices, DefaultMAWindow),
	}
}
