package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestRSI_WarmupIsUndefined(t *testing.T) {
	prices := ramp(20, 100, 1)
	rsi := RSI(prices, 14)

	require.Len(t, rsi, len(prices))
	for i := 0; i < 14; i++ {
		assert.False(t, Defined(rsi[i]), "index %d should be undefined", i)
	}
	for i := 14; i < len(prices); i++ {
		assert.True(t, Defined(rsi[i]), "index %d should be defined", i)
	}
}

func TestRSI_TooShortIsAllUndefined(t *testing.T) {
	rsi := RSI(ramp(14, 100, 1), 14)
	for i, v := range rsi {
		assert.True(t, math.IsNaN(v), "index %d", i)
	}
	assert.Empty(t, RSI(nil, 14))
	for _, v := range RSI(ramp(30, 100, 1), 0) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRSI_StrictlyIncreasingApproaches100(t *testing.T) {
	// no losses: RS is the raw gain sum over a loss of 1
	seed := map[float64]float64{
		0.01: 100 - 100/1.14,
		1:    100 - 100/15.0,
		250:  100 - 100/3501.0,
	}
	prev := 0.0
	for _, step := range []float64{0.01, 1, 250} {
		rsi := RSI(ramp(60, 100, step), 14)
		assert.InDelta(t, seed[step], rsi[14], 1e-9, "step %v", step)
		assert.Greater(t, rsi[14], prev, "larger gains read higher")
		prev = rsi[14]
	}
	assert.InDelta(t, 12.2807, RSI(ramp(20, 100, 0.01), 14)[14], 1e-4)

	for i, v := range RSI(ramp(60, 100, 250), 14) {
		if i >= 14 {
			assert.Greater(t, v, 99.5, "index %d", i)
			assert.Less(t, v, 100.0, "index %d", i)
		}
	}
}

func TestRSI_StrictlyDecreasingReadsZero(t *testing.T) {
	rsi := RSI(ramp(60, 1000, -3), 14)
	for i := 14; i < len(rsi); i++ {
		assert.Equal(t, 0.0, rsi[i], "index %d", i)
	}
}

func TestRSI_FlatSeriesReadsZero(t *testing.T) {
	rsi := RSI(ramp(30, 42, 0), 14)
	for i := 14; i < len(rsi); i++ {
		assert.Equal(t, 0.0, rsi[i])
	}
}

func TestRSI_SeedAndSmoothing(t *testing.T) {
	// deltas alternate +2, -1 over a period of 4
	prices := []float64{10, 12, 11, 13, 12, 14}
	rsi := RSI(prices, 4)

	// seed: gain=4, loss=2 -> RS=2 -> 66.67
	assert.InDelta(t, 100-100/3.0, rsi[4], 1e-9)

	// step 5: delta +2 -> gain=(4*3+2)/4=3.5, loss=(2*3)/4=1.5
	rs := 3.5 / 1.5
	assert.InDelta(t, 100-100/(1+rs), rsi[5], 1e-9)
}

func TestRSI_BoundedZeroToHundred(t *testing.T) {
	prices := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08,
		45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64}
	for i, v := range RSI(prices, 14) {
		if !Defined(v) {
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.LessOrEqual(t, v, 100.0, "index %d", i)
	}
}

func TestEMA_SeededWithFirstPrice(t *testing.T) {
	ema := EMA([]float64{10, 20}, 3)
	require.Len(t, ema, 2)
	assert.Equal(t, 10.0, ema[0])
	// k = 0.5
	assert.InDelta(t, 15.0, ema[1], 1e-12)
	assert.Nil(t, EMA(nil, 12))
}

func TestMACD_ConstantSeriesIsZero(t *testing.T) {
	macd := MACD(ramp(80, 123.45, 0), 12, 26)
	require.Len(t, macd, 80)
	for i, v := range macd {
		assert.Equal(t, 0.0, v, "index %d", i)
	}
}

func TestMACD_DefinedFromIndexZeroAndTrendsWithPrice(t *testing.T) {
	up := MACD(ramp(40, 100, 1), 12, 26)
	assert.Equal(t, 0.0, up[0])
	assert.Greater(t, up[len(up)-1], 0.0)
	assert.Equal(t, Bullish, MACDStateOf(up[len(up)-1]))

	down := MACD(ramp(40, 100, -1), 12, 26)
	assert.Less(t, down[len(down)-1], 0.0)
	assert.Equal(t, Bearish, MACDStateOf(down[len(down)-1]))
	assert.Equal(t, Bearish, MACDStateOf(0))
}

func TestSMA(t *testing.T) {
	sma := SMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.False(t, Defined(sma[0]))
	assert.False(t, Defined(sma[1]))
	assert.InDelta(t, 2.0, sma[2], 1e-12)
	assert.InDelta(t, 3.0, sma[3], 1e-12)
	assert.InDelta(t, 4.0, sma[4], 1e-12)
}

func TestRSIZoneOf(t *testing.T) {
	assert.Equal(t, Overbought, RSIZoneOf(70.01))
	assert.Equal(t, Neutral, RSIZoneOf(70))
	assert.Equal(t, Neutral, RSIZoneOf(30))
	assert.Equal(t, Oversold, RSIZoneOf(29.9))
}

func TestLatest(t *testing.T) {
	v, ok := Latest([]float64{1, 2, math.NaN()})
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = Latest(undefined(3))
	assert.False(t, ok)
}
