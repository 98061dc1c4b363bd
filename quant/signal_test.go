package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySignal_StockTable(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		pct  float64
		want Signal
	}{
		{3.0, StrongBuy},
		{1.51, StrongBuy},
		{1.5, Buy},
		{0.31, Buy},
		{0.3, Hold},
		{0, Hold},
		{-0.3, Hold},
		{-0.31, Sell},
		{-1.5, Sell},
		{-1.51, StrongSell},
		{-40, StrongSell},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySignal(tt.pct, Stock, th), "pct %.2f", tt.pct)
	}
}

func TestClassifySignal_CryptoTable(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		pct  float64
		want Signal
	}{
		{3.01, StrongBuy},
		{3.0, Buy},
		{0.81, Buy},
		{0.8, Hold},
		{-0.8, Hold},
		{-0.81, Sell},
		{-3.0, Sell},
		{-3.01, StrongSell},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySignal(tt.pct, Crypto, th), "pct %.2f", tt.pct)
	}
}

func TestClassifySignal_TotalAndExclusive(t *testing.T) {
	th := DefaultThresholds()
	valid := map[Signal]bool{}
	for _, s := range Signals {
		valid[s] = true
	}
	for _, class := range []AssetClass{Stock, Crypto} {
		for pct := -10.0; pct <= 10.0; pct += 0.01 {
			got := ClassifySignal(pct, class, th)
			assert.True(t, valid[got], "pct %.2f %s gave %q", pct, class, got)
		}
		assert.Equal(t, StrongBuy, ClassifySignal(math.Inf(1), class, th))
		assert.Equal(t, StrongSell, ClassifySignal(math.Inf(-1), class, th))
		assert.Equal(t, Hold, ClassifySignal(math.NaN(), class, th))
	}
}

func TestClassifySignal_MonotoneInChange(t *testing.T) {
	th := DefaultThresholds()
	rank := map[Signal]int{StrongSell: 0, Sell: 1, Hold: 2, Buy: 3, StrongBuy: 4}
	prev := -1
	for pct := -6.0; pct <= 6.0; pct += 0.05 {
		r := rank[ClassifySignal(pct, Crypto, th)]
		assert.GreaterOrEqual(t, r, prev, "pct %.2f", pct)
		prev = r
	}
}

func TestSignalDirection(t *testing.T) {
	assert.True(t, StrongBuy.IsBullish())
	assert.True(t, Sell.IsBearish())
	assert.False(t, Hold.IsBullish())
	assert.False(t, Hold.IsBearish())
}
