package quant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferAssetClass(t *testing.T) {
	assert.Equal(t, Crypto, InferAssetClass(" btc-usd "))
	assert.Equal(t, Crypto, InferAssetClass("ETH-USDT"))
	assert.Equal(t, Stock, InferAssetClass("NVDA"))
	assert.Equal(t, Stock, InferAssetClass("-USD"))
	assert.Equal(t, "SPY", NormalizeTicker("  spy"))
}

func TestParseAssetClass(t *testing.T) {
	c, err := ParseAssetClass("", "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, Crypto, c)

	c, err = ParseAssetClass("Stock", "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, Stock, c)

	_, err = ParseAssetClass("bond", "TLT")
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestThresholdsValidate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())

	th := DefaultThresholds()
	th.CryptoVolatility.High = th.CryptoVolatility.Medium
	assert.True(t, errors.Is(th.Validate(), ErrInvalidParameter))

	th = DefaultThresholds()
	th.StockSignal.Strong = 0.1
	assert.Error(t, th.Validate())

	th = DefaultThresholds()
	th.BandCoefficient = -0.1
	assert.Error(t, th.Validate())
}

func TestValidateSeries(t *testing.T) {
	require.NoError(t, ValidateSeries(series("2024-01-01", 1, 2, 3)))

	unordered := PriceSeries{{Date: "2024-01-02", Price: 1}, {Date: "2024-01-01", Price: 2}}
	assert.True(t, errors.Is(ValidateSeries(unordered), ErrInvalidParameter))

	dup := PriceSeries{{Date: "2024-01-01", Price: 1}, {Date: "2024-01-01", Price: 2}}
	assert.Error(t, ValidateSeries(dup))

	assert.Error(t, ValidateSeries(PriceSeries{{Date: "01/02/2024", Price: 1}}))
	assert.Error(t, ValidateSeries(PriceSeries{{Date: "2024-01-01", Price: 0}}))
}
