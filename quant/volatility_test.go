package quant

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnStdDev_SampleDeviation(t *testing.T) {
	// returns: +10%, -10% -> mean 0, sample variance (0.01+0.01)/1
	prices := []float64{100, 110, 99}
	sigma, err := ReturnStdDev(prices)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.02), sigma, 1e-12)
}

func TestReturnStdDev_InsufficientData(t *testing.T) {
	_, err := ReturnStdDev([]float64{100})
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = ReturnStdDev(nil)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestReturnStdDev_SingleReturnIsZero(t *testing.T) {
	sigma, err := ReturnStdDev([]float64{100, 105})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sigma)
}

func TestReturnStdDev_RejectsNonPositivePrice(t *testing.T) {
	_, err := ReturnStdDev([]float64{100, 0, 101})
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestClassifyVolatility_Boundaries(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		sigma float64
		class AssetClass
		want  Volatility
	}{
		{0.0, Stock, LowVolatility},
		{0.0079, Stock, LowVolatility},
		{0.008, Stock, MediumVolatility},
		{0.0199, Stock, MediumVolatility},
		{0.02, Stock, HighVolatility},
		{0.5, Stock, HighVolatility},
		{0.0199, Crypto, LowVolatility},
		{0.02, Crypto, MediumVolatility},
		{0.035, Crypto, MediumVolatility},
		{0.05, Crypto, HighVolatility},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyVolatility(tt.sigma, tt.class, th), "sigma %.4f %s", tt.sigma, tt.class)
	}
}

func TestVolatilityOf_CalmStock(t *testing.T) {
	prices := []float64{100, 100.1, 100.05, 100.2, 100.1, 100.15}
	bucket, sigma, err := VolatilityOf(prices, Stock, DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, LowVolatility, bucket)
	assert.Less(t, sigma, 0.008)
}
