package models

import (
	"testing"
	"time"

	"quantmind/config"
	"quantmind/quant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPredictionRequest(t *testing.T) {
	rsi := 64.2
	b := quant.PredictionBundle{
		RequestID:          "abc",
		Ticker:             "NVDA",
		AssetClass:         quant.Stock,
		HorizonDays:        2,
		CurrentPrice:       100,
		TargetPrice:        102,
		PredictedChangePct: 2,
		Signal:             quant.StrongBuy,
		Volatility:         quant.MediumVolatility,
		RSI:                &rsi,
		HistoricalPrices:   quant.PriceSeries{{Date: "2024-03-01", Price: 100}},
		ForecastData:       []quant.ForecastPoint{{Day: 1, Price: 101}, {Day: 2, Price: 102}},
		Warnings:           []string{"short history"},
		GeneratedAt:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	row := NewPredictionRequest(b)
	assert.Equal(t, "abc", row.RequestID)
	assert.Equal(t, "Stock", row.AssetClass)
	assert.Equal(t, "STRONG BUY", row.Signal)
	assert.Equal(t, "Medium", row.Volatility)
	assert.Equal(t, []float64{101, 102}, []float64(row.ForecastPrices))
	assert.Equal(t, []string{"short history"}, []string(row.Warnings))
	assert.Equal(t, "2024-03-01", row.LastHistoryDate)
	require.NotNil(t, row.RSI)
	assert.Equal(t, 64.2, *row.RSI)
	assert.Nil(t, row.MACD)
	assert.Equal(t, b.GeneratedAt, row.CreatedAt)
}

func TestNewPredictionRequest_FailedForecast(t *testing.T) {
	row := NewPredictionRequest(quant.PredictionBundle{Ticker: "SPY", ForecastError: "model down"})
	assert.Empty(t, row.ForecastPrices)
	assert.Equal(t, "model down", row.ForecastError)
	assert.Empty(t, row.LastHistoryDate)
}

func TestInitDatabase_EmptyDSNDisablesAudit(t *testing.T) {
	db, err := InitDatabase("", config.ConnectionPoolConfig{})
	require.NoError(t, err)
	assert.Nil(t, db)
}
