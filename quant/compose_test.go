package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(start string, prices ...float64) PriceSeries {
	out := make(PriceSeries, len(prices))
	for i, p := range prices {
		d, _ := addDays(start, i)
		out[i] = PricePoint{Date: d, Price: p}
	}
	return out
}

func TestComposeChart_NoOverlapAndBoundary(t *testing.T) {
	history := series("2024-03-01", 100, 101, 102, 101, 103)
	ind := ComputeIndicators(history.Prices())
	forecast, err := Project(103, 106, 3, DefaultBandCoefficient, "")
	require.NoError(t, err)

	chart := ComposeChart(history, ind, forecast)
	require.Len(t, chart.Rows, 8)
	assert.Equal(t, "2024-03-05", chart.BoundaryDate)

	seen := map[string]bool{}
	for i, row := range chart.Rows {
		assert.False(t, seen[row.Date], "duplicate date %s", row.Date)
		seen[row.Date] = true
		if i > 0 {
			assert.Greater(t, row.Date, chart.Rows[i-1].Date)
		}
	}

	assert.True(t, chart.Rows[4].Boundary)
	for i, row := range chart.Rows {
		if i != 4 {
			assert.False(t, row.Boundary, "row %d", i)
		}
	}
	assert.Equal(t, "2024-03-06", chart.Rows[5].Date)
	assert.Equal(t, "2024-03-08", chart.Rows[7].Date)
}

func TestComposeChart_MissingFieldsStayNil(t *testing.T) {
	history := series("2024-03-01", 100, 101, 102)
	ind := ComputeIndicators(history.Prices())
	forecast, err := Project(102, 104, 2, DefaultBandCoefficient, "")
	require.NoError(t, err)

	chart := ComposeChart(history, ind, forecast)
	for _, row := range chart.Rows[:3] {
		require.NotNil(t, row.Price)
		assert.Nil(t, row.RSI, "short history has no rsi")
		assert.Nil(t, row.MA50)
		assert.Nil(t, row.Forecast)
		assert.Nil(t, row.Lower)
		assert.Nil(t, row.Upper)
		require.NotNil(t, row.MACD)
	}
	for _, row := range chart.Rows[3:] {
		assert.Nil(t, row.Price)
		assert.Nil(t, row.RSI)
		require.NotNil(t, row.Forecast)
		require.NotNil(t, row.Lower)
		require.NotNil(t, row.Upper)
	}
	assert.Equal(t, 104.0, *chart.Rows[4].Forecast)
}

func TestComposeChart_EmptyForecast(t *testing.T) {
	history := series("2024-03-01", 10, 11)
	chart := ComposeChart(history, ComputeIndicators(history.Prices()), nil)
	assert.Len(t, chart.Rows, 2)
	assert.True(t, chart.Rows[1].Boundary)
}

func TestComposeChart_EmptyHistory(t *testing.T) {
	chart := ComposeChart(nil, Indicators{}, nil)
	assert.Empty(t, chart.Rows)
	assert.Empty(t, chart.BoundaryDate)
}
