package models

import (
	"time"

	"quantmind/quant"

	"github.com/lib/pq"
)

// PredictionRequest is the audit row written for every served bundle. The
// bundle itself is not stored, only what is needed to review the call later.
type PredictionRequest struct {
	ID                 uint `gorm:"primaryKey"`
	CreatedAt          time.Time
	RequestID          string          `gorm:"index;not null"`
	Ticker             string          `gorm:"index;not null"`
	AssetClass         string          `gorm:"not null"`
	HorizonDays        int             `gorm:"not null"`
	CurrentPrice       float64         `gorm:"not null"`
	TargetPrice        float64         `gorm:"default:0"`
	PredictedChangePct float64         `gorm:"default:0"`
	Signal             string          `gorm:"default:''"`
	Volatility         string          `gorm:"default:''"`
	Sigma              float64         `gorm:"default:0"`
	RSI                *float64        `gorm:"column:rsi"`
	MACD               *float64        `gorm:"column:macd"`
	ForecastPrices     pq.Float64Array `gorm:"type:double precision[]"`
	Warnings           pq.StringArray  `gorm:"type:text[]"`
	ForecastError      string          `gorm:"default:''"`
	LastHistoryDate    string          `gorm:"not null"`
}

// NewPredictionRequest flattens a bundle into an audit row.
func NewPredictionRequest(b quant.PredictionBundle) PredictionRequest {
	forecast := make(pq.Float64Array, len(b.ForecastData))
	for i, p := range b.ForecastData {
		forecast[i] = p.Price
	}
	return PredictionRequest{
		CreatedAt:          b.GeneratedAt,
		RequestID:          b.RequestID,
		Ticker:             b.Ticker,
		AssetClass:         string(b.AssetClass),
		HorizonDays:        b.HorizonDays,
		CurrentPrice:       b.CurrentPrice,
		TargetPrice:        b.TargetPrice,
		PredictedChangePct: b.PredictedChangePct,
		Signal:             string(b.Signal),
		Volatility:         string(b.Volatility),
		Sigma:              b.Sigma,
		RSI:                b.RSI,
		MACD:               b.MACD,
		ForecastPrices:     forecast,
		Warnings:           pq.StringArray(b.Warnings),
		ForecastError:      b.ForecastError,
		LastHistoryDate:    b.HistoricalPrices.LastDate(),
	}
}
