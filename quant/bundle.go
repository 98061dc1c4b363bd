package quant

import (
	"fmt"
	"time"
)

// Anchor is the provider's view of where the price is and where it will be
// at the end of the horizon.
type Anchor struct {
	CurrentPrice float64 `json:"currentPrice"`
	TargetPrice  float64 `json:"targetPrice"`
}

// PredictionBundle is everything the presentation layer needs for one
// (ticker, horizon) request. Treat it as read-only once built.
type PredictionBundle struct {
	RequestID          string          `json:"requestId,omitempty"`
	Ticker             string          `json:"ticker"`
	AssetClass         AssetClass      `json:"assetClass"`
	HorizonDays        int             `json:"horizonDays"`
	CurrentPrice       float64         `json:"currentPrice"`
	TargetPrice        float64         `json:"targetPrice,omitempty"`
	PredictedChangePct float64         `json:"predictedChangePct"`
	Signal             Signal          `json:"signal,omitempty"`
	Confidence         Confidence      `json:"confidence"`
	RSI                *float64        `json:"rsi,omitempty"`
	RSIZone            RSIZone         `json:"rsiZone,omitempty"`
	MACD               *float64        `json:"macd,omitempty"`
	MACDState          MACDState       `json:"macdState,omitempty"`
	MA50               *float64        `json:"ma50,omitempty"`
	Volatility         Volatility      `json:"volatility,omitempty"`
	Sigma              float64         `json:"sigma"`
	HistoricalPrices   PriceSeries     `json:"historicalPrices"`
	ForecastData       []ForecastPoint `json:"forecastData"`
	Chart              ChartSeries     `json:"chart"`
	ForecastError      string          `json:"forecastError,omitempty"`
	Warnings           []string        `json:"warnings,omitempty"`
	GeneratedAt        time.Time       `json:"generatedAt"`
}

// BundleInput carries the already-computed passes into Assemble. Anchor is
// nil when the forecast source failed; AnchorErr then explains why.
type BundleInput struct {
	RequestID     string
	Ticker        string
	AssetClass    AssetClass
	HorizonDays   int
	History       PriceSeries
	Indicators    Indicators
	Volatility    Volatility
	Sigma         float64
	VolatilityErr error
	Anchor        *Anchor
	AnchorErr     error
	Thresholds    Thresholds
	GeneratedAt   time.Time
}

// Assemble derives the forecast, signal and chart and freezes the result.
// A failed forecast still yields a bundle with the historical segment.
func Assemble(in BundleInput) PredictionBundle {
	history := append(PriceSeries(nil), in.History...)
	b := PredictionBundle{
		RequestID:        in.RequestID,
		Ticker:           in.Ticker,
		AssetClass:       in.AssetClass,
		HorizonDays:      in.HorizonDays,
		CurrentPrice:     history.Last(),
		Confidence:       ConfidenceFor(in.HorizonDays),
		Volatility:       in.Volatility,
		Sigma:            in.Sigma,
		HistoricalPrices: history,
		GeneratedAt:      in.GeneratedAt,
	}

	if v, ok := Latest(in.Indicators.RSI); ok {
		b.RSI = ptr(v)
		b.RSIZone = RSIZoneOf(v)
	} else {
		b.Warnings = append(b.Warnings, fmt.Sprintf("rsi needs %d prices, have %d", DefaultRSIPeriod+1, len(history)))
	}
	if v, ok := Latest(in.Indicators.MACD); ok {
		b.MACD = ptr(v)
		b.MACDState = MACDStateOf(v)
	}
	if v, ok := Latest(in.Indicators.MA50); ok {
		b.MA50 = ptr(v)
	}
	if in.VolatilityErr != nil {
		b.Warnings = append(b.Warnings, "volatility: "+in.VolatilityErr.Error())
	}

	forecast, err := forecastFor(in, history)
	if err != nil {
		b.ForecastError = err.Error()
	} else {
		b.CurrentPrice = in.Anchor.CurrentPrice
		b.TargetPrice = in.Anchor.TargetPrice
		b.PredictedChangePct, _ = PredictedChangePct(in.Anchor.CurrentPrice, in.Anchor.TargetPrice)
		b.Signal = ClassifySignal(b.PredictedChangePct, in.AssetClass, in.Thresholds)
		b.ForecastData = forecast
	}

	b.Chart = ComposeChart(history, in.Indicators, b.ForecastData)
	return b
}

func forecastFor(in BundleInput, history PriceSeries) ([]ForecastPoint, error) {
	if in.AnchorErr != nil {
		return nil, in.AnchorErr
	}
	if in.Anchor == nil {
		return nil, fmt.Errorf("no forecast anchor: %w", ErrUpstreamUnavailable)
	}
	return Project(in.Anchor.CurrentPrice, in.Anchor.TargetPrice, in.HorizonDays, in.Thresholds.BandCoefficient, history.LastDate())
}

// Simulate applies this bundle's predicted change to an investment.
func (b PredictionBundle) Simulate(investment string) SimulationResult {
	if b.ForecastError != "" {
		return SimulationResult{}
	}
	return Simulate(investment, b.PredictedChangePct)
}

// Summary renders the one-line share text, e.g.
// "NVDA: STRONG BUY | Current: $100.00 | 3D Target: $103.00 | Change: +3.00%".
func (b PredictionBundle) Summary() string {
	if b.ForecastError != "" {
		return fmt.Sprintf("%s: N/A | Current: $%.2f | forecast unavailable", b.Ticker, b.CurrentPrice)
	}
	return fmt.Sprintf("%s: %s | Current: $%.2f | %dD Target: $%.2f | Change: %+.2f%%",
		b.Ticker, b.Signal, b.CurrentPrice, b.HorizonDays, b.TargetPrice, b.PredictedChangePct)
}
