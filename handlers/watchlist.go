package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"quantmind/quant"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

// QuickTickers are the dashboard's one-click symbols.
var QuickTickers = []string{"BTC-USD", "NVDA", "TSLA", "SPY"}

const (
	maxWatchlistTickers = 20
	watchlistWorkers    = 4
)

// WatchlistResponse is the aggregated response
type WatchlistResponse struct {
	HorizonDays int               `json:"horizonDays"`
	Results     []WatchlistResult `json:"results"`
	Summary     WatchlistSummary  `json:"summary"`
}

// WatchlistResult is one ticker's headline numbers
type WatchlistResult struct {
	Ticker             string           `json:"ticker"`
	AssetClass         quant.AssetClass `json:"assetClass,omitempty"`
	CurrentPrice       float64          `json:"currentPrice,omitempty"`
	TargetPrice        float64          `json:"targetPrice,omitempty"`
	PredictedChangePct float64          `json:"predictedChangePct"`
	Signal             quant.Signal     `json:"signal,omitempty"`
	Volatility         quant.Volatility `json:"volatility,omitempty"`
	Error              string           `json:"error,omitempty"`
}

// WatchlistSummary provides aggregated statistics
type WatchlistSummary struct {
	BullishCount  int `json:"bullishCount"`
	BearishCount  int `json:"bearishCount"`
	NeutralCount  int `json:"neutralCount"`
	ErrorCount    int `json:"errorCount"`
	TotalAnalyzed int `json:"totalAnalyzed"`
}

// HandleWatchlist predicts several tickers at once. tickers is a comma
// separated list and defaults to the quick tickers.
func (h *PredictionHandler) HandleWatchlist(c *gin.Context) {
	days, err := parseIntParam(c, "days", quant.DefaultHorizonDays)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := quant.ValidateHorizon(days); err != nil {
		respondError(c, err)
		return
	}

	tickers := QuickTickers
	if raw := c.Query("tickers"); raw != "" {
		tickers = parseTickerList(raw)
	}
	if len(tickers) == 0 || len(tickers) > maxWatchlistTickers {
		respondError(c, fmt.Errorf("between 1 and %d tickers required: %w", maxWatchlistTickers, quant.ErrInvalidParameter))
		return
	}

	ctx := c.Request.Context()
	id := requestID(c)
	results := make([]WatchlistResult, len(tickers))

	// Limit concurrent upstream calls
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, watchlistWorkers)
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := WatchlistResult{Ticker: ticker}
			b, err := h.predictUntracked(ctx, id+":"+ticker, ticker, days)
			switch {
			case err != nil:
				log.Warn().Str("ticker", ticker).Err(err).Msg("watchlist prediction failed")
				result.Error = err.Error()
			case b.ForecastError != "":
				result.AssetClass = b.AssetClass
				result.CurrentPrice = b.CurrentPrice
				result.Volatility = b.Volatility
				result.Error = b.ForecastError
			default:
				result.AssetClass = b.AssetClass
				result.CurrentPrice = b.CurrentPrice
				result.TargetPrice = b.TargetPrice
				result.PredictedChangePct = b.PredictedChangePct
				result.Signal = b.Signal
				result.Volatility = b.Volatility
			}
			results[i] = result
		}(i, ticker)
	}
	wg.Wait()

	summary := WatchlistSummary{TotalAnalyzed: len(results)}
	for _, r := range results {
		switch {
		case r.Error != "":
			summary.ErrorCount++
		case r.Signal.IsBullish():
			summary.BullishCount++
		case r.Signal.IsBearish():
			summary.BearishCount++
		default:
			summary.NeutralCount++
		}
	}

	c.JSON(http.StatusOK, WatchlistResponse{HorizonDays: days, Results: results, Summary: summary})
}

func parseTickerList(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = quant.NormalizeTicker(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
