package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quantmind/quant"
)

// MarketDataProvider returns daily closes, oldest first, at most days long.
type MarketDataProvider interface {
	Name() string
	History(ctx context.Context, ticker string, days int) (quant.PriceSeries, error)
}

// ForecastSource supplies the current/target anchor for a horizon. History
// is what the caller already fetched; sources that need it may use it.
type ForecastSource interface {
	Name() string
	Anchor(ctx context.Context, ticker string, horizonDays int, history quant.PriceSeries) (quant.Anchor, error)
}

// lookbackWindow converts trading days into a calendar window wide enough
// to cover weekends and holidays.
func lookbackWindow(now time.Time, days int) (time.Time, time.Time) {
	calendar := days*7/5 + 10
	return now.AddDate(0, 0, -calendar), now
}

// closesToSeries sorts, de-duplicates by date (last write wins), drops
// non-positive closes and keeps the most recent days entries.
func closesToSeries(stamps []time.Time, closes []float64, days int) quant.PriceSeries {
	byDate := make(map[string]float64, len(stamps))
	for i, ts := range stamps {
		if i >= len(closes) || !(closes[i] > 0) {
			continue
		}
		byDate[ts.UTC().Format(quant.DateLayout)] = closes[i]
	}
	series := make(quant.PriceSeries, 0, len(byDate))
	for d, p := range byDate {
		series = append(series, quant.PricePoint{Date: d, Price: p})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	if days > 0 && len(series) > days {
		series = series[len(series)-days:]
	}
	return series
}

func upstreamError(source string, err error) error {
	return fmt.Errorf("%s: %v: %w", source, err, quant.ErrUpstreamUnavailable)
}
