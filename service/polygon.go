package service

import (
	"context"
	"strings"
	"time"

	"quantmind/quant"

	"github.com/phuslu/log"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"golang.org/x/time/rate"
)

// PolygonProvider reads daily aggregates from Polygon.io.
type PolygonProvider struct {
	client  *polygon.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewPolygonProvider creates a provider limited to requestsPerSecond calls.
func NewPolygonProvider(apiKey string, requestsPerSecond int) *PolygonProvider {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &PolygonProvider{
		client:  polygon.New(apiKey),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		now:     time.Now,
	}
}

func (p *PolygonProvider) Name() string { return "polygon" }

// History lists day aggregates in ascending order and keeps the close.
func (p *PolygonProvider) History(ctx context.Context, ticker string, days int) (quant.PriceSeries, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, upstreamError(p.Name(), err)
	}

	from, to := lookbackWindow(p.now(), days)
	params := models.ListAggsParams{
		Ticker:     polygonTicker(ticker),
		Multiplier: 1,
		Timespan:   models.Timespan("day"),
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.
		WithAdjusted(true).
		WithOrder(models.Order("asc")).
		WithLimit(5000)

	iter := p.client.ListAggs(ctx, params)

	var stamps []time.Time
	var closes []float64
	for iter.Next() {
		agg := iter.Item()
		stamps = append(stamps, time.Time(agg.Timestamp))
		closes = append(closes, agg.Close)
	}
	if err := iter.Err(); err != nil {
		log.Warn().Str("ticker", ticker).Err(err).Msg("polygon aggregates failed")
		return nil, upstreamError(p.Name(), err)
	}

	return closesToSeries(stamps, closes, days), nil
}

// polygonTicker maps dashboard symbols onto Polygon's: BTC-USD becomes
// X:BTCUSD, equities pass through.
func polygonTicker(ticker string) string {
	t := quant.NormalizeTicker(ticker)
	if strings.HasPrefix(t, "X:") {
		return t
	}
	if quant.InferAssetClass(t) == quant.Crypto {
		return "X:" + strings.ReplaceAll(t, "-", "")
	}
	return t
}
