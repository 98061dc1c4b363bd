package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quantmind/metrics"
	"quantmind/quant"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

// AuditRecorder stores a record of each served bundle. Failures are logged,
// never returned to the caller.
type AuditRecorder interface {
	RecordPrediction(ctx context.Context, b quant.PredictionBundle) error
}

// PredictRequest is one dashboard query. Live, when set, reports whether
// the caller still wants the result; a stale bundle is not audited.
type PredictRequest struct {
	RequestID   string
	Ticker      string
	AssetClass  string
	HorizonDays int
	Live        func() bool
}

// ReprojectRequest re-derives a bundle for a new horizon from a series the
// caller already holds.
type ReprojectRequest struct {
	RequestID   string
	Ticker      string
	AssetClass  string
	HorizonDays int
	History     quant.PriceSeries
	Live        func() bool
}

// Predictor fetches history and an anchor and assembles the bundle.
type Predictor struct {
	provider    MarketDataProvider
	source      ForecastSource
	thresholds  quant.Thresholds
	historyDays int
	metrics     *metrics.Metrics
	audit       AuditRecorder
	now         func() time.Time
}

// PredictorOption configures the Predictor.
type PredictorOption func(*Predictor)

// WithThresholds replaces the default classifier and band tables.
func WithThresholds(t quant.Thresholds) PredictorOption {
	return func(p *Predictor) { p.thresholds = t }
}

// WithHistoryDays sets the history window fetched per prediction.
func WithHistoryDays(days int) PredictorOption {
	return func(p *Predictor) {
		if days > 0 {
			p.historyDays = days
		}
	}
}

// WithMetrics records latency, upstream failures and served signals.
func WithMetrics(m *metrics.Metrics) PredictorOption {
	return func(p *Predictor) { p.metrics = m }
}

// WithAudit stores a record of every bundle served to a live request.
func WithAudit(a AuditRecorder) PredictorOption {
	return func(p *Predictor) { p.audit = a }
}

// WithClock overrides the GeneratedAt timestamp source.
func WithClock(now func() time.Time) PredictorOption {
	return func(p *Predictor) { p.now = now }
}

// NewPredictor wires a provider and forecast source together.
func NewPredictor(provider MarketDataProvider, source ForecastSource, opts ...PredictorOption) *Predictor {
	p := &Predictor{
		provider:    provider,
		source:      source,
		thresholds:  quant.DefaultThresholds(),
		historyDays: 60,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HistoryDays is the default history window.
func (p *Predictor) HistoryDays() int { return p.historyDays }

// Thresholds returns the tables in use.
func (p *Predictor) Thresholds() quant.Thresholds { return p.thresholds }

// History fetches and validates the price series for ticker.
func (p *Predictor) History(ctx context.Context, ticker string, days int) (quant.PriceSeries, error) {
	ticker = quant.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required: %w", quant.ErrInvalidParameter)
	}
	if days <= 0 {
		days = p.historyDays
	}

	history, err := p.provider.History(ctx, ticker, days)
	if err != nil {
		p.metrics.UpstreamFailed(p.provider.Name())
		if !errors.Is(err, quant.ErrUpstreamUnavailable) {
			err = upstreamError(p.provider.Name(), err)
		}
		return nil, err
	}
	if len(history) == 0 {
		p.metrics.UpstreamFailed(p.provider.Name())
		return nil, fmt.Errorf("no price history for %s: %w", ticker, quant.ErrUpstreamUnavailable)
	}
	if err := quant.ValidateSeries(history); err != nil {
		p.metrics.UpstreamFailed(p.provider.Name())
		return nil, upstreamError(p.provider.Name(), err)
	}
	return history, nil
}

// Predict builds a full bundle. Provider failures are returned as errors;
// forecast source failures yield a bundle with ForecastError set.
func (p *Predictor) Predict(ctx context.Context, req PredictRequest) (quant.PredictionBundle, error) {
	started := time.Now()

	ticker := quant.NormalizeTicker(req.Ticker)
	if ticker == "" {
		return quant.PredictionBundle{}, fmt.Errorf("ticker is required: %w", quant.ErrInvalidParameter)
	}
	if err := quant.ValidateHorizon(req.HorizonDays); err != nil {
		return quant.PredictionBundle{}, err
	}
	class, err := quant.ParseAssetClass(req.AssetClass, ticker)
	if err != nil {
		return quant.PredictionBundle{}, err
	}

	history, err := p.History(ctx, ticker, p.historyDays)
	if err != nil {
		return quant.PredictionBundle{}, err
	}

	in := p.compute(ctx, ticker, class, req.HorizonDays, history)
	in.RequestID = req.RequestID
	return p.finish(ctx, in, started, req.Live, "prediction assembled"), nil
}

// Reproject rebuilds a bundle for a new horizon from the supplied history.
// The provider is not called; only the forecast source is asked again.
func (p *Predictor) Reproject(ctx context.Context, req ReprojectRequest) (quant.PredictionBundle, error) {
	started := time.Now()

	ticker := quant.NormalizeTicker(req.Ticker)
	if ticker == "" {
		return quant.PredictionBundle{}, fmt.Errorf("ticker is required: %w", quant.ErrInvalidParameter)
	}
	if err := quant.ValidateHorizon(req.HorizonDays); err != nil {
		return quant.PredictionBundle{}, err
	}
	class, err := quant.ParseAssetClass(req.AssetClass, ticker)
	if err != nil {
		return quant.PredictionBundle{}, err
	}
	if len(req.History) == 0 {
		return quant.PredictionBundle{}, fmt.Errorf("historicalPrices is required: %w", quant.ErrInvalidParameter)
	}
	if err := quant.ValidateSeries(req.History); err != nil {
		return quant.PredictionBundle{}, err
	}

	in := p.compute(ctx, ticker, class, req.HorizonDays, req.History)
	in.RequestID = req.RequestID
	return p.finish(ctx, in, started, req.Live, "prediction reprojected"), nil
}

// finish assembles the bundle, observes it and audits it unless the caller
// has already moved on.
func (p *Predictor) finish(ctx context.Context, in quant.BundleInput, started time.Time, live func() bool, msg string) quant.PredictionBundle {
	b := quant.Assemble(in)
	p.metrics.ObservePrediction(string(in.AssetClass), time.Since(started).Seconds())

	if live != nil && !live() {
		log.Debug().Str("request_id", b.RequestID).Str("ticker", b.Ticker).Msg("stale prediction not recorded")
		return b
	}
	p.record(ctx, b)

	log.Info().
		Str("request_id", b.RequestID).
		Str("ticker", b.Ticker).
		Int("horizon", b.HorizonDays).
		Str("signal", string(b.Signal)).
		Str("volatility", string(b.Volatility)).
		Dur("took", time.Since(started)).
		Msg(msg)
	return b
}

// compute runs the indicator, volatility and anchor passes concurrently.
func (p *Predictor) compute(ctx context.Context, ticker string, class quant.AssetClass, horizonDays int, history quant.PriceSeries) quant.BundleInput {
	in := quant.BundleInput{
		Ticker:      ticker,
		AssetClass:  class,
		HorizonDays: horizonDays,
		History:     history,
		Thresholds:  p.thresholds,
		GeneratedAt: p.now().UTC(),
	}
	prices := history.Prices()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		in.Indicators = quant.ComputeIndicators(prices)
		return nil
	})
	g.Go(func() error {
		in.Volatility, in.Sigma, in.VolatilityErr = quant.VolatilityOf(prices, class, p.thresholds)
		return nil
	})
	g.Go(func() error {
		anchor, err := p.source.Anchor(gctx, ticker, horizonDays, history)
		if err != nil {
			p.metrics.UpstreamFailed(p.source.Name())
			log.Warn().Str("ticker", ticker).Str("source", p.source.Name()).Err(err).Msg("forecast anchor unavailable")
			in.AnchorErr = err
			return nil
		}
		in.Anchor = &anchor
		return nil
	})
	_ = g.Wait()
	return in
}

func (p *Predictor) record(ctx context.Context, b quant.PredictionBundle) {
	p.metrics.SignalServed(string(b.Signal))
	if p.audit == nil {
		return
	}
	if err := p.audit.RecordPrediction(ctx, b); err != nil {
		log.Error().Str("ticker", b.Ticker).Err(err).Msg("failed to record prediction")
	}
}
