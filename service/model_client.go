package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quantmind/quant"

	"github.com/cenkalti/backoff/v4"
	"github.com/phuslu/log"
)

// ModelClient asks an external forecasting service for the anchor:
// GET {base}/predict?ticker=NVDA&days=3 -> {"currentPrice":..,"targetPrice":..}
type ModelClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
}

// NewModelClient creates a client for the model service at baseURL.
func NewModelClient(baseURL string, timeout time.Duration, maxRetries uint64) *ModelClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ModelClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

func (m *ModelClient) Name() string { return "model" }

type modelResponse struct {
	Ticker         string   `json:"ticker"`
	CurrentPrice   float64  `json:"currentPrice"`
	TargetPrice    float64  `json:"targetPrice"`
	PredictedPrice *float64 `json:"predictedPrice"`
	Error          string   `json:"error"`
}

// Anchor fetches the model's view. A response without a current price falls
// back to the last historical close.
func (m *ModelClient) Anchor(ctx context.Context, ticker string, horizonDays int, history quant.PriceSeries) (quant.Anchor, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("days", strconv.Itoa(horizonDays))
	u := m.baseURL + "/predict?" + q.Encode()

	var body modelResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		resp, err := m.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("model: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("model: status %d: %s", resp.StatusCode, raw))
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("model decode: %w", err))
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), m.maxRetries), ctx)
	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		log.Warn().Str("ticker", ticker).Err(err).Dur("retry_in", wait).Msg("forecast model call failed, retrying")
	})
	if err != nil {
		return quant.Anchor{}, upstreamError(m.Name(), err)
	}
	if body.Error != "" {
		return quant.Anchor{}, upstreamError(m.Name(), fmt.Errorf("%s", body.Error))
	}

	anchor := quant.Anchor{CurrentPrice: body.CurrentPrice, TargetPrice: body.TargetPrice}
	if anchor.TargetPrice == 0 && body.PredictedPrice != nil {
		anchor.TargetPrice = *body.PredictedPrice
	}
	if anchor.CurrentPrice == 0 {
		anchor.CurrentPrice = history.Last()
	}
	if !(anchor.CurrentPrice > 0) || !(anchor.TargetPrice > 0) {
		return quant.Anchor{}, upstreamError(m.Name(), fmt.Errorf("non-positive anchor %.4f -> %.4f", anchor.CurrentPrice, anchor.TargetPrice))
	}
	return anchor, nil
}
