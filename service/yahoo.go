package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quantmind/quant"

	"github.com/cenkalti/backoff/v4"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider reads daily closes from the public Yahoo Finance chart API.
// Crypto pairs such as BTC-USD are native symbols there.
type YahooProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries uint64
	now        func() time.Time
}

// YahooOption configures the YahooProvider.
type YahooOption func(*YahooProvider)

// WithYahooBaseURL points the provider at another host, mostly for tests.
func WithYahooBaseURL(baseURL string) YahooOption {
	return func(p *YahooProvider) {
		p.baseURL = baseURL
	}
}

// WithYahooHTTPClient sets a custom HTTP client.
func WithYahooHTTPClient(c *http.Client) YahooOption {
	return func(p *YahooProvider) {
		p.httpClient = c
	}
}

// WithYahooRateLimit sets requests per second.
func WithYahooRateLimit(requestsPerSecond int) YahooOption {
	return func(p *YahooProvider) {
		if requestsPerSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithYahooRetries bounds the retry count for transient failures.
func WithYahooRetries(n uint64) YahooOption {
	return func(p *YahooProvider) {
		p.maxRetries = n
	}
}

// NewYahooProvider creates a new Yahoo Finance provider.
func NewYahooProvider(opts ...YahooOption) *YahooProvider {
	p := &YahooProvider{
		baseURL:    defaultYahooBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		maxRetries: 3,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches roughly days trading days of daily closes.
func (p *YahooProvider) History(ctx context.Context, ticker string, days int) (quant.PriceSeries, error) {
	from, to := lookbackWindow(p.now(), days)
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(from.Unix(), 10))
	q.Set("period2", strconv.FormatInt(to.Unix(), 10))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.baseURL, url.PathEscape(quant.NormalizeTicker(ticker)), q.Encode())

	var chart yahooChart
	op := func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return p.fetch(ctx, u, &chart)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Str("ticker", ticker).Err(err).Dur("retry_in", wait).Msg("yahoo fetch failed, retrying")
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.maxRetries), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, upstreamError(p.Name(), err)
	}

	if chart.Chart.Error != nil {
		return nil, upstreamError(p.Name(), fmt.Errorf("api error: %s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, upstreamError(p.Name(), fmt.Errorf("no data returned for %s", ticker))
	}

	result := chart.Chart.Result[0]
	values := result.Indicators.Quote[0].Close
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == len(result.Timestamp) {
		values = result.Indicators.AdjClose[0].AdjClose
	}

	stamps := make([]time.Time, 0, len(result.Timestamp))
	closes := make([]float64, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// null bars are holidays or halted sessions
		if i >= len(values) || values[i] == nil {
			continue
		}
		stamps = append(stamps, time.Unix(ts, 0))
		closes = append(closes, *values[i])
	}
	return closesToSeries(stamps, closes, days), nil
}

func (p *YahooProvider) fetch(ctx context.Context, u string, out *yahooChart) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return backoff.Permanent(fmt.Errorf("yahoo: status %d, body: %.200s", resp.StatusCode, body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return backoff.Permanent(fmt.Errorf("yahoo decode: %w", err))
	}
	return nil
}
