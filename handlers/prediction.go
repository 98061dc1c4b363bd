package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"quantmind/metrics"
	"quantmind/quant"
	"quantmind/render"
	"quantmind/service"

	"github.com/gin-gonic/gin"
)

// MaxHistoryDays caps the history endpoint window.
const MaxHistoryDays = 1000

type PredictionHandler struct {
	predictor *service.Predictor
	tracker   *service.RequestTracker
	metrics   *metrics.Metrics
}

func NewPredictionHandler(predictor *service.Predictor, tracker *service.RequestTracker, m *metrics.Metrics) *PredictionHandler {
	if tracker == nil {
		tracker = service.NewRequestTracker()
	}
	return &PredictionHandler{predictor: predictor, tracker: tracker, metrics: m}
}

// ForecastResponse is the body of GET /api/price/forecast.
type ForecastResponse struct {
	Ticker             string                `json:"ticker"`
	HorizonDays        int                   `json:"horizonDays"`
	CurrentPrice       float64               `json:"currentPrice"`
	TargetPrice        float64               `json:"targetPrice"`
	PredictedChangePct float64               `json:"predictedChangePct"`
	Signal             quant.Signal          `json:"signal"`
	Confidence         quant.Confidence      `json:"confidence"`
	Points             []quant.ForecastPoint `json:"points"`
}

// ReprojectBody is the body of POST /api/v1/reproject. days defaults to
// the standard horizon when omitted.
type ReprojectBody struct {
	Ticker           string            `json:"ticker" binding:"required"`
	Asset            string            `json:"asset"`
	Days             int               `json:"days"`
	HistoricalPrices quant.PriceSeries `json:"historicalPrices" binding:"required"`
}

// SimulateResponse is the body of GET /api/v1/simulate.
type SimulateResponse struct {
	quant.SimulationResult
	ChangePct float64 `json:"changePct"`
	Ticker    string  `json:"ticker,omitempty"`
}

func parseIntParam(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, quant.ErrInvalidParameter)
	}
	return n, nil
}

func requireTicker(c *gin.Context) (string, error) {
	ticker := quant.NormalizeTicker(c.Query("ticker"))
	if ticker == "" {
		return "", fmt.Errorf("ticker is required: %w", quant.ErrInvalidParameter)
	}
	return ticker, nil
}

// tracked runs fn under last-request-wins for the client and ticker. A
// result that lost the race to a newer request returns ErrSuperseded.
func (h *PredictionHandler) tracked(c *gin.Context, ticker string, days int, fn func(id string, live func() bool) (quant.PredictionBundle, error)) (quant.PredictionBundle, error) {
	tag := h.tracker.Begin(clientID(c), ticker, days)
	id := requestID(c)
	if id == "" {
		id = tag.ID
	}
	b, err := fn(id, func() bool { return h.tracker.Current(tag) })
	if ferr := h.tracker.Finish(tag); ferr != nil {
		h.metrics.Superseded()
		return quant.PredictionBundle{}, ferr
	}
	return b, err
}

// predict runs one tracked prediction from fresh history.
func (h *PredictionHandler) predict(c *gin.Context) (quant.PredictionBundle, error) {
	ticker, err := requireTicker(c)
	if err != nil {
		return quant.PredictionBundle{}, err
	}
	days, err := parseIntParam(c, "days", quant.DefaultHorizonDays)
	if err != nil {
		return quant.PredictionBundle{}, err
	}

	return h.tracked(c, ticker, days, func(id string, live func() bool) (quant.PredictionBundle, error) {
		return h.predictor.Predict(c.Request.Context(), service.PredictRequest{
			RequestID:   id,
			Ticker:      ticker,
			AssetClass:  c.Query("asset"),
			HorizonDays: days,
			Live:        live,
		})
	})
}

// HandlePrediction returns the full bundle. A failed forecast still answers
// 200 with forecastError set so the history can be drawn.
func (h *PredictionHandler) HandlePrediction(c *gin.Context) {
	b, err := h.predict(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// HandleReproject re-derives the bundle for a new horizon from the history
// the dashboard already holds, without fetching it again.
func (h *PredictionHandler) HandleReproject(c *gin.Context) {
	var body ReprojectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, fmt.Errorf("invalid request body: %v: %w", err, quant.ErrInvalidParameter))
		return
	}
	ticker := quant.NormalizeTicker(body.Ticker)
	if ticker == "" {
		respondError(c, fmt.Errorf("ticker is required: %w", quant.ErrInvalidParameter))
		return
	}
	days := body.Days
	if days == 0 {
		days = quant.DefaultHorizonDays
	}

	b, err := h.tracked(c, ticker, days, func(id string, live func() bool) (quant.PredictionBundle, error) {
		return h.predictor.Reproject(c.Request.Context(), service.ReprojectRequest{
			RequestID:   id,
			Ticker:      ticker,
			AssetClass:  body.Asset,
			HorizonDays: days,
			History:     body.HistoricalPrices,
			Live:        live,
		})
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// HandleThresholds returns the classifier and band tables in use.
func (h *PredictionHandler) HandleThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictor.Thresholds())
}

// HandleHistory returns closes only, days defaults to the configured window.
func (h *PredictionHandler) HandleHistory(c *gin.Context) {
	ticker, err := requireTicker(c)
	if err != nil {
		respondError(c, err)
		return
	}
	days, err := parseIntParam(c, "days", h.predictor.HistoryDays())
	if err != nil {
		respondError(c, err)
		return
	}
	if days < 2 || days > MaxHistoryDays {
		respondError(c, fmt.Errorf("days must be between 2 and %d: %w", MaxHistoryDays, quant.ErrInvalidParameter))
		return
	}

	history, err := h.predictor.History(c.Request.Context(), ticker, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticker":           ticker,
		"days":             len(history),
		"historicalPrices": history,
	})
}

// HandleForecast returns the projected points for days ahead.
func (h *PredictionHandler) HandleForecast(c *gin.Context) {
	b, err := h.predict(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if b.ForecastError != "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Forecast unavailable", "details": b.ForecastError})
		return
	}
	c.JSON(http.StatusOK, ForecastResponse{
		Ticker:             b.Ticker,
		HorizonDays:        b.HorizonDays,
		CurrentPrice:       b.CurrentPrice,
		TargetPrice:        b.TargetPrice,
		PredictedChangePct: b.PredictedChangePct,
		Signal:             b.Signal,
		Confidence:         b.Confidence,
		Points:             b.ForecastData,
	})
}

// HandleSimulate applies a change to an investment. The change comes either
// from the change parameter or from a fresh prediction for ticker.
func (h *PredictionHandler) HandleSimulate(c *gin.Context) {
	investment := c.Query("investment")

	if raw := strings.TrimSpace(c.Query("change")); raw != "" {
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, fmt.Errorf("change must be a number: %w", quant.ErrInvalidParameter))
			return
		}
		c.JSON(http.StatusOK, SimulateResponse{SimulationResult: quant.Simulate(investment, pct), ChangePct: pct})
		return
	}

	b, err := h.predict(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimulateResponse{
		SimulationResult: b.Simulate(investment),
		ChangePct:        b.PredictedChangePct,
		Ticker:           b.Ticker,
	})
}

// HandleSummary returns the one-line share text.
func (h *PredictionHandler) HandleSummary(c *gin.Context) {
	b, err := h.predict(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, b.Summary())
}

// HandleChart renders the composed chart as a PNG. bands=false hides the
// confidence band, panel selects price, rsi or macd.
func (h *PredictionHandler) HandleChart(c *gin.Context) {
	panel, err := render.ParsePanel(c.Query("panel"))
	if err != nil {
		respondError(c, err)
		return
	}
	showBands := true
	if raw := c.Query("bands"); raw != "" {
		if showBands, err = strconv.ParseBool(raw); err != nil {
			respondError(c, fmt.Errorf("bands must be true or false: %w", quant.ErrInvalidParameter))
			return
		}
	}

	b, err := h.predict(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	title := fmt.Sprintf("%s %dD forecast", b.Ticker, b.HorizonDays)
	if b.Signal != "" {
		title += " | " + string(b.Signal)
	}
	if err := render.PNG(&buf, b.Chart, render.Options{Title: title, Panel: panel, ShowBands: showBands}); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// predictUntracked is used by batch endpoints that have no single client race.
func (h *PredictionHandler) predictUntracked(ctx context.Context, id, ticker string, days int) (quant.PredictionBundle, error) {
	return h.predictor.Predict(ctx, service.PredictRequest{RequestID: id, Ticker: ticker, HorizonDays: days})
}
