// Package render draws a composed chart series as a PNG.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"quantmind/quant"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Panel selects which part of the dashboard is drawn.
type Panel string

const (
	PricePanel Panel = "price"
	RSIPanel   Panel = "rsi"
	MACDPanel  Panel = "macd"
)

// ParsePanel accepts price, rsi or macd; empty means price.
func ParsePanel(s string) (Panel, error) {
	switch Panel(strings.ToLower(strings.TrimSpace(s))) {
	case "", PricePanel:
		return PricePanel, nil
	case RSIPanel:
		return RSIPanel, nil
	case MACDPanel:
		return MACDPanel, nil
	default:
		return "", fmt.Errorf("panel %q: %w", s, quant.ErrInvalidParameter)
	}
}

// Options controls a render.
type Options struct {
	Title     string
	Panel     Panel
	ShowBands bool
	Width     int
	Height    int
}

var (
	forecastColor = drawing.ColorFromHex("8b5cf6")
	bandColor     = drawing.ColorFromHex("c4b5fd")
	boundaryColor = chart.ColorAlternateGray
)

type column struct {
	times  []time.Time
	values []float64
}

func (c *column) add(t time.Time, v *float64) {
	if v == nil {
		return
	}
	c.times = append(c.times, t)
	c.values = append(c.values, *v)
}

func (c column) series(name string, style chart.Style) chart.Series {
	return chart.TimeSeries{Name: name, XValues: c.times, YValues: c.values, Style: style}
}

// PNG renders series to w.
func PNG(w io.Writer, series quant.ChartSeries, opts Options) error {
	if opts.Panel == "" {
		opts.Panel = PricePanel
	}
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}

	var price, ma50, forecast, lower, upper, rsi, macd column
	for _, row := range series.Rows {
		t, err := time.Parse(quant.DateLayout, row.Date)
		if err != nil {
			return fmt.Errorf("row date %q: %w", row.Date, quant.ErrInvalidParameter)
		}
		price.add(t, row.Price)
		ma50.add(t, row.MA50)
		forecast.add(t, row.Forecast)
		lower.add(t, row.Lower)
		upper.add(t, row.Upper)
		rsi.add(t, row.RSI)
		macd.add(t, row.MACD)
	}

	var plotted []chart.Series
	var yName string
	switch opts.Panel {
	case RSIPanel:
		yName = "RSI"
		plotted = appendIfDrawable(plotted, rsi, "RSI(14)", chart.Style{StrokeColor: chart.ColorOrange, StrokeWidth: 1.5})
		if len(rsi.times) >= 2 {
			first, last := rsi.times[0], rsi.times[len(rsi.times)-1]
			for _, level := range []float64{30, 70} {
				plotted = append(plotted, chart.TimeSeries{
					XValues: []time.Time{first, last},
					YValues: []float64{level, level},
					Style:   chart.Style{StrokeColor: chart.ColorLightGray, StrokeDashArray: []float64{4, 4}},
				})
			}
		}
	case MACDPanel:
		yName = "MACD"
		plotted = appendIfDrawable(plotted, macd, "MACD(12,26)", chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5})
	default:
		yName = "Price"
		plotted = appendIfDrawable(plotted, price, "Price", chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2})
		plotted = appendIfDrawable(plotted, ma50, "MA50", chart.Style{StrokeColor: chart.ColorGreen, StrokeDashArray: []float64{2, 2}})
		if opts.ShowBands {
			// anchor the band at the last close so it fans out from the boundary
			withOrigin := func(c column) column {
				if len(price.times) == 0 || len(c.times) == 0 {
					return c
				}
				return column{
					times:  append([]time.Time{price.times[len(price.times)-1]}, c.times...),
					values: append([]float64{price.values[len(price.values)-1]}, c.values...),
				}
			}
			plotted = appendIfDrawable(plotted, withOrigin(upper), "Upper", chart.Style{StrokeColor: bandColor, StrokeDashArray: []float64{5, 5}})
			plotted = appendIfDrawable(plotted, withOrigin(lower), "Lower", chart.Style{StrokeColor: bandColor, StrokeDashArray: []float64{5, 5}})
		}
		if len(price.times) > 0 && len(forecast.times) > 0 {
			forecast = column{
				times:  append([]time.Time{price.times[len(price.times)-1]}, forecast.times...),
				values: append([]float64{price.values[len(price.values)-1]}, forecast.values...),
			}
		}
		plotted = appendIfDrawable(plotted, forecast, "Forecast", chart.Style{StrokeColor: forecastColor, StrokeWidth: 2, StrokeDashArray: []float64{6, 3}})
		if marker, ok := boundaryMarker(series.BoundaryDate, price, forecast, lower, upper); ok {
			plotted = append(plotted, marker)
		}
	}

	if len(plotted) == 0 {
		return fmt.Errorf("%s panel needs at least 2 points: %w", opts.Panel, quant.ErrInsufficientData)
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: yName,
		},
		Series: plotted,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s panel: %w", opts.Panel, err)
	}
	return nil
}

func appendIfDrawable(dst []chart.Series, c column, name string, style chart.Style) []chart.Series {
	if len(c.times) < 2 {
		return dst
	}
	return append(dst, c.series(name, style))
}

// boundaryMarker is a vertical line at the last historical date spanning
// every plotted value.
func boundaryMarker(date string, cols ...column) (chart.Series, bool) {
	if date == "" {
		return nil, false
	}
	at, err := time.Parse(quant.DateLayout, date)
	if err != nil {
		return nil, false
	}
	lo, hi, seen := 0.0, 0.0, false
	for _, c := range cols {
		for _, v := range c.values {
			if !seen || v < lo {
				lo = v
			}
			if !seen || v > hi {
				hi = v
			}
			seen = true
		}
	}
	if !seen || hi <= lo {
		return nil, false
	}
	return chart.TimeSeries{
		XValues: []time.Time{at, at},
		YValues: []float64{lo, hi},
		Style:   chart.Style{StrokeColor: boundaryColor, StrokeDashArray: []float64{3, 3}},
	}, true
}
