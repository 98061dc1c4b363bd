package quant

// ChartRow is one renderer row. Historical rows fill Price/RSI/MACD/MA50,
// forecast rows fill Forecast/Lower/Upper. Absent fields mean no segment.
type ChartRow struct {
	Date     string   `json:"date"`
	Price    *float64 `json:"price,omitempty"`
	RSI      *float64 `json:"rsi,omitempty"`
	MACD     *float64 `json:"macd,omitempty"`
	MA50     *float64 `json:"ma50,omitempty"`
	Forecast *float64 `json:"forecast,omitempty"`
	Lower    *float64 `json:"lower,omitempty"`
	Upper    *float64 `json:"upper,omitempty"`
	Boundary bool     `json:"boundary,omitempty"`
}

// ChartSeries is the merged timeline plus the date of the last historical
// row, where the renderer draws the forecast marker.
type ChartSeries struct {
	Rows         []ChartRow `json:"rows"`
	BoundaryDate string     `json:"boundaryDate,omitempty"`
}

// ComposeChart merges history, its indicators and the forecast into one
// date-keyed sequence. Forecast rows are dated from the day after the last
// historical date so the two segments never overlap.
func ComposeChart(history PriceSeries, ind Indicators, forecast []ForecastPoint) ChartSeries {
	rows := make([]ChartRow, 0, len(history)+len(forecast))
	for i, p := range history {
		row := ChartRow{
			Date:  p.Date,
			Price: ptr(p.Price),
			RSI:   cell(ind.RSI, i),
			MACD:  cell(ind.MACD, i),
			MA50:  cell(ind.MA50, i),
		}
		rows = append(rows, row)
	}

	series := ChartSeries{BoundaryDate: history.LastDate()}
	if len(rows) > 0 {
		rows[len(rows)-1].Boundary = true
	}

	last := history.LastDate()
	for _, f := range forecast {
		date := f.Date
		if last != "" {
			if d, err := addDays(last, f.Day); err == nil {
				date = d
			}
		}
		rows = append(rows, ChartRow{
			Date:     date,
			Forecast: ptr(f.Price),
			Lower:    ptr(f.Lower),
			Upper:    ptr(f.Upper),
		})
	}
	series.Rows = rows
	return series
}

func cell(values []float64, i int) *float64 {
	if i >= len(values) || !Defined(values[i]) {
		return nil
	}
	return ptr(values[i])
}

func ptr(v float64) *float64 { return &v }
