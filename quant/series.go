package quant

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar-day format used on the wire.
const DateLayout = "2006-01-02"

// PricePoint is one daily observation.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PriceSeries is ordered by date ascending with unique dates.
type PriceSeries []PricePoint

// Prices extracts the price column.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// LastDate returns the most recent date, or "" for an empty series.
func (s PriceSeries) LastDate() string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1].Date
}

// Last returns the most recent price, or 0 for an empty series.
func (s PriceSeries) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Price
}

// ValidateSeries checks date format, strict ascending order and positive prices.
func ValidateSeries(s PriceSeries) error {
	var prev time.Time
	for i, p := range s {
		d, err := time.Parse(DateLayout, p.Date)
		if err != nil {
			return fmt.Errorf("point %d: date %q: %w", i, p.Date, ErrInvalidParameter)
		}
		if !(p.Price > 0) || math.IsInf(p.Price, 0) {
			return fmt.Errorf("point %d (%s): price %v: %w", i, p.Date, p.Price, ErrInvalidParameter)
		}
		if i > 0 && !d.After(prev) {
			return fmt.Errorf("point %d (%s): dates must be unique and ascending: %w", i, p.Date, ErrInvalidParameter)
		}
		prev = d
	}
	return nil
}

// Defined reports whether an indicator cell carries a value.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// Latest returns the last defined value of an indicator series.
func Latest(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if Defined(values[i]) {
			return values[i], true
		}
	}
	return 0, false
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func addDays(date string, days int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("date %q: %w", date, ErrInvalidParameter)
	}
	return d.AddDate(0, 0, days).Format(DateLayout), nil
}
