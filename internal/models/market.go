// Package models defines data structures for Advisor
package models

import (
	"math"
	"sort"
	"time"
)

// PriceBar is one row of a daily price/volume series.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered daily price history for one ticker, oldest
// first, strictly increasing by date. Immutable once validated.
type PriceSeries struct {
	Ticker string     `json:"ticker"`
	Bars   []PriceBar `json:"bars"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// NewSeriesFromCloses builds a series from close-only data, synthesizing a
// flat OHLC row per close. Used when a provider returns closes without the
// full candle.
func NewSeriesFromCloses(ticker string, dates []time.Time, closes []float64) *PriceSeries {
	bars := make([]PriceBar, 0, len(closes))
	for i, c := range closes {
		var d time.Time
		if i < len(dates) {
			d = dates[i]
		}
		bars = append(bars, PriceBar{Date: d, Open: c, High: c, Low: c, Close: c})
	}
	return &PriceSeries{Ticker: ticker, Bars: bars}
}

// Validate drops rows with missing values, sorts by date, and enforces the
// minimum length. Returns a new series; the input is not modified.
func (s *PriceSeries) Validate() (*PriceSeries, error) {
	clean := make([]PriceBar, 0, len(s.Bars))
	for _, b := range s.Bars {
		if hasMissingValue(b) {
			continue
		}
		clean = append(clean, b)
	}

	sort.Slice(clean, func(i, j int) bool { return clean[i].Date.Before(clean[j].Date) })

	if len(clean) < 2 {
		return nil, &InsufficientDataError{Ticker: s.Ticker, Required: 2, Actual: len(clean)}
	}

	return &PriceSeries{Ticker: s.Ticker, Bars: clean}, nil
}

func hasMissingValue(b PriceBar) bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return b.Close == 0
}

// MarketData bundles a price series with fundamentals for one ticker.
type MarketData struct {
	Ticker       string        `json:"ticker"`
	Series       *PriceSeries  `json:"series"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`
	LastUpdated  time.Time     `json:"last_updated"`
}

// Fundamentals holds company metadata from the market data provider.
type Fundamentals struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
	PE        float64 `json:"pe"`
	Beta      float64 `json:"beta"`
	WebURL    string  `json:"web_url,omitempty"`
}
