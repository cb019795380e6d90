// Package models defines the core data structures shared by the comparison
// pipeline, the data sources, and the report renderers.
package models

import "time"

// MaxCompanies is the number of company slots a single comparison accepts.
const MaxCompanies = 4

// OHLCV represents a single daily bar as returned by a price provider.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// PricePoint is one closing price on a given day.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered (oldest first) closing-price history for a ticker.
type PriceSeries struct {
	Ticker string       `json:"ticker"`
	Points []PricePoint `json:"points"`
}

// Empty reports whether the series carries no usable closing price.
func (s PriceSeries) Empty() bool {
	for _, p := range s.Points {
		if p.Close != 0 {
			return false
		}
	}
	return true
}

// Closes returns the closing prices in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// ClosesFromBars converts OHLCV bars to a PriceSeries, skipping bars with no close.
func ClosesFromBars(ticker string, bars []OHLCV) PriceSeries {
	series := PriceSeries{Ticker: ticker, Points: make([]PricePoint, 0, len(bars))}
	for _, b := range bars {
		if b.Close == 0 {
			continue
		}
		series.Points = append(series.Points, PricePoint{Date: b.Timestamp, Close: b.Close})
	}
	return series
}
