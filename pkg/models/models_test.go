package models

import (
	"encoding/json"
	"testing"
	"time"
)

// ── News Tests ──

func TestNewNewsItemContent(t *testing.T) {
	item := NewNewsItem("Infosys beats estimates", "Quarterly profit rose 8%", "https://example.com/a", "2024-05-01")
	want := "Infosys beats estimates\nQuarterly profit rose 8%\nhttps://example.com/a"
	if item.Content != want {
		t.Errorf("Content: got %q, want %q", item.Content, want)
	}
	if item.SourceURL != "https://example.com/a" {
		t.Errorf("SourceURL: got %q", item.SourceURL)
	}
	if item.PublishedDate != "2024-05-01" {
		t.Errorf("PublishedDate: got %q", item.PublishedDate)
	}
}

// ── Price Tests ──

func TestPriceSeriesEmpty(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		series PriceSeries
		want   bool
	}{
		{"no points", PriceSeries{Ticker: "TCS.NS"}, true},
		{"all zero", PriceSeries{Points: []PricePoint{{Date: day}, {Date: day.AddDate(0, 0, 1)}}}, true},
		{"one close", PriceSeries{Points: []PricePoint{{Date: day, Close: 3812.5}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.series.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosesFromBars(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := []OHLCV{
		{Timestamp: day, Close: 100},
		{Timestamp: day.AddDate(0, 0, 1), Close: 0},
		{Timestamp: day.AddDate(0, 0, 2), Close: 102.5},
	}
	s := ClosesFromBars("INFY.NS", bars)
	if s.Ticker != "INFY.NS" {
		t.Errorf("Ticker: got %q", s.Ticker)
	}
	closes := s.Closes()
	if len(closes) != 2 || closes[0] != 100 || closes[1] != 102.5 {
		t.Errorf("Closes() = %v, want [100 102.5]", closes)
	}
}

// ── Comparison Tests ──

func TestComparisonProfileLookup(t *testing.T) {
	cmp := Comparison{Profiles: []CompanyProfile{
		{Name: "Tata", Ticker: "TATA"},
		{Name: "Tata", Ticker: "TATAMOTORS.NS"},
		{Name: "Wipro", Ticker: "WIPRO.NS"},
	}}
	p, ok := cmp.Profile("Tata")
	if !ok || p.Ticker != "TATA" {
		t.Errorf("Profile(Tata) = %+v, %v; want first entry", p, ok)
	}
	if _, ok := cmp.Profile("HDFC"); ok {
		t.Error("Profile(HDFC) should not be found")
	}
}

func TestNoticeJSONOmitsEmptyCompany(t *testing.T) {
	data, err := json.Marshal(Notice{Level: NoticeInfo, Message: "starting"})
	if err != nil {
		t.Fatalf("json.Marshal(Notice) error: %v", err)
	}
	if string(data) != `{"level":"info","message":"starting"}` {
		t.Errorf("got %s", data)
	}
}
