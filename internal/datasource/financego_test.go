package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockcompare/pkg/models"
)

func TestDecimalBar(t *testing.T) {
	bar := decimalBar(1714534800,
		decimal.RequireFromString("100.10"),
		decimal.RequireFromString("105.5"),
		decimal.RequireFromString("99"),
		decimal.RequireFromString("3850.25"),
		1200)
	if bar.Close != 3850.25 || bar.Open != 100.10 || bar.High != 105.5 || bar.Low != 99 {
		t.Errorf("unexpected bar: %+v", bar)
	}
	if bar.Volume != 1200 || bar.Timestamp.Unix() != 1714534800 {
		t.Errorf("unexpected bar: %+v", bar)
	}
}

func TestFinanceGoFetchCloses(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := NewFinanceGo(7, func() time.Time { return now })
	f.fetch = func(symbol string, start, end time.Time) ([]models.OHLCV, error) {
		if symbol != "WIPRO.NS" {
			t.Errorf("symbol = %q", symbol)
		}
		if !end.Equal(now) || !start.Equal(now.AddDate(0, 0, -7)) {
			t.Errorf("window = %v..%v", start, end)
		}
		return []models.OHLCV{
			{Timestamp: now.AddDate(0, 0, -1), Close: 460.5},
			{Timestamp: now, Close: 462},
		}, nil
	}

	series, err := f.FetchCloses(context.Background(), "WIPRO.NS")
	if err != nil {
		t.Fatalf("FetchCloses error: %v", err)
	}
	if len(series.Points) != 2 || series.Points[1].Close != 462 {
		t.Errorf("unexpected series: %+v", series)
	}
}

func TestFinanceGoErrors(t *testing.T) {
	f := NewFinanceGo(7, nil)

	f.fetch = func(string, time.Time, time.Time) ([]models.OHLCV, error) { return nil, nil }
	if _, err := f.FetchCloses(context.Background(), "X"); !errors.Is(err, ErrTickerNotFound) {
		t.Errorf("empty bars: expected ErrTickerNotFound, got %v", err)
	}

	f.fetch = func(string, time.Time, time.Time) ([]models.OHLCV, error) {
		return []models.OHLCV{{Timestamp: time.Unix(1714534800, 0)}}, nil
	}
	if _, err := f.FetchCloses(context.Background(), "X"); !errors.Is(err, ErrNoPriceData) {
		t.Errorf("bars without closes: expected ErrNoPriceData, got %v", err)
	}

	f.fetch = func(string, time.Time, time.Time) ([]models.OHLCV, error) { return nil, errors.New("remote error") }
	if _, err := f.FetchCloses(context.Background(), "X"); !errors.Is(err, ErrUpstream) {
		t.Errorf("fetch error: expected ErrUpstream, got %v", err)
	}

	block := make(chan struct{})
	defer close(block)
	f.fetch = func(string, time.Time, time.Time) ([]models.OHLCV, error) { <-block; return nil, nil }
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.FetchCloses(ctx, "X"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: expected context.Canceled, got %v", err)
	}
}
