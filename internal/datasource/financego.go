package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// chartFunc fetches daily bars for symbol in [start, end].
type chartFunc func(symbol string, start, end time.Time) ([]models.OHLCV, error)

// FinanceGo fetches daily closes through the piquette/finance-go chart client.
type FinanceGo struct {
	days  int
	now   Clock
	fetch chartFunc
}

// NewFinanceGo creates a finance-go price source returning the trailing days of closes.
func NewFinanceGo(days int, clock Clock) *FinanceGo {
	if days < 1 {
		days = 7
	}
	return &FinanceGo{days: days, now: orNow(clock), fetch: chartBars}
}

// Name returns the data source name.
func (f *FinanceGo) Name() string { return "finance-go" }

// FetchCloses returns the daily closes of the trailing window, oldest first.
// The chart client takes no context, so the call runs in its own goroutine
// and is abandoned if ctx ends first.
func (f *FinanceGo) FetchCloses(ctx context.Context, ticker string) (models.PriceSeries, error) {
	end := f.now()
	start := end.AddDate(0, 0, -f.days)

	type result struct {
		bars []models.OHLCV
		err  error
	}
	done := make(chan result, 1)
	go func() {
		bars, err := f.fetch(ticker, start, end)
		done <- result{bars, err}
	}()

	select {
	case <-ctx.Done():
		return models.PriceSeries{}, fmt.Errorf("finance-go chart %s: %w: %w", ticker, ErrNetwork, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return models.PriceSeries{}, fmt.Errorf("finance-go chart %s: %w: %v", ticker, ErrUpstream, r.err)
		}
		if len(r.bars) == 0 {
			return models.PriceSeries{}, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		series := models.ClosesFromBars(ticker, r.bars)
		if series.Empty() {
			return models.PriceSeries{}, fmt.Errorf("%w: %s", ErrNoPriceData, ticker)
		}
		return series, nil
	}
}

func chartBars(symbol string, start, end time.Time) ([]models.OHLCV, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []models.OHLCV
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, decimalBar(int64(bar.Timestamp), bar.Open, bar.High, bar.Low, bar.Close, int64(bar.Volume)))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

func decimalBar(ts int64, open, high, low, close decimal.Decimal, volume int64) models.OHLCV {
	return models.OHLCV{
		Timestamp: time.Unix(ts, 0),
		Open:      open.InexactFloat64(),
		High:      high.InexactFloat64(),
		Low:       low.InexactFloat64(),
		Close:     close.InexactFloat64(),
		Volume:    volume,
	}
}
