package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// YFinance fetches daily closes from the Yahoo Finance v8 chart API.
type YFinance struct {
	baseURL string
	days    int
	client  *http.Client
	now     Clock
}

// NewYFinance creates a Yahoo Finance price source returning the trailing
// days of daily closes.
func NewYFinance(baseURL string, days int, timeout time.Duration, clock Clock) *YFinance {
	if days < 1 {
		days = 7
	}
	return &YFinance{
		baseURL: strings.TrimRight(baseURL, "/"),
		days:    days,
		client:  newHTTPClient(timeout),
		now:     orNow(clock),
	}
}

// Name returns the data source name.
func (y *YFinance) Name() string { return "Yahoo Finance" }

// --- Yahoo Finance v8 API types ---

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

type yfIndicators struct {
	Quote []yfOHLCV `json:"quote"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FetchCloses returns the daily closes of the trailing window, oldest first.
// Bars without a close are skipped.
func (y *YFinance) FetchCloses(ctx context.Context, ticker string) (models.PriceSeries, error) {
	to := y.now()
	from := to.AddDate(0, 0, -y.days)

	u := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		y.baseURL, url.PathEscape(ticker), from.Unix(), to.Unix(),
	)

	body, _, err := doGet(ctx, y.client, u, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("yfinance chart %s: %w", ticker, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("yfinance chart %s: %w: read response: %v", ticker, ErrNetwork, err)
	}

	var resp yfChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.PriceSeries{}, fmt.Errorf("yfinance chart %s: %w: parse: %v", ticker, ErrUpstream, err)
	}
	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return models.PriceSeries{}, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return models.PriceSeries{}, fmt.Errorf("yfinance chart %s: %w: %s", ticker, ErrUpstream, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return models.PriceSeries{}, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	series := models.ClosesFromBars(ticker, parseYFCandles(resp.Chart.Result[0]))
	if series.Empty() {
		return models.PriceSeries{}, fmt.Errorf("%w: %s", ErrNoPriceData, ticker)
	}
	return series, nil
}

// parseYFCandles converts the column-oriented chart payload to bars.
func parseYFCandles(result yfChartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	candles := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		c := models.OHLCV{
			Timestamp: time.Unix(ts, 0),
			Close:     *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		candles = append(candles, c)
	}
	return candles
}
