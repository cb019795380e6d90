// Package datasource provides the external lookups a comparison needs:
// ticker resolution, same-day company news, and recent closing prices.
// Every source is an interface so the pipeline can be tested with fakes.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// TickerResolver maps a free-text company name to a ticker symbol.
type TickerResolver interface {
	Resolve(ctx context.Context, companyName string) (string, error)
}

// NewsSource returns today's news for a company, at most models.MaxNewsItems items.
type NewsSource interface {
	// Name returns the human-readable name of this source.
	Name() string

	FetchNews(ctx context.Context, companyName string) ([]models.NewsItem, error)
}

// PriceSource returns recent daily closing prices for a ticker.
type PriceSource interface {
	// Name returns the human-readable name of this source.
	Name() string

	FetchCloses(ctx context.Context, ticker string) (models.PriceSeries, error)
}

// Clock returns the current time. Sources take one so the same-day filter can be tested.
type Clock func() time.Time

// --- Sentinel errors ---

// ErrNetwork is returned when a request could not be completed (DNS, connect, timeout).
var ErrNetwork = errors.New("network failure")

// ErrUpstream is returned when a service answered with something unusable.
var ErrUpstream = errors.New("upstream error")

// ErrTickerNotFound is returned when a ticker cannot be resolved.
var ErrTickerNotFound = errors.New("ticker not found")

// ErrNoPriceData is returned when a ticker resolves but has no closes in range.
var ErrNoPriceData = errors.New("no price data")

// ErrMissingAPIKey is returned before any request when a required API key is unset.
var ErrMissingAPIKey = errors.New("missing API key")

// ErrHTTP wraps an HTTP error with status code. It matches ErrUpstream under errors.Is.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Unwrap lets callers test any HTTP failure against ErrUpstream.
func (e *ErrHTTP) Unwrap() error { return ErrUpstream }

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxErrorBody caps how much of a failed response body is kept in ErrHTTP.
const maxErrorBody = 512

// newHTTPClient returns a client with the given timeout, or 30s if zero.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// doGet performs a GET request with the given URL and headers, returning the response body.
// The caller is responsible for closing the returned ReadCloser.
func doGet(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	// Set default headers.
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	// Override/add custom headers.
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP GET %s: %w: %w", url, ErrNetwork, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, resp.StatusCode, nil
}

// dateKey returns the YYYY-MM-DD prefix of a published-date string.
// Strings shorter than ten characters are compared whole.
func dateKey(published string) string {
	if len(published) < 10 {
		return published
	}
	return published[:10]
}

// today formats the clock's current local date as YYYY-MM-DD.
func today(now Clock) string {
	return now().Format("2006-01-02")
}

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
