package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// YahooLookup resolves company names by scraping the Yahoo Finance symbol lookup page.
type YahooLookup struct {
	baseURL string
	client  *http.Client
}

// NewYahooLookup creates a resolver against baseURL (e.g. https://finance.yahoo.com).
func NewYahooLookup(baseURL string, timeout time.Duration) *YahooLookup {
	return &YahooLookup{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// Resolve returns the symbol of the first lookup row whose company name contains
// companyName (case-insensitive). If no row matches it falls back to the first
// quote-symbol cell on the page.
func (y *YahooLookup) Resolve(ctx context.Context, companyName string) (string, error) {
	u := fmt.Sprintf("%s/lookup?s=%s", y.baseURL, url.QueryEscape(companyName))

	body, _, err := doGet(ctx, y.client, u, map[string]string{
		"Accept": "text/html",
	})
	if err != nil {
		return "", fmt.Errorf("ticker lookup %q: %w", companyName, err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("ticker lookup %q: %w: parse html: %v", companyName, ErrUpstream, err)
	}

	if symbol, ok := matchLookupRow(doc, companyName); ok {
		slog.Debug("ticker resolved", "company", companyName, "ticker", symbol)
		return symbol, nil
	}

	fallback := strings.TrimSpace(doc.Find(`td[data-test="QUOTE_SYMBOL"]`).First().Text())
	if fallback != "" {
		slog.Debug("ticker resolved from symbol cell", "company", companyName, "ticker", fallback)
		return fallback, nil
	}

	return "", fmt.Errorf("%w: %s", ErrTickerNotFound, companyName)
}

// matchLookupRow scans table rows with at least two cells: cell 0 is the symbol,
// cell 1 the company name.
func matchLookupRow(doc *goquery.Document, companyName string) (string, bool) {
	query := strings.ToLower(companyName)
	var symbol string
	found := false

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cols := row.Find("td")
		if cols.Length() < 2 {
			return true
		}
		name := strings.ToLower(strings.TrimSpace(cols.Eq(1).Text()))
		if !strings.Contains(name, query) {
			return true
		}
		symbol = strings.TrimSpace(cols.Eq(0).Text())
		found = true
		return false
	})
	return symbol, found
}
