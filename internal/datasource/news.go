package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// NewsDataConfig configures the NewsData.io client.
type NewsDataConfig struct {
	BaseURL  string // e.g. https://newsdata.io
	APIKey   string
	Language string
	Timeout  time.Duration
	Retries  int           // extra attempts on transport errors
	Backoff  time.Duration // initial wait between retries
	Clock    Clock
}

// NewsData fetches company news from the NewsData.io latest-news endpoint.
type NewsData struct {
	client   *resty.Client
	apiKey   string
	language string
	now      Clock
}

// NewNewsData creates a NewsData.io source. Retries apply to transport
// errors only; an HTTP error status is returned immediately.
func NewNewsData(cfg NewsDataConfig) *NewsData {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", DefaultUserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.Backoff).
		SetRetryMaxWaitTime(8 * cfg.Backoff).
		AddRetryCondition(func(_ *resty.Response, err error) bool {
			return err != nil
		})

	return &NewsData{
		client:   client,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		now:      orNow(cfg.Clock),
	}
}

// Name returns the source name.
func (n *NewsData) Name() string { return "NewsData.io" }

type newsDataResponse struct {
	Status  string            `json:"status"`
	Results []newsDataArticle `json:"results"`
}

type newsDataArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	PubDate     string `json:"pubDate"`
}

// FetchNews searches for "<companyName> stock" and keeps, in API order, the
// articles published today, stopping once models.MaxNewsItems are kept.
func (n *NewsData) FetchNews(ctx context.Context, companyName string) ([]models.NewsItem, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("newsdata: %w", ErrMissingAPIKey)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   n.apiKey,
			"q":        companyName + " stock",
			"language": n.language,
		}).
		Get("/api/1/news")
	if err != nil {
		return nil, fmt.Errorf("newsdata %q: %w: %w", companyName, ErrNetwork, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("newsdata %q: %w", companyName, &ErrHTTP{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       truncate(resp.String(), maxErrorBody),
		})
	}

	var payload newsDataResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("newsdata %q: %w: decode response: %v", companyName, ErrUpstream, err)
	}
	if payload.Status != "" && payload.Status != "success" {
		return nil, fmt.Errorf("newsdata %q: %w: status %q", companyName, ErrUpstream, payload.Status)
	}

	day := today(n.now)
	items := make([]models.NewsItem, 0, models.MaxNewsItems)
	for _, a := range payload.Results {
		if dateKey(a.PubDate) != day {
			continue
		}
		items = append(items, models.NewNewsItem(a.Title, a.Description, a.Link, dateKey(a.PubDate)))
		if len(items) >= models.MaxNewsItems {
			break
		}
	}

	slog.Debug("newsdata fetched", "company", companyName, "results", len(payload.Results), "kept", len(items))
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
