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
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/stockcompare/pkg/models"
)

// RSSNews fetches company news from a search feed such as Google News RSS.
type RSSNews struct {
	urlTemplate string // one %s, replaced by the escaped query
	client      *http.Client
	parser      *gofeed.Parser
	now         Clock
}

// NewRSSNews creates an RSS news source. urlTemplate must contain one %s.
func NewRSSNews(urlTemplate string, timeout time.Duration, clock Clock) *RSSNews {
	return &RSSNews{
		urlTemplate: urlTemplate,
		client:      newHTTPClient(timeout),
		parser:      gofeed.NewParser(),
		now:         orNow(clock),
	}
}

// Name returns the source name.
func (r *RSSNews) Name() string { return "RSS" }

// FetchNews reads the feed for "<companyName> stock" and keeps today's items
// in feed order, up to models.MaxNewsItems.
func (r *RSSNews) FetchNews(ctx context.Context, companyName string) ([]models.NewsItem, error) {
	feedURL := fmt.Sprintf(r.urlTemplate, url.QueryEscape(companyName+" stock"))

	body, _, err := doGet(ctx, r.client, feedURL, map[string]string{
		"Accept": "application/rss+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("rss %q: %w", companyName, err)
	}
	defer body.Close()

	feed, err := r.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("rss %q: %w: parse feed: %v", companyName, ErrUpstream, err)
	}

	day := today(r.now)
	items := make([]models.NewsItem, 0, models.MaxNewsItems)
	for _, it := range feed.Items {
		if it.PublishedParsed == nil {
			continue
		}
		published := it.PublishedParsed.In(time.Local).Format("2006-01-02")
		if published != day {
			continue
		}
		items = append(items, models.NewNewsItem(it.Title, cleanHTML(it.Description), it.Link, published))
		if len(items) >= models.MaxNewsItems {
			break
		}
	}

	slog.Debug("rss fetched", "company", companyName, "entries", len(feed.Items), "kept", len(items))
	return items, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
