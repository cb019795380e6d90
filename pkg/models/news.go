package models

import "strings"

// MaxNewsItems caps how many same-day articles are kept per company.
const MaxNewsItems = 5

// NewsItem is one fetched article. Content is the title, description and
// link joined by newlines.
type NewsItem struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	SourceURL     string `json:"source_url"`
	PublishedDate string `json:"published_date"` // YYYY-MM-DD
}

// NewNewsItem builds a NewsItem from the raw article fields.
func NewNewsItem(title, description, link, publishedDate string) NewsItem {
	return NewsItem{
		Title:         title,
		Content:       strings.Join([]string{title, description, link}, "\n"),
		SourceURL:     link,
		PublishedDate: publishedDate,
	}
}

// Summary is the short text derived from one NewsItem plus its source URL.
type Summary struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}
