package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func rssFeed(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>search</title>` + strings.Join(items, "") + `</channel></rss>`
}

func rssItem(title string, published time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><link>https://rss.example/%s</link>`+
		`<description>&lt;b&gt;%s&lt;/b&gt; shares rose</description><pubDate>%s</pubDate></item>`,
		title, title, title, published.Format(time.RFC1123Z))
}

func TestRSSNewsFetch(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFeed(
			rssItem("today1", now.Add(-time.Hour)),
			rssItem("yesterday", now.AddDate(0, 0, -1)),
			rssItem("today2", now.Add(time.Hour)),
		)))
	}))
	defer srv.Close()

	r := NewRSSNews(srv.URL+"/rss/search?q=%s", 5*time.Second, func() time.Time { return now })
	items, err := r.FetchNews(context.Background(), "Wipro")
	if err != nil {
		t.Fatalf("FetchNews error: %v", err)
	}
	if gotQuery != "Wipro stock" {
		t.Errorf("q = %q, want %q", gotQuery, "Wipro stock")
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "today1" || items[1].Title != "today2" {
		t.Errorf("unexpected order: %q, %q", items[0].Title, items[1].Title)
	}
	want := "today1\ntoday1 shares rose\nhttps://rss.example/today1"
	if items[0].Content != want {
		t.Errorf("Content = %q, want %q", items[0].Content, want)
	}
}

func TestRSSNewsCap(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	var entries []string
	for i := 0; i < 7; i++ {
		entries = append(entries, rssItem(fmt.Sprintf("n%d", i), now))
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFeed(entries...)))
	}))
	defer srv.Close()

	r := NewRSSNews(srv.URL+"?q=%s", 5*time.Second, func() time.Time { return now })
	items, err := r.FetchNews(context.Background(), "Wipro")
	if err != nil {
		t.Fatalf("FetchNews error: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("got %d items, want 5", len(items))
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{`<a href="x">link</a> text `, "link text"},
	}
	for _, tt := range tests {
		if got := cleanHTML(tt.in); got != tt.want {
			t.Errorf("cleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
