package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newsDataServer(t *testing.T, status int, payload any) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/api/1/news" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("apikey") != "pub_test" {
			t.Errorf("apikey = %q", q.Get("apikey"))
		}
		if q.Get("q") != "Infosys stock" {
			t.Errorf("q = %q, want %q", q.Get("q"), "Infosys stock")
		}
		if q.Get("language") != "en" {
			t.Errorf("language = %q", q.Get("language"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func article(title, pubDate string) map[string]any {
	return map[string]any{
		"title":       title,
		"description": "desc " + title,
		"link":        "https://news.example/" + title,
		"pubDate":     pubDate,
	}
}

func newTestNewsData(baseURL string) *NewsData {
	return NewNewsData(NewsDataConfig{
		BaseURL: baseURL,
		APIKey:  "pub_test",
		Timeout: 5 * time.Second,
		Retries: 2,
		Backoff: time.Millisecond,
		Clock:   fixedClock(2024, time.May, 1),
	})
}

func TestNewsDataSameDayFilter(t *testing.T) {
	srv, _ := newsDataServer(t, http.StatusOK, map[string]any{
		"status": "success",
		"results": []any{
			article("a", "2024-05-01 09:00:00"),
			article("old", "2024-04-30 23:59:59"),
			article("b", "2024-05-01 18:30:00"),
			article("short", "2024-05"),
		},
	})
	items, err := newTestNewsData(srv.URL).FetchNews(context.Background(), "Infosys")
	if err != nil {
		t.Fatalf("FetchNews error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "a" || items[1].Title != "b" {
		t.Errorf("order not preserved: %q, %q", items[0].Title, items[1].Title)
	}
	want := "a\ndesc a\nhttps://news.example/a"
	if items[0].Content != want {
		t.Errorf("Content = %q, want %q", items[0].Content, want)
	}
	if items[0].SourceURL != "https://news.example/a" || items[0].PublishedDate != "2024-05-01" {
		t.Errorf("unexpected item: %+v", items[0])
	}
}

func TestNewsDataCapsAtFive(t *testing.T) {
	results := make([]any, 0, 8)
	for i := 0; i < 8; i++ {
		results = append(results, article(fmt.Sprintf("n%d", i), "2024-05-01 10:00:00"))
	}
	srv, _ := newsDataServer(t, http.StatusOK, map[string]any{"status": "success", "results": results})

	items, err := newTestNewsData(srv.URL).FetchNews(context.Background(), "Infosys")
	if err != nil {
		t.Fatalf("FetchNews error: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}
	if items[4].Title != "n4" {
		t.Errorf("last kept = %q, want n4", items[4].Title)
	}
}

func TestNewsDataNullDescription(t *testing.T) {
	srv, _ := newsDataServer(t, http.StatusOK, map[string]any{
		"status": "success",
		"results": []any{map[string]any{
			"title": "t", "description": nil, "link": "https://l", "pubDate": "2024-05-01 01:00:00",
		}},
	})
	items, err := newTestNewsData(srv.URL).FetchNews(context.Background(), "Infosys")
	if err != nil {
		t.Fatalf("FetchNews error: %v", err)
	}
	if len(items) != 1 || items[0].Content != "t\n\nhttps://l" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestNewsDataHTTPErrorNotRetried(t *testing.T) {
	srv, hits := newsDataServer(t, http.StatusUnauthorized, map[string]any{"status": "error"})
	_, err := newTestNewsData(srv.URL).FetchNews(context.Background(), "Infosys")

	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 ErrHTTP, got %v", err)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestNewsDataMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := newTestNewsData(srv.URL).FetchNews(context.Background(), "Infosys")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestNewsDataMissingKey(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	n := NewNewsData(NewsDataConfig{BaseURL: srv.URL})
	_, err := n.FetchNews(context.Background(), "Infosys")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if hits != 0 {
		t.Error("no request should be sent without an API key")
	}
}

func TestNewsDataNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestNewsData(url).FetchNews(context.Background(), "Infosys")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}
