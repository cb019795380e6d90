package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const lookupPage = `<html><body>
<table>
  <tr><th>Symbol</th><th>Name</th></tr>
  <tr><td> TATASTEEL.NS </td><td>Tata Steel Limited</td><td>NSE</td></tr>
  <tr><td>TCS.NS</td><td> Tata Consultancy Services Limited </td><td>NSE</td></tr>
  <tr><td>INFY</td><td>Infosys Limited</td><td>NYSE</td></tr>
</table>
</body></html>`

const fallbackPage = `<html><body>
<table><tr><td data-test="QUOTE_SYMBOL"> RELIANCE.NS </td></tr></table>
</body></html>`

func lookupServer(t *testing.T, page string, status int) (*httptest.Server, *string) {
	t.Helper()
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup" {
			t.Errorf("path = %q, want /lookup", r.URL.Path)
		}
		query = r.URL.RawQuery
		w.WriteHeader(status)
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv, &query
}

func TestYahooLookupResolve(t *testing.T) {
	srv, _ := lookupServer(t, lookupPage, http.StatusOK)
	y := NewYahooLookup(srv.URL, 5*time.Second)

	tests := []struct {
		name string
		want string
	}{
		{"Tata Consultancy", "TCS.NS"},
		{"tata", "TATASTEEL.NS"}, // first matching row wins
		{"INFOSYS", "INFY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := y.Resolve(context.Background(), tt.name)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestYahooLookupQueryEncoding(t *testing.T) {
	srv, query := lookupServer(t, lookupPage, http.StatusOK)
	y := NewYahooLookup(srv.URL, 5*time.Second)
	if _, err := y.Resolve(context.Background(), "Tata Steel"); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if *query != "s=Tata+Steel" {
		t.Errorf("query = %q, want %q", *query, "s=Tata+Steel")
	}
}

func TestYahooLookupFallbackSymbolCell(t *testing.T) {
	srv, _ := lookupServer(t, fallbackPage, http.StatusOK)
	y := NewYahooLookup(srv.URL, 5*time.Second)
	got, err := y.Resolve(context.Background(), "Reliance")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "RELIANCE.NS" {
		t.Errorf("got %q, want RELIANCE.NS", got)
	}
}

func TestYahooLookupNotFound(t *testing.T) {
	srv, _ := lookupServer(t, lookupPage, http.StatusOK)
	y := NewYahooLookup(srv.URL, 5*time.Second)
	_, err := y.Resolve(context.Background(), "Zzyzx Holdings")
	if !errors.Is(err, ErrTickerNotFound) {
		t.Fatalf("expected ErrTickerNotFound, got %v", err)
	}
}

func TestYahooLookupUpstreamError(t *testing.T) {
	srv, _ := lookupServer(t, "blocked", http.StatusForbidden)
	y := NewYahooLookup(srv.URL, 5*time.Second)
	_, err := y.Resolve(context.Background(), "Infosys")
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 ErrHTTP, got %v", err)
	}
	if errors.Is(err, ErrTickerNotFound) {
		t.Error("upstream failure should not be reported as not found")
	}
}
