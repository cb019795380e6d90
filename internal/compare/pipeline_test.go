package compare

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/seenimoa/stockcompare/internal/analysis/sentiment"
	"github.com/seenimoa/stockcompare/internal/config"
	"github.com/seenimoa/stockcompare/internal/datasource"
	"github.com/seenimoa/stockcompare/internal/summarizer"
	"github.com/seenimoa/stockcompare/pkg/models"
)

// ── Fakes ──

type fakeResolver struct {
	tickers map[string]string
	errs    map[string]error
}

func (f *fakeResolver) Resolve(_ context.Context, name string) (string, error) {
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	if t, ok := f.tickers[name]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %s", datasource.ErrTickerNotFound, name)
}

type fakeNews struct {
	items map[string][]models.NewsItem
	errs  map[string]error
	delay time.Duration
}

func (f *fakeNews) Name() string { return "fake news" }

func (f *fakeNews) FetchNews(ctx context.Context, name string) ([]models.NewsItem, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	return f.items[name], nil
}

type fakePrices struct {
	mu     sync.Mutex
	series map[string]models.PriceSeries
	errs   map[string]error
	asked  []string
}

func (f *fakePrices) Name() string { return "fake prices" }

func (f *fakePrices) FetchCloses(_ context.Context, ticker string) (models.PriceSeries, error) {
	f.mu.Lock()
	f.asked = append(f.asked, ticker)
	f.mu.Unlock()
	if err, ok := f.errs[ticker]; ok {
		return models.PriceSeries{}, err
	}
	return f.series[ticker], nil
}

var day = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func closes(ticker string, values ...float64) models.PriceSeries {
	s := models.PriceSeries{Ticker: ticker}
	for i, v := range values {
		s.Points = append(s.Points, models.PricePoint{Date: day.AddDate(0, 0, i), Close: v})
	}
	return s
}

func item(title, link string) models.NewsItem {
	return models.NewNewsItem(title, "", link, "2024-05-01")
}

func newTestPipeline(concurrency int) (*Pipeline, *fakePrices) {
	prices := &fakePrices{
		series: map[string]models.PriceSeries{
			"INFY.NS": closes("INFY.NS", 1400, 1410.5, 1422),
			"TCS.NS":  closes("TCS.NS", 3812.5, 3850.25),
		},
		errs: map[string]error{"WIPRO.NS": errors.New("timeout")},
	}
	p := &Pipeline{
		Resolver: &fakeResolver{
			tickers: map[string]string{"Infosys": "INFY.NS", "TCS": "TCS.NS", "Wipro": "WIPRO.NS"},
			errs:    map[string]error{"Broken": fmt.Errorf("%w: dial tcp", datasource.ErrNetwork)},
		},
		News: &fakeNews{
			items: map[string][]models.NewsItem{
				"Infosys": {item("Company reports record profit growth", "https://a")},
				"TCS":     {item("Company faces decline amid volatile market", "https://b")},
			},
			errs: map[string]error{"Wipro": fmt.Errorf("newsdata: %w", datasource.ErrMissingAPIKey)},
		},
		Prices:      prices,
		Summarizer:  summarizer.Heuristic{},
		Concurrency: concurrency,
		Clock:       func() time.Time { return day },
	}
	return p, prices
}

// ── Request ──

func TestRequestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{"trims and drops empty", []string{" Infosys ", "", "  ", "TCS"}, []string{"Infosys", "TCS"}, nil},
		{"keeps duplicates", []string{"Tata", "Tata"}, []string{"Tata", "Tata"}, nil},
		{"four is allowed", []string{"a", "b", "c", "d"}, []string{"a", "b", "c", "d"}, nil},
		{"five is rejected", []string{"a", "b", "c", "d", "e"}, nil, ErrTooManyCompanies},
		{"all empty", []string{"", " "}, nil, ErrNoCompanies},
		{"nil", nil, nil, ErrNoCompanies},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Request{Names: tt.in}.Normalize()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Names, tt.want) {
				t.Errorf("Names = %q, want %q", got.Names, tt.want)
			}
		})
	}
}

// ── Run ──

func TestRunHappyPath(t *testing.T) {
	p, _ := newTestPipeline(4)
	cmp, err := p.Run(context.Background(), Request{Names: []string{"Infosys", "TCS"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if cmp.RunID == "" {
		t.Error("RunID should be set")
	}
	if !cmp.GeneratedAt.Equal(day) {
		t.Errorf("GeneratedAt = %v", cmp.GeneratedAt)
	}
	if len(cmp.Profiles) != 2 || cmp.Profiles[0].Name != "Infosys" || cmp.Profiles[1].Name != "TCS" {
		t.Fatalf("profiles out of order: %+v", cmp.Profiles)
	}

	infy := cmp.Profiles[0]
	if infy.Ticker != "INFY.NS" || !infy.TickerResolved {
		t.Errorf("Infosys ticker = %q resolved=%v", infy.Ticker, infy.TickerResolved)
	}
	if len(infy.Summaries) != 1 || infy.Summaries[0].Text != "Company reports record profit growth https://a" {
		t.Errorf("Infosys summaries = %+v", infy.Summaries)
	}
	if infy.Score.Composite <= 0 {
		t.Errorf("Infosys composite = %v, want > 0", infy.Score.Composite)
	}
	if infy.Sentiment != sentiment.LabelPositive {
		t.Errorf("Infosys sentiment = %q", infy.Sentiment)
	}
	if len(infy.Prices.Points) != 3 {
		t.Errorf("Infosys prices = %+v", infy.Prices)
	}

	if !strings.Contains(cmp.Recommendation, "- **Infosys** shows the strongest positive signals") {
		t.Errorf("Recommendation = %q", cmp.Recommendation)
	}

	wantNotices := []models.Notice{
		{Level: models.NoticeSuccess, Company: "Infosys", Message: "Fetched 1 articles for Infosys"},
		{Level: models.NoticeSuccess, Company: "TCS", Message: "Fetched 1 articles for TCS"},
	}
	if !reflect.DeepEqual(cmp.Notices, wantNotices) {
		t.Errorf("Notices = %+v", cmp.Notices)
	}
}

func TestRunTickerNotFoundUsesUpperCasedName(t *testing.T) {
	p, prices := newTestPipeline(1)
	cmp, err := p.Run(context.Background(), Request{Names: []string{"Acme corp"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	prof := cmp.Profiles[0]
	if prof.Ticker != "ACME CORP" || prof.TickerResolved {
		t.Errorf("ticker = %q resolved=%v, want ACME CORP unresolved", prof.Ticker, prof.TickerResolved)
	}
	if len(prices.asked) != 1 || prices.asked[0] != "ACME CORP" {
		t.Errorf("prices asked for %v", prices.asked)
	}

	want := []models.Notice{
		{Level: models.NoticeWarning, Company: "Acme corp", Message: "Could not find ticker for Acme corp"},
		{Level: models.NoticeWarning, Company: "Acme corp", Message: "No recent news found for Acme corp"},
		{Level: models.NoticeWarning, Company: "Acme corp", Message: "No price data found for ACME CORP"},
	}
	if !reflect.DeepEqual(cmp.Notices, want) {
		t.Errorf("Notices = %+v", cmp.Notices)
	}
	if cmp.Recommendation != sentiment.NoRecommendation {
		t.Errorf("Recommendation = %q", cmp.Recommendation)
	}
	if prof.Score.Note != sentiment.NoNewsNote || prof.Sentiment != sentiment.LabelNoNews {
		t.Errorf("score = %+v sentiment = %q", prof.Score, prof.Sentiment)
	}
}

func TestRunLookupErrorAddsErrorNotice(t *testing.T) {
	p, _ := newTestPipeline(1)
	cmp, err := p.Run(context.Background(), Request{Names: []string{"Broken"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if cmp.Notices[0].Level != models.NoticeError || !strings.HasPrefix(cmp.Notices[0].Message, "Error fetching ticker for Broken: ") {
		t.Errorf("notice[0] = %+v", cmp.Notices[0])
	}
	if cmp.Notices[1].Level != models.NoticeWarning || cmp.Notices[1].Message != "Could not find ticker for Broken" {
		t.Errorf("notice[1] = %+v", cmp.Notices[1])
	}
}

func TestRunNewsAndPriceErrorsBecomeNotices(t *testing.T) {
	p, _ := newTestPipeline(1)
	cmp, err := p.Run(context.Background(), Request{Names: []string{"Wipro"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	var msgs []string
	for _, n := range cmp.Notices {
		msgs = append(msgs, string(n.Level)+": "+n.Message)
	}
	want := []string{
		"error: Failed to fetch news for Wipro: newsdata: missing API key",
		"warning: No recent news found for Wipro",
		"warning: Error fetching price for WIPRO.NS: timeout",
	}
	if !reflect.DeepEqual(msgs, want) {
		t.Errorf("notices =\n%s\nwant\n%s", strings.Join(msgs, "\n"), strings.Join(want, "\n"))
	}
	prof := cmp.Profiles[0]
	if len(prof.Summaries) != 0 || !prof.Prices.Empty() || prof.Prices.Ticker != "WIPRO.NS" {
		t.Errorf("profile = %+v", prof)
	}
}

func TestRunNoPriceDataIsWarning(t *testing.T) {
	p, prices := newTestPipeline(1)
	prices.errs["INFY.NS"] = fmt.Errorf("%w: INFY.NS", datasource.ErrNoPriceData)

	cmp, err := p.Run(context.Background(), Request{Names: []string{"Infosys"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	last := cmp.Notices[len(cmp.Notices)-1]
	if last.Level != models.NoticeWarning || last.Message != "No price data found for INFY.NS" {
		t.Errorf("last notice = %+v", last)
	}
	if prof := cmp.Profiles[0]; !prof.Prices.Empty() || prof.Prices.Ticker != "INFY.NS" {
		t.Errorf("prices = %+v", prof.Prices)
	}
}

func TestRunConcurrencyDoesNotChangeOutput(t *testing.T) {
	names := []string{"Wipro", "Infosys", "Acme", "TCS"}

	seq, _ := newTestPipeline(1)
	a, err := seq.Run(context.Background(), Request{Names: names})
	if err != nil {
		t.Fatal(err)
	}
	par, _ := newTestPipeline(4)
	par.News.(*fakeNews).delay = 5 * time.Millisecond
	b, err := par.Run(context.Background(), Request{Names: names})
	if err != nil {
		t.Fatal(err)
	}

	a.RunID, b.RunID = "", ""
	if !reflect.DeepEqual(a, b) {
		t.Errorf("sequential and concurrent runs differ:\n%+v\n%+v", a, b)
	}
}

func TestRunNoticeHook(t *testing.T) {
	p, _ := newTestPipeline(4)
	var mu sync.Mutex
	var streamed []models.Notice
	cmp, err := p.Run(context.Background(), Request{Names: []string{"Acme", "Infosys"}},
		WithNoticeHook(func(n models.Notice) {
			mu.Lock()
			streamed = append(streamed, n)
			mu.Unlock()
		}))
	if err != nil {
		t.Fatal(err)
	}
	if len(streamed) != len(cmp.Notices) {
		t.Errorf("streamed %d notices, result has %d", len(streamed), len(cmp.Notices))
	}
}

func TestRunInvalidRequest(t *testing.T) {
	p, _ := newTestPipeline(1)
	if _, err := p.Run(context.Background(), Request{}); !errors.Is(err, ErrNoCompanies) {
		t.Errorf("err = %v, want ErrNoCompanies", err)
	}
	if _, err := p.Run(context.Background(), Request{Names: []string{"a", "b", "c", "d", "e"}}); !errors.Is(err, ErrTooManyCompanies) {
		t.Errorf("err = %v, want ErrTooManyCompanies", err)
	}
}

func TestRunCancelled(t *testing.T) {
	p, _ := newTestPipeline(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx, Request{Names: []string{"Infosys"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunDuplicateNamesStayDistinct(t *testing.T) {
	p, _ := newTestPipeline(2)
	cmp, err := p.Run(context.Background(), Request{Names: []string{"TCS", "TCS"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(cmp.Profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(cmp.Profiles))
	}
}

// ── FromConfig ──

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		News:       config.NewsConfig{Provider: "rss", RSSURL: "https://example.com/rss?q=%s"},
		Lookup:     config.LookupConfig{BaseURL: "https://finance.yahoo.com", TimeoutSec: 10},
		Prices:     config.PricesConfig{Provider: "financego", Days: 7},
		Summarizer: config.SummarizerConfig{Strategy: "heuristic"},
		LLM:        config.LLMConfig{Provider: "openai"},
		Compare:    config.CompareConfig{Concurrency: 2},
	}
	p, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig error: %v", err)
	}
	if p.News.Name() != "RSS" || p.Prices.Name() != "finance-go" || p.Concurrency != 2 {
		t.Errorf("unexpected pipeline: news=%s prices=%s concurrency=%d", p.News.Name(), p.Prices.Name(), p.Concurrency)
	}
	if _, ok := p.Summarizer.(summarizer.Heuristic); !ok {
		t.Errorf("summarizer = %T", p.Summarizer)
	}

	cfg.Summarizer.Strategy = "llm"
	if _, err := FromConfig(cfg); err == nil {
		t.Error("llm strategy without a key should fail")
	}
}
