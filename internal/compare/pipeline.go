package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stockcompare/internal/analysis/sentiment"
	"github.com/seenimoa/stockcompare/internal/datasource"
	"github.com/seenimoa/stockcompare/internal/summarizer"
	"github.com/seenimoa/stockcompare/pkg/models"
)

// Pipeline wires the collaborators of a comparison run.
type Pipeline struct {
	Resolver   datasource.TickerResolver
	News       datasource.NewsSource
	Prices     datasource.PriceSource
	Summarizer summarizer.Summarizer

	// Concurrency bounds how many companies are processed at once. Values
	// below 1 mean 1. Output does not depend on it.
	Concurrency int

	// Clock stamps Comparison.GeneratedAt. Defaults to time.Now.
	Clock func() time.Time
}

// RunOption customises a single Run.
type RunOption func(*runOptions)

type runOptions struct {
	onNotice func(models.Notice)
}

// WithNoticeHook streams every notice as it is produced. The hook may be
// called from several goroutines; it must be safe for concurrent use.
func WithNoticeHook(fn func(models.Notice)) RunOption {
	return func(o *runOptions) { o.onNotice = fn }
}

// Run compares the requested companies. Per-company failures become notices
// and empty results; an error is returned only for an invalid request or a
// cancelled context.
func (p *Pipeline) Run(ctx context.Context, req Request, opts ...RunOption) (*models.Comparison, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	runID := uuid.NewString()
	log := slog.With("run_id", runID)
	log.Info("comparison started", "companies", strings.Join(req.Names, ", "))

	profiles := make([]models.CompanyProfile, len(req.Names))
	notices := make([][]models.Notice, len(req.Names))

	limit := p.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range req.Names {
		g.Go(func() error {
			w := &worker{p: p, log: log.With("company", name), hook: o.onNotice}
			profiles[i] = w.profile(gctx, name)
			notices[i] = w.notices
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("comparison cancelled: %w", err)
	}

	for i := range profiles {
		profiles[i].Score = sentiment.ScoreSummaries(profiles[i].Summaries)
		profiles[i].Sentiment = sentiment.Label(profiles[i].Summaries)
	}

	cmp := &models.Comparison{
		RunID:          runID,
		Profiles:       profiles,
		Recommendation: sentiment.Recommend(profiles),
		GeneratedAt:    p.now(),
	}
	for _, ns := range notices {
		cmp.Notices = append(cmp.Notices, ns...)
	}
	if cmp.Notices == nil {
		cmp.Notices = []models.Notice{}
	}

	log.Info("comparison finished", "notices", len(cmp.Notices))
	return cmp, nil
}

func (p *Pipeline) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}

// worker builds one profile. It owns its notice slice, so no locking is needed.
type worker struct {
	p       *Pipeline
	log     *slog.Logger
	hook    func(models.Notice)
	notices []models.Notice
}

func (w *worker) notify(level models.NoticeLevel, company, format string, args ...any) {
	n := models.Notice{Level: level, Company: company, Message: fmt.Sprintf(format, args...)}
	w.notices = append(w.notices, n)
	if w.hook != nil {
		w.hook(n)
	}
}

func (w *worker) profile(ctx context.Context, name string) models.CompanyProfile {
	prof := models.CompanyProfile{Name: name}

	ticker, err := w.p.Resolver.Resolve(ctx, name)
	if err != nil || ticker == "" {
		ticker = FallbackTicker(name)
		if err != nil && !errors.Is(err, datasource.ErrTickerNotFound) {
			w.notify(models.NoticeError, name, "Error fetching ticker for %s: %v", name, err)
		}
		w.notify(models.NoticeWarning, name, "Could not find ticker for %s", name)
		w.log.Warn("ticker lookup failed", "fallback", ticker, "err", err)
	} else {
		prof.TickerResolved = true
	}
	prof.Ticker = ticker

	items, err := w.p.News.FetchNews(ctx, name)
	if err != nil {
		w.notify(models.NoticeError, name, "Failed to fetch news for %s: %v", name, err)
		w.log.Warn("news fetch failed", "source", w.p.News.Name(), "err", err)
		items = nil
	}
	if len(items) == 0 {
		w.notify(models.NoticeWarning, name, "No recent news found for %s", name)
	} else {
		w.notify(models.NoticeSuccess, name, "Fetched %d articles for %s", len(items), name)
	}
	prof.Summaries = w.p.Summarizer.Summarize(ctx, items)
	if prof.Summaries == nil {
		prof.Summaries = []models.Summary{}
	}

	series, err := w.p.Prices.FetchCloses(ctx, ticker)
	switch {
	case errors.Is(err, datasource.ErrNoPriceData):
		w.notify(models.NoticeWarning, name, "No price data found for %s", ticker)
		series = models.PriceSeries{Ticker: ticker}
	case err != nil:
		w.notify(models.NoticeWarning, name, "Error fetching price for %s: %v", ticker, err)
		w.log.Warn("price fetch failed", "ticker", ticker, "source", w.p.Prices.Name(), "err", err)
		series = models.PriceSeries{Ticker: ticker}
	case series.Empty():
		w.notify(models.NoticeWarning, name, "No price data found for %s", ticker)
	}
	if series.Ticker == "" {
		series.Ticker = ticker
	}
	if series.Points == nil {
		series.Points = []models.PricePoint{}
	}
	prof.Prices = series

	return prof
}
