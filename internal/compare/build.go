package compare

import (
	"fmt"

	"github.com/seenimoa/stockcompare/internal/config"
	"github.com/seenimoa/stockcompare/internal/datasource"
	"github.com/seenimoa/stockcompare/internal/llm"
	"github.com/seenimoa/stockcompare/internal/summarizer"
)

// FromConfig builds a pipeline backed by the configured providers.
func FromConfig(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var news datasource.NewsSource
	switch cfg.News.Provider {
	case "rss":
		news = datasource.NewRSSNews(cfg.News.RSSURL, cfg.News.Timeout(), nil)
	default:
		news = datasource.NewNewsData(datasource.NewsDataConfig{
			BaseURL:  cfg.News.BaseURL,
			APIKey:   cfg.News.APIKey,
			Language: cfg.News.Language,
			Timeout:  cfg.News.Timeout(),
			Retries:  cfg.News.Retries,
		})
	}

	var prices datasource.PriceSource
	switch cfg.Prices.Provider {
	case "financego":
		prices = datasource.NewFinanceGo(cfg.Prices.Days, nil)
	default:
		prices = datasource.NewYFinance(cfg.Prices.BaseURL, cfg.Prices.Days, cfg.Prices.Timeout(), nil)
	}

	var gen llm.TextGenerator
	if cfg.Summarizer.Strategy == summarizer.StrategyLLM {
		g, err := llm.NewFromConfig(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("llm summarizer: %w", err)
		}
		gen = g
	}

	return &Pipeline{
		Resolver:    datasource.NewYahooLookup(cfg.Lookup.BaseURL, cfg.Lookup.Timeout()),
		News:        news,
		Prices:      prices,
		Summarizer:  summarizer.New(cfg.Summarizer.Strategy, gen),
		Concurrency: cfg.Compare.Concurrency,
	}, nil
}
