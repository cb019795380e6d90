// Package summarizer condenses fetched news items into one-line summaries.
package summarizer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/seenimoa/stockcompare/internal/llm"
	"github.com/seenimoa/stockcompare/pkg/models"
)

// Strategy names accepted in configuration.
const (
	StrategyHeuristic = "heuristic"
	StrategyLLM       = "llm"
)

// Summarizer returns one summary per item, in input order.
type Summarizer interface {
	Summarize(ctx context.Context, items []models.NewsItem) []models.Summary
}

// Heuristic keeps the first two non-empty lines of each item's content.
type Heuristic struct{}

// Summarize implements Summarizer.
func (Heuristic) Summarize(_ context.Context, items []models.NewsItem) []models.Summary {
	out := make([]models.Summary, len(items))
	for i, it := range items {
		out[i] = models.Summary{Text: FirstLines(it.Content), SourceURL: it.SourceURL}
	}
	return out
}

// FirstLines joins the first two non-empty trimmed lines of content with a space.
func FirstLines(content string) string {
	lines := make([]string, 0, 2)
	for _, l := range strings.Split(content, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
		if len(lines) == 2 {
			break
		}
	}
	return strings.Join(lines, " ")
}

// Prompt is the instruction sent for each article.
const Prompt = "Summarize this news article in 1-2 sentences:\n"

// LLM asks a text generator for each summary. When generation fails for an
// item, that item falls back to the heuristic text.
type LLM struct {
	gen llm.TextGenerator
}

// NewLLM creates an LLM summarizer.
func NewLLM(gen llm.TextGenerator) *LLM {
	return &LLM{gen: gen}
}

// Summarize implements Summarizer.
func (s *LLM) Summarize(ctx context.Context, items []models.NewsItem) []models.Summary {
	out := make([]models.Summary, len(items))
	for i, it := range items {
		text, err := s.gen.Generate(ctx, Prompt+it.Content)
		if err != nil {
			slog.Warn("llm summary failed, using heuristic", "provider", s.gen.Name(), "source", it.SourceURL, "err", err)
			text = FirstLines(it.Content)
		}
		out[i] = models.Summary{Text: text, SourceURL: it.SourceURL}
	}
	return out
}

// New returns the summarizer for strategy. gen may be nil for the heuristic strategy.
func New(strategy string, gen llm.TextGenerator) Summarizer {
	if strategy == StrategyLLM && gen != nil {
		return NewLLM(gen)
	}
	return Heuristic{}
}
