// Package llm provides a minimal text-generation interface over the OpenAI
// and Anthropic SDKs, used to summarise news articles.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seenimoa/stockcompare/internal/config"
)

// Provider names for configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Common errors returned by LLM providers.
var (
	ErrNoAPIKey        = errors.New("llm: API key not configured")
	ErrEmptyResponse   = errors.New("llm: empty response")
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// TextGenerator turns a prompt into a single completion.
type TextGenerator interface {
	// Name returns the provider name, e.g. "openai".
	Name() string

	Generate(ctx context.Context, prompt string) (string, error)
}

// NewFromConfig builds the generator selected by cfg.Provider.
func NewFromConfig(cfg config.LLMConfig) (TextGenerator, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		var opts []OpenAIOption
		if cfg.BaseURL != "" {
			opts = append(opts, WithOpenAIBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithOpenAIModel(cfg.Model))
		}
		if t := cfg.Timeout(); t > 0 {
			opts = append(opts, WithOpenAITimeout(t))
		}
		return NewOpenAI(cfg.OpenAIKey, opts...)
	case ProviderAnthropic:
		var opts []AnthropicOption
		if cfg.BaseURL != "" {
			opts = append(opts, WithAnthropicBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithAnthropicModel(cfg.Model))
		}
		if t := cfg.Timeout(); t > 0 {
			opts = append(opts, WithAnthropicTimeout(t))
		}
		return NewAnthropic(cfg.AnthropicKey, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
