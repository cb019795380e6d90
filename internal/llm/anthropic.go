package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-haiku-4-5"

const anthropicMaxTokens = 256

// Anthropic generates text with the Messages API.
type Anthropic struct {
	client  anthropic.Client
	model   string
	baseURL string
	timeout time.Duration
	retries int
}

// AnthropicOption configures the Anthropic provider.
type AnthropicOption func(*Anthropic)

// WithAnthropicBaseURL sets a custom base URL.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(p *Anthropic) { p.baseURL = strings.TrimRight(url, "/") + "/" }
}

// WithAnthropicModel sets the model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(p *Anthropic) { p.model = model }
}

// WithAnthropicTimeout bounds each request.
func WithAnthropicTimeout(d time.Duration) AnthropicOption {
	return func(p *Anthropic) { p.timeout = d }
}

// WithAnthropicMaxRetries sets how often the SDK retries a failed request.
func WithAnthropicMaxRetries(n int) AnthropicOption {
	return func(p *Anthropic) { p.retries = n }
}

// NewAnthropic creates an Anthropic text generator.
func NewAnthropic(apiKey string, opts ...AnthropicOption) (*Anthropic, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	p := &Anthropic{model: DefaultAnthropicModel, timeout: 60 * time.Second, retries: 2}
	for _, o := range opts {
		o(p)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(p.timeout),
		option.WithMaxRetries(p.retries),
	}
	if p.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(p.baseURL))
	}
	p.client = anthropic.NewClient(reqOpts...)
	return p, nil
}

// Name returns the provider name.
func (p *Anthropic) Name() string { return ProviderAnthropic }

// Model returns the configured model.
func (p *Anthropic) Model() string { return p.model }

// Generate sends prompt as a single user message and joins the text blocks of the reply.
func (p *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return text, nil
}
