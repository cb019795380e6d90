package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates text with the Chat Completions API. Any OpenAI-compatible
// server (Ollama, vLLM, proxies) works through WithOpenAIBaseURL.
type OpenAI struct {
	client  openai.Client
	model   string
	baseURL string
	timeout time.Duration
	retries int
}

// OpenAIOption configures the OpenAI provider.
type OpenAIOption func(*OpenAI)

// WithOpenAIBaseURL sets a custom base URL (e.g., http://localhost:11434/v1/).
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(p *OpenAI) { p.baseURL = strings.TrimRight(url, "/") + "/" }
}

// WithOpenAIModel sets the model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAI) { p.model = model }
}

// WithOpenAITimeout bounds each request.
func WithOpenAITimeout(d time.Duration) OpenAIOption {
	return func(p *OpenAI) { p.timeout = d }
}

// WithOpenAIMaxRetries sets how often the SDK retries a failed request.
func WithOpenAIMaxRetries(n int) OpenAIOption {
	return func(p *OpenAI) { p.retries = n }
}

// NewOpenAI creates an OpenAI text generator.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	p := &OpenAI{model: DefaultOpenAIModel, timeout: 60 * time.Second, retries: 2}
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
	p.client = openai.NewClient(reqOpts...)
	return p, nil
}

// Name returns the provider name.
func (p *OpenAI) Name() string { return ProviderOpenAI }

// Model returns the configured model.
func (p *OpenAI) Model() string { return p.model }

// Generate sends prompt as a single user message and returns the first choice.
func (p *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return text, nil
}
