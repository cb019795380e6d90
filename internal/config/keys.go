package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name     string       `json:"name"`
	Source   APIKeySource `json:"source"`
	IsSet    bool         `json:"is_set"`
	Required bool         `json:"required"`
	Masked   string       `json:"masked,omitempty"` // e.g., "pub...abc"
}

// CheckAPIKeys returns the status of every API key the program can use.
// The news key is always required; an LLM key is required only when the
// llm summarizer is selected with that provider.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	llmOn := cfg.Summarizer.Strategy == "llm"

	news := checkKey("News API Key", cfg.News.APIKey, EnvPrefix+"_NEWS_API_KEY", LegacyNewsKeyEnv)
	news.Required = cfg.News.Provider != "rss"

	openai := checkKey("OpenAI API Key", cfg.LLM.OpenAIKey, EnvPrefix+"_LLM_OPENAI_KEY")
	openai.Required = llmOn && cfg.LLM.Provider == "openai"

	anthropic := checkKey("Anthropic API Key", cfg.LLM.AnthropicKey, EnvPrefix+"_LLM_ANTHROPIC_KEY")
	anthropic.Required = llmOn && cfg.LLM.Provider == "anthropic"

	return []KeyStatus{news, openai, anthropic}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value string, envVars ...string) KeyStatus {
	status := KeyStatus{
		Name:   name,
		IsSet:  value != "",
		Source: KeySourceNone,
	}
	if value == "" {
		return status
	}

	status.Source = KeySourceConfig
	for _, env := range envVars {
		if os.Getenv(env) == value {
			status.Source = KeySourceEnv
			break
		}
	}
	status.Masked = maskKey(value)
	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
