// Package config handles configuration loading for stockcompare.
// It supports YAML config files, a local .env file, and environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for every environment override.
const EnvPrefix = "STOCKCOMPARE"

// LegacyNewsKeyEnv is the variable the news API key was historically read from.
const LegacyNewsKeyEnv = "NEWSDATA_API_KEY"

// Config represents the complete application configuration.
type Config struct {
	News       NewsConfig       `mapstructure:"news"       yaml:"news"`
	Lookup     LookupConfig     `mapstructure:"lookup"     yaml:"lookup"`
	Prices     PricesConfig     `mapstructure:"prices"     yaml:"prices"`
	Summarizer SummarizerConfig `mapstructure:"summarizer" yaml:"summarizer"`
	LLM        LLMConfig        `mapstructure:"llm"        yaml:"llm"`
	Compare    CompareConfig    `mapstructure:"compare"    yaml:"compare"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// NewsConfig holds news provider settings.
type NewsConfig struct {
	Provider   string `mapstructure:"provider"    yaml:"provider"` // "newsdata" or "rss"
	APIKey     string `mapstructure:"api_key"     yaml:"api_key"`
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	Language   string `mapstructure:"language"    yaml:"language"`
	RSSURL     string `mapstructure:"rss_url"     yaml:"rss_url"` // must contain one %s for the query
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	Retries    int    `mapstructure:"retries"     yaml:"retries"`
}

// Timeout returns the request timeout as a duration.
func (n NewsConfig) Timeout() time.Duration { return seconds(n.TimeoutSec) }

// LookupConfig holds ticker lookup settings.
type LookupConfig struct {
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (l LookupConfig) Timeout() time.Duration { return seconds(l.TimeoutSec) }

// PricesConfig holds price history provider settings.
type PricesConfig struct {
	Provider   string `mapstructure:"provider"    yaml:"provider"` // "yahoo" or "financego"
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	Days       int    `mapstructure:"days"        yaml:"days"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (p PricesConfig) Timeout() time.Duration { return seconds(p.TimeoutSec) }

// SummarizerConfig selects how news items are condensed.
type SummarizerConfig struct {
	Strategy string `mapstructure:"strategy" yaml:"strategy"` // "heuristic" or "llm"
}

// LLMConfig holds LLM provider configuration for the llm summarizer.
type LLMConfig struct {
	Provider     string `mapstructure:"provider"      yaml:"provider"` // "openai" or "anthropic"
	OpenAIKey    string `mapstructure:"openai_key"    yaml:"openai_key"`
	AnthropicKey string `mapstructure:"anthropic_key" yaml:"anthropic_key"`
	BaseURL      string `mapstructure:"base_url"      yaml:"base_url"`
	Model        string `mapstructure:"model"         yaml:"model"`
	TimeoutSec   int    `mapstructure:"timeout_sec"   yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (l LLMConfig) Timeout() time.Duration { return seconds(l.TimeoutSec) }

// CompareConfig holds pipeline settings.
type CompareConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns the listen address.
func (a APIConfig) Addr() string { return fmt.Sprintf("%s:%d", a.Host, a.Port) }

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockcompare/config.yaml (home directory)
//  3. /etc/stockcompare/config.yaml (system)
//
// A .env file in the working directory is loaded first if present.
// Environment variables override config file values.
// Format: STOCKCOMPARE_<SECTION>_<KEY>, e.g., STOCKCOMPARE_NEWS_API_KEY
func Load() (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockcompare"))
	v.AddConfigPath("/etc/stockcompare")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadDotEnv()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Validate rejects settings the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.News.Provider {
	case "newsdata", "rss":
	default:
		return fmt.Errorf("unknown news provider %q", c.News.Provider)
	}
	if c.News.Provider == "rss" && !strings.Contains(c.News.RSSURL, "%s") {
		return fmt.Errorf("news.rss_url must contain %%s for the query")
	}
	switch c.Prices.Provider {
	case "yahoo", "financego":
	default:
		return fmt.Errorf("unknown prices provider %q", c.Prices.Provider)
	}
	if c.Prices.Days < 1 {
		return fmt.Errorf("prices.days must be at least 1, got %d", c.Prices.Days)
	}
	switch c.Summarizer.Strategy {
	case "heuristic":
	case "llm":
		switch c.LLM.Provider {
		case "openai", "anthropic":
		default:
			return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unknown summarizer strategy %q", c.Summarizer.Strategy)
	}
	if c.Compare.Concurrency < 1 {
		return fmt.Errorf("compare.concurrency must be at least 1, got %d", c.Compare.Concurrency)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// News defaults
	v.SetDefault("news.provider", "newsdata")
	v.SetDefault("news.api_key", "")
	v.SetDefault("news.base_url", "https://newsdata.io")
	v.SetDefault("news.language", "en")
	v.SetDefault("news.rss_url", "https://news.google.com/rss/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en")
	v.SetDefault("news.timeout_sec", 15)
	v.SetDefault("news.retries", 2)

	// Ticker lookup defaults
	v.SetDefault("lookup.base_url", "https://finance.yahoo.com")
	v.SetDefault("lookup.timeout_sec", 10)

	// Price defaults
	v.SetDefault("prices.provider", "yahoo")
	v.SetDefault("prices.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("prices.days", 7)
	v.SetDefault("prices.timeout_sec", 15)

	v.SetDefault("summarizer.strategy", "heuristic")

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.openai_key", "")
	v.SetDefault("llm.anthropic_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout_sec", 60)

	v.SetDefault("compare.concurrency", 4)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if cfg.News.APIKey == "" {
		if key := os.Getenv(LegacyNewsKeyEnv); key != "" {
			cfg.News.APIKey = key
		}
	}
	if key := os.Getenv(EnvPrefix + "_NEWS_API_KEY"); key != "" {
		cfg.News.APIKey = key
	}
	if key := os.Getenv(EnvPrefix + "_LLM_OPENAI_KEY"); key != "" {
		cfg.LLM.OpenAIKey = key
	}
	if key := os.Getenv(EnvPrefix + "_LLM_ANTHROPIC_KEY"); key != "" {
		cfg.LLM.AnthropicKey = key
	}
}

// loadDotEnv loads ./.env into the process environment. A missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
