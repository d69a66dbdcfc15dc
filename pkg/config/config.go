package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rossonews/rossonews/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen          string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout         time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		StaticDir       string        `yaml:"static_dir" json:"static_dir" jsonschema:"default=web,description=Directory with the static frontend"`
		RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval" jsonschema:"description=Periodic pipeline refresh in serve mode; 0 disables"`
	} `yaml:"server" json:"server" jsonschema:"description=Serve mode configuration"`

	Fetch struct {
		Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Per-request timeout for source fetches"`
		Attempts       int           `yaml:"attempts" json:"attempts" jsonschema:"default=2,description=Fetch attempts per source request"`
		UserAgent      string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for source requests"`
		PerSourceLimit int           `yaml:"per_source_limit" json:"per_source_limit" jsonschema:"default=20,description=Maximum records taken from one source"`
	} `yaml:"fetch" json:"fetch" jsonschema:"description=Source fetching configuration"`

	Sources struct {
		MilanNewsFeed  string `yaml:"milannews_feed" json:"milannews_feed" jsonschema:"description=milannews.it RSS feed URL"`
		FootballItalia string `yaml:"football_italia" json:"football_italia" jsonschema:"description=football-italia.net Milan listing URL"`
		SempreMilan    string `yaml:"sempremilan" json:"sempremilan" jsonschema:"description=sempremilan.com news listing URL"`
		ACMilan        string `yaml:"acmilan" json:"acmilan" jsonschema:"description=acmilan.com latest news URL"`
	} `yaml:"sources" json:"sources" jsonschema:"description=Source URLs"`

	Aggregate struct {
		MaxArticles int `yaml:"max_articles" json:"max_articles" jsonschema:"default=100,description=Maximum articles kept after sorting"`
	} `yaml:"aggregate" json:"aggregate" jsonschema:"description=Aggregation configuration"`

	Output struct {
		Path string `yaml:"path" json:"path" jsonschema:"default=data/news.json,description=Path of the output document"`
	} `yaml:"output" json:"output" jsonschema:"description=Output document configuration"`

	Pipeline struct {
		Deadline time.Duration `yaml:"deadline" json:"deadline" jsonschema:"default=60s,description=Wall-clock limit for a full run"`
	} `yaml:"pipeline" json:"pipeline" jsonschema:"description=Pipeline run configuration"`

	Translator TranslatorConfig `yaml:"translator" json:"translator" jsonschema:"description=Italian to English translation for the feed source"`
}

// TranslatorConfig holds the OpenAI-compatible translator settings
type TranslatorConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable title and summary translation"`
	Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey   string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model    string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout per translation"`
}

// defaultUserAgent mimics a desktop browser; the club site serves bots a
// stripped page
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Default returns the configuration used when no config file is given
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file, expanding environment variables
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "web"
	}

	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 10 * time.Second
	}
	if cfg.Fetch.Attempts == 0 {
		cfg.Fetch.Attempts = 2
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = defaultUserAgent
	}
	if cfg.Fetch.PerSourceLimit == 0 {
		cfg.Fetch.PerSourceLimit = 20
	}

	if cfg.Sources.MilanNewsFeed == "" {
		cfg.Sources.MilanNewsFeed = "https://www.milannews.it/rss"
	}
	if cfg.Sources.FootballItalia == "" {
		cfg.Sources.FootballItalia = "https://football-italia.net/category/teams/milan/"
	}
	if cfg.Sources.SempreMilan == "" {
		cfg.Sources.SempreMilan = "https://sempremilan.com/category/news"
	}
	if cfg.Sources.ACMilan == "" {
		cfg.Sources.ACMilan = "https://www.acmilan.com/en/news/articles/latest"
	}

	if cfg.Aggregate.MaxArticles == 0 {
		cfg.Aggregate.MaxArticles = 100
	}

	if cfg.Output.Path == "" {
		cfg.Output.Path = "data/news.json"
	}

	if cfg.Pipeline.Deadline == 0 {
		cfg.Pipeline.Deadline = 60 * time.Second
	}

	if cfg.Translator.Model == "" {
		cfg.Translator.Model = "gpt-4o-mini"
	}
	if cfg.Translator.Timeout == 0 {
		cfg.Translator.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch.timeout must be at least 1 second")
	}
	if cfg.Fetch.Attempts < 1 {
		return fmt.Errorf("fetch.attempts must be at least 1")
	}
	if cfg.Aggregate.MaxArticles < 1 {
		return fmt.Errorf("aggregate.max_articles must be at least 1")
	}
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server.timeout must be at least 1 second")
	}
	if cfg.Translator.Enabled && cfg.Translator.APIKey == "" && cfg.Translator.Endpoint == "" {
		return fmt.Errorf("translator requires api_key or endpoint when enabled")
	}
	return nil
}

// SourceURL returns the configured URL for the given source
func (c *Config) SourceURL(src domain.Source) string {
	switch src {
	case domain.SourceMilanNews:
		return c.Sources.MilanNewsFeed
	case domain.SourceFootballItalia:
		return c.Sources.FootballItalia
	case domain.SourceSempreMilan:
		return c.Sources.SempreMilan
	case domain.SourceACMilan:
		return c.Sources.ACMilan
	}
	return ""
}
