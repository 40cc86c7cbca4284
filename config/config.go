package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hn-sort-checker/fetcher"
)

// Defaults
const (
	DefaultArticleCount  = 100
	DefaultFetcher       = fetcher.KindRod
	DefaultSettleTimeout = 30 * time.Second
)

// Config holds the run configuration
type Config struct {
	// ArticleCount is how many of the newest articles must be collected and checked
	ArticleCount int `yaml:"article_count"`
	// Fetcher selects the browsing implementation: rod or colly
	Fetcher string `yaml:"fetcher"`
	// SettleTimeout bounds a single page load or settle wait
	SettleTimeout time.Duration `yaml:"settle_timeout"`
}

// LoadConfig loads configuration from a YAML file.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	return &Config{
		ArticleCount:  DefaultArticleCount,
		Fetcher:       DefaultFetcher,
		SettleTimeout: DefaultSettleTimeout,
	}
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if c.ArticleCount <= 0 {
		return fmt.Errorf("article count must be positive, got %d", c.ArticleCount)
	}
	switch c.Fetcher {
	case fetcher.KindRod, fetcher.KindColly:
	default:
		return fmt.Errorf("unknown fetcher %q (want %s or %s)", c.Fetcher, fetcher.KindRod, fetcher.KindColly)
	}
	if c.SettleTimeout <= 0 {
		return fmt.Errorf("settle timeout must be positive, got %s", c.SettleTimeout)
	}
	return nil
}
