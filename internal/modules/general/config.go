package general

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sglre6355/pinkbean/internal/modules/general/infrastructure"
)

// Config holds the general module configuration.
type Config struct {
	NewsFeedURL        string        `env:"NEWS_FEED_URL"`
	NewsPollInterval   time.Duration `env:"NEWS_POLL_INTERVAL"`
	TimeUpdateInterval time.Duration `env:"TIME_UPDATE_INTERVAL"`
}

func defaultConfig() *Config {
	return &Config{
		NewsFeedURL:        infrastructure.DefaultNewsURL,
		NewsPollInterval:   5 * time.Minute,
		TimeUpdateInterval: time.Minute,
	}
}

func loadConfig() (*Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.NewsPollInterval <= 0 {
		return nil, fmt.Errorf("NEWS_POLL_INTERVAL must be positive, got %s", cfg.NewsPollInterval)
	}
	if cfg.TimeUpdateInterval <= 0 {
		return nil, fmt.Errorf("TIME_UPDATE_INTERVAL must be positive, got %s", cfg.TimeUpdateInterval)
	}
	return cfg, nil
}
