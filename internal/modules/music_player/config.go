package music_player

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// Playback backends.
const (
	BackendLavalink = "lavalink"
	BackendNative   = "native"
)

// Config holds the music player module configuration.
type Config struct {
	Backend          string `env:"MUSIC_BACKEND"`
	LavalinkAddress  string `env:"LAVALINK_ADDRESS"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"`
	YouTubeAPIKey    string `env:"YOUTUBE_API_KEY,notEmpty"`
	QueueCapacity    int    `env:"MUSIC_QUEUE_CAPACITY"`

	SnapshotInterval time.Duration `env:"MUSIC_SNAPSHOT_INTERVAL"`
	SnapshotTTL      time.Duration `env:"MUSIC_SNAPSHOT_TTL"`
	IdleGrace        time.Duration `env:"MUSIC_IDLE_GRACE"`
}

func defaultConfig() *Config {
	return &Config{
		Backend:          BackendLavalink,
		QueueCapacity:    domain.MaxQueueSize,
		SnapshotInterval: time.Minute,
		SnapshotTTL:      24 * time.Hour,
		IdleGrace:        time.Minute,
	}
}

// loadConfig reads the module configuration from the environment.
func loadConfig() (*Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendLavalink:
		if c.LavalinkAddress == "" || c.LavalinkPassword == "" {
			return errors.New("LAVALINK_ADDRESS and LAVALINK_PASSWORD are required for the lavalink backend")
		}
	case BackendNative:
	default:
		return fmt.Errorf("unknown MUSIC_BACKEND %q", c.Backend)
	}

	if c.QueueCapacity <= 0 {
		return fmt.Errorf("MUSIC_QUEUE_CAPACITY must be positive, got %d", c.QueueCapacity)
	}
	if c.SnapshotInterval <= 0 {
		return fmt.Errorf("MUSIC_SNAPSHOT_INTERVAL must be positive, got %s", c.SnapshotInterval)
	}
	return nil
}
