package bot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is the settings file read when PINKBEAN_CONFIG is unset.
const DefaultConfigFile = "pinkbean.toml"

// Config holds the bot configuration. Values come from the settings file and
// are overridden by environment variables.
type Config struct {
	DiscordToken string `toml:"-" env:"DISCORD_TOKEN,notEmpty"`
	LogLevel     string `toml:"log_level" env:"LOG_LEVEL"`
	DatabasePath string `toml:"database_path" env:"DATABASE_PATH"`
	// RedisAddr enables the queue snapshot cache when set.
	RedisAddr        string   `toml:"redis_addr" env:"REDIS_ADDR"`
	PrefixContent    string   `toml:"prefix_content" env:"PREFIX_CONTENT"`
	PrefixSpace      bool     `toml:"prefix_space" env:"PREFIX_SPACE"`
	Developers       []string `toml:"developers" env:"BOT_DEVELOPERS"`
	GuildLogChannels []string `toml:"guild_log_channels" env:"GUILD_LOG_CHANNELS"`
}

// DefaultPrefix returns the prefix of guilds that never changed theirs.
func (c *Config) DefaultPrefix() Prefix {
	return Prefix{Content: c.PrefixContent, Space: c.PrefixSpace}
}

// IsDeveloper reports whether userID is listed in Developers.
func (c *Config) IsDeveloper(userID string) bool {
	for _, id := range c.Developers {
		if id == userID {
			return true
		}
	}
	return false
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DatabasePath:  "data/pinkbean.db",
		PrefixContent: "!",
	}
}

// LoadEnvFile loads a .env file into the environment if one exists.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadConfig loads the configuration. It reads the settings file named by
// PINKBEAN_CONFIG (an absent default file is not an error), then applies
// environment variables. Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	path, explicit := os.LookupEnv("PINKBEAN_CONFIG")
	if !explicit {
		path = DefaultConfigFile
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.PrefixContent == "" {
		return nil, errors.New("prefix content cannot be empty")
	}

	return cfg, nil
}
