package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pinkbean.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_WithValidToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token-123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DiscordToken != "test-token-123" {
		t.Errorf("expected token %q, got %q", "test-token-123", cfg.DiscordToken)
	}
}

func TestLoadConfig_WithEmptyToken(t *testing.T) {
	// Clear the environment variable
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadConfig()
	if err == nil {
		t.Error("expected error for missing token, got nil")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "data/pinkbean.db", cfg.DatabasePath)
	assert.Equal(t, Prefix{Content: "!"}, cfg.DefaultPrefix())
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfig_FileThenEnvironment(t *testing.T) {
	path := writeConfigFile(t, `
log_level = "debug"
prefix_content = "pb"
prefix_space = true
developers = ["1", "2"]
redis_addr = "localhost:6379"
`)
	t.Setenv("PINKBEAN_CONFIG", path)
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, Prefix{Content: "pb", Space: true}, cfg.DefaultPrefix())
	assert.Equal(t, "pb ", cfg.DefaultPrefix().String())
	assert.Equal(t, "cache:6379", cfg.RedisAddr, "environment overrides the file")
	assert.True(t, cfg.IsDeveloper("2"))
	assert.False(t, cfg.IsDeveloper("3"))
}

func TestLoadConfig_DevelopersFromEnvironment(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("BOT_DEVELOPERS", "10,20")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20"}, cfg.Developers)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PINKBEAN_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PINKBEAN_CONFIG", writeConfigFile(t, "log_level = "))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPrefix(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PINKBEAN_CONFIG", writeConfigFile(t, `prefix_content = ""`))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warning", "WARN"},
		{" error ", "ERROR"},
		{"verbose", "INFO"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in).String())
		})
	}
}
