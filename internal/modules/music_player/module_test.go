package music_player

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/pinkbean/internal/bot"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "lavalink defaults",
			env: map[string]string{
				"YOUTUBE_API_KEY":   "key",
				"LAVALINK_ADDRESS":  "localhost:2333",
				"LAVALINK_PASSWORD": "secret",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendLavalink, cfg.Backend)
				assert.Equal(t, time.Minute, cfg.SnapshotInterval)
				assert.Equal(t, 24*time.Hour, cfg.SnapshotTTL)
				assert.Equal(t, time.Minute, cfg.IdleGrace)
			},
		},
		{
			name: "native backend needs no lavalink",
			env: map[string]string{
				"YOUTUBE_API_KEY":         "key",
				"MUSIC_BACKEND":           "native",
				"MUSIC_SNAPSHOT_INTERVAL": "30s",
				"MUSIC_SNAPSHOT_TTL":      "86400s",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendNative, cfg.Backend)
				assert.Equal(t, 30*time.Second, cfg.SnapshotInterval)
				assert.Equal(t, 24*time.Hour, cfg.SnapshotTTL)
			},
		},
		{
			name:    "missing api key",
			env:     map[string]string{"MUSIC_BACKEND": "native"},
			wantErr: true,
		},
		{
			name:    "lavalink without address",
			env:     map[string]string{"YOUTUBE_API_KEY": "key"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"YOUTUBE_API_KEY": "key", "MUSIC_BACKEND": "vinyl"},
			wantErr: true,
		},
		{
			name: "invalid interval",
			env: map[string]string{
				"YOUTUBE_API_KEY":         "key",
				"MUSIC_BACKEND":           "native",
				"MUSIC_SNAPSHOT_INTERVAL": "0s",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"YOUTUBE_API_KEY", "MUSIC_BACKEND", "LAVALINK_ADDRESS", "LAVALINK_PASSWORD",
				"MUSIC_SNAPSHOT_INTERVAL", "MUSIC_SNAPSHOT_TTL", "MUSIC_IDLE_GRACE",
			} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			m := &MusicPlayerModule{}
			err := m.LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, m.config)
		})
	}
}

func TestMusicPlayerModule_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	m := &MusicPlayerModule{config: defaultConfig()}
	m.config.Backend = BackendNative
	m.config.YouTubeAPIKey = "key"
	m.config.SnapshotInterval = 10 * time.Millisecond

	require.NoError(t, m.Init(bot.ModuleDependencies{Session: session, Redis: client}))

	assert.Len(t, m.Commands(), 9)
	assert.Len(t, m.EventHandlers(), 4)
	assert.NotNil(t, m.nativePlayer)
	assert.Nil(t, m.lavalinkAdapter)

	require.NoError(t, m.Ready())
	time.Sleep(30 * time.Millisecond)
	assert.NoError(t, m.Shutdown())
}

func TestMusicPlayerModule_InitRequiresSession(t *testing.T) {
	m := &MusicPlayerModule{config: defaultConfig()}
	assert.Error(t, m.Init(bot.ModuleDependencies{}))
}

func TestMusicPlayerModule_LavalinkWaitsForGateway(t *testing.T) {
	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	m := &MusicPlayerModule{config: defaultConfig()}
	m.config.YouTubeAPIKey = "key"

	require.NoError(t, m.Init(bot.ModuleDependencies{Session: session}))
	require.NotNil(t, m.lavalinkAdapter)
	assert.Nil(t, m.lavalinkAdapter.Link())

	assert.Error(t, m.Ready(), "the gateway user is unknown before the session opens")
	assert.NoError(t, m.Shutdown())
}
