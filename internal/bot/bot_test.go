package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/pinkbean/internal/storage"
)

func TestNewBot(t *testing.T) {
	cfg := &Config{
		DiscordToken: "test-token",
	}

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
}

func TestBot_InitModules_InitializesModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	mod := &stubModule{name: "tracking"}
	b.modules = []Module{mod}

	err := b.initModules()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mod.deps == nil {
		t.Fatal("expected Init to be called")
	}
	if mod.deps.Commander != b.commander || mod.deps.Collectors != b.collectors {
		t.Error("expected shared dependencies to be passed to the module")
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	expectedErr := errors.New("init failed")
	b.modules = []Module{&stubModule{name: "failing", initErr: expectedErr}}

	err := b.initModules()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// configurableStubModule records the order of LoadConfig and Init.
type configurableStubModule struct {
	stubModule
	configErr error
	calls     *[]string
}

func (m *configurableStubModule) LoadConfig() error {
	*m.calls = append(*m.calls, m.name+".config")
	return m.configErr
}

func (m *configurableStubModule) Init(deps ModuleDependencies) error {
	*m.calls = append(*m.calls, m.name+".init")
	return m.stubModule.Init(deps)
}

func TestBot_InitModules_LoadsConfigFirst(t *testing.T) {
	var calls []string
	b := NewBot(&Config{})
	b.modules = []Module{
		&configurableStubModule{stubModule: stubModule{name: "a"}, calls: &calls},
		&configurableStubModule{stubModule: stubModule{name: "b"}, calls: &calls},
	}

	require.NoError(t, b.initModules())
	assert.Equal(t, []string{"a.config", "b.config", "a.init", "b.init"}, calls)
}

func TestBot_InitModules_ConfigError(t *testing.T) {
	var calls []string
	configErr := errors.New("YOUTUBE_API_KEY is required")
	b := NewBot(&Config{})
	b.modules = []Module{
		&configurableStubModule{stubModule: stubModule{name: "music"}, calls: &calls, configErr: configErr},
	}

	err := b.initModules()
	assert.ErrorIs(t, err, configErr)
	assert.Equal(t, []string{"music.config"}, calls, "Init must not run after a config error")
}

func TestBot_RegisterCommands(t *testing.T) {
	b := NewBot(&Config{})
	b.modules = []Module{
		&stubModule{name: "general", commands: []*Command{newTestCommand("ping"), newTestCommand("help")}},
		&stubModule{name: "music", commands: []*Command{newTestCommand("play", "p")}},
	}

	require.NoError(t, b.registerCommands())

	_, ok := b.Commander().Lookup("p")
	assert.True(t, ok)
	assert.Len(t, b.Commander().Commands(), 3)
}

func TestBot_RegisterCommands_DuplicateFails(t *testing.T) {
	b := NewBot(&Config{})
	b.modules = []Module{
		&stubModule{name: "general", commands: []*Command{newTestCommand("ping")}},
		&stubModule{name: "other", commands: []*Command{newTestCommand("pong", "ping")}},
	}

	assert.ErrorIs(t, b.registerCommands(), ErrDuplicateCommand)
}

func TestBot_Prepare(t *testing.T) {
	cfg := &Config{
		DiscordToken:  "test-token",
		DatabasePath:  storage.MemoryPath,
		PrefixContent: "!",
	}
	b := NewBot(cfg)
	mod := &stubModule{name: "general", commands: []*Command{newTestCommand("ping")}}
	b.modules = []Module{mod}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	require.NoError(t, err)

	require.NoError(t, b.prepare(context.Background(), session))
	t.Cleanup(func() { _ = b.store.Close() })

	require.NotNil(t, mod.deps)
	assert.NotNil(t, mod.deps.Store)
	assert.Nil(t, mod.deps.Redis, "redis is disabled without an address")
	assert.Same(t, b.guilds, mod.deps.Guilds)
	_, ok := b.Commander().Lookup("ping")
	assert.True(t, ok)

	ctx := context.Background()
	require.NoError(t, b.guilds.SetPrefix(ctx, "1", Prefix{Content: "?"}))

	b.handleGuildDelete(session, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "1"}})

	stored, err := b.store.LoadPrefix(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, stored, "leaving a guild removes its prefix")
}

func TestBot_GuildDeleteIgnoresOutage(t *testing.T) {
	b := NewBot(&Config{})
	b.guilds = NewGuildRegistry(nil, Prefix{Content: "!"})
	b.guilds.Get(context.Background(), "1")

	b.handleGuildDelete(nil, &discordgo.GuildDelete{Guild: &discordgo.Guild{ID: "1", Unavailable: true}})

	assert.Equal(t, 1, b.guilds.Len())
}

func TestBot_StopShutsDownModules(t *testing.T) {
	b := NewBot(&Config{})
	failing := &stubModule{name: "failing", shutErr: errors.New("still playing")}
	b.modules = []Module{failing, &stubModule{name: "ok"}}

	assert.NoError(t, b.Stop(), "module shutdown errors are logged, not returned")
}
