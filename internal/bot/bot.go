package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/sglre6355/pinkbean/internal/storage"
)

// Intents requested from the gateway.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsMessageContent

const redisPingTimeout = 5 * time.Second

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	config     *Config
	session    *discordgo.Session
	modules    []Module
	store      *storage.Store
	redis      *redis.Client
	guilds     *GuildRegistry
	collectors *CollectorHub
	commander  *Commander
	dispatcher *Dispatcher
	startedAt  time.Time

	// known holds the guilds announced by the Ready event, so that their
	// GuildCreate events are not logged as joins.
	mu    sync.Mutex
	known map[string]struct{}
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config) *Bot {
	return &Bot{
		config:     cfg,
		modules:    make([]Module, 0),
		collectors: NewCollectorHub(),
		commander:  NewCommander(),
		known:      make(map[string]struct{}),
	}
}

// LoadModules loads modules from the global registry.
func (b *Bot) LoadModules() {
	b.modules = Modules()
}

// Commander returns the command table.
func (b *Bot) Commander() *Commander {
	return b.commander
}

// Start initializes the bot, connects to Discord, and starts module tasks.
func (b *Bot) Start() error {
	session, err := discordgo.New("Bot " + b.config.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = Intents

	if err := b.prepare(context.Background(), session); err != nil {
		return err
	}

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	for _, mod := range b.modules {
		if rm, ok := mod.(ReadyModule); ok {
			if err := rm.Ready(); err != nil {
				return fmt.Errorf("failed to start %s module: %w", mod.Name(), err)
			}
		}
	}

	slog.Info("started bot",
		"user_id", b.session.State.User.ID,
		"username", b.session.State.User.Username,
		"commands", len(b.commander.Commands()),
	)

	return nil
}

// prepare wires everything that does not need an open gateway connection.
func (b *Bot) prepare(ctx context.Context, session *discordgo.Session) error {
	b.session = session
	b.startedAt = time.Now()

	store, err := storage.Open(ctx, b.config.DatabasePath, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	b.store = store
	b.redis = b.connectRedis(ctx)

	b.guilds = NewGuildRegistry(store, b.config.DefaultPrefix())
	b.dispatcher = NewDispatcher(b.commander, b.guilds, b.collectors)

	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	router := NewRouter(session, b.dispatcher, b.config)
	b.session.AddHandler(router.HandleMessageCreate)
	b.session.AddHandler(b.handleReady)
	b.session.AddHandler(b.handleGuildCreate)
	b.session.AddHandler(b.handleGuildDelete)

	b.registerEventHandlers()
	return nil
}

// connectRedis returns nil when no address is configured or the server
// cannot be reached.
func (b *Bot) connectRedis(ctx context.Context) *redis.Client {
	if b.config.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: b.config.RedisAddr})

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("failed to reach redis, queue snapshots disabled",
			"addr", b.config.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	slog.Info("connected to redis", "addr", b.config.RedisAddr)
	return client
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	// Shutdown modules
	for _, mod := range b.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	var errs []error
	if b.session != nil {
		errs = append(errs, b.session.Close())
	}
	if b.redis != nil {
		errs = append(errs, b.redis.Close())
	}
	if b.store != nil {
		errs = append(errs, b.store.Close())
	}
	return errors.Join(errs...)
}

// initModules loads module configuration and initializes all loaded modules.
func (b *Bot) initModules() error {
	for _, mod := range b.modules {
		if cm, ok := mod.(ConfigurableModule); ok {
			if err := cm.LoadConfig(); err != nil {
				return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
			}
		}
	}

	deps := ModuleDependencies{
		Session:    b.session,
		Config:     b.config,
		Store:      b.store,
		Redis:      b.redis,
		Guilds:     b.guilds,
		Collectors: b.collectors,
		Commander:  b.commander,
		StartedAt:  b.startedAt,
	}

	for _, mod := range b.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(b.modules))
	for i, mod := range b.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// registerCommands adds every module command to the command table.
func (b *Bot) registerCommands() error {
	for _, mod := range b.modules {
		if err := b.commander.Register(mod.Commands()...); err != nil {
			return fmt.Errorf("module %s: %w", mod.Name(), err)
		}
	}
	slog.Debug("registered commands", "count", len(b.commander.Commands()))
	return nil
}

// registerEventHandlers registers all module event handlers with the session.
func (b *Bot) registerEventHandlers() {
	for _, mod := range b.modules {
		for _, handler := range mod.EventHandlers() {
			b.session.AddHandler(handler)
		}
	}
}

func (b *Bot) handleReady(_ *discordgo.Session, e *discordgo.Ready) {
	b.mu.Lock()
	for _, g := range e.Guilds {
		b.known[g.ID] = struct{}{}
	}
	b.mu.Unlock()
}

func (b *Bot) handleGuildCreate(s *discordgo.Session, e *discordgo.GuildCreate) {
	b.mu.Lock()
	_, known := b.known[e.ID]
	b.known[e.ID] = struct{}{}
	b.mu.Unlock()
	if known {
		return
	}

	slog.Info("joined guild", "guild", e.ID, "name", e.Name, "members", e.MemberCount)
	b.logGuild(s, fmt.Sprintf("Joined **%s** (`%s`) with %d members", e.Name, e.ID, e.MemberCount))
}

func (b *Bot) handleGuildDelete(s *discordgo.Session, e *discordgo.GuildDelete) {
	if e.Unavailable {
		return
	}

	b.mu.Lock()
	delete(b.known, e.ID)
	b.mu.Unlock()

	ctx := context.Background()
	if err := b.guilds.Remove(ctx, e.ID); err != nil {
		slog.Warn("failed to remove guild prefix", "guild", e.ID, "error", err)
	}
	if err := b.store.DeleteGuild(ctx, e.ID); err != nil {
		slog.Warn("failed to remove guild records", "guild", e.ID, "error", err)
	}

	name := e.ID
	if e.BeforeDelete != nil {
		name = e.BeforeDelete.Name
	}
	slog.Info("left guild", "guild", e.ID, "name", name)
	b.logGuild(s, fmt.Sprintf("Left **%s** (`%s`)", name, e.ID))
}

// logGuild posts to the configured guild log channels.
func (b *Bot) logGuild(s *discordgo.Session, text string) {
	for _, channelID := range b.config.GuildLogChannels {
		if _, err := s.ChannelMessageSend(channelID, text); err != nil {
			slog.Warn("failed to post guild log", "channel", channelID, "error", err)
		}
	}
}
