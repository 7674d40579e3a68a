package general

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/pinkbean/internal/bot"
	"github.com/sglre6355/pinkbean/internal/modules/general/application"
	"github.com/sglre6355/pinkbean/internal/modules/general/infrastructure"
	"github.com/sglre6355/pinkbean/internal/modules/general/presentation"
	"github.com/sglre6355/pinkbean/internal/storage"
)

// Version is reported by the about command.
var Version = "dev"

func init() {
	bot.Register(&GeneralModule{})
}

var (
	_ bot.ConfigurableModule = (*GeneralModule)(nil)
	_ bot.ReadyModule        = (*GeneralModule)(nil)
)

// GeneralModule provides the informational commands, the guild prefix and
// the news and time subscriptions.
type GeneralModule struct {
	config    *Config
	handlers  *presentation.Handlers
	scheduler *application.Scheduler
	store     *storage.Store

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Name returns the module name.
func (m *GeneralModule) Name() string {
	return "general"
}

// Commands returns the chat commands for this module.
func (m *GeneralModule) Commands() []*bot.Command {
	if m.handlers == nil {
		return nil
	}
	return m.handlers.Commands()
}

// EventHandlers returns the event handlers for this module.
func (m *GeneralModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.handleChannelDelete,
	}
}

func (m *GeneralModule) handleChannelDelete(_ *discordgo.Session, e *discordgo.ChannelDelete) {
	if m.store == nil {
		return
	}
	if err := m.store.DeleteChannel(context.Background(), e.ID); err != nil {
		slog.Warn("failed to remove channel subscriptions", "channel", e.ID, "error", err)
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *GeneralModule) LoadConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *GeneralModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil || deps.Store == nil || deps.Guilds == nil || deps.Commander == nil {
		return errors.New("general requires a session, a store, the guild registry and the commander")
	}
	if m.config == nil {
		m.config = defaultConfig()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.store = deps.Store

	scraper, err := infrastructure.NewNewsScraper(m.config.NewsFeedURL, nil)
	if err != nil {
		return err
	}
	announcer := infrastructure.NewAnnouncer(deps.Session)

	ping := application.NewPingInteractor(deps.StartedAt, deps.Session.HeartbeatLatency)
	news := application.NewNewsInteractor(scraper)
	subscriptions := application.NewSubscriptionInteractor(deps.Store, announcer)
	m.scheduler = application.NewScheduler(subscriptions, news, m.config.TimeUpdateInterval, m.config.NewsPollInterval)

	var developers []string
	if deps.Config != nil {
		developers = deps.Config.Developers
	}
	m.handlers = presentation.NewHandlers(deps.Commander, deps.Guilds, developers, Version, ping, news, subscriptions)

	slog.Info("general module initialized",
		"news", m.config.NewsFeedURL,
		"news_interval", m.config.NewsPollInterval,
		"time_interval", m.config.TimeUpdateInterval,
	)
	return nil
}

// Ready starts the subscription scheduler.
func (m *GeneralModule) Ready() error {
	if m.scheduler == nil {
		return errors.New("general module is not initialized")
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.scheduler.Run(m.ctx)
	}()
	return nil
}

// Shutdown stops the scheduler.
func (m *GeneralModule) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		slog.Warn("general module scheduler did not stop in time")
	}
	return nil
}
