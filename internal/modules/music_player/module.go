package music_player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/pinkbean/internal/bot"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/presentation/discord"
)

// resolveInterval spaces the stream resolution attempts of one song.
const resolveInterval = 500 * time.Millisecond

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var (
	_ bot.ConfigurableModule = (*MusicPlayerModule)(nil)
	_ bot.ReadyModule        = (*MusicPlayerModule)(nil)
)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	eventHandlers   *discord.EventHandlers
	maintenance     *usecases.MaintenanceService

	lavalinkAdapter *infrastructure.LavalinkAdapter
	nativePlayer    *infrastructure.NativePlayer

	// Event-driven components
	eventBus            *infrastructure.ChannelEventBus
	playbackHandler     *application.PlaybackEventHandler
	notificationHandler *application.NotificationEventHandler

	// Context for background work
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the chat commands for this module.
func (m *MusicPlayerModule) Commands() []*bot.Command {
	if m.commandHandlers == nil {
		return nil
	}
	return m.commandHandlers.Commands()
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.lavalinkAdapter != nil {
				m.lavalinkAdapter.OnVoiceServerUpdate(event)
			}
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.lavalinkAdapter != nil {
				m.lavalinkAdapter.OnVoiceStateUpdate(event)
			}
			if m.eventHandlers != nil {
				m.eventHandlers.HandleVoiceStateUpdate(s, event)
			}
		},
		func(s *discordgo.Session, event *discordgo.GuildCreate) {
			if m.eventHandlers != nil {
				m.eventHandlers.HandleGuildCreate(s, event)
			}
		},
		func(s *discordgo.Session, event *discordgo.GuildDelete) {
			if m.eventHandlers != nil {
				m.eventHandlers.HandleGuildDelete(s, event)
			}
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init wires the music player. The Lavalink node is connected in Ready.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("music_player requires a discord session")
	}
	if m.config == nil {
		m.config = defaultConfig()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	var (
		player   ports.AudioPlayer
		voice    ports.VoiceConnection
		resolver ports.StreamResolver
	)
	switch m.config.Backend {
	case BackendNative:
		m.nativePlayer = infrastructure.NewNativePlayer(deps.Session, m.eventBus)
		player, voice = m.nativePlayer, m.nativePlayer
		resolver = infrastructure.NewYouTubeResolver(nil)
	default:
		m.lavalinkAdapter = infrastructure.NewLavalinkAdapter(deps.Session, m.eventBus, infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		})
		player, voice, resolver = m.lavalinkAdapter, m.lavalinkAdapter, m.lavalinkAdapter
	}
	resolver = infrastructure.NewRetryingResolver(resolver, infrastructure.DefaultResolveAttempts, resolveInterval)

	catalog, err := infrastructure.NewYouTubeCatalog(m.ctx, m.config.YouTubeAPIKey)
	if err != nil {
		return err
	}

	var snapshots ports.SnapshotStore
	if deps.Redis != nil {
		snapshots = infrastructure.NewRedisSnapshotStore(deps.Redis, m.config.SnapshotTTL)
	}

	// Create infrastructure
	repo := infrastructure.NewMemoryRepository(m.config.QueueCapacity)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session.State)
	notifier := infrastructure.NewNotifier(deps.Session)

	// Create services
	voiceChannel := usecases.NewVoiceChannelService(repo, voice, voiceState, player, m.eventBus)
	playback := usecases.NewPlaybackService(repo, player, resolver, m.eventBus)
	queue := usecases.NewQueueService(repo)
	songLoader := usecases.NewSongLoaderService(catalog)
	m.maintenance = usecases.NewMaintenanceService(repo, snapshots, voiceState, voiceChannel, m.config.IdleGrace)

	// Register application event handlers
	m.playbackHandler = application.NewPlaybackEventHandler(playback, m.eventBus)
	m.notificationHandler = application.NewNotificationEventHandler(repo, m.eventBus, notifier)
	if err := m.playbackHandler.Start(); err != nil {
		return err
	}
	if err := m.notificationHandler.Start(); err != nil {
		return err
	}

	// Create presentation handlers
	m.commandHandlers = discord.NewCommandHandlers(voiceChannel, playback, queue, songLoader)
	m.eventHandlers = discord.NewEventHandlers(voiceChannel, m.maintenance)

	slog.Info("music_player module initialized",
		"backend", m.config.Backend,
		"snapshots", snapshots != nil,
	)
	return nil
}

// Ready connects the Lavalink node and starts the housekeeping loop.
func (m *MusicPlayerModule) Ready() error {
	if m.lavalinkAdapter != nil {
		if err := m.lavalinkAdapter.Connect(m.ctx); err != nil {
			return fmt.Errorf("connect lavalink: %w", err)
		}
	}

	m.wg.Add(1)
	go m.runMaintenance(m.config.SnapshotInterval)
	return nil
}

func (m *MusicPlayerModule) runMaintenance(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			saved := m.maintenance.SnapshotAll(m.ctx)
			left := m.maintenance.DisconnectIdle(m.ctx)
			slog.Debug("music maintenance done", "snapshots", saved, "left", len(left))
		}
	}
}

// Shutdown saves the queues and releases module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Cancel context first to signal background work to stop
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()

	if m.maintenance != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		m.maintenance.SnapshotAll(ctx)
		cancel()
	}

	if m.nativePlayer != nil {
		m.nativePlayer.Close()
	}
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.playbackHandler != nil {
		m.playbackHandler.Wait()
	}
	return nil
}
