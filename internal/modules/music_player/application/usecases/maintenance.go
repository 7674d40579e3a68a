package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// MaintenanceService runs the periodic music housekeeping: queue snapshots
// and disconnecting from empty voice channels.
type MaintenanceService struct {
	repo       domain.PlayerStateRepository
	snapshots  ports.SnapshotStore // nil disables snapshots
	voiceState ports.VoiceStateProvider
	voice      *VoiceChannelService
	idleGrace  time.Duration
	now        func() time.Time

	mu        sync.Mutex
	idleSince map[snowflake.ID]time.Time
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(
	repo domain.PlayerStateRepository,
	snapshots ports.SnapshotStore,
	voiceState ports.VoiceStateProvider,
	voice *VoiceChannelService,
	idleGrace time.Duration,
) *MaintenanceService {
	return &MaintenanceService{
		repo:       repo,
		snapshots:  snapshots,
		voiceState: voiceState,
		voice:      voice,
		idleGrace:  idleGrace,
		now:        time.Now,
		idleSince:  make(map[snowflake.ID]time.Time),
	}
}

// SnapshotAll saves the queue of every guild. It returns how many were saved.
func (m *MaintenanceService) SnapshotAll(ctx context.Context) int {
	if m.snapshots == nil {
		return 0
	}

	saved := 0
	for _, state := range m.repo.All() {
		state.Lock()
		songs := state.Queue.Snapshot()
		state.Unlock()

		if err := m.snapshots.Save(ctx, state.GetGuildID(), songs); err != nil {
			slog.Warn("failed to save queue snapshot", "guild", state.GetGuildID(), "error", err)
			continue
		}
		saved++
	}
	return saved
}

// Rehydrate fills an empty guild queue from its snapshot and returns how
// many songs were restored.
func (m *MaintenanceService) Rehydrate(ctx context.Context, guildID snowflake.ID) (int, error) {
	if m.snapshots == nil {
		return 0, nil
	}

	songs, err := m.snapshots.Load(ctx, guildID)
	if err != nil {
		return 0, err
	}
	if len(songs) == 0 {
		return 0, nil
	}

	state, _ := m.repo.GetOrCreate(guildID)
	state.Lock()
	defer state.Unlock()

	if !state.Queue.IsEmpty() {
		return 0, nil
	}
	return state.Queue.Restore(songs), nil
}

// DisconnectIdle leaves voice channels that have had no listeners for at
// least the idle grace period. It returns the guilds that were left.
func (m *MaintenanceService) DisconnectIdle(ctx context.Context) []snowflake.ID {
	now := m.now()
	var left []snowflake.ID

	m.mu.Lock()
	defer m.mu.Unlock()

	connected := make(map[snowflake.ID]bool)
	for _, state := range m.repo.All() {
		state.Lock()
		voiceChannelID := state.GetVoiceChannelID()
		state.Unlock()
		if voiceChannelID == 0 {
			continue
		}

		guildID := state.GetGuildID()
		connected[guildID] = true

		listeners, err := m.voiceState.CountListeners(guildID, voiceChannelID)
		if err != nil {
			slog.Warn("failed to count voice listeners", "guild", guildID, "error", err)
			continue
		}
		if listeners > 0 {
			delete(m.idleSince, guildID)
			continue
		}

		since, seen := m.idleSince[guildID]
		if !seen {
			m.idleSince[guildID] = now
			continue
		}
		if now.Sub(since) < m.idleGrace {
			continue
		}

		delete(m.idleSince, guildID)
		if _, err := m.voice.Leave(ctx, LeaveInput{GuildID: guildID}); err != nil {
			slog.Warn("failed to leave idle voice channel", "guild", guildID, "error", err)
			continue
		}
		slog.Info("left idle voice channel", "guild", guildID, "channel", voiceChannelID)
		left = append(left, guildID)
	}

	for guildID := range m.idleSince {
		if !connected[guildID] {
			delete(m.idleSince, guildID)
		}
	}

	return left
}
