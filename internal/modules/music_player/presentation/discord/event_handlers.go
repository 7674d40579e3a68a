package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/usecases"
)

// EventHandlers handles Discord gateway events for the music player.
type EventHandlers struct {
	voiceChannel *usecases.VoiceChannelService
	maintenance  *usecases.MaintenanceService
}

// NewEventHandlers creates a new EventHandlers.
func NewEventHandlers(
	voiceChannel *usecases.VoiceChannelService,
	maintenance *usecases.MaintenanceService,
) *EventHandlers {
	return &EventHandlers{
		voiceChannel: voiceChannel,
		maintenance:  maintenance,
	}
}

// HandleVoiceStateUpdate tracks the bot being moved or disconnected.
func (h *EventHandlers) HandleVoiceStateUpdate(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
	if event.VoiceState == nil || s.State == nil || s.State.User == nil {
		return
	}
	if event.UserID != s.State.User.ID {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	var newChannelID snowflake.ID
	if event.ChannelID != "" {
		newChannelID, err = snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
	}

	h.voiceChannel.HandleBotVoiceStateChange(context.Background(), usecases.BotVoiceStateChangeInput{
		GuildID:      guildID,
		NewChannelID: newChannelID,
	})
}

// HandleGuildCreate restores the saved queue of a guild.
func (h *EventHandlers) HandleGuildCreate(_ *discordgo.Session, event *discordgo.GuildCreate) {
	if event.Guild == nil || event.Unavailable {
		return
	}
	guildID, err := snowflake.Parse(event.ID)
	if err != nil {
		slog.Error("failed to parse guild ID in guild create", "error", err)
		return
	}

	restored, err := h.maintenance.Rehydrate(context.Background(), guildID)
	if err != nil {
		slog.Warn("failed to restore queue", "guild", guildID, "error", err)
		return
	}
	if restored > 0 {
		slog.Info("restored queue", "guild", guildID, "songs", restored)
	}
}

// HandleGuildDelete drops the player of a guild the bot left.
func (h *EventHandlers) HandleGuildDelete(_ *discordgo.Session, event *discordgo.GuildDelete) {
	if event.Guild == nil || event.Unavailable {
		return
	}
	guildID, err := snowflake.Parse(event.ID)
	if err != nil {
		slog.Error("failed to parse guild ID in guild delete", "error", err)
		return
	}
	h.voiceChannel.RemoveGuild(guildID)
}
