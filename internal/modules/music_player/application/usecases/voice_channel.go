package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
	// KeepChannel refuses to move the bot out of another voice channel.
	KeepChannel bool
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
	// AlreadyJoined is true when the bot was already in the user's channel.
	AlreadyJoined bool
}

// LeaveInput contains the input for the Leave use case.
type LeaveInput struct {
	GuildID snowflake.ID
}

// LeaveOutput contains the result of the Leave use case.
type LeaveOutput struct {
	VoiceChannelID snowflake.ID
}

// BotVoiceStateChangeInput contains the input for handling bot voice state changes.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID snowflake.ID // 0 means disconnected
}

// VoiceChannelService handles voice channel operations.
type VoiceChannelService struct {
	repo            domain.PlayerStateRepository
	voiceConnection ports.VoiceConnection
	voiceState      ports.VoiceStateProvider
	player          ports.AudioPlayer
	publisher       ports.EventPublisher
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(
	repo domain.PlayerStateRepository,
	voiceConnection ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	player ports.AudioPlayer,
	publisher ports.EventPublisher,
) *VoiceChannelService {
	return &VoiceChannelService{
		repo:            repo,
		voiceConnection: voiceConnection,
		voiceState:      voiceState,
		player:          player,
		publisher:       publisher,
	}
}

// Join moves the bot into the user's voice channel.
func (v *VoiceChannelService) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	voiceChannelID, err := v.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user voice channel: %w", err)
	}
	if voiceChannelID == 0 {
		return nil, ErrUserNotInVoice
	}

	state, _ := v.repo.GetOrCreate(input.GuildID)

	state.Lock()
	if input.NotificationChannelID != 0 {
		state.SetNotificationChannelID(input.NotificationChannelID)
	}
	current := state.GetVoiceChannelID()
	if current == voiceChannelID {
		state.Unlock()
		return &JoinOutput{VoiceChannelID: voiceChannelID, AlreadyJoined: true}, nil
	}
	state.Unlock()
	if current != 0 && input.KeepChannel {
		return nil, ErrInAnotherChannel
	}

	if err := v.voiceConnection.JoinChannel(ctx, input.GuildID, voiceChannelID); err != nil {
		return nil, err
	}

	state.Lock()
	state.SetVoiceChannelID(voiceChannelID)
	state.Unlock()

	return &JoinOutput{VoiceChannelID: voiceChannelID}, nil
}

// Leave ends the stream and disconnects. The queue is kept.
func (v *VoiceChannelService) Leave(ctx context.Context, input LeaveInput) (*LeaveOutput, error) {
	state := v.repo.Get(input.GuildID)
	if state == nil {
		return nil, ErrNotConnected
	}

	state.Lock()
	voiceChannelID := state.GetVoiceChannelID()
	if voiceChannelID == 0 {
		state.Unlock()
		return nil, ErrNotConnected
	}
	msg := v.detach(ctx, state)
	state.Unlock()

	v.publishFinished(input.GuildID, msg)

	if err := v.voiceConnection.LeaveChannel(ctx, input.GuildID); err != nil {
		return nil, err
	}

	return &LeaveOutput{VoiceChannelID: voiceChannelID}, nil
}

// HandleBotVoiceStateChange handles external voice state changes (bot moved or disconnected).
func (v *VoiceChannelService) HandleBotVoiceStateChange(ctx context.Context, input BotVoiceStateChangeInput) {
	state := v.repo.Get(input.GuildID)
	if state == nil {
		return
	}

	state.Lock()
	if input.NewChannelID != 0 {
		if input.NewChannelID != state.GetVoiceChannelID() {
			slog.Debug("bot moved to another voice channel", "guild", input.GuildID, "channel", input.NewChannelID)
			state.SetVoiceChannelID(input.NewChannelID)
		}
		state.Unlock()
		return
	}
	if !state.IsConnected() {
		state.Unlock()
		return
	}
	msg := v.detach(ctx, state)
	state.Unlock()

	slog.Info("bot disconnected from voice", "guild", input.GuildID)
	v.publishFinished(input.GuildID, msg)
}

// RemoveGuild drops the session of a guild the bot is no longer in.
func (v *VoiceChannelService) RemoveGuild(guildID snowflake.ID) {
	v.repo.Delete(guildID)
}

// detach stops the stream and marks the session disconnected. The caller
// must hold the state lock.
func (v *VoiceChannelService) detach(ctx context.Context, state *domain.PlayerState) *domain.NowPlayingMessage {
	hadStream := state.HasStream()
	state.Finish()
	state.Queue.ClearSuppression()
	state.SetVoiceChannelID(0)

	if hadStream {
		if err := v.player.Stop(ctx, state.GetGuildID()); err != nil {
			slog.Warn("failed to stop stream", "guild", state.GetGuildID(), "error", err)
		}
	}
	return state.ClearNowPlayingMessage()
}

func (v *VoiceChannelService) publishFinished(guildID snowflake.ID, msg *domain.NowPlayingMessage) {
	if msg == nil || v.publisher == nil {
		return
	}
	err := v.publisher.Publish(domain.PlaybackFinishedEvent{GuildID: guildID, NowPlayingMessage: msg})
	if err != nil {
		slog.Warn("failed to publish PlaybackFinishedEvent", "guild", guildID, "error", err)
	}
}
