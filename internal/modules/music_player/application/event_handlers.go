package application

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// QueueEmptyMessage is sent when playback runs past the last song.
const QueueEmptyMessage = "Queue is empty"

// PlaybackEventHandler advances playback when an audio backend reports the
// end of a stream. Each guild advances on its own worker, so a slow stream
// resolution in one guild never holds up another.
type PlaybackEventHandler struct {
	playback   *usecases.PlaybackService
	subscriber ports.EventSubscriber
	workers    *guildWorkers
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	playback *usecases.PlaybackService,
	subscriber ports.EventSubscriber,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		playback:   playback,
		subscriber: subscriber,
		workers:    newGuildWorkers(),
	}
}

// Start registers event handlers with the subscriber.
func (h *PlaybackEventHandler) Start() error {
	err := h.subscriber.Subscribe(
		reflect.TypeFor[domain.StreamEndedEvent](),
		func(ctx context.Context, e domain.Event) {
			event := e.(domain.StreamEndedEvent)
			h.workers.Submit(event.GuildID, func() {
				h.playback.HandleStreamEnded(ctx, event)
			})
		},
	)
	if err != nil {
		return err
	}

	slog.Debug("playback event handlers properly registered")

	return nil
}

// Wait blocks until every stream end handed to the handler is processed.
func (h *PlaybackEventHandler) Wait() {
	h.workers.Wait()
}

// NotificationEventHandler keeps the text channel informed about playback.
type NotificationEventHandler struct {
	playerStates domain.PlayerStateRepository
	subscriber   ports.EventSubscriber
	notifier     ports.NotificationSender
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
func NewNotificationEventHandler(
	playerStates domain.PlayerStateRepository,
	subscriber ports.EventSubscriber,
	notifier ports.NotificationSender,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		playerStates: playerStates,
		subscriber:   subscriber,
		notifier:     notifier,
	}
}

// Start registers event handlers with the subscriber.
func (h *NotificationEventHandler) Start() error {
	subscriptions := []struct {
		eventType reflect.Type
		handler   func(context.Context, domain.Event)
	}{
		{
			eventType: reflect.TypeFor[domain.PlaybackStartedEvent](),
			handler: func(_ context.Context, e domain.Event) {
				h.handlePlaybackStarted(e.(domain.PlaybackStartedEvent))
			},
		},
		{
			eventType: reflect.TypeFor[domain.PlaybackFinishedEvent](),
			handler: func(_ context.Context, e domain.Event) {
				h.handlePlaybackFinished(e.(domain.PlaybackFinishedEvent))
			},
		},
		{
			eventType: reflect.TypeFor[domain.PlaybackFailedEvent](),
			handler: func(_ context.Context, e domain.Event) {
				h.handlePlaybackFailed(e.(domain.PlaybackFailedEvent))
			},
		},
		{
			eventType: reflect.TypeFor[domain.QueueExhaustedEvent](),
			handler: func(_ context.Context, e domain.Event) {
				h.handleQueueExhausted(e.(domain.QueueExhaustedEvent))
			},
		},
	}

	for _, s := range subscriptions {
		if err := h.subscriber.Subscribe(s.eventType, s.handler); err != nil {
			return err
		}
	}

	slog.Debug("notification event handlers properly registered")

	return nil
}

func (h *NotificationEventHandler) handlePlaybackStarted(event domain.PlaybackStartedEvent) {
	if event.NotificationChannelID == 0 {
		return
	}

	messageID, err := h.notifier.SendNowPlaying(event.NotificationChannelID, event.Song)
	if err != nil {
		slog.Error(
			"failed to send now playing notification",
			"guild", event.GuildID,
			"song", event.Song.ID,
			"error", err,
		)
		return
	}

	state := h.playerStates.Get(event.GuildID)
	if state == nil {
		h.deleteMessage(event.GuildID, event.NotificationChannelID, messageID)
		return
	}

	state.Lock()
	// The song may have ended while the message was being sent.
	stillPlaying := state.HasStream() && state.IsCurrent(event.Song)
	var previous *domain.NowPlayingMessage
	if stillPlaying {
		previous = state.ClearNowPlayingMessage()
		state.SetNowPlayingMessage(event.NotificationChannelID, messageID)
	}
	state.Unlock()

	if !stillPlaying {
		slog.Debug("song ended before its notification was stored", "guild", event.GuildID, "song", event.Song.ID)
		h.deleteMessage(event.GuildID, event.NotificationChannelID, messageID)
		return
	}
	if previous != nil {
		h.deleteMessage(event.GuildID, previous.ChannelID, previous.MessageID)
	}
}

func (h *NotificationEventHandler) handlePlaybackFinished(event domain.PlaybackFinishedEvent) {
	if event.NowPlayingMessage == nil {
		return
	}
	h.deleteMessage(event.GuildID, event.NowPlayingMessage.ChannelID, event.NowPlayingMessage.MessageID)
}

func (h *NotificationEventHandler) handlePlaybackFailed(event domain.PlaybackFailedEvent) {
	if event.NotificationChannelID == 0 {
		return
	}
	if err := h.notifier.SendPlaybackFailed(event.NotificationChannelID, event.Song); err != nil {
		slog.Warn(
			"failed to send playback failure notification",
			"guild", event.GuildID,
			"song", event.Song.ID,
			"error", err,
		)
	}
}

func (h *NotificationEventHandler) handleQueueExhausted(event domain.QueueExhaustedEvent) {
	if event.NotificationChannelID == 0 {
		return
	}
	if err := h.notifier.SendInfo(event.NotificationChannelID, QueueEmptyMessage); err != nil {
		slog.Warn("failed to send queue empty notification", "guild", event.GuildID, "error", err)
	}
}

func (h *NotificationEventHandler) deleteMessage(guildID, channelID, messageID snowflake.ID) {
	if err := h.notifier.DeleteMessage(channelID, messageID); err != nil {
		slog.Warn(
			"failed to delete now playing message",
			"guild", guildID,
			"channel", channelID,
			"message", messageID,
			"error", err,
		)
	}
}
