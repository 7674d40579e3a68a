package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// Event is a domain event delivered through the event bus.
type Event interface {
	isEvent()
}

// StreamEndReason represents why a stream ended.
type StreamEndReason string

const (
	// StreamEndFinished means the stream played to the end.
	StreamEndFinished StreamEndReason = "finished"
	// StreamEndLoadFailed means the backend failed to load or encode the stream.
	StreamEndLoadFailed StreamEndReason = "load_failed"
	// StreamEndStopped means the stream was ended on request, e.g. by skip.
	StreamEndStopped StreamEndReason = "stopped"
	// StreamEndReplaced means another stream took its place.
	StreamEndReplaced StreamEndReason = "replaced"
	// StreamEndCleanup means the backend dropped the player.
	StreamEndCleanup StreamEndReason = "cleanup"
)

// ShouldAdvanceQueue returns true if this end reason should advance the queue.
func (r StreamEndReason) ShouldAdvanceQueue() bool {
	return r == StreamEndFinished || r == StreamEndLoadFailed || r == StreamEndStopped
}

// StreamEndedEvent is published by an audio backend when a stream ends.
type StreamEndedEvent struct {
	GuildID snowflake.ID
	Reason  StreamEndReason
}

func (StreamEndedEvent) isEvent() {}

// PlaybackStartedEvent is published when a song starts playing.
type PlaybackStartedEvent struct {
	GuildID               snowflake.ID
	Song                  *Song
	NotificationChannelID snowflake.ID
}

func (PlaybackStartedEvent) isEvent() {}

// PlaybackFinishedEvent is published when a song stops playing.
// It signals that the "Now playing" message should be deleted.
type PlaybackFinishedEvent struct {
	GuildID           snowflake.ID
	NowPlayingMessage *NowPlayingMessage
}

func (PlaybackFinishedEvent) isEvent() {}

// PlaybackFailedEvent is published when a song could not be streamed and
// was dropped from the queue.
type PlaybackFailedEvent struct {
	GuildID               snowflake.ID
	Song                  *Song
	NotificationChannelID snowflake.ID
	Err                   error
}

func (PlaybackFailedEvent) isEvent() {}

// QueueExhaustedEvent is published when playback advanced past the last song.
type QueueExhaustedEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
}

func (QueueExhaustedEvent) isEvent() {}
