package domain

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// PlaybackStatus is the state of a guild's playback session.
type PlaybackStatus int

const (
	// StatusIdle means no stream exists.
	StatusIdle PlaybackStatus = iota
	// StatusResolving means a stream is being fetched for the head song.
	StatusResolving
	// StatusPlaying means a stream is attached and audible.
	StatusPlaying
	// StatusPaused means a stream is attached but paused.
	StatusPaused
)

// String returns a human-readable representation of the status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusResolving:
		return "resolving"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// NowPlayingMessage stores the channel and message ID of a "Now playing" message.
// The channel is kept because it may differ from the current notification channel.
type NowPlayingMessage struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

// PlayerState is the playback session of one guild.
//
// Callers must hold the state lock while reading or mutating it. The lock
// may be held across audio player control calls but never across stream
// resolution or catalog lookups.
type PlayerState struct {
	mu sync.Mutex

	guildID               snowflake.ID
	voiceChannelID        snowflake.ID // zero when not connected
	notificationChannelID snowflake.ID
	nowPlayingMessage     *NowPlayingMessage
	status                PlaybackStatus
	current               *Song // song the stream belongs to; nil when idle

	Queue *Queue
}

// NewPlayerState creates an idle PlayerState with an empty queue.
func NewPlayerState(guildID snowflake.ID, queue *Queue) *PlayerState {
	if queue == nil {
		queue = NewQueue()
	}
	return &PlayerState{
		guildID: guildID,
		Queue:   queue,
	}
}

// Lock acquires the state lock.
func (p *PlayerState) Lock() { p.mu.Lock() }

// Unlock releases the state lock.
func (p *PlayerState) Unlock() { p.mu.Unlock() }

// GetGuildID returns the guild ID.
func (p *PlayerState) GetGuildID() snowflake.ID {
	// guildID is immutable, no lock needed
	return p.guildID
}

// Status returns the playback status.
func (p *PlayerState) Status() PlaybackStatus {
	return p.status
}

// HasStream reports whether a stream is attached, playing or paused.
func (p *PlayerState) HasStream() bool {
	return p.status == StatusPlaying || p.status == StatusPaused
}

// IsBusy reports whether the session is resolving or has a stream.
func (p *PlayerState) IsBusy() bool {
	return p.status != StatusIdle
}

// Current returns the song being resolved or streamed, or nil when idle.
func (p *PlayerState) Current() *Song {
	return p.current
}

// IsCurrent reports whether song is the one being resolved or streamed.
func (p *PlayerState) IsCurrent(song *Song) bool {
	return song != nil && p.current == song
}

// BeginResolve moves Idle -> Resolving for song.
func (p *PlayerState) BeginResolve(song *Song) bool {
	if p.status != StatusIdle || song == nil {
		return false
	}
	p.status = StatusResolving
	p.current = song
	return true
}

// StartPlaying moves Resolving -> Playing.
func (p *PlayerState) StartPlaying() bool {
	if p.status != StatusResolving {
		return false
	}
	p.status = StatusPlaying
	return true
}

// Pause moves Playing -> Paused.
func (p *PlayerState) Pause() bool {
	if p.status != StatusPlaying {
		return false
	}
	p.status = StatusPaused
	return true
}

// Resume moves Paused -> Playing.
func (p *PlayerState) Resume() bool {
	if p.status != StatusPaused {
		return false
	}
	p.status = StatusPlaying
	return true
}

// Finish moves any status -> Idle and returns the song that was current.
func (p *PlayerState) Finish() *Song {
	song := p.current
	p.status = StatusIdle
	p.current = nil
	return song
}

// IsConnected reports whether the bot is in a voice channel.
func (p *PlayerState) IsConnected() bool {
	return p.voiceChannelID != 0
}

// GetVoiceChannelID returns the current voice channel ID.
func (p *PlayerState) GetVoiceChannelID() snowflake.ID {
	return p.voiceChannelID
}

// SetVoiceChannelID updates the voice channel ID. Zero means disconnected.
func (p *PlayerState) SetVoiceChannelID(channelID snowflake.ID) {
	p.voiceChannelID = channelID
}

// GetNotificationChannelID returns the text channel for notifications.
func (p *PlayerState) GetNotificationChannelID() snowflake.ID {
	return p.notificationChannelID
}

// SetNotificationChannelID updates the notification channel ID.
func (p *PlayerState) SetNotificationChannelID(channelID snowflake.ID) {
	p.notificationChannelID = channelID
}

// GetNowPlayingMessage returns a copy of the "Now playing" message info.
func (p *PlayerState) GetNowPlayingMessage() *NowPlayingMessage {
	if p.nowPlayingMessage == nil {
		return nil
	}
	msg := *p.nowPlayingMessage
	return &msg
}

// SetNowPlayingMessage stores the "Now playing" message info for later deletion.
func (p *PlayerState) SetNowPlayingMessage(channelID, messageID snowflake.ID) {
	p.nowPlayingMessage = &NowPlayingMessage{
		ChannelID: channelID,
		MessageID: messageID,
	}
}

// ClearNowPlayingMessage clears and returns the stored "Now playing" message info.
func (p *PlayerState) ClearNowPlayingMessage() *NowPlayingMessage {
	msg := p.nowPlayingMessage
	p.nowPlayingMessage = nil
	return msg
}

// PlayerStateRepository stores guild playback sessions.
type PlayerStateRepository interface {
	// Get returns the PlayerState for the guild, or nil if none exists.
	Get(guildID snowflake.ID) *PlayerState

	// GetOrCreate returns the existing PlayerState or stores a new one.
	// created reports whether a new state was made.
	GetOrCreate(guildID snowflake.ID) (state *PlayerState, created bool)

	// Delete removes the PlayerState for the guild.
	Delete(guildID snowflake.ID)

	// All returns every stored PlayerState.
	All() []*PlayerState
}
