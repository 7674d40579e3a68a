package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonas747/dca"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// ErrNoVoiceConnection is returned when playing in a guild the bot has not joined.
var ErrNoVoiceConnection = errors.New("no voice connection")

// VoiceJoiner is the subset of *discordgo.Session used to join voice channels.
type VoiceJoiner interface {
	ChannelVoiceJoin(gID, cID string, mute, deaf bool) (*discordgo.VoiceConnection, error)
}

// nativeStream is one dca streaming session.
type nativeStream struct {
	encoder *dca.EncodeSession
	session *dca.StreamingSession

	mu sync.Mutex
	// endReason overrides the reason reported when the stream ends.
	endReason domain.StreamEndReason
}

func (s *nativeStream) end(reason domain.StreamEndReason) {
	s.mu.Lock()
	if s.endReason == "" {
		s.endReason = reason
	}
	s.mu.Unlock()
	if err := s.encoder.Stop(); err != nil {
		slog.Debug("failed to stop encoder", "error", err)
	}
}

func (s *nativeStream) reason(err error) domain.StreamEndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endReason != "" {
		return s.endReason
	}
	if err == nil || errors.Is(err, io.EOF) {
		return domain.StreamEndFinished
	}
	return domain.StreamEndLoadFailed
}

// NativePlayer plays media URLs through discordgo voice connections, encoding
// them to opus with dca. It is used when no Lavalink node is available.
type NativePlayer struct {
	joiner      VoiceJoiner
	publisher   ports.EventPublisher
	encodeOpts  dca.EncodeOptions
	connections map[snowflake.ID]*discordgo.VoiceConnection
	streams     map[snowflake.ID]*nativeStream
	mu          sync.Mutex
}

// NewNativePlayer creates a new NativePlayer.
func NewNativePlayer(joiner VoiceJoiner, publisher ports.EventPublisher) *NativePlayer {
	opts := *dca.StdEncodeOptions
	opts.RawOutput = true
	opts.Bitrate = 128
	opts.Application = dca.AudioApplicationAudio

	return &NativePlayer{
		joiner:      joiner,
		publisher:   publisher,
		encodeOpts:  opts,
		connections: make(map[snowflake.ID]*discordgo.VoiceConnection),
		streams:     make(map[snowflake.ID]*nativeStream),
	}
}

// JoinChannel implements ports.VoiceConnection.
func (p *NativePlayer) JoinChannel(_ context.Context, guildID, channelID snowflake.ID) error {
	vc, err := p.joiner.ChannelVoiceJoin(guildID.String(), channelID.String(), false, true)
	if err != nil {
		return fmt.Errorf("join voice channel: %w", err)
	}

	p.mu.Lock()
	p.connections[guildID] = vc
	p.mu.Unlock()

	slog.Debug("joined voice channel", "guild", guildID, "channel", channelID)
	return nil
}

// LeaveChannel implements ports.VoiceConnection.
func (p *NativePlayer) LeaveChannel(_ context.Context, guildID snowflake.ID) error {
	p.mu.Lock()
	vc := p.connections[guildID]
	delete(p.connections, guildID)
	stream := p.streams[guildID]
	delete(p.streams, guildID)
	p.mu.Unlock()

	if stream != nil {
		stream.end(domain.StreamEndCleanup)
	}
	if vc == nil {
		return nil
	}
	return vc.Disconnect()
}

// Play implements ports.AudioPlayer.
func (p *NativePlayer) Play(_ context.Context, guildID snowflake.ID, stream *ports.Stream) error {
	p.mu.Lock()
	vc, ok := p.connections[guildID]
	previous := p.streams[guildID]
	p.mu.Unlock()

	if !ok {
		return ErrNoVoiceConnection
	}
	if previous != nil {
		previous.end(domain.StreamEndReplaced)
	}

	opts := p.encodeOpts
	encoder, err := dca.EncodeFile(stream.Source, &opts)
	if err != nil {
		return fmt.Errorf("encode stream: %w", err)
	}

	if err := vc.Speaking(true); err != nil {
		slog.Debug("failed to set speaking state", "guild", guildID, "error", err)
	}

	done := make(chan error, 1)
	current := &nativeStream{encoder: encoder}
	current.session = dca.NewStream(encoder, vc, done)

	p.mu.Lock()
	p.streams[guildID] = current
	p.mu.Unlock()

	go p.awaitEnd(guildID, vc, current, done)

	return nil
}

func (p *NativePlayer) awaitEnd(guildID snowflake.ID, vc *discordgo.VoiceConnection, stream *nativeStream, done <-chan error) {
	err := <-done
	stream.encoder.Cleanup()

	reason := stream.reason(err)
	if reason == domain.StreamEndLoadFailed {
		slog.Warn("stream ended with error", "guild", guildID, "error", err)
	}

	p.mu.Lock()
	if p.streams[guildID] == stream {
		delete(p.streams, guildID)
		if err := vc.Speaking(false); err != nil {
			slog.Debug("failed to clear speaking state", "guild", guildID, "error", err)
		}
	}
	p.mu.Unlock()

	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(domain.StreamEndedEvent{GuildID: guildID, Reason: reason}); err != nil {
		slog.Error("failed to publish stream ended event", "guild", guildID, "error", err)
	}
}

// Stop implements ports.AudioPlayer.
func (p *NativePlayer) Stop(_ context.Context, guildID snowflake.ID) error {
	stream := p.stream(guildID)
	if stream == nil {
		return nil
	}
	stream.end(domain.StreamEndStopped)
	return nil
}

// Pause implements ports.AudioPlayer.
func (p *NativePlayer) Pause(_ context.Context, guildID snowflake.ID) error {
	stream := p.stream(guildID)
	if stream == nil {
		return ErrNoVoiceConnection
	}
	stream.session.SetPaused(true)
	return nil
}

// Resume implements ports.AudioPlayer.
func (p *NativePlayer) Resume(_ context.Context, guildID snowflake.ID) error {
	stream := p.stream(guildID)
	if stream == nil {
		return ErrNoVoiceConnection
	}
	stream.session.SetPaused(false)
	return nil
}

// Position implements ports.AudioPlayer.
func (p *NativePlayer) Position(guildID snowflake.ID) time.Duration {
	stream := p.stream(guildID)
	if stream == nil {
		return 0
	}
	return stream.session.PlaybackPosition()
}

func (p *NativePlayer) stream(guildID snowflake.ID) *nativeStream {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.streams[guildID]
}

// Close disconnects every voice connection.
func (p *NativePlayer) Close() {
	p.mu.Lock()
	guilds := make([]snowflake.ID, 0, len(p.connections))
	for id := range p.connections {
		guilds = append(guilds, id)
	}
	p.mu.Unlock()

	for _, id := range guilds {
		if err := p.LeaveChannel(context.Background(), id); err != nil {
			slog.Warn("failed to leave voice channel", "guild", id, "error", err)
		}
	}
}

// Compile-time checks.
var (
	_ ports.AudioPlayer     = (*NativePlayer)(nil)
	_ ports.VoiceConnection = (*NativePlayer)(nil)
)
