package ports

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Stream is a resolved, ready-to-play source for a song.
type Stream struct {
	// Source is backend specific: an encoded Lavalink track or a media URL.
	Source string
	// Live streams have no known duration.
	Live bool
}

// AudioPlayer defines the interface for audio playback operations.
// Backends report stream ends by publishing domain.StreamEndedEvent.
type AudioPlayer interface {
	// Play starts playback of the given stream, replacing any active one.
	Play(ctx context.Context, guildID snowflake.ID, stream *Stream) error

	// Stop ends the current stream. The end is reported asynchronously.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses the current playback.
	Pause(ctx context.Context, guildID snowflake.ID) error

	// Resume resumes the paused playback.
	Resume(ctx context.Context, guildID snowflake.ID) error

	// Position returns how far the current stream has played.
	Position(guildID snowflake.ID) time.Duration
}
