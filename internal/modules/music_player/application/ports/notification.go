package ports

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// NotificationSender defines the interface for sending notifications to Discord channels.
type NotificationSender interface {
	// SendNowPlaying sends a "Now playing" embed to the channel and returns the message ID.
	SendNowPlaying(channelID snowflake.ID, song *domain.Song) (messageID snowflake.ID, err error)

	// SendPlaybackFailed reports that song could not be played.
	SendPlaybackFailed(channelID snowflake.ID, song *domain.Song) error

	// DeleteMessage deletes a message from the channel.
	DeleteMessage(channelID snowflake.ID, messageID snowflake.ID) error

	// SendInfo sends a short informational embed to the channel.
	SendInfo(channelID snowflake.ID, message string) error
}
