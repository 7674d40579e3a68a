package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// SnapshotStore persists queue snapshots so they survive restarts.
type SnapshotStore interface {
	// Save replaces the snapshot of the guild.
	Save(ctx context.Context, guildID snowflake.ID, songs []*domain.Song) error

	// Load returns the snapshot of the guild, or nil when there is none.
	Load(ctx context.Context, guildID snowflake.ID) ([]*domain.Song, error)
}
