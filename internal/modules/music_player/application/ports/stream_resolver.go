package ports

import (
	"context"
	"errors"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// ErrStreamNotFound is returned when a song has no playable stream.
// Resolvers must not retry it.
var ErrStreamNotFound = errors.New("stream not found")

// StreamResolver turns a queued song into a playable stream.
type StreamResolver interface {
	Resolve(ctx context.Context, song *domain.Song) (*Stream, error)
}
