package ports

import (
	"context"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// SearchResult is one keyword search hit. Exactly one field is set.
type SearchResult struct {
	Video    *domain.Video
	Playlist *domain.Playlist
}

// Title returns the title of the hit.
func (r SearchResult) Title() string {
	if r.Video != nil {
		return r.Video.Title
	}
	if r.Playlist != nil {
		return r.Playlist.Title
	}
	return ""
}

// PlaylistItems is a playlist and the videos loaded from it.
type PlaylistItems struct {
	Playlist domain.Playlist
	Videos   []domain.Video
}

// Catalog looks up videos and playlists.
type Catalog interface {
	// Search returns videos and playlists matching query, in relevance order.
	Search(ctx context.Context, query string) ([]SearchResult, error)

	// Videos returns the playable videos among ids. Unknown and upcoming
	// videos are omitted.
	Videos(ctx context.Context, ids ...string) ([]domain.Video, error)

	// Playlist loads up to limit videos of a playlist. When videoID is set
	// the listing starts at that video. It returns nil when the playlist
	// is unavailable.
	Playlist(ctx context.Context, listID, videoID string, limit int) (*PlaylistItems, error)
}
