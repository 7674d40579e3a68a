package usecases

import (
	"context"
	"fmt"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

const (
	// DefaultListLimit is how many playlist songs are loaded without -s.
	DefaultListLimit = 50
	// MaxListLimit caps the playlist songs loaded per request.
	MaxListLimit = 200
)

// LoadInput contains the input for the Load use case.
type LoadInput struct {
	Query     string
	Requestor domain.Requestor
	// ListLimit caps loaded playlist songs. Negative means DefaultListLimit.
	ListLimit int
}

// LoadOutput contains the result of the Load use case. For a keyword query
// Results is set and the caller must pick one through Choose.
type LoadOutput struct {
	Songs    []*domain.Song
	Playlist *domain.Playlist
	Results  []ports.SearchResult
}

// SongLoaderService turns user queries into songs.
type SongLoaderService struct {
	catalog ports.Catalog
}

// NewSongLoaderService creates a new SongLoaderService.
func NewSongLoaderService(catalog ports.Catalog) *SongLoaderService {
	return &SongLoaderService{catalog: catalog}
}

// ClampListLimit applies the default and the cap to a requested playlist limit.
func ClampListLimit(limit int) int {
	if limit < 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// Load resolves a link to songs, or searches for keywords.
func (s *SongLoaderService) Load(ctx context.Context, input LoadInput) (*LoadOutput, error) {
	query := domain.ParseQuery(input.Query)
	if !query.IsLink {
		if !query.IsValid() {
			return nil, ErrNoResults
		}
		results, err := s.catalog.Search(ctx, query.Text)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query.Text, err)
		}
		if len(results) == 0 {
			return nil, ErrNoResults
		}
		return &LoadOutput{Results: results}, nil
	}

	if !query.IsValid() {
		return nil, ErrInvalidLink
	}
	if query.ListID != "" {
		return s.loadList(ctx, query.ListID, query.VideoID, input)
	}
	return s.loadVideo(ctx, query.VideoID, input.Requestor)
}

// Choose loads the songs of a picked search result.
func (s *SongLoaderService) Choose(ctx context.Context, result ports.SearchResult, input LoadInput) (*LoadOutput, error) {
	switch {
	case result.Video != nil:
		return &LoadOutput{Songs: []*domain.Song{domain.NewSong(*result.Video, input.Requestor, nil)}}, nil
	case result.Playlist != nil:
		return s.loadList(ctx, result.Playlist.ID, "", input)
	default:
		return nil, ErrNoResults
	}
}

func (s *SongLoaderService) loadVideo(ctx context.Context, videoID string, requestor domain.Requestor) (*LoadOutput, error) {
	videos, err := s.catalog.Videos(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video %s: %w", videoID, err)
	}
	if len(videos) == 0 {
		return nil, ErrUnavailable
	}
	return &LoadOutput{Songs: []*domain.Song{domain.NewSong(videos[0], requestor, nil)}}, nil
}

func (s *SongLoaderService) loadList(ctx context.Context, listID, videoID string, input LoadInput) (*LoadOutput, error) {
	limit := ClampListLimit(input.ListLimit)
	if limit == 0 {
		return &LoadOutput{}, nil
	}

	items, err := s.catalog.Playlist(ctx, listID, videoID, limit)
	if err != nil {
		return nil, fmt.Errorf("load playlist %s: %w", listID, err)
	}
	if items == nil || len(items.Videos) == 0 {
		if videoID != "" {
			return s.loadVideo(ctx, videoID, input.Requestor)
		}
		return nil, ErrUnavailable
	}

	playlist := items.Playlist
	songs := make([]*domain.Song, len(items.Videos))
	for i, v := range items.Videos {
		songs[i] = domain.NewSong(v, input.Requestor, &playlist)
	}
	return &LoadOutput{Songs: songs, Playlist: &playlist}, nil
}
