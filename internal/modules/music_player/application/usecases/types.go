package usecases

import (
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Song is an alias for domain.Song.
type Song = domain.Song

// Requestor is an alias for domain.Requestor.
type Requestor = domain.Requestor

// Playlist is an alias for domain.Playlist.
type Playlist = domain.Playlist

// PlaybackStatus is an alias for domain.PlaybackStatus.
type PlaybackStatus = domain.PlaybackStatus

// SearchResult is an alias for ports.SearchResult.
type SearchResult = ports.SearchResult

// PlayerStateRepository is an alias for domain.PlayerStateRepository.
type PlayerStateRepository = domain.PlayerStateRepository
