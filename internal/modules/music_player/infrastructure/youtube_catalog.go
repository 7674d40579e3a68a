package infrastructure

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

const (
	// youtube API page size limit
	maxPageSize = 50
	// longest playlist walked when looking for a start video
	maxListScan = 5000
	searchLimit = 25
)

const (
	kindVideo    = "youtube#video"
	kindPlaylist = "youtube#playlist"
)

// YouTubeCatalog implements ports.Catalog with the YouTube Data API v3.
type YouTubeCatalog struct {
	service *youtube.Service
}

// NewYouTubeCatalog creates a catalog authenticated with an API key.
// Extra client options are applied after the key.
func NewYouTubeCatalog(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeCatalog, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &YouTubeCatalog{service: service}, nil
}

// Search implements ports.Catalog.
func (c *YouTubeCatalog) Search(ctx context.Context, query string) ([]ports.SearchResult, error) {
	resp, err := c.service.Search.List([]string{"id"}).
		Q(query).
		Type("video", "playlist").
		MaxResults(searchLimit).
		Fields("items(id)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var videoIDs, playlistIDs []string
	order := make(map[string]int, len(resp.Items))
	for i, item := range resp.Items {
		if item.Id == nil {
			continue
		}
		switch item.Id.Kind {
		case kindVideo:
			videoIDs = append(videoIDs, item.Id.VideoId)
			order[item.Id.VideoId] = i
		case kindPlaylist:
			playlistIDs = append(playlistIDs, item.Id.PlaylistId)
			order[item.Id.PlaylistId] = i
		}
	}

	videos, err := c.Videos(ctx, videoIDs...)
	if err != nil {
		return nil, err
	}
	playlists, err := c.playlists(ctx, playlistIDs...)
	if err != nil {
		return nil, err
	}

	results := make([]ports.SearchResult, 0, len(videos)+len(playlists))
	for i := range videos {
		results = append(results, ports.SearchResult{Video: &videos[i]})
	}
	for i := range playlists {
		results = append(results, ports.SearchResult{Playlist: &playlists[i]})
	}
	slices.SortStableFunc(results, func(a, b ports.SearchResult) int {
		return order[resultID(a)] - order[resultID(b)]
	})
	return results, nil
}

func resultID(r ports.SearchResult) string {
	if r.Video != nil {
		return r.Video.ID
	}
	return r.Playlist.ID
}

// Videos implements ports.Catalog.
func (c *YouTubeCatalog) Videos(ctx context.Context, ids ...string) ([]domain.Video, error) {
	var videos []domain.Video
	for chunk := range slices.Chunk(ids, maxPageSize) {
		resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(chunk...).
			Fields("items(id,snippet(title,publishedAt,channelId,channelTitle,liveBroadcastContent,thumbnails(default(url))),contentDetails(duration),statistics(viewCount))").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("list videos: %w", err)
		}
		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.LiveBroadcastContent == "upcoming" {
				continue
			}
			videos = append(videos, videoFromItem(item))
		}
	}
	return videos, nil
}

func videoFromItem(item *youtube.Video) domain.Video {
	snippet := item.Snippet
	v := domain.Video{
		ID:           item.Id,
		Title:        snippet.Title,
		ChannelID:    snippet.ChannelId,
		ChannelTitle: snippet.ChannelTitle,
		Live:         snippet.LiveBroadcastContent != "" && snippet.LiveBroadcastContent != "none",
		ThumbnailURL: thumbnailURL(snippet.Thumbnails),
	}
	if v.Live {
		return v
	}
	if t, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
		v.PublishedAt = t
	}
	if item.ContentDetails != nil {
		v.Duration = ParseISODuration(item.ContentDetails.Duration)
	}
	if item.Statistics != nil {
		v.ViewCount = item.Statistics.ViewCount
	}
	return v
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil || t.Default == nil {
		return ""
	}
	return t.Default.Url
}

func (c *YouTubeCatalog) playlists(ctx context.Context, ids ...string) ([]domain.Playlist, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resp, err := c.service.Playlists.List([]string{"id", "snippet", "contentDetails"}).
		Id(ids...).
		Fields("items(id,snippet(title,channelId,channelTitle,thumbnails(default(url))),contentDetails(itemCount))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	playlists := make([]domain.Playlist, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil {
			continue
		}
		p := domain.Playlist{
			ID:           item.Id,
			Title:        item.Snippet.Title,
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
			ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
		}
		if item.ContentDetails != nil {
			p.ItemCount = int(item.ContentDetails.ItemCount)
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// Playlist implements ports.Catalog.
func (c *YouTubeCatalog) Playlist(ctx context.Context, listID, videoID string, limit int) (*ports.PlaylistItems, error) {
	playlists, err := c.playlists(ctx, listID)
	if err != nil {
		return nil, err
	}
	if len(playlists) == 0 {
		return nil, nil
	}

	ids, err := c.playlistVideoIDs(ctx, listID, videoID, limit)
	if err != nil {
		return nil, err
	}
	videos, err := c.Videos(ctx, ids...)
	if err != nil {
		return nil, err
	}

	return &ports.PlaylistItems{Playlist: playlists[0], Videos: videos}, nil
}

// playlistVideoIDs walks the playlist pages and collects up to limit ids,
// starting at videoID when it is set.
func (c *YouTubeCatalog) playlistVideoIDs(ctx context.Context, listID, videoID string, limit int) ([]string, error) {
	ids := make([]string, 0, limit)
	started := videoID == ""
	pageToken := ""

	for scanned := 0; scanned < maxListScan && len(ids) < limit; {
		call := c.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(listID).
			MaxResults(maxPageSize).
			Fields("nextPageToken,items(snippet(resourceId(videoId)))").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list playlist items: %w", err)
		}

		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil {
				continue
			}
			id := item.Snippet.ResourceId.VideoId
			if !started && id != videoID {
				continue
			}
			started = true
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}

		scanned += len(resp.Items)
		if resp.NextPageToken == "" || len(resp.Items) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}
	return ids, nil
}

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration parses the ISO 8601 durations returned by the API, such as
// PT1H2M3S. Malformed input yields 0.
func ParseISODuration(s string) time.Duration {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0
		}
		d += time.Duration(n) * unit
	}
	return d
}

var _ ports.Catalog = (*YouTubeCatalog)(nil)
