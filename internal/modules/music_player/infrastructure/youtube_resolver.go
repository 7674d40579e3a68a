package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// YouTubeResolver resolves songs to direct media URLs for the native backend.
type YouTubeResolver struct {
	client *youtube.Client
}

// NewYouTubeResolver creates a new YouTubeResolver. client may be nil.
func NewYouTubeResolver(client *youtube.Client) *YouTubeResolver {
	if client == nil {
		client = &youtube.Client{}
	}
	return &YouTubeResolver{client: client}
}

// Resolve implements ports.StreamResolver.
func (r *YouTubeResolver) Resolve(ctx context.Context, song *domain.Song) (*ports.Stream, error) {
	video, err := r.client.GetVideoContext(ctx, song.ID)
	if err != nil {
		if isUnplayable(err) {
			return nil, fmt.Errorf("%w: %s: %v", ports.ErrStreamNotFound, song.ID, err)
		}
		return nil, fmt.Errorf("get video %s: %w", song.ID, err)
	}

	if video.HLSManifestURL != "" {
		return &ports.Stream{Source: video.HLSManifestURL, Live: true}, nil
	}

	format := pickAudioFormat(video.Formats.WithAudioChannels())
	if format == nil {
		return nil, fmt.Errorf("%w: %s has no audio formats", ports.ErrStreamNotFound, song.ID)
	}

	url, err := r.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("get stream url %s: %w", song.ID, err)
	}
	return &ports.Stream{Source: url}, nil
}

// pickAudioFormat prefers audio-only opus, then any audio-only format, then
// the first format with audio.
func pickAudioFormat(formats youtube.FormatList) *youtube.Format {
	if len(formats) == 0 {
		return nil
	}

	var audioOnly *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if strings.Contains(f.MimeType, "opus") {
			return f
		}
		if audioOnly == nil {
			audioOnly = f
		}
	}
	if audioOnly != nil {
		return audioOnly
	}
	return &formats[0]
}

func isUnplayable(err error) bool {
	return errors.Is(err, youtube.ErrVideoPrivate) ||
		errors.Is(err, youtube.ErrLoginRequired) ||
		errors.Is(err, youtube.ErrNotPlayableInEmbed)
}

var _ ports.StreamResolver = (*YouTubeResolver)(nil)
