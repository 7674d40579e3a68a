package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const youtubeURL = "https://www.youtube.com"

// Video is a playable item returned by a catalog lookup.
type Video struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	PublishedAt  time.Time     `json:"publishedAt"`
	ChannelID    string        `json:"channelId"`
	ChannelTitle string        `json:"channelTitle"`
	Live         bool          `json:"isLive"`
	Duration     time.Duration `json:"duration"`
	ThumbnailURL string        `json:"thumbnailUrl"`
	ViewCount    uint64        `json:"viewCount,omitempty"`
}

// Playlist is a playlist returned by a catalog lookup.
type Playlist struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelID    string `json:"channelId,omitempty"`
	ChannelTitle string `json:"channelTitle,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ItemCount    int    `json:"itemCount,omitempty"`
}

// URL returns the playlist page.
func (p *Playlist) URL() string {
	return SongURL("", p.ID)
}

// Requestor identifies the user who queued a song.
type Requestor struct {
	ID  snowflake.ID `json:"id"`
	Tag string       `json:"tag"`
}

// Song is an immutable queue entry: a video plus who requested it.
type Song struct {
	Video
	Requestor Requestor `json:"requestor"`
	Playlist  *Playlist `json:"playlist,omitempty"`
}

// NewSong builds a Song. playlist may be nil.
func NewSong(video Video, requestor Requestor, playlist *Playlist) *Song {
	s := &Song{Video: video, Requestor: requestor}
	if playlist != nil {
		s.Playlist = &Playlist{
			ID:           playlist.ID,
			Title:        playlist.Title,
			ThumbnailURL: playlist.ThumbnailURL,
		}
	}
	return s
}

// URL returns the watch URL, including the playlist when the song came from one.
func (s *Song) URL() string {
	if s.Playlist != nil {
		return SongURL(s.ID, s.Playlist.ID)
	}
	return SongURL(s.ID, "")
}

// ChannelURL returns the uploader's channel page.
func (s *Song) ChannelURL() string {
	return youtubeURL + "/channel/" + s.ChannelID
}

// RequestedBy reports whether userID queued the song.
func (s *Song) RequestedBy(userID snowflake.ID) bool {
	return s.Requestor.ID == userID
}

// FormattedDuration returns the duration as m:ss or h:mm:ss, or "Live Now".
func (s *Song) FormattedDuration() string {
	if s.Live {
		return "Live Now"
	}
	return FormatDuration(s.Duration)
}

// FormattedViewCount abbreviates the view count, e.g. 1.2M.
func (s *Song) FormattedViewCount() string {
	return FormatCount(s.ViewCount)
}

// FormatDuration renders d as m:ss, or h:mm:ss when it spans an hour.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return strconv.Itoa(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return strconv.Itoa(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// FormatCount abbreviates n with k, M or B suffixes.
func FormatCount(n uint64) string {
	units := []struct {
		size   float64
		suffix string
	}{
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "k"},
	}

	for _, u := range units {
		if float64(n) >= u.size {
			v := float64(n) / u.size
			if v < 10 {
				return fmt.Sprintf("%.1f%s", v, u.suffix)
			}
			return fmt.Sprintf("%.0f%s", v, u.suffix)
		}
	}
	return strconv.FormatUint(n, 10)
}
