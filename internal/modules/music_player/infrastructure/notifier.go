package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorRed     = 0xE74C3C
	colorYouTube = 0xFF0000
	colorInfo    = 0x3498DB
)

const youtubeIconURL = "https://www.youtube.com/s/desktop/favicon_144x144.png"

// MessageSender is the subset of *discordgo.Session used by Notifier.
type MessageSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Notifier sends notifications to Discord channels.
type Notifier struct {
	session    MessageSender
	httpClient *http.Client
	// thumbnailBaseURL is overridden in tests.
	thumbnailBaseURL string
}

// NewNotifier creates a new Notifier.
func NewNotifier(session MessageSender) *Notifier {
	return &Notifier{
		session: session,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		thumbnailBaseURL: "https://img.youtube.com/vi",
	}
}

// NowPlayingEmbed builds the "Now playing" embed of song.
func NowPlayingEmbed(song *domain.Song, thumbnailURL string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "Now playing",
			IconURL: youtubeIconURL,
		},
		Title: song.Title,
		URL:   song.URL(),
		Color: colorYouTube,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Channel",
				Value:  fmt.Sprintf("[%s](%s)", song.ChannelTitle, song.ChannelURL()),
				Inline: true,
			},
			{
				Name:   "Duration",
				Value:  song.FormattedDuration(),
				Inline: true,
			},
			{
				Name:   "Requested by",
				Value:  fmt.Sprintf("<@%s>", song.Requestor.ID),
				Inline: true,
			},
		},
	}

	if song.Playlist != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Playlist",
			Value: fmt.Sprintf("[%s](%s)", song.Playlist.Title, song.Playlist.URL()),
		})
	}
	if !song.PublishedAt.IsZero() {
		embed.Timestamp = song.PublishedAt.UTC().Format(time.RFC3339)
	}
	if song.Requestor.Tag != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Requested by " + song.Requestor.Tag,
		}
	}
	if thumbnailURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: thumbnailURL}
	}

	return embed
}

// SendNowPlaying sends a "Now playing" embed to the channel and returns the message ID.
func (n *Notifier) SendNowPlaying(channelID snowflake.ID, song *domain.Song) (snowflake.ID, error) {
	embed := NowPlayingEmbed(song, n.getYouTubeThumbnail(song.ID, song.ThumbnailURL))

	msg, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	if err != nil {
		return 0, err
	}
	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return 0, err
	}
	return messageID, nil
}

// SendPlaybackFailed reports that song could not be played.
func (n *Notifier) SendPlaybackFailed(channelID snowflake.ID, song *domain.Song) error {
	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Oops, something happened while processing the requested [song](%s)", song.URL()),
		Color:       colorRed,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// DeleteMessage deletes a message from the channel.
func (n *Notifier) DeleteMessage(channelID snowflake.ID, messageID snowflake.ID) error {
	return n.session.ChannelMessageDelete(channelID.String(), messageID.String())
}

// SendInfo sends a short informational embed to the channel.
func (n *Notifier) SendInfo(channelID snowflake.ID, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: message,
		Color:       colorInfo,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// getYouTubeThumbnail tries to find the highest quality YouTube thumbnail available.
func (n *Notifier) getYouTubeThumbnail(videoID string, fallbackURL string) string {
	if videoID == "" {
		return fallbackURL
	}

	qualities := []string{"maxresdefault", "sddefault", "hqdefault", "mqdefault"}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, quality := range qualities {
		url := fmt.Sprintf("%s/%s/%s.jpg", n.thumbnailBaseURL, videoID, quality)
		if n.urlExists(ctx, url) {
			return url
		}
	}

	return fallbackURL
}

// urlExists checks if a URL returns a successful response using a HEAD request.
func (n *Notifier) urlExists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Ensure Notifier implements ports.NotificationSender.
var _ ports.NotificationSender = (*Notifier)(nil)
