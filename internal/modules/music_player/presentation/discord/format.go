package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/pinkbean/internal/command"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

const detailSeparator = " • "

// detail selects what songLine shows.
type detail int

const (
	detailDuration detail = iota
	detailChannel
	detailViews
	detailPublished
	detailRequestor
)

var fullDetail = []detail{detailDuration, detailChannel, detailViews, detailPublished}

func link(text, url string) string {
	return "[" + text + "](" + url + ")"
}

// relativeTime renders t as a Discord relative timestamp.
func relativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

func formattedDuration(v domain.Video) string {
	if v.Live {
		return "**Live Now**"
	}
	return domain.FormatDuration(v.Duration)
}

func videoDetail(v domain.Video, requestor *domain.Requestor, details ...detail) string {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		switch d {
		case detailDuration:
			parts = append(parts, formattedDuration(v))
		case detailChannel:
			if v.ChannelTitle != "" {
				parts = append(parts, link(v.ChannelTitle, (&domain.Song{Video: v}).ChannelURL()))
			}
		case detailViews:
			if v.ViewCount > 0 {
				parts = append(parts, domain.FormatCount(v.ViewCount))
			}
		case detailPublished:
			if !v.PublishedAt.IsZero() {
				parts = append(parts, relativeTime(v.PublishedAt))
			}
		case detailRequestor:
			if requestor != nil && requestor.ID != 0 {
				parts = append(parts, "<@"+requestor.ID.String()+">")
			}
		}
	}
	return strings.Join(parts, detailSeparator)
}

func songDetail(song *domain.Song, details ...detail) string {
	return videoDetail(song.Video, &song.Requestor, details...)
}

func resultDetail(r ports.SearchResult) string {
	switch {
	case r.Video != nil:
		return videoDetail(*r.Video, nil, detailChannel, detailDuration)
	case r.Playlist != nil:
		channel := r.Playlist.ChannelTitle
		if r.Playlist.ChannelID != "" {
			channel = link(channel, (&domain.Song{Video: domain.Video{ChannelID: r.Playlist.ChannelID}}).ChannelURL())
		}
		return channel + detailSeparator + fmt.Sprintf("**%d** videos", r.Playlist.ItemCount)
	default:
		return ""
	}
}

// songEmbed shows a song under an author line such as "Added".
func songEmbed(author string, song *domain.Song) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: author},
		Title:       song.Title,
		URL:         song.URL(),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: song.ThumbnailURL},
		Description: songDetail(song, fullDetail...),
		Color:       ColorMusic,
	}
}

func removedEmbed(song *domain.Song) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Removed: " + command.Truncate(song.Title, 200),
			URL:  song.URL(),
		},
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: song.ThumbnailURL},
		Description: songDetail(song, fullDetail...),
		Color:       ColorMusic,
	}
}

func playlistEmbed(playlist *domain.Playlist, first *domain.Song, added int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: "From"},
		Title:       playlist.Title,
		URL:         domain.SongURL(first.ID, playlist.ID),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: first.ThumbnailURL},
		Description: fmt.Sprintf("Added **%d** songs", added),
		Color:       ColorMusic,
	}
}

// progress renders elapsed / total (pct) for a song being played.
func progress(song *domain.Song, elapsed time.Duration) string {
	if song.Live {
		return formattedDuration(song.Video)
	}
	pct := 0
	if song.Duration > 0 {
		pct = int(float64(elapsed) / float64(song.Duration) * 100)
	}
	return fmt.Sprintf("%s / %s (%d%%)", domain.FormatDuration(elapsed), song.FormattedDuration(), pct)
}

func currentEmbed(song *domain.Song, elapsed time.Duration) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Duration", Value: progress(song, elapsed), Inline: true},
		{Name: "Channel", Value: link(song.ChannelTitle, song.ChannelURL()), Inline: true},
	}
	if !song.Live {
		if song.ViewCount > 0 {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "Views", Value: song.FormattedViewCount(), Inline: true,
			})
		}
		if !song.PublishedAt.IsZero() {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "Published at", Value: relativeTime(song.PublishedAt), Inline: true,
			})
		}
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name: "Requested by", Value: "<@" + song.Requestor.ID.String() + ">", Inline: true,
	})

	return &discordgo.MessageEmbed{
		Author:    &discordgo.MessageEmbedAuthor{Name: "Now playing"},
		Title:     song.Title,
		URL:       song.URL(),
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: song.ThumbnailURL},
		Fields:    fields,
		Color:     ColorMusic,
	}
}

func pageCount(total, perPage int) int {
	if total == 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

func navigation(page, pages int, previous, next string) []string {
	var nav []string
	if page > 0 {
		nav = append(nav, previous)
	}
	if page < pages-1 {
		nav = append(nav, next)
	}
	return nav
}

// choiceEmbed lists one page of search results.
func choiceEmbed(results []ports.SearchResult, page int, user *discordgo.User) *discordgo.MessageEmbed {
	pages := pageCount(len(results), searchPerPage)
	offset := page * searchPerPage
	end := min(offset+searchPerPage, len(results))

	fields := make([]*discordgo.MessageEmbedField, 0, end-offset)
	for i, r := range results[offset:end] {
		value := resultDetail(r)
		if value == "" {
			value = "​"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", offset+i+1, command.Truncate(r.Title(), 200)),
			Value: value,
		})
	}

	nav := navigation(page, pages, "Previous: enter `a`", "Next: enter `d`")
	lines := []string{}
	if len(nav) > 0 {
		lines = append(lines, strings.Join(nav, detailSeparator))
	}
	lines = append(lines, "Cancel: enter any other key")

	author := &discordgo.MessageEmbedAuthor{Name: "Choose a song:"}
	if user != nil {
		author.IconURL = user.AvatarURL("")
	}
	return &discordgo.MessageEmbed{
		Author:      author,
		Description: strings.Join(lines, "\n"),
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d of %d", page+1, pages)},
		Color:       ColorMusic,
	}
}

// queueEmbed lists one page of the queue.
func queueEmbed(title string, songs []*domain.Song, page int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: title, Color: ColorMusic}
	if len(songs) == 0 {
		embed.Description = "Queue is empty"
		return embed
	}

	pages := pageCount(len(songs), queuePerPage)
	descriptions := append(
		[]string{fmt.Sprintf("Total **%d** songs queued", len(songs))},
		navigation(page, pages, "Previous page: enter `a`", "Next page: enter `d`")...,
	)
	embed.Description = strings.Join(descriptions, detailSeparator)

	offset := page * queuePerPage
	end := min(offset+queuePerPage, len(songs))
	for i, song := range songs[offset:end] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", offset+i+1, command.Truncate(song.Title, 200)),
			Value: songDetail(song, detailChannel, detailDuration, detailRequestor),
		})
	}
	if len(songs) > queuePerPage {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d of %d", page+1, pages)}
	}
	return embed
}
