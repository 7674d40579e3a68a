package infrastructure

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/pinkbean/internal/bot"
	"github.com/sglre6355/pinkbean/internal/modules/general/application"
	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
)

// Embed colors.
const (
	ColorPink  = 0xFFB6C1
	ColorMaple = 0xFF33A2
	ColorBlue  = 0x3498DB
)

// ChannelSender is the subset of *discordgo.Session used by Announcer.
type ChannelSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Announcer posts subscription updates with a Discord session.
type Announcer struct {
	sender ChannelSender
	perms  bot.PermissionFunc
	botID  func() string
}

var _ application.Announcer = (*Announcer)(nil)

// NewAnnouncer creates an Announcer for session.
func NewAnnouncer(session *discordgo.Session) *Announcer {
	return &Announcer{
		sender: session,
		perms: func(userID, channelID string) (int64, error) {
			return session.State.UserChannelPermissions(userID, channelID)
		},
		botID: func() string {
			if session.State == nil || session.State.User == nil {
				return ""
			}
			return session.State.User.ID
		},
	}
}

// CanSend reports whether the channel is known and the bot may post
// embeds in it.
func (a *Announcer) CanSend(channelID string) bool {
	botID := a.botID()
	if botID == "" {
		return false
	}
	perms, err := a.perms(botID, channelID)
	if err != nil {
		return false
	}
	return perms&bot.RequiredChannelPermissions == bot.RequiredChannelPermissions
}

// PostTime sends the server time embed.
func (a *Announcer) PostTime(channelID string, t domain.ServerTime) (string, error) {
	msg, err := a.sender.ChannelMessageSendEmbed(channelID, TimeEmbed(t))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

// EditTime replaces the server time embed of messageID.
func (a *Announcer) EditTime(channelID, messageID string, t domain.ServerTime) error {
	_, err := a.sender.ChannelMessageEditEmbed(channelID, messageID, TimeEmbed(t))
	return err
}

// PostNews sends one news post.
func (a *Announcer) PostNews(channelID string, post domain.NewsPost) error {
	_, err := a.sender.ChannelMessageSendEmbed(channelID, NewsEmbed(post))
	return err
}

// DeleteAfter removes messageID after d in the background.
func (a *Announcer) DeleteAfter(channelID, messageID string, d time.Duration) {
	time.AfterFunc(d, func() {
		if err := a.sender.ChannelMessageDelete(channelID, messageID); err != nil {
			slog.Debug("failed to delete message", "channel", channelID, "message", messageID, "error", err)
		}
	})
}

// TimeEmbed renders the server clock and the reset countdowns.
func TimeEmbed(t domain.ServerTime) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: "Server Time"},
		Title:       t.Now.Format("3:04 PM"),
		Description: t.Now.Format("Monday, January 2, 2006") + " (UTC)",
		Color:       ColorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Daily reset in", Value: domain.FormatCountdown(t.Daily)},
			{Name: "Weekly reset in", Value: domain.FormatCountdown(t.WeeklyBoss)},
			{Name: "Guild and Dojo reset in", Value: domain.FormatCountdown(t.WeeklyMule)},
			{Name: "Kritias Invasion in", Value: domain.FormatCountdown(t.Invasion)},
		},
	}
}

// NewsEmbed renders one news post.
func NewsEmbed(post domain.NewsPost) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       post.Title,
		Description: post.Description,
		URL:         post.URL,
		Color:       ColorMaple,
	}
	if post.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: post.ImageURL}
	}
	if post.Category != domain.NewsAll {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: post.Category.Title()}
	}
	return embed
}
