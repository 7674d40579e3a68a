package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/pinkbean/internal/command"
)

// Embed colors shared by command replies.
const (
	ColorError   = 0xE74C3C
	ColorWarning = 0xF1C40F
)

// CommandHandler runs a command once its invocation passed every gate.
type CommandHandler func(ctx context.Context, req *Request) error

// Command is a chat command: its definition plus what it does.
type Command struct {
	Definition *command.Definition
	Handler    CommandHandler
}

// Request is everything a handler gets for one invocation.
type Request struct {
	Session    *discordgo.Session
	Message    *discordgo.Message
	Invocation *command.Invocation
	Guild      *Guild
	Responder  Responder
	Collectors *CollectorHub
	// Admin reports whether the author has administrator permission.
	Admin bool
}

// GuildID returns the guild the command was sent in.
func (r *Request) GuildID() string { return r.Message.GuildID }

// ChannelID returns the channel the command was sent in.
func (r *Request) ChannelID() string { return r.Message.ChannelID }

// AuthorID returns the invoking user.
func (r *Request) AuthorID() string { return r.Message.Author.ID }

// Author returns the invoking user.
func (r *Request) Author() *discordgo.User { return r.Message.Author }

// Embed builds an embed in the command's color.
func (r *Request) Embed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: description,
		Color:       r.Invocation.Definition().Color(),
	}
}

// Reply sends description as an embed in the command's color.
func (r *Request) Reply(description string) (*discordgo.Message, error) {
	return r.Responder.Reply(r.Embed(description))
}

// Replyf is Reply with formatting.
func (r *Request) Replyf(format string, args ...any) (*discordgo.Message, error) {
	return r.Reply(fmt.Sprintf(format, args...))
}

// ReplyError sends description as an error embed.
func (r *Request) ReplyError(description string) (*discordgo.Message, error) {
	return r.Responder.Reply(ErrorEmbed(description))
}

// ErrorEmbed builds an error embed.
func ErrorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: description,
		Color:       ColorError,
	}
}

// HelpEmbed renders the help of inv.
func HelpEmbed(inv *command.Invocation) *discordgo.MessageEmbed {
	help := inv.Help()
	embed := &discordgo.MessageEmbed{
		Title:       help.Title,
		Description: help.Description,
		Color:       inv.Definition().Color(),
	}
	for _, f := range help.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}
	return embed
}

// Mention formats a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ChannelMention formats a channel mention.
func ChannelMention(channelID string) string {
	return "<#" + channelID + ">"
}

// UserTag returns the display tag of u, e.g. name#1234 or name.
func UserTag(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return strings.Join([]string{u.Username, u.Discriminator}, "#")
}
