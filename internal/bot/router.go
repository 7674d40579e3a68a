package bot

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
)

// RequiredChannelPermissions are needed in a channel before the bot answers
// commands there.
const RequiredChannelPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionEmbedLinks

// PermissionFunc resolves the permissions of a user in a channel.
type PermissionFunc func(userID, channelID string) (int64, error)

// Router filters gateway messages and hands them to the Dispatcher.
type Router struct {
	dispatcher *Dispatcher
	config     *Config
	botID      func() string
	perms      PermissionFunc
	responder  func(m *discordgo.Message) Responder
	session    *discordgo.Session
}

// NewRouter creates a Router for a live session.
func NewRouter(s *discordgo.Session, dispatcher *Dispatcher, cfg *Config) *Router {
	return &Router{
		dispatcher: dispatcher,
		config:     cfg,
		session:    s,
		botID:      func() string { return s.State.User.ID },
		perms: func(userID, channelID string) (int64, error) {
			return s.UserChannelPermissions(userID, channelID)
		},
		responder: func(m *discordgo.Message) Responder {
			return NewDiscordResponder(s, m)
		},
	}
}

// HandleMessageCreate is the discordgo MessageCreate handler.
func (r *Router) HandleMessageCreate(_ *discordgo.Session, e *discordgo.MessageCreate) {
	r.Route(context.Background(), e.Message)
}

// Route filters m and dispatches it. Bot authors, direct messages and
// channels where the bot cannot send embeds are ignored. A panic while
// handling m is logged and swallowed.
func (r *Router) Route(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	defer func() {
		if v := recover(); v != nil {
			slog.Error("recovered from panic while handling message",
				"guild", m.GuildID,
				"channel", m.ChannelID,
				"message", m.ID,
				"panic", v,
				"stack", string(debug.Stack()),
			)
		}
	}()

	botPerms, err := r.perms(r.botID(), m.ChannelID)
	if err != nil {
		slog.Debug("failed to resolve bot permissions", "channel", m.ChannelID, "error", err)
		return
	}
	if botPerms&RequiredChannelPermissions != RequiredChannelPermissions {
		return
	}

	r.dispatcher.Dispatch(ctx, Incoming{
		Session:   r.session,
		Message:   m,
		Responder: r.responder(m),
		Admin:     r.isAdmin(m),
	})
}

func (r *Router) isAdmin(m *discordgo.Message) bool {
	if r.config != nil && r.config.IsDeveloper(m.Author.ID) {
		return true
	}
	perms, err := r.perms(m.Author.ID, m.ChannelID)
	if err != nil {
		slog.Debug("failed to resolve member permissions",
			"guild", m.GuildID, "user", m.Author.ID, "error", err)
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}
