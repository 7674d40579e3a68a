package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// GenericErrorMessage is sent when a command handler fails.
const GenericErrorMessage = "An error occurred while processing your command."

// Incoming is a guild chat message that passed the router's filters.
type Incoming struct {
	Session   *discordgo.Session
	Message   *discordgo.Message
	Responder Responder
	// Admin reports whether the author has administrator permission.
	Admin bool
}

// Dispatcher turns prefixed chat messages into command invocations.
type Dispatcher struct {
	commander  *Commander
	guilds     *GuildRegistry
	collectors *CollectorHub
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(commander *Commander, guilds *GuildRegistry, collectors *CollectorHub) *Dispatcher {
	return &Dispatcher{
		commander:  commander,
		guilds:     guilds,
		collectors: collectors,
	}
}

// Dispatch handles one message. Messages without the guild prefix go to a
// waiting collector; a prefixed message cancels the author's collector in
// that channel. Unknown command names are ignored. It reports whether a
// command was found.
func (d *Dispatcher) Dispatch(ctx context.Context, in Incoming) bool {
	m := in.Message
	guild := d.guilds.Get(ctx, m.GuildID)
	prefix := guild.Prefix().String()

	if !strings.HasPrefix(m.Content, prefix) {
		d.collectors.Offer(m)
		return false
	}
	d.collectors.Cancel(m.ChannelID, m.Author.ID)

	tokens := strings.Fields(m.Content[len(prefix):])
	if len(tokens) == 0 {
		return false
	}
	name := strings.ToLower(tokens[0])
	cmd, ok := d.commander.Lookup(name)
	if !ok {
		return false
	}

	def := cmd.Definition
	inv := def.Parse(prefix, name, tokens[1:])
	logger := slog.With("guild", m.GuildID, "channel", m.ChannelID, "user", m.Author.ID, "command", def.Name())

	reply := func(embed *discordgo.MessageEmbed) {
		if _, err := in.Responder.Reply(embed); err != nil {
			logger.Warn("failed to send reply", "error", err)
		}
	}

	switch {
	case inv.HelpRequested():
		reply(HelpEmbed(inv))
		return true
	case inv.InvalidOption() != "":
		reply(ErrorEmbed(inv.InvalidOptionMessage()))
		return true
	case def.AdminOnly() && !in.Admin:
		reply(ErrorEmbed(inv.AdminOnlyMessage()))
		return true
	case def.Cooldown() > 0 && !guild.TryCooldown(def.Name(), def.Cooldown()):
		reply(&discordgo.MessageEmbed{Description: inv.CooldownMessage(), Color: ColorWarning})
		return true
	}

	req := &Request{
		Session:    in.Session,
		Message:    m,
		Invocation: inv,
		Guild:      guild,
		Responder:  in.Responder,
		Collectors: d.collectors,
		Admin:      in.Admin,
	}

	logger.Debug("running command", "args", tokens[1:])
	if err := cmd.Handler(ctx, req); err != nil {
		logger.Error("failed to handle command", "error", err)
		reply(ErrorEmbed(GenericErrorMessage))
	}
	return true
}
