package presentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/pinkbean/internal/bot"
	"github.com/sglre6355/pinkbean/internal/command"
	"github.com/sglre6355/pinkbean/internal/modules/general/application"
	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
	"github.com/sglre6355/pinkbean/internal/modules/general/infrastructure"
)

const inviteURL = "https://discord.com/oauth2/authorize?client_id=%s&permissions=%d&scope=bot"

// newsSummaryLength caps the summary of each post in the news listing.
const newsSummaryLength = 200

// Reply texts.
const (
	msgPrefixSaveFailed = "Unable to save prefix"
	msgSubscribeFailed  = "Unable to update the subscription"
	msgNewsUnavailable  = "Unable to fetch news right now"
	msgNoNews           = "No news found"
	msgDirectFailed     = "%s, I cannot send you direct messages"
)

// helpCategories is the order of the sections of the help listing.
var helpCategories = []command.Category{
	command.CategoryMapleStory,
	command.CategoryMusic,
	command.CategoryGeneral,
}

var errNoBotUser = errors.New("bot user is not known yet")

// Handlers runs the general commands.
type Handlers struct {
	commander     *bot.Commander
	guilds        *bot.GuildRegistry
	developers    []string
	version       string
	ping          *application.PingInteractor
	news          *application.NewsInteractor
	subscriptions *application.SubscriptionInteractor
	now           func() time.Time
}

// NewHandlers creates the general command handlers.
func NewHandlers(
	commander *bot.Commander,
	guilds *bot.GuildRegistry,
	developers []string,
	version string,
	ping *application.PingInteractor,
	news *application.NewsInteractor,
	subscriptions *application.SubscriptionInteractor,
) *Handlers {
	return &Handlers{
		commander:     commander,
		guilds:        guilds,
		developers:    developers,
		version:       version,
		ping:          ping,
		news:          news,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// Commands returns the general commands in help order.
func (h *Handlers) Commands() []*bot.Command {
	return []*bot.Command{
		{Definition: subDefinition, Handler: h.HandleSub},
		{Definition: timeDefinition, Handler: h.HandleTime},
		{Definition: newsDefinition, Handler: h.HandleNews},
		{Definition: prefixDefinition, Handler: h.HandlePrefix},
		{Definition: inviteDefinition, Handler: h.HandleInvite},
		{Definition: aboutDefinition, Handler: h.HandleAbout},
		{Definition: pingDefinition, Handler: h.HandlePing},
		{Definition: helpDefinition, Handler: h.HandleHelp},
	}
}

// HandlePing reports the heartbeat latency and uptime.
func (h *Handlers) HandlePing(_ context.Context, req *bot.Request) error {
	result := h.ping.Execute()

	embed := req.Embed("")
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Ping", Value: result.LatencyText()},
		{Name: "Uptime", Value: result.UptimeText()},
	}
	_, err := req.Responder.Reply(embed)
	return err
}

// HandleHelp sends the command list to the author.
func (h *Handlers) HandleHelp(_ context.Context, req *bot.Request) error {
	prefix := req.Invocation.Prefix()
	embed := req.Embed(helpText(prefix, h.commander.Definitions()))
	embed.Title = "Pink Bean"

	if err := req.Responder.DirectMessage(embed); err != nil {
		slog.Debug("failed to send help", "user", req.AuthorID(), "error", err)
		_, err = req.ReplyError(fmt.Sprintf(msgDirectFailed, bot.Mention(req.AuthorID())))
		return err
	}
	return nil
}

type helpLine struct {
	name, arg, brief string
}

func helpText(prefix string, defs []*command.Definition) string {
	grouped := command.GroupByCategory(defs, helpCategories...)

	lines := make(map[command.Category][]helpLine)
	var nameLen, argLen int
	var exampled string
	for _, category := range helpCategories {
		for _, d := range grouped[category] {
			line := helpLine{name: prefix + d.Name(), brief: d.Brief()}
			if arg := d.Argument(); arg != nil {
				line.arg = arg.String()
			}
			if exampled == "" {
				exampled = line.name
			}
			nameLen = max(nameLen, len(line.name))
			argLen = max(argLen, len(line.arg))
			lines[category] = append(lines[category], line)
		}
	}

	var b strings.Builder
	b.WriteString("```css\n")
	b.WriteString("To show help for a command, add ' -h' after the command.\n")
	if exampled != "" {
		fmt.Fprintf(&b, "For example, '%s -h'\n", exampled)
	}
	for _, category := range helpCategories {
		if len(lines[category]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", category)
		for _, line := range lines[category] {
			fmt.Fprintf(&b, "  %s\t%s\t%s\n", pad(line.name, nameLen), pad(line.arg, argLen), line.brief)
		}
	}
	b.WriteString("```")
	return b.String()
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// HandleAbout describes the bot.
func (h *Handlers) HandleAbout(_ context.Context, req *bot.Request) error {
	user := botUser(req.Session)
	if user == nil {
		return errNoBotUser
	}

	guilds, channels, members := stateCounts(req.Session.State)

	developers := make([]string, len(h.developers))
	for i, id := range h.developers {
		developers[i] = bot.Mention(id)
	}
	madeBy := strings.Join(developers, ", ")
	if madeBy == "" {
		madeBy = "-"
	}

	embed := req.Embed(user.Username + " is a project that we made to give back to the community. Thanks for all the love and support!")
	embed.Author = &discordgo.MessageEmbedAuthor{Name: user.Username, IconURL: user.AvatarURL("")}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Version", Value: h.version, Inline: true},
		{Name: "Made by", Value: madeBy, Inline: true},
		{Name: "Library", Value: "[discordgo](https://github.com/bwmarrin/discordgo) " + discordgo.VERSION, Inline: true},
		{Name: "Guilds", Value: strconv.Itoa(guilds), Inline: true},
		{Name: "Users", Value: strconv.Itoa(members), Inline: true},
		{Name: "Channels", Value: strconv.Itoa(channels), Inline: true},
	}
	_, err := req.Responder.Reply(embed)
	return err
}

func stateCounts(state *discordgo.State) (guilds, channels, members int) {
	state.RLock()
	defer state.RUnlock()
	for _, g := range state.Guilds {
		channels += len(g.Channels)
		members += g.MemberCount
	}
	return len(state.Guilds), channels, members
}

func botUser(s *discordgo.Session) *discordgo.User {
	if s == nil || s.State == nil {
		return nil
	}
	return s.State.User
}

// HandleInvite replies with the link that adds the bot to a guild.
func (h *Handlers) HandleInvite(_ context.Context, req *bot.Request) error {
	user := botUser(req.Session)
	if user == nil {
		return errNoBotUser
	}

	embed := req.Embed(fmt.Sprintf(inviteURL, user.ID, discordgo.PermissionAdministrator))
	embed.Title = "Invite Link"
	_, err := req.Responder.Reply(embed)
	return err
}

// HandlePrefix changes the guild prefix.
func (h *Handlers) HandlePrefix(ctx context.Context, req *bot.Request) error {
	content := req.Invocation.Input().Text()
	if content == "" {
		return nil
	}

	prefix := bot.Prefix{Content: content, Space: req.Invocation.Enabled(prefixSpace)}
	if prefix.String() == req.Invocation.Prefix() {
		return nil
	}

	if err := h.guilds.SetPrefix(ctx, req.GuildID(), prefix); err != nil {
		slog.Error("failed to save prefix", "guild", req.GuildID(), "error", err)
		_, err = req.ReplyError(msgPrefixSaveFailed)
		return err
	}

	space := "without any following spaces"
	if prefix.Space {
		space = "with a following space"
	}
	embed := req.Embed(fmt.Sprintf("Command prefix is now **`%s`** %s. E.g., `%shelp`", prefix.Content, space, prefix))
	embed.Author = &discordgo.MessageEmbedAuthor{Name: "Prefix changed"}
	_, err := req.Responder.Reply(embed)
	return err
}

// HandleTime shows the server time and reset countdowns. The daily, weekly
// and invasion aliases only show their own countdown.
func (h *Handlers) HandleTime(_ context.Context, req *bot.Request) error {
	t := domain.NewServerTime(h.now())

	var fields []*discordgo.MessageEmbedField
	switch req.Invocation.Name() {
	case "daily":
		fields = append(fields, countdownField("Daily resets in", t.Daily))
	case "weekly":
		fields = append(fields,
			countdownField("Weekly resets in", t.WeeklyBoss),
			countdownField("Guild and Dojo reset in", t.WeeklyMule),
		)
	case "invasion":
		fields = append(fields, countdownField("Kritias Invasion in", t.Invasion))
	default:
		_, err := req.Responder.Reply(infrastructure.TimeEmbed(t))
		return err
	}

	embed := req.Embed("")
	embed.Fields = fields
	_, err := req.Responder.Reply(embed)
	return err
}

func countdownField(name string, d time.Duration) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: domain.FormatCountdown(d)}
}

// HandleNews lists the latest posts of the chosen category.
func (h *Handlers) HandleNews(ctx context.Context, req *bot.Request) error {
	category := domain.NewsGeneral
	if opt := req.Invocation.EnabledIn(newsCategories); opt != nil {
		category = newsCategoryOf[opt]
	}

	posts, err := h.news.Latest(ctx, category)
	if err != nil {
		slog.Warn("failed to fetch news", "category", category, "error", err)
		_, err = req.ReplyError(msgNewsUnavailable)
		return err
	}
	if len(posts) == 0 {
		_, err = req.Reply(msgNoNews)
		return err
	}

	_, err = req.Responder.Reply(newsListEmbed(category, posts))
	return err
}

func newsListEmbed(category domain.NewsCategory, posts []domain.NewsPost) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{Name: "MapleStory News: " + category.Title()},
		Color:  infrastructure.ColorMaple,
	}
	for _, post := range posts {
		value := command.Truncate(post.Description, newsSummaryLength)
		if value != "" {
			value += "\n"
		}
		value += fmt.Sprintf("[Read more](%s)", post.URL)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: post.Title, Value: value})
	}
	if posts[0].ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: posts[0].ImageURL}
	}
	return embed
}

// HandleSub toggles the news or time subscription of the channel.
func (h *Handlers) HandleSub(ctx context.Context, req *bot.Request) error {
	topic := application.TopicNews
	if req.Invocation.Enabled(subTime) {
		topic = application.TopicTime
	}

	subscribed, err := h.subscriptions.Toggle(ctx, topic, req.GuildID(), req.ChannelID())
	if err != nil {
		slog.Error("failed to toggle subscription", "guild", req.GuildID(), "topic", topic, "error", err)
		_, err = req.ReplyError(msgSubscribeFailed)
		return err
	}

	verb := "Unsubscribed from"
	if subscribed {
		verb = "Subscribed to"
	}
	_, err = req.Replyf("%s %s in %s", verb, topic, bot.ChannelMention(req.ChannelID()))
	return err
}
