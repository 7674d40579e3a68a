package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/bot"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/usecases"
)

const (
	searchPerPage = 5
	searchTimeout = 60 * time.Second

	queuePerPage     = 10
	queueTimeout     = 40 * time.Second
	queueLingerAfter = 5 * time.Second

	skipReplyLifetime = 10 * time.Second
)

// Reply texts.
const (
	joinVoiceFirst  = "join a voice channel first!"
	queueEmptyText  = "Queue is empty"
	queueFullText   = "Queue is full"
	noResultsText   = "No results found"
	searchCancelled = "Search cancelled"
)

// CommandHandlers holds all the music command handlers.
type CommandHandlers struct {
	voiceChannel *usecases.VoiceChannelService
	playback     *usecases.PlaybackService
	queue        *usecases.QueueService
	songLoader   *usecases.SongLoaderService

	searchTimeout time.Duration
	queueTimeout  time.Duration
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	voiceChannel *usecases.VoiceChannelService,
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
	songLoader *usecases.SongLoaderService,
) *CommandHandlers {
	return &CommandHandlers{
		voiceChannel:  voiceChannel,
		playback:      playback,
		queue:         queue,
		songLoader:    songLoader,
		searchTimeout: searchTimeout,
		queueTimeout:  queueTimeout,
	}
}

// Commands binds every music command to its handler.
func (h *CommandHandlers) Commands() []*bot.Command {
	return []*bot.Command{
		{Definition: playDefinition, Handler: h.HandlePlay},
		{Definition: pauseDefinition, Handler: h.HandlePause},
		{Definition: resumeDefinition, Handler: h.HandleResume},
		{Definition: skipDefinition, Handler: h.HandleSkip},
		{Definition: queueDefinition, Handler: h.HandleQueue},
		{Definition: shuffleDefinition, Handler: h.HandleShuffle},
		{Definition: currentDefinition, Handler: h.HandleCurrent},
		{Definition: joinDefinition, Handler: h.HandleJoin},
		{Definition: leaveDefinition, Handler: h.HandleLeave},
	}
}

type requestIDs struct {
	guild   snowflake.ID
	channel snowflake.ID
	user    snowflake.ID
}

func parseIDs(req *bot.Request) (requestIDs, error) {
	var ids requestIDs
	var err error
	if ids.guild, err = snowflake.Parse(req.GuildID()); err != nil {
		return ids, fmt.Errorf("parse guild id: %w", err)
	}
	if ids.channel, err = snowflake.Parse(req.ChannelID()); err != nil {
		return ids, fmt.Errorf("parse channel id: %w", err)
	}
	if ids.user, err = snowflake.Parse(req.AuthorID()); err != nil {
		return ids, fmt.Errorf("parse user id: %w", err)
	}
	return ids, nil
}

// join connects to the author's voice channel. It reports whether the
// command may go on; a false result has already been answered.
func (h *CommandHandlers) join(ctx context.Context, req *bot.Request, ids requestIDs, keep bool) (bool, error) {
	out, err := h.voiceChannel.Join(ctx, usecases.JoinInput{
		GuildID:               ids.guild,
		UserID:                ids.user,
		NotificationChannelID: ids.channel,
		KeepChannel:           keep,
	})
	switch {
	case errors.Is(err, usecases.ErrUserNotInVoice):
		_, err = req.Reply(bot.Mention(req.AuthorID()) + ", " + joinVoiceFirst)
		return false, err
	case errors.Is(err, usecases.ErrInAnotherChannel):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("join voice channel: %w", err)
	}

	if !out.AlreadyJoined {
		if _, err := req.Reply("Joined " + bot.ChannelMention(out.VoiceChannelID.String())); err != nil {
			return false, err
		}
	}
	return true, nil
}

// HandleJoin moves the bot into the author's voice channel.
func (h *CommandHandlers) HandleJoin(ctx context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}
	_, err = h.join(ctx, req, ids, false)
	return err
}

// HandleLeave disconnects the bot from its voice channel.
func (h *CommandHandlers) HandleLeave(ctx context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}

	out, err := h.voiceChannel.Leave(ctx, usecases.LeaveInput{GuildID: ids.guild})
	if errors.Is(err, usecases.ErrNotConnected) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("leave voice channel: %w", err)
	}

	_, err = req.Reply("Left " + bot.ChannelMention(out.VoiceChannelID.String()))
	return err
}

// HandlePlay queues a linked song or playlist, or runs a search.
func (h *CommandHandlers) HandlePlay(ctx context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}

	if ok, err := h.join(ctx, req, ids, true); !ok {
		return err
	}

	input := req.Invocation.Input()
	if input.Empty() {
		return h.resume(ctx, req, ids)
	}
	if h.queue.IsFull(ids.guild) {
		_, err := req.Reply(queueFullText)
		return err
	}

	loadInput := usecases.LoadInput{
		Query:     input.Text(),
		Requestor: usecases.Requestor{ID: ids.user, Tag: bot.UserTag(req.Author())},
		ListLimit: -1,
	}
	if req.Invocation.Enabled(playListLimit) {
		if limitInput := req.Invocation.OptionInput(playListLimit); limitInput != nil {
			parsed := limitInput.Parse()
			if parsed.Failed() {
				_, err := req.Reply(parsed.Error)
				return err
			}
			if n, ok := parsed.Num(); ok {
				loadInput.ListLimit = n
			}
		}
	}

	out, err := h.songLoader.Load(ctx, loadInput)
	if err != nil {
		return h.replyLoadError(req, loadInput.Query, err)
	}
	if len(out.Results) > 0 {
		return h.choose(ctx, req, ids, out.Results, loadInput)
	}
	return h.enqueue(ctx, req, ids, out)
}

func (h *CommandHandlers) replyLoadError(req *bot.Request, query string, err error) error {
	var text string
	switch {
	case errors.Is(err, usecases.ErrNoResults):
		text = noResultsText
	case errors.Is(err, usecases.ErrInvalidLink):
		text = "Invalid youtube " + link("song", query)
	case errors.Is(err, usecases.ErrUnavailable):
		text = "The requested " + link("song", query) + " is unavailable"
	default:
		return fmt.Errorf("load songs: %w", err)
	}
	_, replyErr := req.Reply(text)
	return replyErr
}

// enqueue adds loaded songs and starts playback.
func (h *CommandHandlers) enqueue(ctx context.Context, req *bot.Request, ids requestIDs, loaded *usecases.LoadOutput) error {
	if len(loaded.Songs) == 0 {
		return nil
	}

	out, err := h.queue.Add(usecases.AddInput{
		GuildID:               ids.guild,
		NotificationChannelID: ids.channel,
		Songs:                 loaded.Songs,
	})
	if errors.Is(err, usecases.ErrQueueFull) {
		_, err := req.Reply(queueFullText)
		return err
	}
	if err != nil {
		return fmt.Errorf("add songs: %w", err)
	}

	switch {
	case loaded.Playlist != nil && len(out.Added) > 0:
		_, err = req.Responder.Reply(playlistEmbed(loaded.Playlist, out.Added[0], len(out.Added)))
	case len(out.Added) > 0:
		_, err = req.Responder.Reply(songEmbed("Added", out.Added[0]))
	}
	if err != nil {
		return err
	}
	if out.Full {
		if _, err := req.Reply(queueFullText); err != nil {
			return err
		}
	}

	return h.autoPlay(ctx, req, ids)
}

func (h *CommandHandlers) autoPlay(ctx context.Context, req *bot.Request, ids requestIDs) error {
	err := h.playback.AutoPlay(ctx, ids.guild)
	switch {
	case err == nil, errors.Is(err, usecases.ErrNotConnected):
		return nil
	case errors.Is(err, usecases.ErrQueueEmpty):
		_, err := req.Reply(queueEmptyText)
		return err
	default:
		return fmt.Errorf("start playback: %w", err)
	}
}

// choose lets the author pick a search result by replying with its number.
func (h *CommandHandlers) choose(
	ctx context.Context,
	req *bot.Request,
	ids requestIDs,
	results []usecases.SearchResult,
	loadInput usecases.LoadInput,
) error {
	page := 0
	pages := pageCount(len(results), searchPerPage)

	choiceMsg, err := req.Responder.Reply(choiceEmbed(results, page, req.Author()))
	if err != nil {
		return err
	}

	collector := req.Collectors.Start(req.ChannelID(), req.AuthorID(), h.searchTimeout)
	defer collector.Stop()

	deadline := time.Now().Add(h.searchTimeout)
	choice := -1
	for choice < 0 {
		waitCtx, cancel := context.WithDeadline(ctx, deadline)
		m, err := collector.Next(waitCtx)
		cancel()
		if err != nil {
			break
		}
		h.deleteMessage(req, m.ID)

		reply, ok := parseReply(m.Content)
		if !ok {
			break
		}
		switch {
		case reply.page != 0:
			next := min(max(page+reply.page, 0), pages-1)
			if next == page {
				continue
			}
			page = next
			deadline = time.Now().Add(h.searchTimeout)
			if err := req.Responder.Edit(choiceMsg.ID, choiceEmbed(results, page, req.Author())); err != nil {
				slog.Debug("failed to edit search results", "error", err)
			}
		case reply.index >= 0 && reply.index < len(results):
			choice = reply.index
		}
	}
	h.deleteMessage(req, choiceMsg.ID)

	if choice < 0 {
		_, err := req.Reply(searchCancelled)
		return err
	}

	out, err := h.songLoader.Choose(ctx, results[choice], loadInput)
	if err != nil {
		return h.replyLoadError(req, results[choice].Title(), err)
	}
	return h.enqueue(ctx, req, ids, out)
}

func (h *CommandHandlers) deleteMessage(req *bot.Request, messageID string) {
	if err := req.Responder.Delete(messageID); err != nil {
		slog.Debug("failed to delete message", "message", messageID, "error", err)
	}
}

func (h *CommandHandlers) resume(ctx context.Context, req *bot.Request, ids requestIDs) error {
	out, err := h.playback.Resume(ctx, usecases.ResumeInput{
		GuildID:               ids.guild,
		NotificationChannelID: ids.channel,
	})
	switch {
	case errors.Is(err, usecases.ErrQueueEmpty):
		_, err := req.Reply(queueEmptyText)
		return err
	case errors.Is(err, usecases.ErrNotConnected):
		return nil
	case err != nil:
		return fmt.Errorf("resume playback: %w", err)
	}

	if out.Resumed {
		_, err = req.Reply("Music resumed")
	}
	return err
}

// HandleResume resumes paused music or starts the queue.
func (h *CommandHandlers) HandleResume(ctx context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}
	return h.resume(ctx, req, ids)
}

// HandlePause pauses the current song.
func (h *CommandHandlers) HandlePause(ctx context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}

	err = h.playback.Pause(ctx, usecases.PauseInput{
		GuildID:               ids.guild,
		NotificationChannelID: ids.channel,
	})
	if errors.Is(err, usecases.ErrNotPlaying) || errors.Is(err, usecases.ErrNotConnected) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pause playback: %w", err)
	}

	_, err = req.Reply("Music paused")
	return err
}

// HandleSkip removes songs from the queue.
func (h *CommandHandlers) HandleSkip(ctx context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}

	input := usecases.SkipInput{
		GuildID:               ids.guild,
		UserID:                ids.user,
		NotificationChannelID: ids.channel,
		All:                   req.Invocation.Enabled(skipAll),
		Last:                  req.Invocation.Enabled(skipLast),
		Mine:                  req.Invocation.Enabled(skipMine),
	}
	if in := req.Invocation.Input(); !input.All && !input.Last && !in.Empty() {
		parsed := in.Parse()
		if parsed.Failed() {
			_, err := req.Reply(parsed.Error)
			return err
		}
		input.Indexes = parsed.Nums
		input.Range = parsed.Range
	}

	out, err := h.playback.Skip(ctx, input)
	if errors.Is(err, usecases.ErrQueueEmpty) {
		_, err := req.Reply(queueEmptyText)
		return err
	}
	if err != nil {
		return fmt.Errorf("skip songs: %w", err)
	}

	embed := req.Embed(fmt.Sprintf("Removed **%d** songs", len(out.Removed)))
	if len(out.Removed) == 1 {
		embed = removedEmbed(out.Removed[0])
	}
	msg, err := req.Responder.Reply(embed)
	if err != nil {
		return err
	}
	req.Responder.DeleteAfter(msg.ID, skipReplyLifetime)
	return nil
}

// HandleQueue shows the queue, paged by replies when it is long.
func (h *CommandHandlers) HandleQueue(ctx context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}

	var songs []*usecases.Song
	out, err := h.queue.List(ids.guild)
	switch {
	case err == nil:
		songs = out.Songs
	case !errors.Is(err, usecases.ErrQueueEmpty):
		return fmt.Errorf("list queue: %w", err)
	}

	title := guildName(req)
	page := 0
	msg, err := req.Responder.Reply(queueEmbed(title, songs, page))
	if err != nil {
		return err
	}
	if len(songs) <= queuePerPage {
		req.Responder.DeleteAfter(msg.ID, h.queueTimeout)
		return nil
	}

	pages := pageCount(len(songs), queuePerPage)
	collector := req.Collectors.Start(req.ChannelID(), req.AuthorID(), h.queueTimeout)
	defer collector.Stop()

	deadline := time.Now().Add(h.queueTimeout)
	for {
		waitCtx, cancel := context.WithDeadline(ctx, deadline)
		m, err := collector.Next(waitCtx)
		cancel()
		if err != nil {
			break
		}

		h.deleteMessage(req, m.ID)
		reply, ok := parseReply(m.Content)
		if !ok || reply.page == 0 {
			continue
		}

		next := min(max(page+reply.page, 0), pages-1)
		if next == page {
			continue
		}
		page = next
		deadline = time.Now().Add(h.queueTimeout)
		if err := req.Responder.Edit(msg.ID, queueEmbed(title, songs, page)); err != nil {
			slog.Debug("failed to edit queue page", "error", err)
		}
	}
	req.Responder.DeleteAfter(msg.ID, queueLingerAfter)
	return nil
}

func guildName(req *bot.Request) string {
	if req.Session != nil && req.Session.State != nil {
		if g, err := req.Session.State.Guild(req.GuildID()); err == nil && g.Name != "" {
			return g.Name
		}
	}
	return "Queue"
}

// HandleShuffle shuffles every song after the current one.
func (h *CommandHandlers) HandleShuffle(_ context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}

	err = h.queue.Shuffle(ids.guild)
	if errors.Is(err, usecases.ErrQueueTooShort) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("shuffle queue: %w", err)
	}

	_, err = req.Reply("Queue shuffled")
	return err
}

// HandleCurrent shows the song being played.
func (h *CommandHandlers) HandleCurrent(_ context.Context, req *bot.Request) error {
	ids, err := parseIDs(req)
	if err != nil {
		return err
	}

	out, err := h.playback.NowPlaying(ids.guild)
	if errors.Is(err, usecases.ErrNotPlaying) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get current song: %w", err)
	}

	_, err = req.Responder.Reply(currentEmbed(out.Song, out.Position))
	return err
}
