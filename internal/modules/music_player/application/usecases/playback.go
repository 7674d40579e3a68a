package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/command"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// PauseInput contains the input for the Pause use case.
type PauseInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// ResumeInput contains the input for the Resume use case.
type ResumeInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// ResumeOutput contains the result of the Resume use case.
type ResumeOutput struct {
	// Resumed is true when a paused stream was un-paused.
	Resumed bool
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero

	All  bool // remove every song
	Last bool // remove the last song
	Mine bool // only the user's songs are eligible

	Indexes []int
	Range   *command.Range
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	Removed []*domain.Song
}

// NowPlayingOutput contains the result of the NowPlaying use case.
type NowPlayingOutput struct {
	Song     *domain.Song
	Position time.Duration
	Paused   bool
}

// PlaybackService drives the playback session of every guild.
type PlaybackService struct {
	repo      domain.PlayerStateRepository
	player    ports.AudioPlayer
	resolver  ports.StreamResolver
	publisher ports.EventPublisher
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.PlayerStateRepository,
	player ports.AudioPlayer,
	resolver ports.StreamResolver,
	publisher ports.EventPublisher,
) *PlaybackService {
	return &PlaybackService{
		repo:      repo,
		player:    player,
		resolver:  resolver,
		publisher: publisher,
	}
}

// AutoPlay starts the head of the queue unless a stream is already active.
// A paused stream is resumed instead. Songs whose stream cannot be resolved
// are dropped and the next one is tried until one plays or the queue runs
// out, in which case ErrQueueEmpty is returned.
func (p *PlaybackService) AutoPlay(ctx context.Context, guildID snowflake.ID) error {
	state := p.repo.Get(guildID)
	if state == nil {
		return ErrNotConnected
	}

	for {
		song, err := p.beginNext(ctx, state)
		if err != nil || song == nil {
			return err
		}

		stream, resolveErr := p.resolver.Resolve(ctx, song)

		if done := p.startResolved(ctx, state, song, stream, resolveErr); done {
			return nil
		}
	}
}

// beginNext picks the song to resolve, or returns nil when nothing should start.
func (p *PlaybackService) beginNext(ctx context.Context, state *domain.PlayerState) (*domain.Song, error) {
	state.Lock()
	defer state.Unlock()

	switch state.Status() {
	case domain.StatusResolving, domain.StatusPlaying:
		return nil, nil
	case domain.StatusPaused:
		if err := p.player.Resume(ctx, state.GetGuildID()); err != nil {
			return nil, fmt.Errorf("resume stream: %w", err)
		}
		state.Resume()
		return nil, nil
	}

	song := state.Queue.First()
	if song == nil {
		return nil, ErrQueueEmpty
	}
	if !state.IsConnected() {
		return nil, ErrNotConnected
	}

	state.BeginResolve(song)
	return song, nil
}

// startResolved plays the resolved stream. It reports whether the loop is
// done; false means the song was dropped and the next one should be tried.
func (p *PlaybackService) startResolved(
	ctx context.Context,
	state *domain.PlayerState,
	song *domain.Song,
	stream *ports.Stream,
	resolveErr error,
) bool {
	guildID := state.GetGuildID()

	state.Lock()
	defer state.Unlock()

	if state.Status() != domain.StatusResolving || !state.IsCurrent(song) {
		// the session was stopped while resolving
		return true
	}

	if state.Queue.First() != song {
		slog.Debug("song removed while resolving", "guild", guildID, "song", song.ID)
		state.Finish()
		return false
	}

	err := resolveErr
	if err == nil {
		err = p.player.Play(ctx, guildID, stream)
	}
	if err == nil {
		state.StartPlaying()
		p.publish(domain.PlaybackStartedEvent{
			GuildID:               guildID,
			Song:                  song,
			NotificationChannelID: state.GetNotificationChannelID(),
		})
		return true
	}

	slog.Warn("song unavailable, dropping it", "guild", guildID, "song", song.ID, "error", err)
	state.Finish()
	state.Queue.BulkRemove([]int{0}, 0)
	p.publish(domain.PlaybackFailedEvent{
		GuildID:               guildID,
		Song:                  song,
		NotificationChannelID: state.GetNotificationChannelID(),
		Err:                   err,
	})
	return false
}

// HandleStreamEnded advances the queue after a stream ended and starts the
// next song.
func (p *PlaybackService) HandleStreamEnded(ctx context.Context, event domain.StreamEndedEvent) {
	if !event.Reason.ShouldAdvanceQueue() {
		return
	}

	state := p.repo.Get(event.GuildID)
	if state == nil {
		slog.Warn("stream ended but player state not found", "guild", event.GuildID)
		return
	}

	state.Lock()
	if !state.HasStream() {
		state.Unlock()
		slog.Debug("ignoring end of a detached stream", "guild", event.GuildID, "reason", event.Reason)
		return
	}
	advance := state.Queue.NextAdvance()
	state.Queue.Shift()
	state.Finish()
	msg := state.ClearNowPlayingMessage()
	notificationChannelID := state.GetNotificationChannelID()
	state.Unlock()

	slog.Debug("stream ended, advancing queue",
		"guild", event.GuildID,
		"reason", event.Reason,
		"advance", advance.String(),
	)

	p.publish(domain.PlaybackFinishedEvent{GuildID: event.GuildID, NowPlayingMessage: msg})
	p.continuePlayback(ctx, event.GuildID, notificationChannelID)
}

func (p *PlaybackService) continuePlayback(ctx context.Context, guildID, notificationChannelID snowflake.ID) {
	err := p.AutoPlay(ctx, guildID)
	switch {
	case err == nil, errors.Is(err, ErrNotConnected):
	case errors.Is(err, ErrQueueEmpty):
		p.publish(domain.QueueExhaustedEvent{
			GuildID:               guildID,
			NotificationChannelID: notificationChannelID,
		})
	default:
		slog.Error("failed to continue playback", "guild", guildID, "error", err)
	}
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, input PauseInput) error {
	state := p.repo.Get(input.GuildID)
	if state == nil {
		return ErrNotConnected
	}

	state.Lock()
	defer state.Unlock()

	// Update notification channel if provided
	if input.NotificationChannelID != 0 {
		state.SetNotificationChannelID(input.NotificationChannelID)
	}

	if state.Status() != domain.StatusPlaying {
		return ErrNotPlaying
	}

	if err := p.player.Pause(ctx, input.GuildID); err != nil {
		return err
	}
	state.Pause()

	return nil
}

// Resume un-pauses a paused stream. Without a stream it behaves like AutoPlay.
func (p *PlaybackService) Resume(ctx context.Context, input ResumeInput) (*ResumeOutput, error) {
	state := p.repo.Get(input.GuildID)
	if state == nil {
		return nil, ErrNotConnected
	}

	state.Lock()
	if input.NotificationChannelID != 0 {
		state.SetNotificationChannelID(input.NotificationChannelID)
	}

	switch state.Status() {
	case domain.StatusPaused:
		defer state.Unlock()
		if err := p.player.Resume(ctx, input.GuildID); err != nil {
			return nil, err
		}
		state.Resume()
		return &ResumeOutput{Resumed: true}, nil
	case domain.StatusPlaying, domain.StatusResolving:
		state.Unlock()
		return &ResumeOutput{}, nil
	}
	state.Unlock()

	if err := p.AutoPlay(ctx, input.GuildID); err != nil {
		return nil, err
	}
	return &ResumeOutput{}, nil
}

// Skip removes songs from the queue. When the song being streamed is among
// them, the stream is ended and the queue advances once its end is reported.
func (p *PlaybackService) Skip(ctx context.Context, input SkipInput) (*SkipOutput, error) {
	state := p.repo.Get(input.GuildID)
	if state == nil {
		return nil, ErrQueueEmpty
	}

	state.Lock()
	if input.NotificationChannelID != 0 {
		state.SetNotificationChannelID(input.NotificationChannelID)
	}

	if state.Queue.IsEmpty() {
		state.Unlock()
		return nil, ErrQueueEmpty
	}

	removed := removeSongs(state.Queue, input)
	output := &SkipOutput{Removed: removed}

	current := state.Current()
	if current == nil || !state.HasStream() || !slices.Contains(removed, current) {
		state.Unlock()
		return output, nil
	}

	state.Queue.SuppressNextAdvance()
	if state.Status() == domain.StatusPaused {
		if err := p.player.Resume(ctx, input.GuildID); err == nil {
			state.Resume()
		}
	}

	err := p.player.Stop(ctx, input.GuildID)
	if err == nil {
		state.Unlock()
		return output, nil
	}

	// No end event will arrive, so advance here.
	slog.Warn("failed to stop stream of a removed song", "guild", input.GuildID, "error", err)
	state.Queue.ClearSuppression()
	state.Finish()
	msg := state.ClearNowPlayingMessage()
	notificationChannelID := state.GetNotificationChannelID()
	state.Unlock()

	p.publish(domain.PlaybackFinishedEvent{GuildID: input.GuildID, NowPlayingMessage: msg})
	p.continuePlayback(ctx, input.GuildID, notificationChannelID)

	return output, nil
}

func removeSongs(queue *domain.Queue, input SkipInput) []*domain.Song {
	var requestor snowflake.ID
	if input.Mine {
		requestor = input.UserID
	}

	switch {
	case input.All:
		return queue.RemoveAll(requestor)
	case input.Last:
		return queue.BulkRemove([]int{queue.Len() - 1}, requestor)
	case len(input.Indexes) == 0 && input.Range == nil:
		if input.Mine {
			return queue.RemoveAll(requestor)
		}
		return queue.BulkRemove([]int{0}, 0)
	case input.Range != nil && input.Range.CoversAll():
		return queue.RemoveAll(requestor)
	}

	indexes := slices.Clone(input.Indexes)
	if input.Range != nil {
		indexes = append(indexes, input.Range.Indexes(queue.Len()-1)...)
	}
	return queue.BulkRemove(indexes, requestor)
}

// NowPlaying returns the song being streamed and its progress.
func (p *PlaybackService) NowPlaying(guildID snowflake.ID) (*NowPlayingOutput, error) {
	state := p.repo.Get(guildID)
	if state == nil {
		return nil, ErrNotPlaying
	}

	state.Lock()
	defer state.Unlock()

	if !state.HasStream() {
		return nil, ErrNotPlaying
	}

	return &NowPlayingOutput{
		Song:     state.Current(),
		Position: p.player.Position(guildID),
		Paused:   state.Status() == domain.StatusPaused,
	}, nil
}

func (p *PlaybackService) publish(event domain.Event) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(event); err != nil {
		slog.Warn("failed to publish event", "event", fmt.Sprintf("%T", event), "error", err)
	}
}
