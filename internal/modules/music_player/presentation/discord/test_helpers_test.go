package discord

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/bot"
	"github.com/sglre6355/pinkbean/internal/command"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/infrastructure"
)

const (
	testGuildID   = snowflake.ID(1)
	testChannelID = snowflake.ID(2)
	testUserID    = snowflake.ID(3)
	testVoiceID   = snowflake.ID(10)
)

func testVideo(id string) domain.Video {
	return domain.Video{
		ID:           id,
		Title:        "Song " + id,
		ChannelID:    "UC" + id,
		ChannelTitle: "Channel " + id,
		Duration:     3 * time.Minute,
		ThumbnailURL: "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
	}
}

func testSong(id string, requestor snowflake.ID) *domain.Song {
	return domain.NewSong(testVideo(id), domain.Requestor{ID: requestor, Tag: "user"}, nil)
}

type fakePlayer struct {
	mu       sync.Mutex
	played   []string
	stops    int
	pauses   int
	resumes  int
	position time.Duration
}

func (p *fakePlayer) Play(_ context.Context, _ snowflake.ID, stream *ports.Stream) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, stream.Source)
	return nil
}

func (p *fakePlayer) Stop(context.Context, snowflake.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	return nil
}

func (p *fakePlayer) Pause(context.Context, snowflake.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
	return nil
}

func (p *fakePlayer) Resume(context.Context, snowflake.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resumes++
	return nil
}

func (p *fakePlayer) Position(snowflake.ID) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayer) playedSources() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.played...)
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, song *domain.Song) (*ports.Stream, error) {
	return &ports.Stream{Source: "enc-" + song.ID}, nil
}

type fakeVoiceConnection struct {
	mu     sync.Mutex
	joined []snowflake.ID
	left   int
}

func (v *fakeVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.joined = append(v.joined, channelID)
	return nil
}

func (v *fakeVoiceConnection) LeaveChannel(context.Context, snowflake.ID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.left++
	return nil
}

type fakeVoiceState struct {
	channels map[snowflake.ID]snowflake.ID // userID -> voice channel
}

func (v *fakeVoiceState) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	return v.channels[userID], nil
}

func (v *fakeVoiceState) CountListeners(snowflake.ID, snowflake.ID) (int, error) {
	return 1, nil
}

type fakeCatalog struct {
	results   []ports.SearchResult
	videos    map[string]domain.Video
	playlists map[string]*ports.PlaylistItems
	limits    []int
}

func (c *fakeCatalog) Search(context.Context, string) ([]ports.SearchResult, error) {
	return c.results, nil
}

func (c *fakeCatalog) Videos(_ context.Context, ids ...string) ([]domain.Video, error) {
	var videos []domain.Video
	for _, id := range ids {
		if v, ok := c.videos[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (c *fakeCatalog) Playlist(_ context.Context, listID, _ string, limit int) (*ports.PlaylistItems, error) {
	c.limits = append(c.limits, limit)
	items, ok := c.playlists[listID]
	if !ok {
		return nil, nil
	}
	return &ports.PlaylistItems{
		Playlist: items.Playlist,
		Videos:   items.Videos[:min(limit, len(items.Videos))],
	}, nil
}

type handlerFixture struct {
	handlers   *CommandHandlers
	repo       *infrastructure.MemoryRepository
	player     *fakePlayer
	voice      *fakeVoiceConnection
	voiceState *fakeVoiceState
	catalog    *fakeCatalog
	responder  *bot.MockResponder
	collectors *bot.CollectorHub
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		repo:       infrastructure.NewMemoryRepository(0),
		player:     &fakePlayer{},
		voice:      &fakeVoiceConnection{},
		voiceState: &fakeVoiceState{channels: map[snowflake.ID]snowflake.ID{testUserID: testVoiceID}},
		catalog:    &fakeCatalog{videos: map[string]domain.Video{}, playlists: map[string]*ports.PlaylistItems{}},
		responder:  &bot.MockResponder{},
		collectors: bot.NewCollectorHub(),
	}

	voiceChannel := usecases.NewVoiceChannelService(f.repo, f.voice, f.voiceState, f.player, nil)
	playback := usecases.NewPlaybackService(f.repo, f.player, fakeResolver{}, nil)
	f.handlers = NewCommandHandlers(
		voiceChannel,
		playback,
		usecases.NewQueueService(f.repo),
		usecases.NewSongLoaderService(f.catalog),
	)
	return f
}

// connect puts the bot in the test voice channel with songs queued.
func (f *handlerFixture) connect(songs ...*domain.Song) *domain.PlayerState {
	state, _ := f.repo.GetOrCreate(testGuildID)
	state.Lock()
	defer state.Unlock()
	state.SetVoiceChannelID(testVoiceID)
	state.SetNotificationChannelID(testChannelID)
	for _, s := range songs {
		state.Queue.Add(s)
	}
	return state
}

func (f *handlerFixture) request(def *command.Definition, args string) *bot.Request {
	m := &discordgo.Message{
		ID:        "100",
		GuildID:   testGuildID.String(),
		ChannelID: testChannelID.String(),
		Author:    &discordgo.User{ID: testUserID.String(), Username: "tester"},
	}
	return &bot.Request{
		Message:    m,
		Invocation: def.Parse("!", def.Name(), strings.Fields(args)),
		Responder:  f.responder,
		Collectors: f.collectors,
	}
}

// followUp builds a non-command message from the test user.
func followUp(id, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        id,
		GuildID:   testGuildID.String(),
		ChannelID: testChannelID.String(),
		Content:   content,
		Author:    &discordgo.User{ID: testUserID.String()},
	}
}

func descriptions(embeds []*discordgo.MessageEmbed) []string {
	out := make([]string, len(embeds))
	for i, e := range embeds {
		out[i] = e.Description
	}
	return out
}
