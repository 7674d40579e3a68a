package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

func mockSong(id string, requestor snowflake.ID) *domain.Song {
	return domain.NewSong(
		domain.Video{ID: id, Title: "Song " + id, Duration: 3 * time.Minute},
		domain.Requestor{ID: requestor, Tag: "user"},
		nil,
	)
}

type mockRepository struct {
	mu      sync.Mutex
	states  map[snowflake.ID]*domain.PlayerState
	deleted []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		states: make(map[snowflake.ID]*domain.PlayerState),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[guildID]
}

func (m *mockRepository) GetOrCreate(guildID snowflake.ID) (*domain.PlayerState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.states[guildID]; ok {
		return state, false
	}
	state := domain.NewPlayerState(guildID, domain.NewQueue())
	m.states[guildID] = state
	return state, true
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, guildID)
	delete(m.states, guildID)
}

func (m *mockRepository) All() []*domain.PlayerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	states := make([]*domain.PlayerState, 0, len(m.states))
	for _, s := range m.states {
		states = append(states, s)
	}
	return states
}

// createConnectedState creates a PlayerState in a voice channel holding songs.
func (m *mockRepository) createConnectedState(
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
	songs ...*domain.Song,
) *domain.PlayerState {
	state, _ := m.GetOrCreate(guildID)
	state.SetVoiceChannelID(voiceChannelID)
	state.SetNotificationChannelID(notificationChannelID)
	for _, s := range songs {
		state.Queue.Add(s)
	}
	return state
}

// startPlaying puts the state into Playing for its head song.
func startPlaying(state *domain.PlayerState) {
	state.BeginResolve(state.Queue.First())
	state.StartPlaying()
}

type mockAudioPlayer struct {
	mu sync.Mutex

	played  []*ports.Stream
	stops   int
	pauses  int
	resumes int

	playErr   error
	stopErr   error
	pauseErr  error
	resumeErr error
	position  time.Duration
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, stream *ports.Stream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, stream)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return m.stopErr
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	return m.pauseErr
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes++
	return m.resumeErr
}

func (m *mockAudioPlayer) Position(_ snowflake.ID) time.Duration {
	return m.position
}

func (m *mockAudioPlayer) playedSources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	sources := make([]string, len(m.played))
	for i, s := range m.played {
		sources[i] = s.Source
	}
	return sources
}

type mockStreamResolver struct {
	failures  map[string]error
	onResolve func(song *domain.Song)
	resolved  []string
}

func (m *mockStreamResolver) Resolve(_ context.Context, song *domain.Song) (*ports.Stream, error) {
	m.resolved = append(m.resolved, song.ID)
	if m.onResolve != nil {
		m.onResolve(song)
	}
	if err := m.failures[song.ID]; err != nil {
		return nil, err
	}
	return &ports.Stream{Source: "enc-" + song.ID, Live: song.Live}, nil
}

type mockVoiceConnection struct {
	joined   []snowflake.ID
	left     int
	joinErr  error
	leaveErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.left++
	return m.leaveErr
}

type mockVoiceStateProvider struct {
	channels  map[snowflake.ID]snowflake.ID // userID -> channelID
	listeners map[snowflake.ID]int          // channelID -> listeners
	err       error
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

func (m *mockVoiceStateProvider) CountListeners(_, channelID snowflake.ID) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.listeners[channelID], nil
}

type mockEventPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *mockEventPublisher) Publish(event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func eventsOf[T domain.Event](m *mockEventPublisher) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []T
	for _, e := range m.events {
		if typed, ok := e.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

type mockCatalog struct {
	results   []ports.SearchResult
	videos    map[string]domain.Video
	playlists map[string]*ports.PlaylistItems
	err       error

	lastLimit int
}

func (m *mockCatalog) Search(_ context.Context, _ string) ([]ports.SearchResult, error) {
	return m.results, m.err
}

func (m *mockCatalog) Videos(_ context.Context, ids ...string) ([]domain.Video, error) {
	if m.err != nil {
		return nil, m.err
	}
	var videos []domain.Video
	for _, id := range ids {
		if v, ok := m.videos[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func (m *mockCatalog) Playlist(_ context.Context, listID, _ string, limit int) (*ports.PlaylistItems, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	items, ok := m.playlists[listID]
	if !ok {
		return nil, nil
	}
	if len(items.Videos) > limit {
		trimmed := *items
		trimmed.Videos = items.Videos[:limit]
		return &trimmed, nil
	}
	return items, nil
}

type mockSnapshotStore struct {
	saved   map[snowflake.ID][]*domain.Song
	saveErr error
	loadErr error
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{saved: make(map[snowflake.ID][]*domain.Song)}
}

func (m *mockSnapshotStore) Save(_ context.Context, guildID snowflake.ID, songs []*domain.Song) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[guildID] = songs
	return nil
}

func (m *mockSnapshotStore) Load(_ context.Context, guildID snowflake.ID) ([]*domain.Song, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved[guildID], nil
}
