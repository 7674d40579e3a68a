package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
	"github.com/sglre6355/pinkbean/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(context.Background(), storage.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type postedTime struct {
	channelID string
	messageID string
	at        time.Time
}

type fakeAnnouncer struct {
	mu sync.Mutex

	blocked  map[string]bool
	lost     map[string]bool // message IDs that can no longer be edited
	postErr  error
	newsErr  error
	nextID   int
	posted   []postedTime
	edited   []postedTime
	news     map[string][]string
	deleting map[string]time.Duration
}

func newFakeAnnouncer() *fakeAnnouncer {
	return &fakeAnnouncer{
		blocked:  make(map[string]bool),
		lost:     make(map[string]bool),
		news:     make(map[string][]string),
		deleting: make(map[string]time.Duration),
	}
}

func (a *fakeAnnouncer) CanSend(channelID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.blocked[channelID]
}

func (a *fakeAnnouncer) PostTime(channelID string, t domain.ServerTime) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.postErr != nil {
		return "", a.postErr
	}
	a.nextID++
	id := fmt.Sprintf("m%d", a.nextID)
	a.posted = append(a.posted, postedTime{channelID: channelID, messageID: id, at: t.Now})
	return id, nil
}

func (a *fakeAnnouncer) EditTime(channelID, messageID string, t domain.ServerTime) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lost[messageID] {
		return errors.New("unknown message")
	}
	a.edited = append(a.edited, postedTime{channelID: channelID, messageID: messageID, at: t.Now})
	return nil
}

func (a *fakeAnnouncer) PostNews(channelID string, post domain.NewsPost) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.newsErr != nil {
		return a.newsErr
	}
	a.news[channelID] = append(a.news[channelID], post.ID)
	return nil
}

func (a *fakeAnnouncer) DeleteAfter(channelID, messageID string, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleting[channelID+"/"+messageID] = d
}

func (a *fakeAnnouncer) newsIn(channelID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.news[channelID]...)
}

type fakeNewsSource struct {
	mu       sync.Mutex
	posts    map[domain.NewsCategory][]domain.NewsPost
	err      error
	requests []domain.NewsCategory
}

func (s *fakeNewsSource) Latest(_ context.Context, category domain.NewsCategory) ([]domain.NewsPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, category)
	if s.err != nil {
		return nil, s.err
	}
	return s.posts[category], nil
}

func (s *fakeNewsSource) set(category domain.NewsCategory, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.posts == nil {
		s.posts = make(map[domain.NewsCategory][]domain.NewsPost)
	}
	posts := make([]domain.NewsPost, len(ids))
	for i, id := range ids {
		posts[i] = domain.NewsPost{ID: id, Title: "Post " + id, Category: category}
	}
	s.posts[category] = posts
}
