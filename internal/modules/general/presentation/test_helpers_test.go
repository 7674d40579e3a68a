package presentation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/sglre6355/pinkbean/internal/bot"
	"github.com/sglre6355/pinkbean/internal/command"
	"github.com/sglre6355/pinkbean/internal/modules/general/application"
	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
	"github.com/sglre6355/pinkbean/internal/storage"
)

const (
	testGuildID   = "1"
	testChannelID = "2"
	testUserID    = "3"
	testBotID     = "99"
)

var errStore = errors.New("database is locked")

type fakePrefixStore struct {
	saveErr error
	saved   []*storage.Prefix
}

func (s *fakePrefixStore) LoadPrefix(context.Context, string) (*storage.Prefix, error) {
	return nil, nil
}

func (s *fakePrefixStore) SavePrefix(_ context.Context, p *storage.Prefix) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, p)
	return nil
}

func (s *fakePrefixStore) DeletePrefix(context.Context, string) error { return nil }

type fakeNewsSource struct {
	posts []domain.NewsPost
	err   error
	asked []domain.NewsCategory
}

func (s *fakeNewsSource) Latest(_ context.Context, category domain.NewsCategory) ([]domain.NewsPost, error) {
	s.asked = append(s.asked, category)
	return s.posts, s.err
}

type fakeAnnouncer struct {
	deleted []string
}

func (a *fakeAnnouncer) CanSend(string) bool { return true }

func (a *fakeAnnouncer) PostTime(string, domain.ServerTime) (string, error) { return "50", nil }

func (a *fakeAnnouncer) EditTime(string, string, domain.ServerTime) error { return nil }

func (a *fakeAnnouncer) PostNews(string, domain.NewsPost) error { return nil }

func (a *fakeAnnouncer) DeleteAfter(channelID, messageID string, _ time.Duration) {
	a.deleted = append(a.deleted, channelID+"/"+messageID)
}

type handlerFixture struct {
	handlers  *Handlers
	commander *bot.Commander
	guilds    *bot.GuildRegistry
	prefixes  *fakePrefixStore
	store     *storage.Store
	news      *fakeNewsSource
	announcer *fakeAnnouncer
	responder *bot.MockResponder
	session   *discordgo.Session
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	store, err := storage.Open(context.Background(), storage.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	session := &discordgo.Session{State: discordgo.NewState()}
	session.State.User = &discordgo.User{ID: testBotID, Username: "Pink Bean"}

	f := &handlerFixture{
		commander: bot.NewCommander(),
		prefixes:  &fakePrefixStore{},
		store:     store,
		news:      &fakeNewsSource{},
		announcer: &fakeAnnouncer{},
		responder: &bot.MockResponder{},
		session:   session,
	}
	f.guilds = bot.NewGuildRegistry(f.prefixes, bot.Prefix{Content: "!"})

	started := time.Now().Add(-2 * time.Hour)
	f.handlers = NewHandlers(
		f.commander,
		f.guilds,
		[]string{"7", "8"},
		"1.2.3",
		application.NewPingInteractor(started, func() time.Duration { return 25 * time.Millisecond }),
		application.NewNewsInteractor(f.news),
		application.NewSubscriptionInteractor(store, f.announcer),
	)
	require.NoError(t, f.commander.Register(f.handlers.Commands()...))
	return f
}

func (f *handlerFixture) request(def *command.Definition, prefix, args string) *bot.Request {
	m := &discordgo.Message{
		ID:        "100",
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Author:    &discordgo.User{ID: testUserID, Username: "tester"},
	}
	return &bot.Request{
		Session:    f.session,
		Message:    m,
		Invocation: def.Parse(prefix, def.Name(), strings.Fields(args)),
		Guild:      f.guilds.Get(context.Background(), testGuildID),
		Responder:  f.responder,
		Admin:      true,
	}
}
