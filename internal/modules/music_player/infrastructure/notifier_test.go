package infrastructure

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

type fakeMessageSender struct {
	sent    []*discordgo.MessageEmbed
	deleted []string
	err     error
}

func (f *fakeMessageSender) ChannelMessageSendEmbed(
	_ string,
	embed *discordgo.MessageEmbed,
	_ ...discordgo.RequestOption,
) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, embed)
	return &discordgo.Message{ID: "42"}, nil
}

func (f *fakeMessageSender) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func newTestNotifier(t *testing.T, available ...string) (*Notifier, *fakeMessageSender) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, quality := range available {
			if strings.HasSuffix(r.URL.Path, "/"+quality+".jpg") {
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	sender := &fakeMessageSender{}
	n := NewNotifier(sender)
	n.thumbnailBaseURL = server.URL
	return n, sender
}

func testSong() *domain.Song {
	return domain.NewSong(
		domain.Video{
			ID:           "vid",
			Title:        "Title",
			ChannelID:    "chan",
			ChannelTitle: "Channel",
			ThumbnailURL: "https://example.com/fallback.jpg",
		},
		domain.Requestor{ID: 7, Tag: "user#0001"},
		&domain.Playlist{ID: "PL1", Title: "List"},
	)
}

func TestNotifier_SendNowPlaying(t *testing.T) {
	n, sender := newTestNotifier(t, "hqdefault")

	id, err := n.SendNowPlaying(1, testSong())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != snowflake.ID(42) {
		t.Errorf("expected message 42, got %d", id)
	}

	embed := sender.sent[0]
	if embed.Title != "Title" {
		t.Errorf("unexpected title %q", embed.Title)
	}
	if !strings.HasSuffix(embed.Image.URL, "/vid/hqdefault.jpg") {
		t.Errorf("expected hqdefault thumbnail, got %s", embed.Image.URL)
	}
	if len(embed.Fields) != 4 {
		t.Errorf("expected 4 fields with playlist, got %d", len(embed.Fields))
	}
	if embed.Footer == nil || embed.Footer.Text != "Requested by user#0001" {
		t.Errorf("unexpected footer %+v", embed.Footer)
	}
}

func TestNotifier_ThumbnailFallback(t *testing.T) {
	n, sender := newTestNotifier(t)

	if _, err := n.SendNowPlaying(1, testSong()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sender.sent[0].Image.URL; got != "https://example.com/fallback.jpg" {
		t.Errorf("expected fallback thumbnail, got %s", got)
	}
}

func TestNotifier_SendPlaybackFailed(t *testing.T) {
	n, sender := newTestNotifier(t)

	if err := n.SendPlaybackFailed(1, testSong()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Oops, something happened while processing the requested [song](" + testSong().URL() + ")"
	if sender.sent[0].Description != want {
		t.Errorf("unexpected description %q", sender.sent[0].Description)
	}
}

func TestNotifier_DeleteAndInfo(t *testing.T) {
	n, sender := newTestNotifier(t)

	if err := n.DeleteMessage(1, 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.deleted) != 1 || sender.deleted[0] != "99" {
		t.Errorf("unexpected deletions %v", sender.deleted)
	}

	if err := n.SendInfo(1, "Queue is empty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.sent[0].Description != "Queue is empty" {
		t.Errorf("unexpected description %q", sender.sent[0].Description)
	}

	sender.err = errors.New("missing access")
	if err := n.SendInfo(1, "x"); err == nil {
		t.Error("expected error")
	}
}
