package usecases

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

type voiceFixture struct {
	repo       *mockRepository
	connection *mockVoiceConnection
	voiceState *mockVoiceStateProvider
	player     *mockAudioPlayer
	publisher  *mockEventPublisher
	service    *VoiceChannelService
}

func newVoiceFixture() *voiceFixture {
	f := &voiceFixture{
		repo:       newMockRepository(),
		connection: &mockVoiceConnection{},
		voiceState: &mockVoiceStateProvider{
			channels:  map[snowflake.ID]snowflake.ID{testUserID: testVoiceChannelID},
			listeners: map[snowflake.ID]int{},
		},
		player:    &mockAudioPlayer{},
		publisher: &mockEventPublisher{},
	}
	f.service = NewVoiceChannelService(f.repo, f.connection, f.voiceState, f.player, f.publisher)
	return f
}

func TestVoiceChannelService_Join(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*voiceFixture)
		userID      snowflake.ID
		wantErr     error
		wantAlready bool
		wantJoined  []snowflake.ID
		keep        bool
	}{
		{
			name:       "join user channel",
			userID:     testUserID,
			wantJoined: []snowflake.ID{testVoiceChannelID},
		},
		{
			name:    "user not in voice",
			userID:  otherUserID,
			wantErr: ErrUserNotInVoice,
		},
		{
			name: "already in channel",
			setup: func(f *voiceFixture) {
				f.repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID)
			},
			userID:      testUserID,
			wantAlready: true,
		},
		{
			name: "moves from another channel",
			setup: func(f *voiceFixture) {
				f.repo.createConnectedState(testGuildID, 77, testTextChannelID)
			},
			userID:     testUserID,
			wantJoined: []snowflake.ID{testVoiceChannelID},
		},
		{
			name: "keeps another channel",
			setup: func(f *voiceFixture) {
				f.repo.createConnectedState(testGuildID, 77, testTextChannelID)
			},
			userID:  testUserID,
			keep:    true,
			wantErr: ErrInAnotherChannel,
		},
		{
			name: "voice connection error",
			setup: func(f *voiceFixture) {
				f.connection.joinErr = errors.New("join failed")
			},
			userID:  testUserID,
			wantErr: errors.New("join failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVoiceFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			output, err := f.service.Join(context.Background(), JoinInput{
				GuildID:               testGuildID,
				UserID:                tt.userID,
				NotificationChannelID: testTextChannelID,
				KeepChannel:           tt.keep,
			})

			if tt.wantErr != nil {
				if err == nil || err.Error() != tt.wantErr.Error() {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if output.VoiceChannelID != testVoiceChannelID {
				t.Errorf("expected channel %d, got %d", testVoiceChannelID, output.VoiceChannelID)
			}
			if output.AlreadyJoined != tt.wantAlready {
				t.Errorf("expected AlreadyJoined %v, got %v", tt.wantAlready, output.AlreadyJoined)
			}
			if !slices.Equal(f.connection.joined, tt.wantJoined) {
				t.Errorf("expected joins %v, got %v", tt.wantJoined, f.connection.joined)
			}

			state := f.repo.Get(testGuildID)
			if state.GetVoiceChannelID() != testVoiceChannelID {
				t.Errorf("expected state channel %d, got %d", testVoiceChannelID, state.GetVoiceChannelID())
			}
		})
	}
}

func TestVoiceChannelService_Join_StateProviderError(t *testing.T) {
	f := newVoiceFixture()
	f.voiceState.err = errors.New("cache miss")

	_, err := f.service.Join(context.Background(), JoinInput{GuildID: testGuildID, UserID: testUserID})
	if err == nil {
		t.Fatal("expected error")
	}
	if f.repo.Get(testGuildID) != nil {
		t.Error("expected no state to be created")
	}
}

func TestVoiceChannelService_Leave(t *testing.T) {
	t.Run("stops stream and keeps queue", func(t *testing.T) {
		f := newVoiceFixture()
		state := f.repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID, newSongs("a", "b")...)
		startPlaying(state)
		state.SetNowPlayingMessage(testTextChannelID, 99)

		output, err := f.service.Leave(context.Background(), LeaveInput{GuildID: testGuildID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.VoiceChannelID != testVoiceChannelID {
			t.Errorf("expected channel %d, got %d", testVoiceChannelID, output.VoiceChannelID)
		}
		if f.player.stops != 1 || f.connection.left != 1 {
			t.Errorf("expected stop and leave, got %d stops and %d leaves", f.player.stops, f.connection.left)
		}
		if state.IsConnected() || state.HasStream() {
			t.Error("expected detached idle state")
		}
		if got := songIDs(state.Queue.Songs()); !slices.Equal(got, []string{"a", "b"}) {
			t.Errorf("expected queue to be kept, got %v", got)
		}

		finished := eventsOf[domain.PlaybackFinishedEvent](f.publisher)
		if len(finished) != 1 || finished[0].NowPlayingMessage.MessageID != 99 {
			t.Errorf("expected PlaybackFinishedEvent for message 99, got %+v", finished)
		}
	})

	t.Run("idle does not stop", func(t *testing.T) {
		f := newVoiceFixture()
		f.repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID)

		if _, err := f.service.Leave(context.Background(), LeaveInput{GuildID: testGuildID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.player.stops != 0 {
			t.Errorf("expected no stop, got %d", f.player.stops)
		}
		if len(f.publisher.events) != 0 {
			t.Errorf("expected no events, got %d", len(f.publisher.events))
		}
	})

	t.Run("not connected", func(t *testing.T) {
		f := newVoiceFixture()
		if _, err := f.service.Leave(context.Background(), LeaveInput{GuildID: testGuildID}); !errors.Is(err, ErrNotConnected) {
			t.Errorf("expected ErrNotConnected, got %v", err)
		}

		f.repo.createConnectedState(testGuildID, 0, testTextChannelID)
		if _, err := f.service.Leave(context.Background(), LeaveInput{GuildID: testGuildID}); !errors.Is(err, ErrNotConnected) {
			t.Errorf("expected ErrNotConnected, got %v", err)
		}
	})
}

func TestVoiceChannelService_HandleBotVoiceStateChange(t *testing.T) {
	t.Run("moved", func(t *testing.T) {
		f := newVoiceFixture()
		state := f.repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID)

		f.service.HandleBotVoiceStateChange(context.Background(), BotVoiceStateChangeInput{
			GuildID:      testGuildID,
			NewChannelID: 88,
		})
		if state.GetVoiceChannelID() != 88 {
			t.Errorf("expected channel 88, got %d", state.GetVoiceChannelID())
		}
	})

	t.Run("disconnected", func(t *testing.T) {
		f := newVoiceFixture()
		state := f.repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID, newSongs("a")...)
		startPlaying(state)

		f.service.HandleBotVoiceStateChange(context.Background(), BotVoiceStateChangeInput{GuildID: testGuildID})

		if state.IsConnected() || state.HasStream() {
			t.Error("expected detached idle state")
		}
		if f.player.stops != 1 {
			t.Errorf("expected 1 stop, got %d", f.player.stops)
		}
		if f.connection.left != 0 {
			t.Errorf("expected no leave call, got %d", f.connection.left)
		}
	})

	t.Run("unknown guild", func(t *testing.T) {
		f := newVoiceFixture()
		f.service.HandleBotVoiceStateChange(context.Background(), BotVoiceStateChangeInput{GuildID: testGuildID})
		if f.repo.Get(testGuildID) != nil {
			t.Error("expected no state to be created")
		}
	})
}

func TestVoiceChannelService_RemoveGuild(t *testing.T) {
	f := newVoiceFixture()
	f.repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID)

	f.service.RemoveGuild(testGuildID)

	if f.repo.Get(testGuildID) != nil {
		t.Error("expected state to be removed")
	}
}
