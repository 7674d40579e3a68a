package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
)

// StaleTimeMessageLifetime is how long the time embed of a channel that
// lost its subscription stays visible.
const StaleTimeMessageLifetime = time.Minute

// Topic is what a channel subscribes to.
type Topic string

const (
	TopicNews Topic = "news"
	TopicTime Topic = "time"
)

// SubscriptionInteractor toggles subscriptions and delivers their updates.
type SubscriptionInteractor struct {
	store     SubscriptionStore
	announcer Announcer
}

// NewSubscriptionInteractor creates a new SubscriptionInteractor.
func NewSubscriptionInteractor(store SubscriptionStore, announcer Announcer) *SubscriptionInteractor {
	return &SubscriptionInteractor{
		store:     store,
		announcer: announcer,
	}
}

// Toggle subscribes the guild's channel to topic, moving an existing
// subscription of the guild, or unsubscribes it when the channel already
// has it. It reports whether the channel is subscribed afterwards.
func (s *SubscriptionInteractor) Toggle(ctx context.Context, topic Topic, guildID, channelID string) (bool, error) {
	switch topic {
	case TopicNews:
		subscribed, err := s.store.ToggleNewsSubscription(ctx, guildID, channelID)
		if err != nil {
			return false, fmt.Errorf("toggle news subscription: %w", err)
		}
		return subscribed, nil
	case TopicTime:
		subscribed, replaced, err := s.store.ToggleTimeSubscription(ctx, guildID, channelID)
		if err != nil {
			return false, fmt.Errorf("toggle time subscription: %w", err)
		}
		if replaced != nil && replaced.MessageID != "" {
			s.announcer.DeleteAfter(replaced.ChannelID, replaced.MessageID, StaleTimeMessageLifetime)
		}
		return subscribed, nil
	default:
		return false, fmt.Errorf("unknown topic %q", topic)
	}
}

// RefreshTime posts or edits the server time embed of every time
// subscription. A subscription whose embed can no longer be edited gets a
// new one. It returns the number of channels updated.
func (s *SubscriptionInteractor) RefreshTime(ctx context.Context, now time.Time) (int, error) {
	subs, err := s.store.TimeSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load time subscriptions: %w", err)
	}

	st := domain.NewServerTime(now)
	updated := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		if !s.announcer.CanSend(sub.ChannelID) {
			continue
		}

		if sub.MessageID != "" {
			err := s.announcer.EditTime(sub.ChannelID, sub.MessageID, st)
			if err == nil {
				updated++
				continue
			}
			slog.Debug("time message not editable, posting a new one",
				"guild", sub.GuildID, "channel", sub.ChannelID, "error", err)
		}

		messageID, err := s.announcer.PostTime(sub.ChannelID, st)
		if err != nil {
			slog.Warn("failed to post server time", "guild", sub.GuildID, "channel", sub.ChannelID, "error", err)
			continue
		}
		if err := s.store.SetTimeMessage(ctx, sub.GuildID, messageID); err != nil {
			slog.Warn("failed to save time message", "guild", sub.GuildID, "error", err)
		}
		updated++
	}
	return updated, nil
}

// PublishNews sends posts to every news subscription and returns the
// number of channels reached.
func (s *SubscriptionInteractor) PublishNews(ctx context.Context, posts []domain.NewsPost) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}
	subs, err := s.store.NewsSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load news subscriptions: %w", err)
	}

	reached := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return reached, ctx.Err()
		}
		if !s.announcer.CanSend(sub.ChannelID) {
			continue
		}
		sent := false
		for _, post := range posts {
			if err := s.announcer.PostNews(sub.ChannelID, post); err != nil {
				slog.Warn("failed to post news", "guild", sub.GuildID, "channel", sub.ChannelID, "post", post.ID, "error", err)
				continue
			}
			sent = true
		}
		if sent {
			reached++
		}
	}
	return reached, nil
}
