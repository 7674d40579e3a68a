package application

import (
	"context"
	"time"

	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
	"github.com/sglre6355/pinkbean/internal/storage"
)

// NewsSource fetches the latest posts of a news category, newest first.
type NewsSource interface {
	Latest(ctx context.Context, category domain.NewsCategory) ([]domain.NewsPost, error)
}

// SubscriptionStore persists channel subscriptions.
type SubscriptionStore interface {
	ToggleNewsSubscription(ctx context.Context, guildID, channelID string) (bool, error)
	ToggleTimeSubscription(ctx context.Context, guildID, channelID string) (bool, *storage.TimeSubscription, error)
	NewsSubscriptions(ctx context.Context) ([]storage.NewsSubscription, error)
	TimeSubscriptions(ctx context.Context) ([]storage.TimeSubscription, error)
	SetTimeMessage(ctx context.Context, guildID, messageID string) error
}

var _ SubscriptionStore = (*storage.Store)(nil)

// Announcer publishes subscription messages to channels.
type Announcer interface {
	// CanSend reports whether the bot can post embeds in the channel.
	CanSend(channelID string) bool

	// PostTime sends the server time embed and returns its message ID.
	PostTime(channelID string, t domain.ServerTime) (string, error)

	// EditTime replaces a previously posted server time embed.
	EditTime(channelID, messageID string, t domain.ServerTime) error

	// PostNews sends one news post.
	PostNews(channelID string, post domain.NewsPost) error

	// DeleteAfter removes a message once d has passed.
	DeleteAfter(channelID, messageID string, d time.Duration)
}
