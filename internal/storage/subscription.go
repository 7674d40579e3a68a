package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// NewsSubscription is the channel of a guild that receives news posts.
type NewsSubscription struct {
	GuildID   string `gorm:"primaryKey"`
	ChannelID string `gorm:"index;not null"`
	CreatedAt time.Time
}

// TimeSubscription is the channel of a guild that shows the in-game time.
// MessageID is the embed that gets edited on every update.
type TimeSubscription struct {
	GuildID   string `gorm:"primaryKey"`
	ChannelID string `gorm:"index;not null"`
	MessageID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToggleNewsSubscription unsubscribes the guild when channelID already
// receives news, and otherwise moves the guild's subscription to channelID.
// It reports whether the guild is subscribed afterwards.
func (s *Store) ToggleNewsSubscription(ctx context.Context, guildID, channelID string) (bool, error) {
	subscribed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing NewsSubscription
		found, err := first(tx, &existing, guildID)
		if err != nil {
			return err
		}
		if found && existing.ChannelID == channelID {
			return tx.Delete(&existing).Error
		}
		subscribed = true
		return tx.Save(&NewsSubscription{GuildID: guildID, ChannelID: channelID, CreatedAt: existing.CreatedAt}).Error
	})
	return subscribed, err
}

// ToggleTimeSubscription is ToggleNewsSubscription for time updates. When
// the subscription moves away from another channel, the replaced record is
// returned so its message can be cleaned up.
func (s *Store) ToggleTimeSubscription(ctx context.Context, guildID, channelID string) (bool, *TimeSubscription, error) {
	var (
		subscribed bool
		replaced   *TimeSubscription
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing TimeSubscription
		found, err := first(tx, &existing, guildID)
		if err != nil {
			return err
		}
		if found && existing.ChannelID == channelID {
			return tx.Delete(&existing).Error
		}
		if found {
			replaced = &existing
		}
		subscribed = true
		return tx.Save(&TimeSubscription{GuildID: guildID, ChannelID: channelID, CreatedAt: existing.CreatedAt}).Error
	})
	if err != nil {
		return false, nil, err
	}
	return subscribed, replaced, nil
}

func first(tx *gorm.DB, dest any, guildID string) (bool, error) {
	err := tx.First(dest, "guild_id = ?", guildID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// NewsSubscriptions returns every news subscription.
func (s *Store) NewsSubscriptions(ctx context.Context) ([]NewsSubscription, error) {
	var subs []NewsSubscription
	err := s.db.WithContext(ctx).Order("created_at, guild_id").Find(&subs).Error
	return subs, err
}

// TimeSubscriptions returns every time subscription.
func (s *Store) TimeSubscriptions(ctx context.Context) ([]TimeSubscription, error) {
	var subs []TimeSubscription
	err := s.db.WithContext(ctx).Order("created_at, guild_id").Find(&subs).Error
	return subs, err
}

// SetTimeMessage records the message that shows the time for a guild.
func (s *Store) SetTimeMessage(ctx context.Context, guildID, messageID string) error {
	return s.db.WithContext(ctx).
		Model(&TimeSubscription{}).
		Where("guild_id = ?", guildID).
		Update("message_id", messageID).Error
}

// DeleteChannel removes the subscriptions of a channel.
func (s *Store) DeleteChannel(ctx context.Context, channelID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID).Delete(&NewsSubscription{}).Error; err != nil {
			return err
		}
		return tx.Where("channel_id = ?", channelID).Delete(&TimeSubscription{}).Error
	})
}
