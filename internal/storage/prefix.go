package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Prefix is the command prefix of a guild.
type Prefix struct {
	GuildID   string `gorm:"primaryKey"`
	Content   string `gorm:"not null"`
	Space     bool   `gorm:"not null;default:false"`
	UpdatedAt time.Time
}

// LoadPrefix returns the stored prefix of a guild, or nil when it has none.
func (s *Store) LoadPrefix(ctx context.Context, guildID string) (*Prefix, error) {
	var p Prefix
	err := s.db.WithContext(ctx).First(&p, "guild_id = ?", guildID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePrefix creates or replaces the prefix of p.GuildID.
func (s *Store) SavePrefix(ctx context.Context, p *Prefix) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// DeletePrefix removes the stored prefix of a guild.
func (s *Store) DeletePrefix(ctx context.Context, guildID string) error {
	return s.db.WithContext(ctx).Where("guild_id = ?", guildID).Delete(&Prefix{}).Error
}
