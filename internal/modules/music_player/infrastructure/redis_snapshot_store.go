package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// DefaultSnapshotTTL is how long a queue snapshot outlives its last write.
const DefaultSnapshotTTL = 24 * time.Hour

// RedisSnapshotStore keeps queue snapshots as JSON arrays under "<guild>:songs".
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a new RedisSnapshotStore. ttl <= 0 uses DefaultSnapshotTTL.
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func snapshotKey(guildID snowflake.ID) string {
	return guildID.String() + ":songs"
}

// Save implements ports.SnapshotStore. An empty queue removes the snapshot.
func (s *RedisSnapshotStore) Save(ctx context.Context, guildID snowflake.ID, songs []*domain.Song) error {
	if len(songs) == 0 {
		return s.client.Del(ctx, snapshotKey(guildID)).Err()
	}

	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.client.Set(ctx, snapshotKey(guildID), data, s.ttl).Err()
}

// Load implements ports.SnapshotStore.
func (s *RedisSnapshotStore) Load(ctx context.Context, guildID snowflake.ID) ([]*domain.Song, error) {
	data, err := s.client.Get(ctx, snapshotKey(guildID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var songs []*domain.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", guildID, err)
	}
	return songs, nil
}

var _ ports.SnapshotStore = (*RedisSnapshotStore)(nil)
