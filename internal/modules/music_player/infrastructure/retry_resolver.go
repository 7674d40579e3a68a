package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/sglre6355/pinkbean/internal/modules/music_player/application/ports"
	"github.com/sglre6355/pinkbean/internal/modules/music_player/domain"
)

// DefaultResolveAttempts is how many times a stream is resolved before giving up.
const DefaultResolveAttempts = 5

// RetryingResolver retries a StreamResolver. Each Resolve call paces its own
// retries with a fresh rate limiter, so the first attempt never waits and
// unrelated songs do not throttle each other.
// ports.ErrStreamNotFound is returned immediately.
type RetryingResolver struct {
	next     ports.StreamResolver
	attempts int
	interval rate.Limit
}

// NewRetryingResolver wraps next. attempts <= 0 uses DefaultResolveAttempts.
// interval is the minimum spacing between attempts of one song.
func NewRetryingResolver(next ports.StreamResolver, attempts int, interval time.Duration) *RetryingResolver {
	if attempts <= 0 {
		attempts = DefaultResolveAttempts
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RetryingResolver{
		next:     next,
		attempts: attempts,
		interval: limit,
	}
}

// Resolve implements ports.StreamResolver.
func (r *RetryingResolver) Resolve(ctx context.Context, song *domain.Song) (*ports.Stream, error) {
	limiter := rate.NewLimiter(r.interval, 1)

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		stream, err := r.next.Resolve(ctx, song)
		if err == nil {
			return stream, nil
		}
		if errors.Is(err, ports.ErrStreamNotFound) {
			return nil, err
		}
		lastErr = err

		slog.Debug("stream resolution failed", "song", song.ID, "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("resolve %s after %d attempts: %w", song.ID, r.attempts, lastErr)
}

var _ ports.StreamResolver = (*RetryingResolver)(nil)
