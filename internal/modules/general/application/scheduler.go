package application

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler refreshes time subscriptions and polls the news site.
type Scheduler struct {
	subscriptions *SubscriptionInteractor
	news          *NewsInteractor
	timeInterval  time.Duration
	newsInterval  time.Duration
	now           func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(subscriptions *SubscriptionInteractor, news *NewsInteractor, timeInterval, newsInterval time.Duration) *Scheduler {
	return &Scheduler{
		subscriptions: subscriptions,
		news:          news,
		timeInterval:  timeInterval,
		newsInterval:  newsInterval,
		now:           time.Now,
	}
}

// Run blocks until ctx is done. The time embeds are refreshed and the news
// seen set is primed right away.
func (s *Scheduler) Run(ctx context.Context) {
	timeTicker := time.NewTicker(s.timeInterval)
	defer timeTicker.Stop()
	newsTicker := time.NewTicker(s.newsInterval)
	defer newsTicker.Stop()

	s.refreshTime(ctx)
	s.pollNews(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-timeTicker.C:
			s.refreshTime(ctx)
		case <-newsTicker.C:
			s.pollNews(ctx)
		}
	}
}

func (s *Scheduler) refreshTime(ctx context.Context) {
	updated, err := s.subscriptions.RefreshTime(ctx, s.now())
	if err != nil && ctx.Err() == nil {
		slog.Warn("failed to refresh time subscriptions", "error", err)
		return
	}
	slog.Debug("refreshed time subscriptions", "channels", updated)
}

func (s *Scheduler) pollNews(ctx context.Context) {
	posts, err := s.news.Fresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("failed to poll news", "error", err)
		}
		return
	}
	if len(posts) == 0 {
		return
	}

	reached, err := s.subscriptions.PublishNews(ctx, posts)
	if err != nil && ctx.Err() == nil {
		slog.Warn("failed to publish news", "error", err)
		return
	}
	slog.Info("published news", "posts", len(posts), "channels", reached)
}
