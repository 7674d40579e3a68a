package application

import (
	"context"
	"fmt"

	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
)

// MaxNewsPosts is the number of posts shown by the news command.
const MaxNewsPosts = 5

// NewsInteractor reads the news site.
type NewsInteractor struct {
	source  NewsSource
	tracker *domain.NewsTracker
}

// NewNewsInteractor creates a new NewsInteractor.
func NewNewsInteractor(source NewsSource) *NewsInteractor {
	return &NewsInteractor{
		source:  source,
		tracker: domain.NewNewsTracker(),
	}
}

// Latest returns up to MaxNewsPosts recent posts of category.
func (n *NewsInteractor) Latest(ctx context.Context, category domain.NewsCategory) ([]domain.NewsPost, error) {
	posts, err := n.source.Latest(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("fetch %s news: %w", category.Title(), err)
	}
	if len(posts) > MaxNewsPosts {
		posts = posts[:MaxNewsPosts]
	}
	return posts, nil
}

// Fresh returns the posts published since the previous call, oldest first.
// The first call returns nothing.
func (n *NewsInteractor) Fresh(ctx context.Context) ([]domain.NewsPost, error) {
	posts, err := n.source.Latest(ctx, domain.NewsAll)
	if err != nil {
		return nil, fmt.Errorf("poll news: %w", err)
	}
	return n.tracker.Track(posts), nil
}
