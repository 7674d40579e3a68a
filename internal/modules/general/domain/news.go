package domain

import "sync"

// NewsCategory is a section of the MapleStory news site.
type NewsCategory string

const (
	NewsAll         NewsCategory = ""
	NewsGeneral     NewsCategory = "general"
	NewsUpdate      NewsCategory = "update"
	NewsSale        NewsCategory = "sale"
	NewsEvent       NewsCategory = "event"
	NewsCommunity   NewsCategory = "community"
	NewsMaintenance NewsCategory = "maintenance"
)

// Path returns the path of the category below the news root.
func (c NewsCategory) Path() string {
	switch c {
	case NewsAll:
		return ""
	case NewsEvent:
		return "events"
	default:
		return string(c)
	}
}

// Title returns the display name of the category.
func (c NewsCategory) Title() string {
	switch c {
	case NewsAll:
		return "News"
	case NewsGeneral:
		return "General"
	case NewsUpdate:
		return "Update"
	case NewsSale:
		return "Sale"
	case NewsEvent:
		return "Events"
	case NewsCommunity:
		return "Community"
	case NewsMaintenance:
		return "Maintenance"
	default:
		return string(c)
	}
}

// NewsPost is one article of the news site.
type NewsPost struct {
	// ID is the article number taken from its link.
	ID          string
	Title       string
	Description string
	ImageURL    string
	URL         string
	Category    NewsCategory
}

// NewsTracker remembers which posts were already announced.
type NewsTracker struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	primed bool
}

// NewNewsTracker creates an empty NewsTracker.
func NewNewsTracker() *NewsTracker {
	return &NewsTracker{seen: make(map[string]struct{})}
}

// Track records posts and returns the ones not seen before, oldest first.
// posts is expected newest first, as the site lists them. The first call
// only fills the seen set and returns nothing.
func (t *NewsTracker) Track(posts []NewsPost) []NewsPost {
	t.mu.Lock()
	defer t.mu.Unlock()

	var fresh []NewsPost
	for i := len(posts) - 1; i >= 0; i-- {
		post := posts[i]
		if post.ID == "" {
			continue
		}
		if _, ok := t.seen[post.ID]; ok {
			continue
		}
		t.seen[post.ID] = struct{}{}
		if t.primed {
			fresh = append(fresh, post)
		}
	}
	t.primed = true
	return fresh
}

// Primed reports whether Track has run at least once.
func (t *NewsTracker) Primed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.primed
}
