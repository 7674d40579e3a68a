package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sglre6355/pinkbean/internal/modules/general/application"
	"github.com/sglre6355/pinkbean/internal/modules/general/domain"
)

// DefaultNewsURL is the root of the MapleStory news site.
const DefaultNewsURL = "https://maplestory.nexon.net/news"

var (
	postPathPattern   = regexp.MustCompile(`/news/(\d+)`)
	backgroundPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)
)

// NewsScraper reads news posts from the listing pages of the news site.
type NewsScraper struct {
	client  *http.Client
	baseURL *url.URL
}

var _ application.NewsSource = (*NewsScraper)(nil)

// NewNewsScraper creates a scraper for the site rooted at baseURL.
func NewNewsScraper(baseURL string, client *http.Client) (*NewsScraper, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse news url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("news url %q is not absolute", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NewsScraper{client: client, baseURL: u}, nil
}

// Latest fetches the listing page of category.
func (s *NewsScraper) Latest(ctx context.Context, category domain.NewsCategory) ([]domain.NewsPost, error) {
	page := *s.baseURL
	if path := category.Path(); path != "" {
		page.Path += "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", page.String(), resp.Status)
	}
	return parseNews(resp.Body, &page, category)
}

// parseNews extracts the posts of a listing page. Each post is an
// <li class="news-item"> holding a photo div, a linked <h3> title and a
// <p> summary.
func parseNews(r io.Reader, base *url.URL, category domain.NewsCategory) ([]domain.NewsPost, error) {
	z := html.NewTokenizer(r)

	var (
		posts   []domain.NewsPost
		current *domain.NewsPost
		depth   int // open <li> elements inside the current post
		inTitle bool
		inText  bool
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return posts, nil
			}
			return nil, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}

			if tag == "li" {
				if current != nil {
					depth++
				} else if hasClass(attrs["class"], "news-item") {
					current = &domain.NewsPost{Category: category}
					depth = 0
				}
				continue
			}
			if current == nil {
				continue
			}

			switch tag {
			case "div":
				if hasClass(attrs["class"], "photo") && current.ImageURL == "" {
					if m := backgroundPattern.FindStringSubmatch(attrs["style"]); m != nil {
						current.ImageURL = resolve(base, m[1])
					}
				}
			case "img":
				if current.ImageURL == "" && attrs["src"] != "" {
					current.ImageURL = resolve(base, attrs["src"])
				}
			case "a":
				if current.URL == "" {
					if m := postPathPattern.FindStringSubmatch(attrs["href"]); m != nil {
						current.URL = resolve(base, attrs["href"])
						current.ID = m[1]
					}
				}
			case "h3":
				inTitle = true
			case "p":
				inText = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "li":
				if current == nil {
					continue
				}
				if depth > 0 {
					depth--
					continue
				}
				if current.ID != "" && current.Title != "" {
					posts = append(posts, *current)
				}
				current = nil
				inTitle, inText = false, false
			case "h3":
				inTitle = false
			case "p":
				inText = false
			}

		case html.TextToken:
			if current == nil {
				continue
			}
			text := strings.Join(strings.Fields(string(z.Text())), " ")
			if text == "" {
				continue
			}
			switch {
			case inTitle:
				current.Title = strings.TrimSpace(current.Title + " " + text)
			case inText:
				current.Description = strings.TrimSpace(current.Description + " " + text)
			}
		}
	}
}

func hasClass(attr, class string) bool {
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}

func resolve(base *url.URL, ref string) string {
	u, err := base.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return u.String()
}
