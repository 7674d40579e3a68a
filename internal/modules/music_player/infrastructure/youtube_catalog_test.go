package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func videoJSON(id, live string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"snippet": {
			"title": "Title %s",
			"publishedAt": "2020-01-02T03:04:05Z",
			"channelId": "chan",
			"channelTitle": "Channel",
			"liveBroadcastContent": %q,
			"thumbnails": {"default": {"url": "https://i.ytimg.com/%s.jpg"}}
		},
		"contentDetails": {"duration": "PT3M20S"},
		"statistics": {"viewCount": "1200"}
	}`, id, id, live, id)
}

func newTestCatalog(t *testing.T, handler http.HandlerFunc) *YouTubeCatalog {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	catalog, err := NewYouTubeCatalog(
		context.Background(),
		"key",
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return catalog
}

func catalogHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			fmt.Fprint(w, `{"items": [
				{"id": {"kind": "youtube#playlist", "playlistId": "PL1"}},
				{"id": {"kind": "youtube#video", "videoId": "v1"}},
				{"id": {"kind": "youtube#video", "videoId": "up"}}
			]}`)
		case strings.HasSuffix(r.URL.Path, "/videos"):
			var items []string
			for _, id := range strings.Split(strings.Join(q["id"], ","), ",") {
				live := "none"
				if id == "up" {
					live = "upcoming"
				}
				items = append(items, videoJSON(id, live))
			}
			fmt.Fprintf(w, `{"items": [%s]}`, strings.Join(items, ","))
		case strings.HasSuffix(r.URL.Path, "/playlists"):
			if q.Get("id") != "PL1" {
				fmt.Fprint(w, `{"items": []}`)
				return
			}
			fmt.Fprint(w, `{"items": [{"id": "PL1", "snippet": {"title": "List"}, "contentDetails": {"itemCount": 4}}]}`)
		case strings.HasSuffix(r.URL.Path, "/playlistItems"):
			if q.Get("pageToken") == "" {
				fmt.Fprint(w, `{"nextPageToken": "p2", "items": [
					{"snippet": {"resourceId": {"videoId": "a"}}},
					{"snippet": {"resourceId": {"videoId": "b"}}}
				]}`)
				return
			}
			fmt.Fprint(w, `{"items": [
				{"snippet": {"resourceId": {"videoId": "c"}}},
				{"snippet": {"resourceId": {"videoId": "d"}}}
			]}`)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestYouTubeCatalog_Search(t *testing.T) {
	catalog := newTestCatalog(t, catalogHandler(t))

	results, err := catalog.Search(context.Background(), "never gonna")
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].Playlist)
	assert.Equal(t, "PL1", results[0].Playlist.ID)
	require.NotNil(t, results[1].Video)
	assert.Equal(t, "v1", results[1].Video.ID)
}

func TestYouTubeCatalog_Videos(t *testing.T) {
	catalog := newTestCatalog(t, catalogHandler(t))

	videos, err := catalog.Videos(context.Background(), "v1", "up")
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Equal(t, "Title v1", v.Title)
	assert.Equal(t, 200*time.Second, v.Duration)
	assert.EqualValues(t, 1200, v.ViewCount)
	assert.False(t, v.Live)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), v.PublishedAt)

	none, err := catalog.Videos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestYouTubeCatalog_Playlist(t *testing.T) {
	catalog := newTestCatalog(t, catalogHandler(t))
	ctx := context.Background()

	tests := []struct {
		name    string
		videoID string
		limit   int
		want    []string
	}{
		{name: "from start", limit: 3, want: []string{"a", "b", "c"}},
		{name: "from video", videoID: "b", limit: 10, want: []string{"b", "c", "d"}},
		{name: "limit one", videoID: "c", limit: 1, want: []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := catalog.Playlist(ctx, "PL1", tt.videoID, tt.limit)
			require.NoError(t, err)
			require.NotNil(t, items)
			assert.Equal(t, "List", items.Playlist.Title)

			var got []string
			for _, v := range items.Videos {
				got = append(got, v.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	missing, err := catalog.Playlist(ctx, "nope", "", 10)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT3M20S", 3*time.Minute + 20*time.Second},
		{"PT1H", time.Hour},
		{"P1DT2H", 26 * time.Hour},
		{"PT45S", 45 * time.Second},
		{"P0D", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseISODuration(tt.in); got != tt.want {
			t.Errorf("ParseISODuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
