package domain

import (
	"regexp"
	"strings"
)

var (
	youtubeHostPattern = regexp.MustCompile(`youtube\.com|youtu\.be`)
	videoIDPattern     = regexp.MustCompile(`(?:youtu\.be/|[&?]v=)([^&\s]{11})`)
	listIDPattern      = regexp.MustCompile(`[&?]list=([^&\s]+)`)
	startTimePattern   = regexp.MustCompile(`[&?]t=(\w+)`)
)

// Query is what a user asked to play: either a YouTube link or search keywords.
type Query struct {
	Text      string
	IsLink    bool
	VideoID   string
	ListID    string
	StartTime string
}

// ParseQuery classifies user input as a link or keywords.
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	q := Query{Text: input}
	if !youtubeHostPattern.MatchString(input) {
		return q
	}

	q.IsLink = true
	if m := videoIDPattern.FindStringSubmatch(input); m != nil {
		q.VideoID = m[1]
	}
	if m := listIDPattern.FindStringSubmatch(input); m != nil {
		q.ListID = m[1]
	}
	if m := startTimePattern.FindStringSubmatch(input); m != nil {
		q.StartTime = m[1]
	}
	return q
}

// IsValid reports whether there is anything to look up.
func (q Query) IsValid() bool {
	if q.IsLink {
		return q.VideoID != "" || q.ListID != ""
	}
	return q.Text != ""
}

// SongURL builds a watch or playlist URL. It returns "" when both ids are empty.
func SongURL(videoID, listID string) string {
	switch {
	case videoID == "" && listID == "":
		return ""
	case videoID == "":
		return youtubeURL + "/playlist?list=" + listID
	case listID == "":
		return youtubeURL + "/watch?v=" + videoID
	default:
		return youtubeURL + "/watch?v=" + videoID + "&list=" + listID
	}
}
