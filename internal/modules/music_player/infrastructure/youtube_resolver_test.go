package infrastructure

import (
	"fmt"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestPickAudioFormat(t *testing.T) {
	video := youtube.Format{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`}
	m4a := youtube.Format{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`}
	opus := youtube.Format{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`}

	tests := []struct {
		name    string
		formats youtube.FormatList
		want    int
	}{
		{name: "prefers opus", formats: youtube.FormatList{video, m4a, opus}, want: 251},
		{name: "audio only", formats: youtube.FormatList{video, m4a}, want: 140},
		{name: "muxed fallback", formats: youtube.FormatList{video}, want: 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickAudioFormat(tt.formats)
			if got == nil || got.ItagNo != tt.want {
				t.Errorf("expected itag %d, got %s", tt.want, describeFormat(got))
			}
		})
	}

	if pickAudioFormat(nil) != nil {
		t.Error("expected nil for no formats")
	}
}

func describeFormat(f *youtube.Format) string {
	if f == nil {
		return "nil"
	}
	return fmt.Sprintf("%d", f.ItagNo)
}
