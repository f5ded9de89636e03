package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

func TestBuildFormatSpec(t *testing.T) {
	tests := []struct {
		name     string
		req      FetchRequest
		expected string
	}{
		{
			name: "video",
			req: FetchRequest{
				MediaType:   MediaTypeVideo,
				VideoFormat: "mp4",
				AudioFormat: "mp3",
				MaxHeight:   760,
			},
			expected: "bestvideo[ext=mp4][height<=760]+bestaudio[ext=mp3]/best[ext=mp4]",
		},
		{
			name: "video webm",
			req: FetchRequest{
				MediaType:   MediaTypeVideo,
				VideoFormat: "webm",
				AudioFormat: "m4a",
				MaxHeight:   1080,
			},
			expected: "bestvideo[ext=webm][height<=1080]+bestaudio[ext=m4a]/best[ext=webm]",
		},
		{
			name: "audio",
			req: FetchRequest{
				MediaType:   MediaTypeAudio,
				AudioFormat: "mp3",
			},
			expected: "bestaudio[ext=mp3]/bestaudio",
		},
		{
			name: "audio m4a",
			req: FetchRequest{
				MediaType:   MediaTypeAudio,
				AudioFormat: "m4a",
			},
			expected: "bestaudio[ext=m4a]/bestaudio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := buildFormatSpec(tt.req); result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFromYTDLPProgress(t *testing.T) {
	update := ytdlp.ProgressUpdate{
		TotalBytes:      2 * 1024 * 1024,
		DownloadedBytes: 1024 * 1024,
		Started:         time.Now().Add(-2 * time.Second),
	}

	result := fromYTDLPProgress(&update)
	if result.Percent != 50 {
		t.Errorf("Expected 50%%, got %d%%", result.Percent)
	}
	if !strings.HasSuffix(result.Speed, "MB/s") {
		t.Errorf("Expected a MB/s speed, got %q", result.Speed)
	}
}
