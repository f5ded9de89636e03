package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/ytgrab/ytgrab/internal/model"
)

// Timeout constants
const (
	DefaultResolveTimeout = 60 * time.Second
)

// Default values
const (
	DefaultDuration      = "Unknown"
	DefaultPlaylistTitle = "Untitled Playlist"
)

// Playlist title constants
const (
	MaxTitleLength      = 50
	TitleTruncateSuffix = "..."
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)

// ErrEmptyURL is returned when resolution is attempted without a URL.
var ErrEmptyURL = errors.New("empty URL")

// playlistFetcher is the slice of the YouTube client the resolver needs.
// *youtube.Client satisfies it.
type playlistFetcher interface {
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
}

// Resolver expands a user-supplied URL into the capped, deduplicated list
// of video URLs to download.
type Resolver struct {
	client  playlistFetcher
	timeout time.Duration
	log     *slog.Logger
}

// NewResolver creates a resolver backed by the native YouTube client.
func NewResolver() *Resolver {
	return &Resolver{
		client: &youtube.Client{
			HTTPClient: &http.Client{Timeout: DefaultResolveTimeout},
		},
		timeout: DefaultResolveTimeout,
		log:     slog.Default(),
	}
}

// SetTimeout sets the timeout for playlist enumeration.
func (r *Resolver) SetTimeout(timeout time.Duration) {
	r.timeout = timeout
}

// Resolve expands rawURL into up to max video URLs.
//
// A plain video URL resolves to its canonical form without touching the
// network. A URL with playlist context is enumerated via the playlist API;
// when the URL also names a video, that video seeds the result (and is
// returned alone when max is 1). If enumeration fails or yields nothing,
// the seeded video, or as a last resort the raw URL itself, is used, so a
// nil error always comes with at least one entry.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, max int) (*model.Playlist, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}
	if max < 1 {
		max = 1
	}

	result := model.NewPlaylist(rawURL)

	playlistID := ExtractPlaylistID(rawURL)
	if playlistID == "" {
		clean := CanonicalVideoURL(rawURL)
		result.AddVideo(&model.PlaylistVideo{ID: ExtractVideoID(clean), URL: clean})
		r.log.Info("single video detected", "url", clean)
		return result, nil
	}

	result.ID = playlistID
	r.log.Info("playlist detected", "url", rawURL)

	if videoID := ExtractVideoID(rawURL); videoID != "" {
		seedURL := fmt.Sprintf(VideoURLTemplate, videoID)
		result.AddVideo(&model.PlaylistVideo{ID: videoID, URL: seedURL})
		r.log.Info("found video in playlist URL", "url", seedURL)
		if max == 1 {
			return result, nil
		}
	}

	playlistURL := CanonicalPlaylistURL(playlistID)
	r.log.Info("extracting playlist", "url", playlistURL)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pl, err := r.client.GetPlaylistContext(ctx, playlistURL)
	if err != nil {
		r.log.Error("failed to extract playlist", "url", playlistURL, "error", err)
	} else {
		result.Title = playlistTitle(pl)
		for _, entry := range pl.Videos {
			if result.Len() >= max {
				break
			}
			if entry == nil || entry.ID == "" {
				continue
			}
			videoURL := fmt.Sprintf(VideoURLTemplate, entry.ID)
			added := result.AddVideo(&model.PlaylistVideo{
				ID:       entry.ID,
				Title:    entry.Title,
				Duration: formatDuration(entry.Duration),
				URL:      videoURL,
			})
			if added {
				r.log.Info("found video in playlist", "url", videoURL)
			}
		}
		r.log.Info("playlist resolved", "videos", result.Len(), "limit", max)
	}

	// Last resort: hand the raw URL to the engine as-is.
	if result.Len() == 0 {
		r.log.Warn("no videos found in playlist, trying direct download", "url", rawURL)
		result.AddVideo(&model.PlaylistVideo{URL: rawURL})
	}

	return result, nil
}

// playlistTitle returns a display title for the playlist, truncated to a
// reasonable length.
func playlistTitle(pl *youtube.Playlist) string {
	title := pl.Title
	if title == "" {
		return DefaultPlaylistTitle
	}
	if len(title) > MaxTitleLength {
		title = title[:MaxTitleLength] + TitleTruncateSuffix
	}
	return title
}

// formatDuration formats a duration as HH:MM:SS, or MM:SS when under an
// hour.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return DefaultDuration
	}
	total := int(d.Seconds())
	hours := total / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	secs := total % SecondsPerMinute
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
