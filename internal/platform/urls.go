package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// URL query parameters
const (
	VideoParam    = "v"
	PlaylistParam = "list"
)

// URL templates
const (
	VideoURLTemplate    = "https://www.youtube.com/watch?v=%s"
	PlaylistURLTemplate = "https://www.youtube.com/playlist?list=%s"
)

// youtubeHosts lists hostnames recognized as YouTube
var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// IsYouTubeURL reports whether the URL points at a YouTube host.
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return youtubeHosts[strings.ToLower(u.Hostname())]
}

// ExtractVideoID returns the video ID from a watch URL or a youtu.be short
// link, or "" when the URL carries none.
func ExtractVideoID(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		if id := u.Query().Get(VideoParam); id != "" {
			return id
		}
		if strings.EqualFold(u.Hostname(), "youtu.be") {
			if id := strings.Trim(u.Path, "/"); id != "" {
				return id
			}
		}
	}
	return splitParam(raw, VideoParam)
}

// ExtractPlaylistID returns the playlist ID carried by the URL, or "".
func ExtractPlaylistID(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		if id := u.Query().Get(PlaylistParam); id != "" {
			return id
		}
	}
	return splitParam(raw, PlaylistParam)
}

// HasPlaylistParam reports whether the URL carries playlist context.
func HasPlaylistParam(raw string) bool {
	return ExtractPlaylistID(raw) != ""
}

// CanonicalVideoURL strips playlist context from a URL that addresses a
// single video. A URL carrying both a video and a playlist parameter
// becomes a plain watch URL; anything else passes through unchanged.
func CanonicalVideoURL(raw string) string {
	if ExtractPlaylistID(raw) == "" {
		return raw
	}
	id := ExtractVideoID(raw)
	if id == "" {
		return raw
	}
	return fmt.Sprintf(VideoURLTemplate, id)
}

// CanonicalPlaylistURL builds the canonical playlist URL for an ID.
func CanonicalPlaylistURL(playlistID string) string {
	return fmt.Sprintf(PlaylistURLTemplate, playlistID)
}

// splitParam extracts a query parameter by plain string splitting, for
// inputs net/url cannot parse.
func splitParam(raw, name string) string {
	for _, sep := range []string{"?", "&"} {
		marker := sep + name + "="
		idx := strings.Index(raw, marker)
		if idx < 0 {
			continue
		}
		value := raw[idx+len(marker):]
		if end := strings.IndexAny(value, "&#"); end >= 0 {
			value = value[:end]
		}
		return value
	}
	return ""
}
