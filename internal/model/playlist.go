package model

import (
	"time"
)

// PlaylistVideo represents a single resolved video in a playlist
type PlaylistVideo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
}

// Playlist represents the resolved set of videos to download. A single
// video URL resolves to a Playlist with exactly one entry and no ID.
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Videos    []*PlaylistVideo `json:"videos"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	return &Playlist{
		URL:       url,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: time.Now(),
	}
}

// AddVideo appends a video unless one with the same URL is already present.
// It reports whether the video was added.
func (p *Playlist) AddVideo(video *PlaylistVideo) bool {
	if p.HasVideo(video.URL) {
		return false
	}
	p.Videos = append(p.Videos, video)
	return true
}

// HasVideo reports whether a video with the given URL is already present.
func (p *Playlist) HasVideo(url string) bool {
	for _, v := range p.Videos {
		if v.URL == url {
			return true
		}
	}
	return false
}

// VideoURLs returns the video URLs in resolution order.
func (p *Playlist) VideoURLs() []string {
	urls := make([]string, 0, len(p.Videos))
	for _, v := range p.Videos {
		urls = append(urls, v.URL)
	}
	return urls
}

// Len returns the number of resolved videos.
func (p *Playlist) Len() int {
	return len(p.Videos)
}
