package model

import "testing"

func TestPlaylist_AddVideo(t *testing.T) {
	playlist := NewPlaylist("https://www.youtube.com/playlist?list=PLtest")

	added := playlist.AddVideo(&PlaylistVideo{
		ID:    "abc123",
		Title: "First Video",
		URL:   "https://www.youtube.com/watch?v=abc123",
	})
	if !added {
		t.Error("Expected first video to be added")
	}

	// Same URL again must be rejected
	added = playlist.AddVideo(&PlaylistVideo{
		ID:    "abc123",
		Title: "First Video (duplicate)",
		URL:   "https://www.youtube.com/watch?v=abc123",
	})
	if added {
		t.Error("Expected duplicate video to be rejected")
	}

	added = playlist.AddVideo(&PlaylistVideo{
		ID:    "def456",
		Title: "Second Video",
		URL:   "https://www.youtube.com/watch?v=def456",
	})
	if !added {
		t.Error("Expected second video to be added")
	}

	if playlist.Len() != 2 {
		t.Errorf("Expected 2 videos, got %d", playlist.Len())
	}
}

func TestPlaylist_HasVideo(t *testing.T) {
	playlist := NewPlaylist("https://www.youtube.com/playlist?list=PLtest")
	playlist.AddVideo(&PlaylistVideo{URL: "https://www.youtube.com/watch?v=abc123"})

	if !playlist.HasVideo("https://www.youtube.com/watch?v=abc123") {
		t.Error("Expected HasVideo to find added URL")
	}

	if playlist.HasVideo("https://www.youtube.com/watch?v=missing") {
		t.Error("Expected HasVideo to not find missing URL")
	}
}

func TestPlaylist_VideoURLs(t *testing.T) {
	playlist := NewPlaylist("https://www.youtube.com/playlist?list=PLtest")
	playlist.AddVideo(&PlaylistVideo{URL: "https://www.youtube.com/watch?v=one"})
	playlist.AddVideo(&PlaylistVideo{URL: "https://www.youtube.com/watch?v=two"})
	playlist.AddVideo(&PlaylistVideo{URL: "https://www.youtube.com/watch?v=three"})

	urls := playlist.VideoURLs()
	expected := []string{
		"https://www.youtube.com/watch?v=one",
		"https://www.youtube.com/watch?v=two",
		"https://www.youtube.com/watch?v=three",
	}

	if len(urls) != len(expected) {
		t.Fatalf("Expected %d URLs, got %d", len(expected), len(urls))
	}

	for i, url := range expected {
		if urls[i] != url {
			t.Errorf("URL %d: expected %s, got %s", i, url, urls[i])
		}
	}
}

func TestNewPlaylist(t *testing.T) {
	url := "https://www.youtube.com/playlist?list=PLtest"
	playlist := NewPlaylist(url)

	if playlist.URL != url {
		t.Errorf("Expected URL %s, got %s", url, playlist.URL)
	}

	if playlist.Len() != 0 {
		t.Errorf("Expected empty playlist, got %d videos", playlist.Len())
	}

	if playlist.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}
