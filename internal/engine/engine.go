// Package engine defines the extraction engines that retrieve media from
// YouTube. Two implementations exist: a native in-process client and one
// driving the yt-dlp binary. Both honor context cancellation and report
// progress through a caller-supplied callback.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ytgrab/ytgrab/internal/model"
)

// Engine names accepted by New
const (
	NameNative = "native"
	NameYTDLP  = "ytdlp"
)

// Media types understood by FetchRequest
const (
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

// progressInterval is how often engines emit progress updates.
const progressInterval = 500 * time.Millisecond

// FetchRequest describes a single download.
type FetchRequest struct {
	URL         string
	MediaType   string // video or audio
	VideoFormat string // target container for video downloads
	AudioFormat string // target format for audio downloads
	MaxHeight   int    // upper bound on video resolution, 0 for no cap
	OutputDir   string
	Progress    func(ProgressUpdate)
}

// FetchResult reports where a finished download landed.
type FetchResult struct {
	OutputPath string
	Title      string
	Bytes      int64
}

// ProgressUpdate is a point-in-time snapshot of a running download.
type ProgressUpdate struct {
	Percent int
	Speed   string // human readable, e.g. "1.2MB/s"
	ETASec  int    // -1 if unknown
}

// Engine retrieves metadata and media for a single video URL.
type Engine interface {
	Name() string
	Metadata(ctx context.Context, url string) (*model.VideoMeta, error)
	Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error)
}

// New returns the engine registered under name. An empty name selects the
// native engine.
func New(name string) (Engine, error) {
	switch name {
	case NameNative, "":
		return NewNative(), nil
	case NameYTDLP:
		return NewYTDLP(), nil
	default:
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
}
