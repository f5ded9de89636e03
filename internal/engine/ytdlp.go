package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytgrab/ytgrab/internal/model"
	"github.com/ytgrab/ytgrab/internal/platform"
)

// yt-dlp invocation settings
const (
	// OutputTemplate names downloads after the video title.
	OutputTemplate = "%(title)s.%(ext)s"

	// ExtractAudioQuality is the bitrate passed to yt-dlp's audio
	// post-processor, in kbit/s.
	ExtractAudioQuality = "192"
)

// YTDLP shells out to the yt-dlp binary, which must be resolvable on PATH.
// yt-dlp does its own format negotiation, muxing and post-processing, so
// files come back already in the requested format.
type YTDLP struct{}

// NewYTDLP creates the subprocess engine.
func NewYTDLP() *YTDLP {
	return &YTDLP{}
}

// Name identifies the engine in config and logs.
func (y *YTDLP) Name() string { return NameYTDLP }

// Metadata extracts video info without downloading.
func (y *YTDLP) Metadata(ctx context.Context, url string) (*model.VideoMeta, error) {
	dl := ytdlp.New().
		SkipDownload().
		NoPlaylist()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp info: %w", err)
	}

	info, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp info: %w", err)
	}

	meta := &model.VideoMeta{ID: platform.ExtractVideoID(url)}
	if len(info) > 0 && info[0].Title != nil {
		meta.Title = *info[0].Title
	}
	return meta, nil
}

// Fetch downloads the URL into req.OutputDir, letting yt-dlp handle format
// selection and conversion to the requested target.
func (y *YTDLP) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	dl := ytdlp.New().
		Format(buildFormatSpec(req)).
		NoPlaylist().
		Output(req.OutputDir + "/" + OutputTemplate)

	if req.MediaType == MediaTypeAudio {
		dl.ExtractAudio().
			AudioFormat(req.AudioFormat).
			AudioQuality(ExtractAudioQuality)
	} else {
		dl.MergeOutputFormat(req.VideoFormat).
			RecodeVideo(req.VideoFormat)
	}

	if req.Progress != nil {
		dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			req.Progress(fromYTDLPProgress(&update))
		})
	}

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	res := &FetchResult{}
	if info, infoErr := result.GetExtractedInfo(); infoErr == nil && len(info) > 0 {
		if info[0].Filename != nil {
			res.OutputPath = *info[0].Filename
		}
		if info[0].Title != nil {
			res.Title = *info[0].Title
		}
	}
	return res, nil
}

// buildFormatSpec renders the yt-dlp format selector for the request. The
// audio selector carries a bare bestaudio fallback because targets like
// mp3 never exist as native streams and are produced by the audio
// post-processor instead.
func buildFormatSpec(req FetchRequest) string {
	if req.MediaType == MediaTypeAudio {
		return fmt.Sprintf("bestaudio[ext=%s]/bestaudio", req.AudioFormat)
	}
	return fmt.Sprintf("bestvideo[ext=%s][height<=%d]+bestaudio[ext=%s]/best[ext=%s]",
		req.VideoFormat, req.MaxHeight, req.AudioFormat, req.VideoFormat)
}

// fromYTDLPProgress converts a yt-dlp progress update into the engine's
// representation.
func fromYTDLPProgress(update *ytdlp.ProgressUpdate) ProgressUpdate {
	out := ProgressUpdate{ETASec: -1}

	if update.TotalBytes > 0 {
		out.Percent = int(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100)
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			out.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	if eta := update.ETA(); eta > 0 {
		out.ETASec = int(eta.Seconds())
	}

	return out
}
