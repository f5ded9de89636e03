package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/ytgrab/ytgrab/internal/model"
	"github.com/ytgrab/ytgrab/internal/platform"
)

// copyBufferSize is the chunk size for streaming downloads.
const copyBufferSize = 256 * 1024

// ErrNoUsableFormat means the video exposes no stream matching the request.
var ErrNoUsableFormat = errors.New("no usable format found")

// Native downloads through YouTube's innertube API in-process, without any
// external binary. It selects progressive streams (video and audio muxed),
// so the downloaded container may differ from the requested one and need
// post-processing by the caller.
type Native struct {
	client *youtube.Client
}

// NewNative creates the in-process engine.
func NewNative() *Native {
	return &Native{client: &youtube.Client{}}
}

// Name identifies the engine in config and logs.
func (n *Native) Name() string { return NameNative }

// Metadata looks up a video without downloading anything.
func (n *Native) Metadata(ctx context.Context, url string) (*model.VideoMeta, error) {
	video, err := n.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("video info: %w", err)
	}

	return &model.VideoMeta{
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
	}, nil
}

// Fetch downloads the best matching stream into req.OutputDir. The file is
// named after the sanitized video title and keeps the stream's own
// container extension.
func (n *Native) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	video, err := n.client.GetVideoContext(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("video info: %w", err)
	}

	var format *youtube.Format
	if req.MediaType == MediaTypeAudio {
		format = pickAudioFormat(video.Formats)
	} else {
		format = pickVideoFormat(video.Formats, req.VideoFormat, req.MaxHeight)
	}
	if format == nil {
		return nil, ErrNoUsableFormat
	}

	stem := platform.SanitizeFilename(video.Title)
	path := platform.NextAvailablePath(filepath.Join(req.OutputDir, stem+"."+formatExt(format)))

	written, err := n.save(ctx, video, format, path, req.Progress)
	if err != nil {
		return nil, err
	}

	return &FetchResult{
		OutputPath: path,
		Title:      video.Title,
		Bytes:      written,
	}, nil
}

// save streams the format into a file at path, removing the partial file
// on failure.
func (n *Native) save(ctx context.Context, video *youtube.Video, format *youtube.Format, path string, progress func(ProgressUpdate)) (int64, error) {
	stream, size, err := n.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return 0, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	written, err := copyWithProgress(ctx, file, stream, size, progress)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("download stream: %w", err)
	}
	return written, nil
}

// copyWithProgress copies src to dst, checking for cancellation between
// chunks and reporting progress at most every progressInterval.
func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, progress func(ProgressUpdate)) (int64, error) {
	buf := make([]byte, copyBufferSize)
	started := time.Now()
	var written int64
	var lastReport time.Time

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		nr, readErr := src.Read(buf)
		if nr > 0 {
			nw, writeErr := dst.Write(buf[:nr])
			written += int64(nw)
			if writeErr != nil {
				return written, writeErr
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
			if progress != nil && time.Since(lastReport) >= progressInterval {
				lastReport = time.Now()
				progress(progressSnapshot(written, total, started))
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}

	if progress != nil {
		progress(progressSnapshot(written, total, started))
	}
	return written, nil
}

// progressSnapshot derives percent, speed and ETA from raw byte counts.
func progressSnapshot(written, total int64, started time.Time) ProgressUpdate {
	update := ProgressUpdate{ETASec: -1}

	if total > 0 {
		update.Percent = int(float64(written) / float64(total) * 100)
	}

	elapsed := time.Since(started).Seconds()
	if elapsed > 0 {
		bytesPerSecond := float64(written) / elapsed
		update.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		if total > 0 && bytesPerSecond > 0 {
			update.ETASec = int(float64(total-written) / bytesPerSecond)
		}
	}

	return update
}

// pickVideoFormat selects a progressive video stream capped at maxHeight,
// preferring the requested container. When every candidate exceeds the cap
// the smallest one is returned rather than nothing.
func pickVideoFormat(formats youtube.FormatList, ext string, maxHeight int) *youtube.Format {
	progressive := formats.WithAudioChannels()

	if f := bestVideoUnderCap(progressive, ext, maxHeight); f != nil {
		return f
	}
	if f := bestVideoUnderCap(progressive, "", maxHeight); f != nil {
		return f
	}
	return smallestVideo(progressive)
}

func bestVideoUnderCap(formats youtube.FormatList, ext string, maxHeight int) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "video/") {
			continue
		}
		if ext != "" && mimeExt(f.MimeType) != ext {
			continue
		}
		if maxHeight > 0 && f.Height > maxHeight {
			continue
		}
		if best == nil || f.Height > best.Height || (f.Height == best.Height && f.Bitrate > best.Bitrate) {
			best = f
		}
	}
	return best
}

func smallestVideo(formats youtube.FormatList) *youtube.Format {
	var smallest *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "video/") {
			continue
		}
		if smallest == nil || f.Height < smallest.Height {
			smallest = f
		}
	}
	return smallest
}

// pickAudioFormat selects the audio-only stream with the highest bitrate.
func pickAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

// mimeExt extracts the subtype of a mime string, e.g. "mp4" from
// `video/mp4; codecs="avc1"`.
func mimeExt(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if i := strings.Index(mimeType, "/"); i >= 0 {
		return strings.TrimSpace(mimeType[i+1:])
	}
	return ""
}

// formatExt returns the filename extension a stream should be saved with.
// Audio in an mp4 container is conventionally m4a.
func formatExt(f *youtube.Format) string {
	ext := mimeExt(f.MimeType)
	switch {
	case ext == "":
		return "bin"
	case ext == "mp4" && strings.HasPrefix(f.MimeType, "audio/"):
		return "m4a"
	}
	return ext
}
