package convert

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpeg constants for post-processing settings
const (
	// Executable
	FFmpegCommand = "ffmpeg"

	// Audio extraction bitrate
	AudioBitrate = "192k"

	// Stream copy codec
	CopyCodec = "copy"
)

// audioCodecs maps target audio extensions to ffmpeg encoders
var audioCodecs = map[string]string{
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"aac":  "aac",
	"opus": "libopus",
	"ogg":  "libvorbis",
	"flac": "flac",
	"wav":  "pcm_s16le",
}

// Service handles ffmpeg post-processing of downloaded media
type Service struct {
	ffmpegPath string
	log        *slog.Logger
}

// NewService creates a post-processing service using the ffmpeg binary
// found on PATH.
func NewService() *Service {
	return &Service{
		ffmpegPath: FFmpegCommand,
		log:        slog.Default(),
	}
}

// SetFFmpegPath overrides the ffmpeg binary location.
func (s *Service) SetFFmpegPath(path string) {
	s.ffmpegPath = path
}

// Available reports whether the configured ffmpeg binary can be found.
func (s *Service) Available() error {
	if _, err := exec.LookPath(s.ffmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}
	return nil
}

// ExtractAudio re-encodes src into an audio-only file in the requested
// format, removing src on success. When src already carries the requested
// extension it is returned unchanged. Returns the path of the audio file.
func (s *Service) ExtractAudio(ctx context.Context, src, format string) (string, error) {
	outputPath := replaceExt(src, format)
	if outputPath == src {
		return src, nil
	}

	args := s.buildExtractAudioArgs(src, outputPath, format)
	s.log.Debug("extracting audio", "src", src, "dst", outputPath)

	if err := s.run(ctx, args, outputPath); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}

	os.Remove(src)
	return outputPath, nil
}

// ConvertContainer remuxes src into the requested container, falling back
// to a transcode when the streams cannot be copied. Removes src on
// success. When src already carries the requested extension it is
// returned unchanged.
func (s *Service) ConvertContainer(ctx context.Context, src, format string) (string, error) {
	outputPath := replaceExt(src, format)
	if outputPath == src {
		return src, nil
	}

	s.log.Debug("converting container", "src", src, "dst", outputPath)

	err := s.run(ctx, s.buildRemuxArgs(src, outputPath), outputPath)
	if err != nil && ctx.Err() == nil {
		s.log.Debug("remux failed, transcoding", "src", src, "error", err)
		err = s.run(ctx, s.buildTranscodeArgs(src, outputPath), outputPath)
	}
	if err != nil {
		return "", fmt.Errorf("convert container: %w", err)
	}

	os.Remove(src)
	return outputPath, nil
}

// buildExtractAudioArgs builds the ffmpeg arguments for audio extraction
func (s *Service) buildExtractAudioArgs(input, output, format string) []string {
	codec, ok := audioCodecs[strings.ToLower(format)]
	if !ok {
		codec = CopyCodec
	}

	args := []string{
		"-y", // Overwrite output file
		"-i", input,
		"-vn", // Drop video streams
		"-c:a", codec,
	}
	if codec != CopyCodec {
		args = append(args, "-b:a", AudioBitrate)
	}
	return append(args, output)
}

// buildRemuxArgs builds the ffmpeg arguments for a stream-copy remux
func (s *Service) buildRemuxArgs(input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-c", CopyCodec,
		output,
	}
}

// buildTranscodeArgs builds the ffmpeg arguments for a full transcode
func (s *Service) buildTranscodeArgs(input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		output,
	}
}

// run executes ffmpeg and removes the partial output on failure or
// cancellation.
func (s *Service) run(ctx context.Context, args []string, outputPath string) error {
	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outputPath)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// replaceExt swaps the extension of path for the given format
func replaceExt(path, format string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + strings.ToLower(format)
}

// lastLine returns the last non-empty line of ffmpeg output, which is
// where ffmpeg places the reason it gave up.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
