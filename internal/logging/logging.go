// Package logging configures the process-wide slog logger: console output
// plus a per-run log file inside the download directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Per-run log file naming
const (
	LogFilePrefix     = "download_log_"
	LogFileExt        = ".log"
	LogFileTimeLayout = "20060102_150405"
)

// LevelNone disables logging entirely when used as the configured level.
const LevelNone = "none"

// LevelCritical sits above slog.LevelError so "critical" can be used as a
// threshold that silences ordinary errors.
const LevelCritical = slog.LevelError + 4

// RunLog is the configured logger for one run together with its log file.
type RunLog struct {
	Logger *slog.Logger
	Path   string // per-run log file path, empty when logging is disabled

	file *os.File
}

// Close flushes and closes the per-run log file, if one was opened.
func (r *RunLog) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Setup builds a text logger writing to stdout and to a fresh
// download_log_YYYYMMDD_HHMMSS.log inside dir, creating dir first. The
// logger is installed as the slog default. Level "none" suppresses all
// output and opens no file.
func Setup(level, dir string) (*RunLog, error) {
	if strings.EqualFold(level, LevelNone) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return &RunLog{Logger: logger}, nil
	}

	lvl := parseLevel(level)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, LogFilePrefix+time.Now().Format(LogFileTimeLayout)+LogFileExt)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, file), opts))
	slog.SetDefault(logger)

	logger.Info("logging to file", "path", path)

	return &RunLog{Logger: logger, Path: path, file: file}, nil
}

// parseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}
