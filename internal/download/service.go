package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytgrab/ytgrab/internal/convert"
	"github.com/ytgrab/ytgrab/internal/engine"
	"github.com/ytgrab/ytgrab/internal/model"
	"github.com/ytgrab/ytgrab/internal/platform"
	"github.com/ytgrab/ytgrab/internal/report"
)

// UnknownTitle marks items whose metadata could not be extracted.
const UnknownTitle = "Unknown (Info extraction failed)"

// Options carries the per-run download parameters.
type Options struct {
	OutputDir   string
	MediaType   string // engine.MediaTypeVideo or engine.MediaTypeAudio
	VideoFormat string
	AudioFormat string
	MaxHeight   int
}

// Service downloads a resolved list of videos one at a time, isolating
// failures per item so one broken video never aborts the run.
type Service struct {
	engine    engine.Engine
	converter convert.Converter
	opts      Options

	tasksMu sync.RWMutex
	tasks   []*model.DownloadTask

	onUpdate func(*model.DownloadTask) // callback for live progress display
	log      *slog.Logger
}

// NewService creates a download service backed by the given engine.
// converter may be nil when no post-processing is available.
func NewService(eng engine.Engine, converter convert.Converter, opts Options) *Service {
	return &Service{
		engine:    eng,
		converter: converter,
		opts:      opts,
		log:       slog.Default(),
	}
}

// SetUpdateCallback sets the callback invoked whenever a task changes.
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// Run processes the videos in order and returns one report item per task
// that reached a verdict. Cancelling the context stops the run: the
// in-flight task is marked canceled and is not reported, and the error
// returned is the context's.
func (s *Service) Run(ctx context.Context, videos []*model.PlaylistVideo) ([]report.Item, error) {
	items := make([]report.Item, 0, len(videos))

	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		task := s.newTask(video)
		s.log.Info("processing video", "index", i+1, "total", len(videos), "url", task.URL)

		item := s.process(ctx, task)
		if task.Status == model.TaskStatusCanceled {
			return items, ctx.Err()
		}
		items = append(items, item)
	}

	return items, nil
}

// Tasks returns all tasks in creation order.
func (s *Service) Tasks() []*model.DownloadTask {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	return append([]*model.DownloadTask(nil), s.tasks...)
}

// newTask records a task for the video, seeding title and duration from
// the playlist entry when known.
func (s *Service) newTask(video *model.PlaylistVideo) *model.DownloadTask {
	task := &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       video.URL,
		Title:     video.Title,
		Duration:  video.Duration,
		Status:    model.TaskStatusPending,
		ETASec:    -1,
		StartedAt: time.Now(),
	}

	s.tasksMu.Lock()
	s.tasks = append(s.tasks, task)
	s.tasksMu.Unlock()

	s.notifyUpdate(task)
	return task
}

// process runs one task through metadata, fetch and post-processing, and
// returns its report item.
func (s *Service) process(ctx context.Context, task *model.DownloadTask) report.Item {
	item := report.Item{URL: task.URL}

	s.setStatus(task, model.TaskStatusStarting)

	meta, err := s.engine.Metadata(ctx, task.URL)
	if err != nil {
		if ctx.Err() != nil {
			s.finish(task, model.TaskStatusCanceled, "")
			return item
		}
		s.log.Error("info extraction failed", "url", task.URL, "error", err)
		task.Title = UnknownTitle
		item.Title = UnknownTitle
		s.finish(task, model.TaskStatusError, err.Error())
		return item
	}
	if meta.Title != "" {
		task.Title = meta.Title
	}
	item.Title = task.Title
	s.log.Info("downloading", "title", task.GetDisplayTitle(), "engine", s.engine.Name())

	s.setStatus(task, model.TaskStatusDownloading)

	result, err := s.engine.Fetch(ctx, engine.FetchRequest{
		URL:         task.URL,
		MediaType:   s.opts.MediaType,
		VideoFormat: s.opts.VideoFormat,
		AudioFormat: s.opts.AudioFormat,
		MaxHeight:   s.opts.MaxHeight,
		OutputDir:   s.opts.OutputDir,
		Progress: func(update engine.ProgressUpdate) {
			s.applyProgress(task, update)
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			s.finish(task, model.TaskStatusCanceled, "")
			return item
		}
		s.log.Error("download failed", "url", task.URL, "error", err)
		s.finish(task, model.TaskStatusError, err.Error())
		return item
	}

	if result.Title != "" && (task.Title == "" || task.Title == UnknownTitle) {
		task.Title = result.Title
		item.Title = result.Title
	}
	task.OutputPath = result.OutputPath

	path, err := s.finalize(ctx, task)
	if err != nil {
		if ctx.Err() != nil {
			s.finish(task, model.TaskStatusCanceled, "")
			return item
		}
		s.log.Error("download produced no file", "url", task.URL, "error", err)
		s.finish(task, model.TaskStatusError, err.Error())
		return item
	}

	task.OutputPath = path
	if info, statErr := os.Stat(path); statErr == nil {
		task.FileSize = info.Size()
	} else {
		task.FileSize = result.Bytes
	}
	task.Percent = 100
	s.finish(task, model.TaskStatusCompleted, "")
	s.log.Info("completed", "title", task.GetDisplayTitle(), "path", path)

	item.Success = true
	return item
}

// finalize converts the fetched file into the requested format when its
// extension differs, then confirms a file actually landed on disk. A
// conversion failure keeps the original file; only a missing file fails
// the task.
func (s *Service) finalize(ctx context.Context, task *model.DownloadTask) (string, error) {
	requested := s.requestedExt()

	path, err := s.locateOutput(task)
	if err != nil {
		return "", err
	}

	if fileExt(path) != requested {
		converted, convErr := s.convertOutput(ctx, task, path, requested)
		if convErr != nil {
			if ctx.Err() != nil {
				return "", convErr
			}
			s.log.Warn("conversion failed, keeping original file",
				"path", path, "requested", requested, "error", convErr)
		} else {
			path = converted
		}
	}

	if fileExt(path) != requested {
		s.log.Warn("downloaded file has a different extension than expected",
			"path", path, "expected", requested)
	}

	return path, nil
}

// locateOutput resolves the file the engine produced. Engines report the
// path they wrote, but a post-processor may have replaced the file under
// another extension, so fall back to a stem search.
func (s *Service) locateOutput(task *model.DownloadTask) (string, error) {
	if task.OutputPath != "" {
		if _, err := os.Stat(task.OutputPath); err == nil {
			return task.OutputPath, nil
		}
		base := filepath.Base(task.OutputPath)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if found, err := platform.FindDownloadedFile(filepath.Dir(task.OutputPath), stem); err == nil {
			return found, nil
		}
	}

	if task.Title != "" && task.Title != UnknownTitle {
		stem := platform.SanitizeFilename(task.Title)
		if found, err := platform.FindDownloadedFile(s.opts.OutputDir, stem); err == nil {
			return found, nil
		}
	}

	return "", fmt.Errorf("no downloaded file found for %s", task.GetDisplayTitle())
}

// convertOutput runs the ffmpeg post-processing step for the configured
// media type.
func (s *Service) convertOutput(ctx context.Context, task *model.DownloadTask, src, format string) (string, error) {
	if s.converter == nil {
		return "", fmt.Errorf("no converter configured")
	}

	s.setStatus(task, model.TaskStatusConverting)
	if s.opts.MediaType == engine.MediaTypeAudio {
		return s.converter.ExtractAudio(ctx, src, format)
	}
	return s.converter.ConvertContainer(ctx, src, format)
}

// applyProgress updates task progress from an engine update.
func (s *Service) applyProgress(task *model.DownloadTask, update engine.ProgressUpdate) {
	s.tasksMu.Lock()
	if update.Percent > 0 {
		task.Percent = update.Percent
	}
	if update.Speed != "" {
		task.Speed = update.Speed
	}
	if update.ETASec > 0 {
		task.ETASec = update.ETASec
	}
	s.tasksMu.Unlock()

	s.log.Debug("progress", "url", task.URL, "percent", task.Percent, "speed", task.Speed)
	s.notifyUpdate(task)
}

// requestedExt is the extension downloads should end up with.
func (s *Service) requestedExt() string {
	if s.opts.MediaType == engine.MediaTypeAudio {
		return strings.ToLower(s.opts.AudioFormat)
	}
	return strings.ToLower(s.opts.VideoFormat)
}

func fileExt(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func (s *Service) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	s.tasksMu.Lock()
	task.Status = status
	s.tasksMu.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) finish(task *model.DownloadTask, status model.TaskStatus, lastError string) {
	s.tasksMu.Lock()
	task.Status = status
	task.LastError = lastError
	task.FinishedAt = time.Now()
	s.tasksMu.Unlock()
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique, time-ordered task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("task-%d", time.Now().UnixNano())
	}
	return "task-" + id.String()
}
