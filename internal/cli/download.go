package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytgrab/ytgrab/internal/convert"
	"github.com/ytgrab/ytgrab/internal/download"
	"github.com/ytgrab/ytgrab/internal/engine"
	"github.com/ytgrab/ytgrab/internal/logging"
	"github.com/ytgrab/ytgrab/internal/model"
	"github.com/ytgrab/ytgrab/internal/platform"
	"github.com/ytgrab/ytgrab/internal/report"
)

// downloadRun is the default command: resolve the URL into a list of
// videos, download each one, and write the report.
func downloadRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		cfg.URL = args[0]
	}
	if cfg.URL == "" {
		return errors.New("no URL given: pass one as an argument, use --url, or set url in config.yaml")
	}

	outputDir, err := cfg.ExpandDownloadDir()
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		return fmt.Errorf("creating downloads directory: %w", err)
	}

	runLog, err := logging.Setup(cfg.LogLevel, outputDir)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer runLog.Close()

	log := runLog.Logger
	log.Info("starting run",
		"url", cfg.URL,
		"type", cfg.MediaType,
		"format", cfg.OutputFormat(),
		"max", cfg.MaxDownloads,
		"engine", cfg.Engine,
		"dir", outputDir)

	if !platform.IsYouTubeURL(cfg.URL) {
		log.Warn("URL is not a recognized YouTube link, passing it through unchanged", "url", cfg.URL)
	}

	ctx := cmd.Context()

	resolver := platform.NewResolver()
	playlist, err := resolver.Resolve(ctx, cfg.URL, cfg.MaxDownloads)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", cfg.URL, err)
	}
	log.Info("resolved videos", "count", playlist.Len(), "playlist", playlist.Title)
	log.Debug("download queue", "urls", playlist.VideoURLs())

	eng, err := engine.New(string(cfg.Engine))
	if err != nil {
		return err
	}

	converter := convert.NewService()
	if availErr := converter.Available(); availErr != nil {
		log.Warn("ffmpeg not found, downloads keep their original container", "error", availErr)
	}

	service := download.NewService(eng, converter, download.Options{
		OutputDir:   outputDir,
		MediaType:   string(cfg.MediaType),
		VideoFormat: cfg.VideoFormat,
		AudioFormat: cfg.AudioFormat,
		MaxHeight:   cfg.MaxHeight,
	})
	service.SetUpdateCallback(printProgress)

	items, runErr := service.Run(ctx, playlist.Videos)

	// The report covers whatever was processed, interrupted or not.
	meta := report.Meta{
		GeneratedAt:  time.Now(),
		MediaType:    string(cfg.MediaType),
		MaxDownloads: cfg.MaxDownloads,
	}
	reportPath, reportErr := report.Write(outputDir, meta, items)
	if reportErr != nil {
		log.Error("writing report failed", "error", reportErr)
	} else {
		log.Info("report written", "path", reportPath)
	}

	printSummary(items, reportPath)

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	if len(items) > 0 && successCount(items) == 0 {
		return errors.New("all downloads failed")
	}
	return nil
}

// lastPercent remembers the last printed percent per task so the progress
// line is only redrawn when it changes.
var lastPercent = map[string]int{}

// printProgress keeps a single progress line per task on stderr.
func printProgress(task *model.DownloadTask) {
	switch task.Status {
	case model.TaskStatusDownloading:
		if task.Percent > 0 && task.Percent != lastPercent[task.ID] {
			lastPercent[task.ID] = task.Percent
			fmt.Fprintf(os.Stderr, "\r%-45.45s %3d%% %10s ETA %s ",
				task.GetDisplayTitle(), task.Percent, task.Speed, task.GetETAString())
		}
	case model.TaskStatusCompleted, model.TaskStatusError, model.TaskStatusCanceled:
		if lastPercent[task.ID] > 0 {
			fmt.Fprintln(os.Stderr)
		}
		delete(lastPercent, task.ID)
	}
}

// printSummary prints the final counts, mirroring the written report.
func printSummary(items []report.Item, reportPath string) {
	success := successCount(items)

	fmt.Println()
	fmt.Println("Download Summary:")
	fmt.Printf("  Processed: %d\n", len(items))
	fmt.Printf("  Success:   %d\n", success)
	fmt.Printf("  Failures:  %d\n", len(items)-success)
	if len(items) > 0 {
		fmt.Printf("  Success Rate: %.1f%%\n", float64(success)/float64(len(items))*100)
	}
	if reportPath != "" {
		fmt.Printf("  Report: %s\n", reportPath)
	}
}

func successCount(items []report.Item) int {
	n := 0
	for _, item := range items {
		if item.Success {
			n++
		}
	}
	return n
}
