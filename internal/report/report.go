package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report file naming
const (
	FilePrefix = "report_"
	FileExt    = ".txt"
	TimeLayout = "20060102_150405"

	// Timestamp format used inside the report body
	GeneratedLayout = "2006-01-02 15:04:05"

	separatorWidth = 50
)

// FailureReason is the fixed explanation recorded for failed items.
const FailureReason = "Unable to download"

// Meta describes the run the report summarizes.
type Meta struct {
	GeneratedAt  time.Time
	MediaType    string
	MaxDownloads int
}

// Item is a single download outcome.
type Item struct {
	URL     string
	Title   string
	Success bool
}

// Write renders the report and writes it to dir under a timestamped
// name. The file appears atomically so a reader never sees a partial
// report. Returns the path of the written file.
func Write(dir string, meta Meta, items []Item) (string, error) {
	name := FilePrefix + meta.GeneratedAt.Format(TimeLayout) + FileExt
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, name+".tmp")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Render(meta, items)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Render produces the plain-text report body.
func Render(meta Meta, items []Item) string {
	var b strings.Builder
	separator := strings.Repeat("=", separatorWidth)

	fmt.Fprintf(&b, "YouTube Download Report\n")
	fmt.Fprintf(&b, "Generated: %s\n", meta.GeneratedAt.Format(GeneratedLayout))
	fmt.Fprintf(&b, "Download Type: %s\n", meta.MediaType)
	fmt.Fprintf(&b, "Max Downloads: %d\n", meta.MaxDownloads)
	fmt.Fprintf(&b, "%s\n\n", separator)

	var success int
	for _, item := range items {
		if item.Success {
			success++
			fmt.Fprintf(&b, "SUCCESS: %s - %s\n", item.Title, item.URL)
		} else {
			fmt.Fprintf(&b, "FAILED: %s - %s\n", item.URL, FailureReason)
		}
	}

	processed := len(items)
	failures := processed - success

	fmt.Fprintf(&b, "\n%s\n", separator)
	fmt.Fprintf(&b, "Download Summary:\n")
	fmt.Fprintf(&b, "Total Processed: %d\n", processed)
	fmt.Fprintf(&b, "Total Success: %d\n", success)
	fmt.Fprintf(&b, "Total Failures: %d\n", failures)
	if processed > 0 {
		rate := float64(success) / float64(processed) * 100
		fmt.Fprintf(&b, "Success Rate: %.1f%%\n", rate)
	}

	return b.String()
}
