package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// UntitledName is used for videos whose titles sanitize to nothing
const UntitledName = "untitled"

// File extensions to skip when locating a finished download
var SkippedExtensions = []string{".part", ".ytdl", ".tmp"}

// forbiddenFilenameChars matches characters that are unsafe in filenames
// on at least one supported platform, including control bytes.
var forbiddenFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// SanitizeFilename replaces characters that are unsafe in filenames and
// trims the result so it can be used as a basename on any platform.
func SanitizeFilename(name string) string {
	cleaned := forbiddenFilenameChars.ReplaceAllString(name, "-")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return UntitledName
	}
	return cleaned
}

// NextAvailablePath returns path unchanged when nothing occupies it, or the
// first "name (n).ext" variant that does not exist yet.
func NextAvailablePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// FindDownloadedFile locates a materialized download by its basename,
// whatever extension the engine finally chose. Partial-download artifacts
// are skipped. The newest match wins when several extensions exist.
func FindDownloadedFile(dir, stem string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read directory %s: %w", dir, err)
	}

	prefix := stem + "."
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if isPartialArtifact(name) {
			continue
		}
		matches = append(matches, filepath.Join(dir, name))
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("no file matching %s.* in %s", stem, dir)
	}

	sort.Slice(matches, func(i, j int) bool {
		infoI, errI := os.Stat(matches[i])
		infoJ, errJ := os.Stat(matches[j])
		if errI != nil || errJ != nil {
			return matches[i] < matches[j]
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return matches[0], nil
}

// isPartialArtifact reports whether the filename belongs to an unfinished
// download.
func isPartialArtifact(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
