package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name unchanged", "My Video Title", "My Video Title"},
		{"slashes replaced", "AC/DC - Back In Black", "AC-DC - Back In Black"},
		{"windows forbidden chars", `What? "When" <Now>`, "What- -When- -Now-"},
		{"colon and pipe", "Album: Part 1|2", "Album- Part 1-2"},
		{"trailing dots trimmed", "clip...", "clip"},
		{"whitespace trimmed", "  spaced  ", "spaced"},
		{"empty becomes untitled", "", UntitledName},
		{"only forbidden chars becomes dashes", "???", "---"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNextAvailablePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mp4")

	// Nothing occupies the path yet
	if got := NextAvailablePath(path); got != path {
		t.Errorf("Expected %s for free path, got %s", path, got)
	}

	// Occupy it and the first variant
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	first := filepath.Join(dir, "video (1).mp4")
	if got := NextAvailablePath(path); got != first {
		t.Errorf("Expected %s, got %s", first, got)
	}

	if err := os.WriteFile(first, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	second := filepath.Join(dir, "video (2).mp4")
	if got := NextAvailablePath(path); got != second {
		t.Errorf("Expected %s, got %s", second, got)
	}
}

func TestFindDownloadedFile(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "My Clip.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := FindDownloadedFile(dir, "My Clip")
	if err != nil {
		t.Fatalf("FindDownloadedFile() returned error: %v", err)
	}
	if filepath.Base(path) != "My Clip.mp4" {
		t.Errorf("Expected My Clip.mp4, got %s", filepath.Base(path))
	}
}

func TestFindDownloadedFile_DifferentExtension(t *testing.T) {
	dir := t.TempDir()

	// Engine materialized mkv though mp4 was requested
	if err := os.WriteFile(filepath.Join(dir, "My Clip.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := FindDownloadedFile(dir, "My Clip")
	if err != nil {
		t.Fatalf("FindDownloadedFile() returned error: %v", err)
	}
	if filepath.Base(path) != "My Clip.mkv" {
		t.Errorf("Expected My Clip.mkv, got %s", filepath.Base(path))
	}
}

func TestFindDownloadedFile_SkipsPartials(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "My Clip.mp4.part"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := FindDownloadedFile(dir, "My Clip")
	if err == nil {
		t.Error("Expected error when only a partial download exists")
	}
}

func TestFindDownloadedFile_NewestWins(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "My Clip.webm")
	newer := filepath.Join(dir, "My Clip.mp4")
	for _, p := range []string{older, newer} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Now()
	if err := os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, now, now); err != nil {
		t.Fatal(err)
	}

	path, err := FindDownloadedFile(dir, "My Clip")
	if err != nil {
		t.Fatalf("FindDownloadedFile() returned error: %v", err)
	}
	if path != newer {
		t.Errorf("Expected newest file %s, got %s", newer, path)
	}
}

func TestFindDownloadedFile_Missing(t *testing.T) {
	dir := t.TempDir()

	_, err := FindDownloadedFile(dir, "Nothing Here")
	if err == nil {
		t.Error("Expected error for missing download")
	}
}
