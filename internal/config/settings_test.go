package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DownloadsDir != DefaultDownloadsDir {
		t.Errorf("Expected downloads dir %q, got %q", DefaultDownloadsDir, cfg.DownloadsDir)
	}
	if cfg.MaxDownloads != DefaultMaxDownloads {
		t.Errorf("Expected max downloads %d, got %d", DefaultMaxDownloads, cfg.MaxDownloads)
	}
	if cfg.MediaType != MediaTypeVideo {
		t.Errorf("Expected media type %q, got %q", MediaTypeVideo, cfg.MediaType)
	}
	if cfg.VideoFormat != "mp4" || cfg.AudioFormat != "mp3" {
		t.Errorf("Expected mp4/mp3 formats, got %s/%s", cfg.VideoFormat, cfg.AudioFormat)
	}
	if cfg.Engine != EngineNative {
		t.Errorf("Expected engine %q, got %q", EngineNative, cfg.Engine)
	}
	if cfg.URL != "" {
		t.Errorf("Expected no default URL, got %q", cfg.URL)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `url: https://www.youtube.com/watch?v=abc&list=PLxyz
downloads: media
max_downloads: 3
type: audio
audio_format: m4a
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.URL != "https://www.youtube.com/watch?v=abc&list=PLxyz" {
		t.Errorf("Unexpected URL: %q", cfg.URL)
	}
	if cfg.DownloadsDir != "media" {
		t.Errorf("Expected downloads dir 'media', got %q", cfg.DownloadsDir)
	}
	if cfg.MaxDownloads != 3 {
		t.Errorf("Expected max downloads 3, got %d", cfg.MaxDownloads)
	}
	if cfg.MediaType != MediaTypeAudio {
		t.Errorf("Expected media type audio, got %q", cfg.MediaType)
	}
	if cfg.AudioFormat != "m4a" {
		t.Errorf("Expected audio format m4a, got %q", cfg.AudioFormat)
	}

	// Keys absent from the file keep their defaults
	if cfg.VideoFormat != DefaultVideoFormat {
		t.Errorf("Expected default video format, got %q", cfg.VideoFormat)
	}
	if cfg.MaxHeight != DefaultMaxHeight {
		t.Errorf("Expected default max height, got %d", cfg.MaxHeight)
	}
	if cfg.Engine != DefaultEngine {
		t.Errorf("Expected default engine, got %q", cfg.Engine)
	}
}

func TestLoadMissingFile(t *testing.T) {
	// No explicit path and no config.yaml in the working directory:
	// defaults, no error.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with missing file returned error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults for missing file, got %+v", cfg)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("Expected error for explicit missing config path, got nil")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("url: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for malformed config file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"audio type passes", func(c *Config) { c.MediaType = MediaTypeAudio }, false},
		{"uppercase type normalized", func(c *Config) { c.MediaType = "VIDEO" }, false},
		{"invalid type", func(c *Config) { c.MediaType = "podcast" }, true},
		{"ytdlp engine passes", func(c *Config) { c.Engine = EngineYTDLP }, false},
		{"invalid engine", func(c *Config) { c.Engine = "curl" }, true},
		{"none log level passes", func(c *Config) { c.LogLevel = "none" }, false},
		{"uppercase log level normalized", func(c *Config) { c.LogLevel = "INFO" }, false},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Clamping(t *testing.T) {
	cfg := Default()
	cfg.MaxDownloads = 0
	cfg.MaxHeight = 100000

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if cfg.MaxDownloads != MinDownloads {
		t.Errorf("Expected max downloads clamped to %d, got %d", MinDownloads, cfg.MaxDownloads)
	}
	if cfg.MaxHeight != MaxHeight {
		t.Errorf("Expected max height clamped to %d, got %d", MaxHeight, cfg.MaxHeight)
	}
}

func TestExpandDownloadDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("No home directory available: %v", err)
	}

	cfg := Default()
	cfg.DownloadsDir = "~/videos"

	dir, err := cfg.ExpandDownloadDir()
	if err != nil {
		t.Fatalf("ExpandDownloadDir() returned error: %v", err)
	}

	expected := filepath.Join(home, "videos")
	if dir != expected {
		t.Errorf("Expected %q, got %q", expected, dir)
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("Expected absolute path, got %q", dir)
	}
}

func TestOutputFormat(t *testing.T) {
	cfg := Default()

	if got := cfg.OutputFormat(); got != "mp4" {
		t.Errorf("Expected mp4 for video type, got %q", got)
	}

	cfg.MediaType = MediaTypeAudio
	if got := cfg.OutputFormat(); got != "mp3" {
		t.Errorf("Expected mp3 for audio type, got %q", got)
	}
}
