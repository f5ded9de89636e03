package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MediaType selects what gets materialized for each video
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// EngineName selects the extraction/download engine implementation
type EngineName string

const (
	EngineNative EngineName = "native"
	EngineYTDLP  EngineName = "ytdlp"
)

// ConfigFileName is looked up in the working directory first, then next to
// the executable, when no explicit path is given.
const ConfigFileName = "config.yaml"

// Default values
const (
	DefaultDownloadsDir = "downloads"
	DefaultMaxDownloads = 5
	DefaultMediaType    = MediaTypeVideo
	DefaultVideoFormat  = "mp4"
	DefaultAudioFormat  = "mp3"
	DefaultMaxHeight    = 760
	DefaultLogLevel     = "info"
	DefaultEngine       = EngineNative
)

// Bounds applied during validation
const (
	MinDownloads = 1
	MaxDownloads = 100
	MinHeight    = 144
	MaxHeight    = 4320
)

// Config holds the settings read from config.yaml. A partial file is fine:
// zero-valued fields are filled with defaults after unmarshal.
type Config struct {
	URL          string     `yaml:"url"`
	DownloadsDir string     `yaml:"downloads"`
	MaxDownloads int        `yaml:"max_downloads"`
	MediaType    MediaType  `yaml:"type"`
	VideoFormat  string     `yaml:"video_format"`
	AudioFormat  string     `yaml:"audio_format"`
	MaxHeight    int        `yaml:"max_height"`
	LogLevel     string     `yaml:"log_level"`
	Engine       EngineName `yaml:"engine"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		DownloadsDir: DefaultDownloadsDir,
		MaxDownloads: DefaultMaxDownloads,
		MediaType:    DefaultMediaType,
		VideoFormat:  DefaultVideoFormat,
		AudioFormat:  DefaultAudioFormat,
		MaxHeight:    DefaultMaxHeight,
		LogLevel:     DefaultLogLevel,
		Engine:       DefaultEngine,
	}
}

// Load reads configuration from path. When path is empty the file is
// searched for in the standard locations; a file that cannot be found that
// way is not an error and defaults are returned. An explicit path that
// cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// findConfigFile returns the first standard location holding a config file,
// or "" when none exists.
func findConfigFile() string {
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// fillDefaults replaces zero-valued fields so explicit empty values in the
// file behave the same as absent keys.
func (c *Config) fillDefaults() {
	if c.DownloadsDir == "" {
		c.DownloadsDir = DefaultDownloadsDir
	}
	if c.MaxDownloads == 0 {
		c.MaxDownloads = DefaultMaxDownloads
	}
	if c.MediaType == "" {
		c.MediaType = DefaultMediaType
	}
	if c.VideoFormat == "" {
		c.VideoFormat = DefaultVideoFormat
	}
	if c.AudioFormat == "" {
		c.AudioFormat = DefaultAudioFormat
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Engine == "" {
		c.Engine = DefaultEngine
	}
}

var validMediaTypes = map[MediaType]bool{
	MediaTypeVideo: true,
	MediaTypeAudio: true,
}

var validEngines = map[EngineName]bool{
	EngineNative: true,
	EngineYTDLP:  true,
}

var validLogLevels = map[string]bool{
	"debug":    true,
	"info":     true,
	"warning":  true,
	"error":    true,
	"critical": true,
	"none":     true,
}

// Validate normalizes and checks the configuration. Out-of-range numeric
// values are clamped; invalid enumeration values are errors.
func (c *Config) Validate() error {
	c.MediaType = MediaType(strings.ToLower(string(c.MediaType)))
	c.Engine = EngineName(strings.ToLower(string(c.Engine)))
	c.LogLevel = strings.ToLower(c.LogLevel)

	if !validMediaTypes[c.MediaType] {
		return fmt.Errorf("invalid type %q: choose 'video' or 'audio'", c.MediaType)
	}
	if !validEngines[c.Engine] {
		return fmt.Errorf("invalid engine %q: choose 'native' or 'ytdlp'", c.Engine)
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if c.MaxDownloads < MinDownloads {
		c.MaxDownloads = MinDownloads
	}
	if c.MaxDownloads > MaxDownloads {
		c.MaxDownloads = MaxDownloads
	}
	if c.MaxHeight < MinHeight {
		c.MaxHeight = MinHeight
	}
	if c.MaxHeight > MaxHeight {
		c.MaxHeight = MaxHeight
	}

	return nil
}

// ExpandDownloadDir resolves the downloads directory to an absolute path,
// expanding a leading ~ to the user's home directory.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadsDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve downloads directory: %w", err)
	}
	return abs, nil
}

// OutputFormat returns the container/codec extension downloads should end
// up with for the configured media type.
func (c *Config) OutputFormat() string {
	if c.MediaType == MediaTypeAudio {
		return c.AudioFormat
	}
	return c.VideoFormat
}
