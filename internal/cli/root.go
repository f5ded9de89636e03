// Package cli implements the ytgrab command tree using Cobra.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytgrab/ytgrab/internal/config"
)

// Flags
var (
	flagConfig      string
	flagURL         string
	flagType        string
	flagDir         string
	flagMax         int
	flagVideoFormat string
	flagAudioFormat string
	flagMaxHeight   int
	flagLogLevel    string
	flagEngine      string
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "ytgrab [url]",
	Short: "Download YouTube videos and playlists",
	Long: `ytgrab downloads a YouTube video or playlist to local storage, as
video or audio, and writes a plain-text report with the outcome of every
download.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              downloadRun,
	SilenceUsage:      true,
}

// Execute runs the root command, cancelling the run on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: config.yaml in CWD or next to the binary)")

	rootCmd.Flags().StringVarP(&flagURL, "url", "u", "", "Video or playlist URL to download")
	rootCmd.Flags().StringVarP(&flagType, "type", "t", "", "Download type: video | audio")
	rootCmd.Flags().StringVarP(&flagDir, "dir", "d", "", "Downloads directory")
	rootCmd.Flags().IntVarP(&flagMax, "max", "n", 0, "Maximum number of videos to take from a playlist")
	rootCmd.Flags().StringVar(&flagVideoFormat, "video-format", "", "Target video container: mp4 | webm | ...")
	rootCmd.Flags().StringVar(&flagAudioFormat, "audio-format", "", "Target audio format: mp3 | m4a | ...")
	rootCmd.Flags().IntVar(&flagMaxHeight, "max-height", 0, "Maximum video height in pixels")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug | info | warning | error | critical | none")
	rootCmd.Flags().StringVar(&flagEngine, "engine", "", "Extraction engine: native | ytdlp")

	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagURL != "" {
		cfg.URL = flagURL
	}
	if flagType != "" {
		cfg.MediaType = config.MediaType(flagType)
	}
	if flagDir != "" {
		cfg.DownloadsDir = flagDir
	}
	if flagMax > 0 {
		cfg.MaxDownloads = flagMax
	}
	if flagVideoFormat != "" {
		cfg.VideoFormat = flagVideoFormat
	}
	if flagAudioFormat != "" {
		cfg.AudioFormat = flagAudioFormat
	}
	if flagMaxHeight > 0 {
		cfg.MaxHeight = flagMaxHeight
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagEngine != "" {
		cfg.Engine = config.EngineName(flagEngine)
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
