// Package config loads pipeline configuration from an optional YAML file
// plus environment variables, with defaults for every tunable. The loaded
// Config is treated as immutable for the duration of a run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline.
type Config struct {
	Paths     PathsConfig
	Fetch     FetchConfig
	Encode    EncodeConfig
	Thumbnail ThumbnailConfig
	Tools     ToolsConfig
	Log       LogConfig
}

// PathsConfig holds the directory layout shared by the two stages: fetch
// writes into InputDir, transcode reads InputDir and writes OutputDir.
type PathsConfig struct {
	InputDir  string
	OutputDir string
}

// FetchConfig holds downloader configuration.
type FetchConfig struct {
	// Format is the downloader's format-selection expression.
	Format string
	// OutputTemplate names downloaded files; it is joined to InputDir.
	OutputTemplate string
}

// EncodeConfig holds the web-optimize encode profile.
type EncodeConfig struct {
	// CRF trades size against quality; lower means higher quality.
	CRF int
	// Preset is the encoder speed/quality preset.
	Preset string
	// Tune selects content-specific rate control ("film" for live action).
	Tune string
	// MaxHeight caps the output height, preserving aspect ratio.
	// 0 keeps the source resolution (even-rounded only).
	MaxHeight int
	// AudioBitrate is the AAC bitrate, e.g. "64k".
	AudioBitrate string
	// TargetFPS forces a constant output frame rate; 0 keeps the source rate.
	TargetFPS int
}

// ThumbnailConfig holds the thumbnail extraction profile.
type ThumbnailConfig struct {
	Width   int
	Height  int
	Quality int
	// Ext is the output extension including the dot, e.g. ".webp".
	Ext     string
	Timeout time.Duration
}

// ToolsConfig holds the external tool binaries and the probe bound.
type ToolsConfig struct {
	FFmpegPath   string
	FFprobePath  string
	YtdlpPath    string
	ProbeTimeout time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from the given file and environment variables.
// An empty or missing path yields a defaults-only configuration; a file
// that exists but cannot be parsed is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VIDPIPE")
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Directory layout shared by the fetch and transcode stages.
	v.SetDefault("paths.inputDir", "data/original")
	v.SetDefault("paths.outputDir", "data/processed")

	// Fetch defaults: best combined stream, named by source identifier.
	v.SetDefault("fetch.format", "bestvideo+bestaudio/best")
	v.SetDefault("fetch.outputTemplate", "%(id)s.%(ext)s")

	// Encode defaults tuned for web delivery of live-action footage.
	v.SetDefault("encode.crf", 27)
	v.SetDefault("encode.preset", "slow")
	v.SetDefault("encode.tune", "film")
	v.SetDefault("encode.maxHeight", 540)
	v.SetDefault("encode.audioBitrate", "64k")
	v.SetDefault("encode.targetFPS", 24)

	// Thumbnail defaults: 16:9 frame from the middle of the video.
	v.SetDefault("thumbnail.width", 1280)
	v.SetDefault("thumbnail.height", 720)
	v.SetDefault("thumbnail.quality", 85)
	v.SetDefault("thumbnail.ext", ".webp")
	v.SetDefault("thumbnail.timeout", "60s")

	// Tool defaults: bare names resolved via PATH.
	v.SetDefault("tools.ffmpegPath", "ffmpeg")
	v.SetDefault("tools.ffprobePath", "ffprobe")
	v.SetDefault("tools.ytdlpPath", "yt-dlp")
	v.SetDefault("tools.probeTimeout", "30s")

	// Logging defaults: console output for interactive runs.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

// Validate rejects configurations the external tools would choke on.
func (c *Config) Validate() error {
	if c.Paths.InputDir == "" {
		return fmt.Errorf("paths.inputDir must not be empty")
	}
	if c.Paths.OutputDir == "" {
		return fmt.Errorf("paths.outputDir must not be empty")
	}
	if c.Encode.CRF < 0 || c.Encode.CRF > 51 {
		return fmt.Errorf("encode.crf must be within 0-51, got %d", c.Encode.CRF)
	}
	if c.Encode.Preset == "" {
		return fmt.Errorf("encode.preset must not be empty")
	}
	if c.Encode.MaxHeight < 0 {
		return fmt.Errorf("encode.maxHeight must not be negative, got %d", c.Encode.MaxHeight)
	}
	if c.Encode.AudioBitrate == "" {
		return fmt.Errorf("encode.audioBitrate must not be empty")
	}
	if c.Encode.TargetFPS < 0 {
		return fmt.Errorf("encode.targetFPS must not be negative, got %d", c.Encode.TargetFPS)
	}
	if c.Thumbnail.Width <= 0 || c.Thumbnail.Height <= 0 {
		return fmt.Errorf("thumbnail dimensions must be positive, got %dx%d", c.Thumbnail.Width, c.Thumbnail.Height)
	}
	if c.Thumbnail.Quality < 0 || c.Thumbnail.Quality > 100 {
		return fmt.Errorf("thumbnail.quality must be within 0-100, got %d", c.Thumbnail.Quality)
	}
	if c.Thumbnail.Ext == "" {
		return fmt.Errorf("thumbnail.ext must not be empty")
	}
	if c.Thumbnail.Timeout <= 0 {
		return fmt.Errorf("thumbnail.timeout must be positive, got %s", c.Thumbnail.Timeout)
	}
	if c.Tools.FFmpegPath == "" || c.Tools.FFprobePath == "" || c.Tools.YtdlpPath == "" {
		return fmt.Errorf("tool paths must not be empty")
	}
	if c.Tools.ProbeTimeout <= 0 {
		return fmt.Errorf("tools.probeTimeout must be positive, got %s", c.Tools.ProbeTimeout)
	}
	return nil
}
