// Package transcoder wraps ffmpeg and ffprobe for the three operations
// the pipeline needs: re-encoding a video for web delivery, probing its
// duration, and extracting a thumbnail frame.
package transcoder

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rmarin/vidpipe/internal/config"
	"github.com/rmarin/vidpipe/internal/execx"
	"github.com/rmarin/vidpipe/internal/logging"
)

// FFmpeg wraps ffmpeg/ffprobe invocations behind the command runner.
type FFmpeg struct {
	runner execx.Runner
	cfg    *config.Config
	log    *logging.Logger
}

// NewFFmpeg creates a new FFmpeg instance.
func NewFFmpeg(runner execx.Runner, cfg *config.Config, log *logging.Logger) *FFmpeg {
	return &FFmpeg{
		runner: runner,
		cfg:    cfg,
		log:    log,
	}
}

// ScaleFilter returns the -vf expression for the encode. H.264 with
// yuv420p needs even dimensions, so both axes are rounded down to a
// multiple of 2. With a positive maxHeight the frame is additionally
// capped at that height, preserving aspect ratio. The comma inside min()
// must be escaped so ffmpeg does not read it as a filter separator.
func ScaleFilter(maxHeight int) string {
	if maxHeight <= 0 {
		return `scale=trunc(iw/2)*2:trunc(ih/2)*2`
	}
	return fmt.Sprintf(
		`scale=trunc(min(iw\,iw*%d/ih)/2)*2:trunc(min(ih\,%d)/2)*2`,
		maxHeight, maxHeight,
	)
}

// BuildEncodeArgs constructs the full ffmpeg argument list for one
// re-encode: scale filter, H.264 video at constant quality, AAC audio,
// and faststart so the container index lands at the front of the file.
func BuildEncodeArgs(p config.EncodeConfig, src, dst string) []string {
	args := []string{
		"-y",
		"-i", src,
		"-vf", ScaleFilter(p.MaxHeight),
		"-c:v", "libx264",
		"-preset", p.Preset,
		"-crf", strconv.Itoa(p.CRF),
	}
	if p.Tune != "" {
		args = append(args, "-tune", p.Tune)
	}
	// Main profile, level 4.0: plays in browsers and on mobile.
	args = append(args,
		"-profile:v", "main",
		"-level", "4.0",
		"-pix_fmt", "yuv420p",
	)
	if p.TargetFPS > 0 {
		args = append(args, "-r", strconv.Itoa(p.TargetFPS))
	}
	args = append(args,
		"-c:a", "aac",
		"-b:a", p.AudioBitrate,
		"-movflags", "+faststart",
		dst,
	)
	return args
}

// Encode re-encodes src into dst using the configured profile,
// overwriting any existing file at dst. There is no per-invocation
// timeout; long encodes are expected. A non-zero ffmpeg exit comes back
// as an *execx.ExitError for the caller to handle per file.
func (f *FFmpeg) Encode(ctx context.Context, src, dst string) error {
	spec := execx.Spec{
		Name: f.cfg.Tools.FFmpegPath,
		Args: BuildEncodeArgs(f.cfg.Encode, src, dst),
	}

	res, err := f.runner.Run(ctx, spec)
	f.log.LogToolInvocation(spec.Name, spec.Args, res.Duration, err)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", src, err)
	}
	return nil
}
