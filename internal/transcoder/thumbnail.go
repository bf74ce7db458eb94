package transcoder

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rmarin/vidpipe/internal/config"
	"github.com/rmarin/vidpipe/internal/execx"
)

// BuildThumbnailArgs constructs the ffmpeg argument list for extracting a
// single frame at seekSeconds. Seeking before -i is the fast seek path.
// The frame is scaled to cover the target box and center-cropped to exact
// dimensions, so portrait and landscape sources both yield the configured
// aspect ratio.
func BuildThumbnailArgs(p config.ThumbnailConfig, seekSeconds float64, src, dst string) []string {
	scaleCrop := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		p.Width, p.Height, p.Width, p.Height,
	)
	return []string{
		"-y",
		"-ss", strconv.FormatFloat(seekSeconds, 'f', -1, 64),
		"-i", src,
		"-vframes", "1",
		"-vf", scaleCrop,
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(p.Quality),
		dst,
	}
}

// ExtractThumbnail writes one frame from the middle of src to dst (or
// the first frame when the duration is unknown). Thumbnail failures are
// never fatal: a non-zero exit, a missing ffmpeg binary, or a timeout
// all report false, the caller logs a warning, and the video output is
// kept without a thumbnail.
func (f *FFmpeg) ExtractThumbnail(ctx context.Context, src, dst string) bool {
	duration := f.ProbeDuration(ctx, src)

	spec := execx.Spec{
		Name:    f.cfg.Tools.FFmpegPath,
		Args:    BuildThumbnailArgs(f.cfg.Thumbnail, duration.SeekPoint(), src, dst),
		Timeout: f.cfg.Thumbnail.Timeout,
	}

	res, err := f.runner.Run(ctx, spec)
	f.log.LogToolInvocation(spec.Name, spec.Args, res.Duration, err)
	if err != nil {
		f.log.WithFile(src).WithError(err).Warn("Thumbnail not generated")
		return false
	}
	return true
}
