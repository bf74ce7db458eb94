package transcoder

import (
	"context"
	"strconv"
	"strings"

	"github.com/rmarin/vidpipe/internal/execx"
	"github.com/rmarin/vidpipe/pkg/models"
)

// BuildProbeArgs constructs the ffprobe argument list that prints the
// container-reported duration in seconds, one bare number on stdout.
func BuildProbeArgs(src string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		src,
	}
}

// ParseProbeOutput turns ffprobe stdout into a Duration. Empty or
// non-numeric output means the container did not report a duration.
func ParseProbeOutput(stdout string) models.Duration {
	s := strings.TrimSpace(stdout)
	if s == "" {
		return models.UnknownDuration
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.UnknownDuration
	}
	return models.Duration{Seconds: seconds, Known: true}
}

// ProbeDuration asks ffprobe for the duration of src, bounded by the
// configured probe timeout. Every failure mode (non-zero exit, timeout,
// missing binary, unparseable output) degrades to an unknown duration;
// the thumbnail step falls back to the first frame in that case.
func (f *FFmpeg) ProbeDuration(ctx context.Context, src string) models.Duration {
	spec := execx.Spec{
		Name:    f.cfg.Tools.FFprobePath,
		Args:    BuildProbeArgs(src),
		Timeout: f.cfg.Tools.ProbeTimeout,
	}

	res, err := f.runner.Run(ctx, spec)
	f.log.LogToolInvocation(spec.Name, spec.Args, res.Duration, err)
	if err != nil {
		f.log.WithFile(src).WithError(err).Debug("Duration probe failed")
		return models.UnknownDuration
	}

	return ParseProbeOutput(res.Stdout)
}
