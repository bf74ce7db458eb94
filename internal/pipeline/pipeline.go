// Package pipeline orchestrates the transcode batch: discover input
// videos, process each one independently, and report aggregate results.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rmarin/vidpipe/internal/config"
	"github.com/rmarin/vidpipe/internal/logging"
	"github.com/rmarin/vidpipe/internal/transcoder"
	"github.com/rmarin/vidpipe/pkg/models"
)

// Stats aggregates the outcomes of one batch run.
type Stats struct {
	Total       int
	Encoded     int
	NoThumbnail int
	Failed      int
	InputBytes  int64
	OutputBytes int64
	Outcomes    []models.Outcome
}

// Pipeline runs the batch transcode over a shared directory pair.
type Pipeline struct {
	cfg    *config.Config
	ffmpeg *transcoder.FFmpeg
	log    *logging.Logger
}

// New creates a Pipeline using the given ffmpeg wrapper.
func New(cfg *config.Config, ffmpeg *transcoder.FFmpeg, log *logging.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, ffmpeg: ffmpeg, log: log}
}

// Run discovers candidate videos and folds ProcessFile over them. A file
// whose encode fails is recorded and skipped; the next file is still
// processed. Only setup problems (missing input directory, unwritable
// output directory) abort the run.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if _, err := os.Stat(p.cfg.Paths.InputDir); err != nil {
		return stats, fmt.Errorf("input directory does not exist: %s", p.cfg.Paths.InputDir)
	}
	if err := os.MkdirAll(p.cfg.Paths.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("creating output directory %s: %w", p.cfg.Paths.OutputDir, err)
	}

	files, err := Discover(p.cfg.Paths.InputDir)
	if err != nil {
		return stats, fmt.Errorf("discovering videos: %w", err)
	}

	stats.Total = len(files)
	if len(files) == 0 {
		p.log.Infof("No videos found in %s", p.cfg.Paths.InputDir)
		return stats, nil
	}

	p.log.Infof("Found %d videos in %s", len(files), p.cfg.Paths.InputDir)

	for i, file := range files {
		if ctx.Err() != nil {
			p.log.Warn("Interrupted")
			break
		}

		p.log.WithFile(file.Path).Infof("[%d/%d] Processing %s", i+1, len(files), filepath.Base(file.Path))
		outcome := p.ProcessFile(ctx, file)
		stats.add(outcome)
	}

	p.logSummary(&stats)
	return stats, nil
}

// ProcessFile re-encodes one input video and extracts its thumbnail.
// The two derived outputs share the input's stem; the video is written
// first and the thumbnail is only attempted after a successful encode.
func (p *Pipeline) ProcessFile(ctx context.Context, file models.MediaFile) models.Outcome {
	stem := file.Stem()
	outPath := filepath.Join(p.cfg.Paths.OutputDir, stem+".mp4")
	thumbPath := filepath.Join(p.cfg.Paths.OutputDir, stem+p.cfg.Thumbnail.Ext)

	outcome := models.Outcome{
		Input:      file,
		OutputPath: outPath,
	}

	if err := p.ffmpeg.Encode(ctx, file.Path, outPath); err != nil {
		p.log.WithFile(file.Path).ErrorWithErr("Encode failed", err)
		outcome.Status = models.StatusFailed
		outcome.Err = err
		return outcome
	}

	if info, err := os.Stat(outPath); err == nil {
		outcome.OutputSize = info.Size()
	}

	if file.Size > 0 {
		reduction := (1 - float64(outcome.OutputSize)/float64(file.Size)) * 100
		p.log.LogSizeReport(file.Path, FormatSize(file.Size), FormatSize(outcome.OutputSize), reduction)
	}

	if p.ffmpeg.ExtractThumbnail(ctx, file.Path, thumbPath) {
		outcome.ThumbnailPath = thumbPath
		outcome.Status = models.StatusEncoded
	} else {
		outcome.Status = models.StatusEncodedNoThumbnail
	}
	return outcome
}

func (s *Stats) add(o models.Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case models.StatusEncoded:
		s.Encoded++
	case models.StatusEncodedNoThumbnail:
		s.Encoded++
		s.NoThumbnail++
	case models.StatusFailed:
		s.Failed++
		return
	}
	s.InputBytes += o.Input.Size
	s.OutputBytes += o.OutputSize
}

func (p *Pipeline) logSummary(stats *Stats) {
	p.log.Infof("Done: %d encoded, %d failed, %d without thumbnail",
		stats.Encoded, stats.Failed, stats.NoThumbnail)
	if stats.InputBytes > 0 {
		p.log.Infof("Total: %s -> %s", FormatSize(stats.InputBytes), FormatSize(stats.OutputBytes))
	}
	p.log.Infof("Outputs in %s", p.cfg.Paths.OutputDir)
}
