// Package downloader fetches remote videos into the pipeline's input
// directory by invoking yt-dlp.
package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmarin/vidpipe/internal/config"
	"github.com/rmarin/vidpipe/internal/execx"
	"github.com/rmarin/vidpipe/internal/logging"
)

// Downloader retrieves the best available combined audio/video stream for
// a URL and saves it under the source's stable identifier.
type Downloader struct {
	runner execx.Runner
	tool   string
	format string
	outDir string
	tmpl   string
	log    *logging.Logger
}

// New creates a Downloader writing into cfg.Paths.InputDir.
func New(runner execx.Runner, cfg *config.Config, log *logging.Logger) *Downloader {
	return &Downloader{
		runner: runner,
		tool:   cfg.Tools.YtdlpPath,
		format: cfg.Fetch.Format,
		outDir: cfg.Paths.InputDir,
		tmpl:   cfg.Fetch.OutputTemplate,
		log:    log,
	}
}

// BuildArgs constructs the yt-dlp argument list for one URL. The URL is
// passed through unvalidated; yt-dlp owns extraction and its failures
// propagate from Fetch.
func (d *Downloader) BuildArgs(url string) []string {
	return []string{
		"-f", d.format,
		"-o", filepath.Join(d.outDir, d.tmpl),
		"--no-playlist",
		url,
	}
}

// Fetch downloads one URL into the input directory, creating it if
// absent. Any downloader failure is fatal for the run: the error is
// returned unretried with yt-dlp's trailing output attached.
func (d *Downloader) Fetch(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("downloader: url is required")
	}

	if err := os.MkdirAll(d.outDir, 0o755); err != nil {
		return fmt.Errorf("creating input directory %s: %w", d.outDir, err)
	}

	spec := execx.Spec{Name: d.tool, Args: d.BuildArgs(url)}
	d.log.WithField("url", url).Infof("Fetching %s", url)

	res, err := d.runner.Run(ctx, spec)
	d.log.LogToolInvocation(d.tool, spec.Args, res.Duration, err)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}

	d.log.WithField("url", url).Infof("Saved into %s", d.outDir)
	return nil
}
