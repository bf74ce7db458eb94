// Command transcode re-encodes every video in the input directory into a
// web-friendly MP4 plus a thumbnail image in the output directory. Files
// are processed independently; a failed encode skips that file only.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/rmarin/vidpipe/internal/config"
	"github.com/rmarin/vidpipe/internal/execx"
	"github.com/rmarin/vidpipe/internal/logging"
	"github.com/rmarin/vidpipe/internal/pipeline"
	"github.com/rmarin/vidpipe/internal/transcoder"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	inputDir := flag.String("input", "", "override input directory")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "transcode: %v\n", err)
		os.Exit(1)
	}
	if *inputDir != "" {
		cfg.Paths.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.Paths.OutputDir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "transcode: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "transcode: %v\n", err)
		os.Exit(1)
	}
	log = log.WithRunID(uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := execx.NewLocal()
	ffmpeg := transcoder.NewFFmpeg(runner, cfg, log)
	p := pipeline.New(cfg, ffmpeg, log)

	if _, err := p.Run(ctx); err != nil {
		log.ErrorWithErr("Run aborted", err)
		os.Exit(1)
	}
	// Per-file failures are reported in the summary; they do not change
	// the exit status.
}
