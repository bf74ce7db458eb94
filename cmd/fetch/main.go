// Command fetch downloads one or more source URLs into the pipeline's
// input directory, one yt-dlp invocation per URL. Any fetch failure is
// fatal and aborts the remaining URLs.
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
	"github.com/rmarin/vidpipe/internal/downloader"
	"github.com/rmarin/vidpipe/internal/execx"
	"github.com/rmarin/vidpipe/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: fetch [-config file] URL [URL ...]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
		os.Exit(1)
	}
	log = log.WithRunID(uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := downloader.New(execx.NewLocal(), cfg, log)
	for _, url := range urls {
		if err := d.Fetch(ctx, url); err != nil {
			log.ErrorWithErr("Fetch failed", err)
			os.Exit(1)
		}
	}
}
