package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmarin/vidpipe/internal/config"
	"github.com/rmarin/vidpipe/internal/execx"
	"github.com/rmarin/vidpipe/internal/logging"
	"github.com/rmarin/vidpipe/internal/transcoder"
	"github.com/rmarin/vidpipe/pkg/models"
)

// fakeRunner simulates ffmpeg/ffprobe: encodes write a small output
// file, probes report a fixed duration, and failEncodeFor marks inputs
// whose encode should exit non-zero.
type fakeRunner struct {
	specs         []execx.Spec
	failEncodeFor string
	failThumbs    bool
}

func (f *fakeRunner) Run(_ context.Context, spec execx.Spec) (execx.Result, error) {
	f.specs = append(f.specs, spec)

	if spec.Name == "ffprobe" {
		return execx.Result{Stdout: "10.0\n"}, nil
	}

	args := strings.Join(spec.Args, " ")
	isThumbnail := strings.Contains(args, "-vframes")

	if isThumbnail {
		if f.failThumbs {
			return execx.Result{}, &execx.ExitError{Name: spec.Name, Code: 1}
		}
	} else {
		if f.failEncodeFor != "" && strings.Contains(args, f.failEncodeFor) {
			return execx.Result{}, &execx.ExitError{Name: spec.Name, Code: 1, Stderr: "Conversion failed!"}
		}
	}

	// Write the output artifact like the real tool would.
	dst := spec.Args[len(spec.Args)-1]
	if err := os.WriteFile(dst, []byte("out"), 0o644); err != nil {
		return execx.Result{}, err
	}
	return execx.Result{}, nil
}

func newTestPipeline(t *testing.T, runner execx.Runner) (*Pipeline, *config.Config) {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	base := t.TempDir()
	cfg.Paths.InputDir = filepath.Join(base, "original")
	cfg.Paths.OutputDir = filepath.Join(base, "processed")

	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	ffmpeg := transcoder.NewFFmpeg(runner, cfg, log)
	return New(cfg, ffmpeg, log), cfg
}

func seedInput(t *testing.T, cfg *config.Config, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(cfg.Paths.InputDir, 0o755))
	for _, name := range names {
		path := filepath.Join(cfg.Paths.InputDir, name)
		require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o644))
	}
}

func TestRunProducesOutputPair(t *testing.T) {
	runner := &fakeRunner{}
	p, cfg := newTestPipeline(t, runner)
	seedInput(t, cfg, "clip.mkv")

	stats, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Encoded)
	assert.Equal(t, 0, stats.Failed)

	// Both artifacts share the input stem.
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "clip.mp4"))
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "clip.webp"))
}

func TestRunPerFileIsolation(t *testing.T) {
	runner := &fakeRunner{failEncodeFor: "a.mkv"}
	p, cfg := newTestPipeline(t, runner)
	seedInput(t, cfg, "a.mkv", "b.mkv")

	stats, err := p.Run(context.Background())
	require.NoError(t, err, "a single failed encode must not abort the run")

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Encoded)
	assert.Equal(t, 1, stats.Failed)

	// File B still produced its outputs.
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "b.mp4"))
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "b.webp"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.OutputDir, "a.mp4"))

	// The failed file never got a thumbnail attempt.
	for _, spec := range runner.specs {
		if strings.Contains(strings.Join(spec.Args, " "), "-vframes") {
			assert.NotContains(t, strings.Join(spec.Args, " "), "a.mkv")
		}
	}
}

func TestRunThumbnailFailureKeepsVideo(t *testing.T) {
	runner := &fakeRunner{failThumbs: true}
	p, cfg := newTestPipeline(t, runner)
	seedInput(t, cfg, "clip.mov")

	stats, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Encoded)
	assert.Equal(t, 1, stats.NoThumbnail)
	assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, "clip.mp4"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.OutputDir, "clip.webp"))

	require.Len(t, stats.Outcomes, 1)
	assert.Equal(t, models.StatusEncodedNoThumbnail, stats.Outcomes[0].Status)
}

func TestRunMissingInputDirIsFatal(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeRunner{})

	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestRunEmptyInputDirIsNoop(t *testing.T) {
	p, cfg := newTestPipeline(t, &fakeRunner{})
	require.NoError(t, os.MkdirAll(cfg.Paths.InputDir, 0o755))

	stats, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestProcessFileOutputStemMatchesInput(t *testing.T) {
	runner := &fakeRunner{}
	p, cfg := newTestPipeline(t, runner)
	seedInput(t, cfg, "holiday.video.webm")
	require.NoError(t, os.MkdirAll(cfg.Paths.OutputDir, 0o755))

	file := models.MediaFile{Path: filepath.Join(cfg.Paths.InputDir, "holiday.video.webm"), Size: 4096}
	outcome := p.ProcessFile(context.Background(), file)

	assert.Equal(t, models.StatusEncoded, outcome.Status)
	assert.Equal(t, filepath.Join(cfg.Paths.OutputDir, "holiday.video.mp4"), outcome.OutputPath)
	assert.Equal(t, filepath.Join(cfg.Paths.OutputDir, "holiday.video.webp"), outcome.ThumbnailPath)
}
