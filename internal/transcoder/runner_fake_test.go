package transcoder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmarin/vidpipe/internal/config"
	"github.com/rmarin/vidpipe/internal/execx"
	"github.com/rmarin/vidpipe/internal/logging"
)

// fakeRunner records every spec and answers via the handler, so tests
// never invoke real ffmpeg/ffprobe binaries.
type fakeRunner struct {
	specs   []execx.Spec
	handler func(spec execx.Spec) (execx.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, spec execx.Spec) (execx.Result, error) {
	f.specs = append(f.specs, spec)
	if f.handler == nil {
		return execx.Result{}, nil
	}
	return f.handler(spec)
}

func newTestFFmpeg(t *testing.T, runner *fakeRunner) *FFmpeg {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	return NewFFmpeg(runner, cfg, log)
}
