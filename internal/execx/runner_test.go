package execx

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRunSuccess(t *testing.T) {
	r := NewLocal()

	res, err := r.Run(context.Background(), Spec{Name: "echo", Args: []string{"hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestLocalRunExitError(t *testing.T) {
	r := NewLocal()

	_, err := r.Run(context.Background(), Spec{Name: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, exitErr.Stderr, "oops")
}

func TestLocalRunNotFound(t *testing.T) {
	r := NewLocal()

	_, err := r.Run(context.Background(), Spec{Name: "definitely-not-a-real-binary"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestLocalRunTimeout(t *testing.T) {
	r := NewLocal()

	_, err := r.Run(context.Background(), Spec{
		Name:    "sleep",
		Args:    []string{"5"},
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Name: "ffmpeg", Code: 1, Stderr: "line one\nConversion failed!"}
	assert.Equal(t, "ffmpeg exited with code 1: Conversion failed!", err.Error())

	err = &ExitError{Name: "ffprobe", Code: 2}
	assert.Equal(t, "ffprobe exited with code 2", err.Error())
}
