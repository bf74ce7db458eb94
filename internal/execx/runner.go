// Package execx runs external tools as subprocesses with captured output.
// It is the only place in the codebase that touches os/exec; everything
// above it depends on the Runner interface so tests can substitute a fake.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Spec describes one tool invocation. Args are passed verbatim to the
// binary with no shell interpretation.
type Spec struct {
	Name    string
	Args    []string
	Timeout time.Duration // 0 means no per-invocation timeout
}

// Result carries the captured output of a finished invocation. It is
// populated on failure too, so callers can log stderr.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// ExitError is returned when the tool ran but exited non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

// Runner executes a Spec and returns its captured output.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// Local runs commands on the local machine via os/exec.
type Local struct{}

// NewLocal returns the default subprocess-backed runner.
func NewLocal() Local {
	return Local{}
}

// Run executes the spec, blocking until the process exits, the spec
// timeout fires, or ctx is cancelled. Failure modes are distinguishable:
//   - non-zero exit:    errors.As with *ExitError
//   - binary not found: errors.Is(err, exec.ErrNotFound)
//   - timeout:          errors.Is(err, context.DeadlineExceeded)
func (Local) Run(ctx context.Context, spec Spec) (Result, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	// The context firing kills the process, which surfaces as an exit
	// error; report the deadline instead so callers see the real cause.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%s timed out after %s: %w", spec.Name, spec.Timeout, ctxErr)
		}
		return res, fmt.Errorf("%s interrupted: %w", spec.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{Name: spec.Name, Code: exitErr.ExitCode(), Stderr: res.Stderr}
	}

	// Covers exec.ErrNotFound and other start failures.
	return res, fmt.Errorf("running %s: %w", spec.Name, err)
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return lines[len(lines)-1]
}
