package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hbomb79/Tubely/pkg/logger"
)

var ErrCommandTimeout = errors.New("command exceeded timeout")

type (
	// Runner executes an external tool to completion, capturing its output.
	// A non-nil error is returned for a non-zero exit, a timeout, or a
	// failure to start the process - in all cases the result (if any)
	// contains whatever output was captured.
	Runner interface {
		Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*CommandResult, error)
	}

	CommandResult struct {
		ExitCode int
		Stdout   []byte
		Stderr   []byte
		TimedOut bool
	}

	execRunner struct{}
)

func NewRunner() Runner {
	return &execRunner{}
}

// Diagnostic returns the most useful output for reporting a failure; stderr
// where the tool produced any, otherwise stdout.
func (result *CommandResult) Diagnostic() string {
	if result == nil {
		return ""
	}
	if stderr := strings.TrimSpace(string(result.Stderr)); stderr != "" {
		return stderr
	}

	return strings.TrimSpace(string(result.Stdout))
}

func (runner *execRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*CommandResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Emit(logger.DEBUG, "Running %s %v\n", name, args)
	err := cmd.Run()
	result := &CommandResult{ExitCode: cmd.ProcessState.ExitCode(), Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		return result, fmt.Errorf("%s: %w (%s)", name, ErrCommandTimeout, timeout)
	}
	if err != nil {
		return result, fmt.Errorf("%s: %w", name, err)
	}

	return result, nil
}
