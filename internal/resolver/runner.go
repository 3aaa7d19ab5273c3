package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// defaultRunTimeout bounds extractor invocations that arrive without a
// context deadline.
const defaultRunTimeout = 30 * time.Second

// commandRunner executes an external command and returns stdout and
// stderr separately. It exists so tests never execute the extractor
// binary.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// execRunner runs commands through os/exec with a default timeout.
type execRunner struct{}

// Run executes the command, applying defaultRunTimeout when the context
// carries no deadline.
func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultRunTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), fmt.Errorf("command failed: %s %s (exit code %d): %w",
				name, strings.Join(args, " "), exitErr.ExitCode(), err)
		}
		return stdout.String(), stderr.String(), fmt.Errorf("command failed: %s %s: %w",
			name, strings.Join(args, " "), err)
	}

	return stdout.String(), stderr.String(), nil
}
