// Package gitrun executes the git binary as a subprocess.
package gitrun

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/HartBrook/elkhorn/internal/config"
)

// Runner executes git commands. The interface exists so the engine can be
// tested against a scripted runner without a git binary.
type Runner interface {
	// Run executes git with the given arguments in dir and returns combined
	// stdout/stderr. An empty dir means no directory change (used for the
	// initial clone, whose target directory is itself an argument).
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GitRunner runs the configured git binary with a bounded output buffer and
// a per-command deadline.
type GitRunner struct {
	binary      string
	timeout     time.Duration
	outputLimit int64
}

// New creates a GitRunner from git config.
func New(cfg config.GitConfig) *GitRunner {
	binary := cfg.Binary
	if binary == "" {
		binary = config.DefaultGitBinary
	}
	limit := cfg.OutputLimit
	if limit == 0 {
		limit = config.DefaultOutputLimit
	}
	return &GitRunner{
		binary:      binary,
		timeout:     cfg.TimeoutDuration(),
		outputLimit: limit,
	}
}

// Run executes the git binary. If ctx carries no deadline, the configured
// default timeout applies. Non-zero exits surface as *ExitError; exceeded
// deadlines as *TimeoutError.
func (r *GitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	buf := newBoundedBuffer(r.outputLimit)
	cmd.Stdout = buf
	cmd.Stderr = buf

	err := cmd.Run()
	output := buf.String()

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return output, &TimeoutError{Args: args, Timeout: r.timeout}
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return output, &ExitError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Output:   output,
			}
		}
		return output, fmt.Errorf("failed to run %s: %w", r.binary, err)
	}

	return output, nil
}

// ExitError reports a git command that exited non-zero. Callers that treat a
// specific code as success (git grep exits 1 on no matches) inspect ExitCode.
type ExitError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("git %v failed with exit code %d: %s", e.Args, e.ExitCode, e.Output)
}

// TimeoutError reports a git command killed for exceeding its deadline.
// Kept distinct from ExitError so callers can tell a slow network from a
// genuine git failure.
type TimeoutError struct {
	Args    []string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("git %v timed out after %s", e.Args, e.Timeout)
}
