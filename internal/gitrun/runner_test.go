package gitrun

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HartBrook/elkhorn/internal/config"
)

// shRunner returns a GitRunner pointed at /bin/sh so tests don't need git.
func shRunner(cfg config.GitConfig) *GitRunner {
	cfg.Binary = "sh"
	return New(cfg)
}

func TestRunCapturesOutput(t *testing.T) {
	r := shRunner(config.GitConfig{})

	out, err := r.Run(context.Background(), "", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("Run() output = %q, want %q", out, "hello")
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "marker.txt"), []byte("found"), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	r := shRunner(config.GitConfig{})

	out, err := r.Run(context.Background(), tempDir, "-c", "cat marker.txt")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out != "found" {
		t.Errorf("Run() output = %q, want %q", out, "found")
	}
}

func TestRunExitError(t *testing.T) {
	r := shRunner(config.GitConfig{})

	_, err := r.Run(context.Background(), "", "-c", "echo bad >&2; exit 3")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *ExitError", err)
	}
	if exitErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", exitErr.ExitCode)
	}
	if !strings.Contains(exitErr.Output, "bad") {
		t.Errorf("Output = %q, want stderr captured", exitErr.Output)
	}
}

func TestRunTimeout(t *testing.T) {
	r := shRunner(config.GitConfig{Timeout: "100ms"})

	start := time.Now()
	_, err := r.Run(context.Background(), "", "-c", "sleep 5")

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Run() error = %v, want *TimeoutError", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Run() took %v, subprocess was not killed", elapsed)
	}
}

func TestRunBoundedOutput(t *testing.T) {
	r := shRunner(config.GitConfig{OutputLimit: 16})

	out, err := r.Run(context.Background(), "", "-c", "yes x | head -n 1000")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(out) > 16 {
		t.Errorf("output length = %d, want at most 16", len(out))
	}
}

func TestBoundedBufferTruncation(t *testing.T) {
	b := newBoundedBuffer(4)

	n, err := b.Write([]byte("abcdef"))
	if err != nil || n != 6 {
		t.Fatalf("Write() = (%d, %v), want (6, nil)", n, err)
	}
	if b.String() != "abcd" {
		t.Errorf("String() = %q, want %q", b.String(), "abcd")
	}
	if !b.Truncated() {
		t.Error("Truncated() should be true")
	}
}
