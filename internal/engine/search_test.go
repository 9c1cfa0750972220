package engine

import (
	"context"
	"testing"

	"github.com/HartBrook/elkhorn/internal/gitrun"
	"github.com/google/uuid"
)

func TestSearchFilesParsesMatches(t *testing.T) {
	runner := newFakeRunner(map[string]string{"main.go": "package main\n"})
	runner.grepOut = "main.go:1:package main\ninternal/app/app.go:14:func Run() error {\n"
	e := newTestEngine(t, runner, nil)

	matches, err := e.SearchFiles(context.Background(), "acme", "widgets", "func", "main", "")
	if err != nil {
		t.Fatalf("SearchFiles() error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].File != "main.go" || matches[0].Line != 1 {
		t.Errorf("matches[0] = %+v", matches[0])
	}
	if matches[1].File != "internal/app/app.go" || matches[1].Line != 14 {
		t.Errorf("matches[1] = %+v", matches[1])
	}
	if matches[1].Content != "func Run() error {" {
		t.Errorf("matches[1].Content = %q", matches[1].Content)
	}
	if matches[0].Pattern != "func" {
		t.Errorf("matches[0].Pattern = %q", matches[0].Pattern)
	}
}

func TestSearchFilesNoMatchIsSuccess(t *testing.T) {
	runner := newFakeRunner(map[string]string{"main.go": "package main\n"})
	runner.grepErr = &gitrun.ExitError{Args: []string{"grep"}, ExitCode: 1}
	e := newTestEngine(t, runner, nil)

	// A random UUID is guaranteed absent from the working copy.
	matches, err := e.SearchFiles(context.Background(), "acme", "widgets", uuid.NewString(), "main", "")
	if err != nil {
		t.Fatalf("SearchFiles() no-match must be success, got %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("len(matches) = %d, want 0", len(matches))
	}
}

func TestSearchFilesRealFailurePropagates(t *testing.T) {
	runner := newFakeRunner(map[string]string{"main.go": "package main\n"})
	runner.grepErr = &gitrun.ExitError{Args: []string{"grep"}, ExitCode: 128, Output: "fatal: bad revision"}
	e := newTestEngine(t, runner, nil)

	if _, err := e.SearchFiles(context.Background(), "acme", "widgets", "x", "main", ""); err == nil {
		t.Error("exit codes other than 1 must surface as errors")
	}
}

func TestSearchFilesGlobFilter(t *testing.T) {
	runner := newFakeRunner(map[string]string{"main.go": "package main\n"})
	runner.grepOut = "main.go:1:package main\ndocs/guide.md:3:main topics\ninternal/app/app.go:2:package app\n"
	e := newTestEngine(t, runner, nil)

	matches, err := e.SearchFiles(context.Background(), "acme", "widgets", "main", "main", "*.go")
	if err != nil {
		t.Fatalf("SearchFiles() error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2 (only .go files)", len(matches))
	}
	for _, m := range matches {
		if m.File == "docs/guide.md" {
			t.Errorf("glob filter leaked %q", m.File)
		}
	}
}

func TestSearchFilesInvalidGlob(t *testing.T) {
	e := newTestEngine(t, newFakeRunner(nil), nil)

	if _, err := e.SearchFiles(context.Background(), "acme", "widgets", "x", "main", "[unclosed"); err == nil {
		t.Error("invalid glob should fail before any subprocess work")
	}
}
