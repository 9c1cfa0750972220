package engine

import (
	"context"
	"testing"
)

func TestGetModifiedFilesParsesNameStatus(t *testing.T) {
	runner := newFakeRunner(map[string]string{"README.md": "x"})
	runner.diffOut = "M\tpackage.json\nA\tsrc/new.go\nD\told.txt\nR100\told_name.go\tnew_name.go\n"
	runner.untrackedOut = "untracked.md\n"
	e := newTestEngine(t, runner, nil)

	modified, err := e.GetModifiedFiles(context.Background(), "acme", "widgets", "main")
	if err != nil {
		t.Fatalf("GetModifiedFiles() error: %v", err)
	}

	byPath := map[string]FileStatus{}
	for _, m := range modified {
		byPath[m.Path] = m.Status
	}

	want := map[string]FileStatus{
		"package.json": StatusModified,
		"src/new.go":   StatusAdded,
		"old.txt":      StatusDeleted,
		"new_name.go":  StatusModified,
		"untracked.md": StatusAdded,
	}
	if len(byPath) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(byPath), len(want), byPath)
	}
	for path, status := range want {
		if byPath[path] != status {
			t.Errorf("status[%q] = %q, want %q", path, byPath[path], status)
		}
	}
}

func TestGetModifiedFilesEmptyWhenClean(t *testing.T) {
	runner := newFakeRunner(map[string]string{"README.md": "x"})
	e := newTestEngine(t, runner, nil)

	modified, err := e.GetModifiedFiles(context.Background(), "acme", "widgets", "main")
	if err != nil {
		t.Fatalf("GetModifiedFiles() error: %v", err)
	}
	if len(modified) != 0 {
		t.Errorf("len(modified) = %d, want 0", len(modified))
	}
}

func TestEditThenDiffScenario(t *testing.T) {
	runner := newFakeRunner(map[string]string{
		"package.json": `{"version": "v1.0.0"}`,
	})
	e := newTestEngine(t, runner, nil)
	ctx := context.Background()

	if _, err := e.EditFile(ctx, "acme", "widgets", "package.json", "v1.0.0", "v1.1.0", "main"); err != nil {
		t.Fatalf("EditFile() error: %v", err)
	}

	// The scripted diff reflects what git would report after the edit.
	runner.diffOut = "M\tpackage.json\n"

	modified, err := e.GetModifiedFiles(ctx, "acme", "widgets", "main")
	if err != nil {
		t.Fatalf("GetModifiedFiles() error: %v", err)
	}
	if len(modified) != 1 {
		t.Fatalf("len(modified) = %d, want 1", len(modified))
	}
	if modified[0].Path != "package.json" || modified[0].Status != StatusModified {
		t.Errorf("modified[0] = %+v", modified[0])
	}
}
