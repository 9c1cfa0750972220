package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/HartBrook/elkhorn/internal/config"
	"github.com/HartBrook/elkhorn/internal/errors"
	"github.com/HartBrook/elkhorn/internal/gitrun"
	"github.com/HartBrook/elkhorn/internal/logging"
)

// fakeRunner scripts git subprocess behavior so engine tests run without a
// git binary. clone materializes the configured files under the target
// directory; the query commands return canned output.
type fakeRunner struct {
	mu    sync.Mutex
	calls []string

	files      map[string]string
	head       string
	cloneDelay time.Duration

	grepOut      string
	grepErr      error
	diffOut      string
	untrackedOut string
}

func newFakeRunner(files map[string]string) *fakeRunner {
	return &fakeRunner{files: files, head: "abc123def"}
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args[0])
	f.mu.Unlock()

	switch args[0] {
	case "clone":
		if f.cloneDelay > 0 {
			time.Sleep(f.cloneDelay)
		}
		target := args[len(args)-1]
		if err := os.MkdirAll(filepath.Join(target, ".git"), 0755); err != nil {
			return "", err
		}
		for path, content := range f.files {
			full := filepath.Join(target, path)
			if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
				return "", err
			}
			if err := os.WriteFile(full, []byte(content), 0644); err != nil {
				return "", err
			}
		}
		return "", nil
	case "fetch", "checkout":
		return "", nil
	case "rev-parse":
		return f.head + "\n", nil
	case "grep":
		return f.grepOut, f.grepErr
	case "diff":
		return f.diffOut, nil
	case "ls-files":
		return f.untrackedOut, nil
	}
	return "", fmt.Errorf("unexpected git command %v", args)
}

func (f *fakeRunner) count(cmd string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == cmd {
			n++
		}
	}
	return n
}

func (f *fakeRunner) subprocessCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestEngine(t *testing.T, runner *fakeRunner, mutate func(*config.Config)) *Engine {
	t.Helper()

	cfg := config.NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	paths := config.NewPathsWithOverrides(t.TempDir(), t.TempDir())

	e, err := New(cfg, paths, Options{Runner: runner, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnsureRepositoryClonesOnce(t *testing.T) {
	runner := newFakeRunner(map[string]string{"README.md": "# Widgets\n"})
	e := newTestEngine(t, runner, nil)
	ctx := context.Background()

	first, err := e.EnsureRepository(ctx, "acme", "widgets", "main")
	if err != nil {
		t.Fatalf("EnsureRepository() error: %v", err)
	}
	if first.HeadRevision != "abc123def" {
		t.Errorf("HeadRevision = %q", first.HeadRevision)
	}
	if first.FileCount != 1 {
		t.Errorf("FileCount = %d, want 1", first.FileCount)
	}

	callsAfterFirst := runner.subprocessCalls()

	second, err := e.EnsureRepository(ctx, "acme", "widgets", "main")
	if err != nil {
		t.Fatalf("EnsureRepository() second call error: %v", err)
	}
	if runner.subprocessCalls() != callsAfterFirst {
		t.Error("fresh handle must be returned without subprocess calls")
	}
	if second.LocalPath != first.LocalPath {
		t.Errorf("LocalPath changed: %q vs %q", second.LocalPath, first.LocalPath)
	}
	if runner.count("clone") != 1 {
		t.Errorf("clone calls = %d, want 1", runner.count("clone"))
	}
}

func TestEnsureRepositoryBranchSwitchFetchesInPlace(t *testing.T) {
	runner := newFakeRunner(map[string]string{"README.md": "# Widgets\n"})
	e := newTestEngine(t, runner, nil)
	ctx := context.Background()

	mainHandle, err := e.EnsureRepository(ctx, "acme", "widgets", "main")
	if err != nil {
		t.Fatalf("EnsureRepository(main) error: %v", err)
	}

	devHandle, err := e.EnsureRepository(ctx, "acme", "widgets", "dev")
	if err != nil {
		t.Fatalf("EnsureRepository(dev) error: %v", err)
	}

	if runner.count("clone") != 1 {
		t.Errorf("clone calls = %d, want 1 (branch switch must not re-clone)", runner.count("clone"))
	}
	if runner.count("fetch") != 1 || runner.count("checkout") != 1 {
		t.Errorf("fetch/checkout = %d/%d, want 1/1", runner.count("fetch"), runner.count("checkout"))
	}
	if devHandle.LocalPath != mainHandle.LocalPath {
		t.Error("a repository must keep one working directory across branches")
	}
	if devHandle.Branch != "dev" {
		t.Errorf("Branch = %q, want dev", devHandle.Branch)
	}
}

func TestEnsureRepositoryStaleRefetches(t *testing.T) {
	runner := newFakeRunner(map[string]string{"README.md": "# Widgets\n"})
	e := newTestEngine(t, runner, func(cfg *config.Config) {
		cfg.Cache.TTL = "1ms"
	})
	ctx := context.Background()

	if _, err := e.EnsureRepository(ctx, "acme", "widgets", "main"); err != nil {
		t.Fatalf("EnsureRepository() error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := e.EnsureRepository(ctx, "acme", "widgets", "main"); err != nil {
		t.Fatalf("EnsureRepository() stale error: %v", err)
	}
	if runner.count("fetch") != 1 {
		t.Errorf("fetch calls = %d, want 1 after TTL expiry", runner.count("fetch"))
	}
	if runner.count("clone") != 1 {
		t.Errorf("clone calls = %d, want 1 (stale update must not re-clone)", runner.count("clone"))
	}
}

func TestEnsureRepositoryValidatesInput(t *testing.T) {
	e := newTestEngine(t, newFakeRunner(nil), nil)
	ctx := context.Background()

	if _, err := e.EnsureRepository(ctx, "", "widgets", "main"); err == nil {
		t.Error("empty owner should fail")
	}
	if _, err := e.EnsureRepository(ctx, "acme", "widgets", ""); err == nil {
		t.Error("empty branch should fail")
	}
}

func TestEnsureRepositoryCloneFailurePropagates(t *testing.T) {
	e := newTestEngine(t, newFakeRunner(nil), nil)
	e.runner = &failingRunner{err: &gitrun.ExitError{Args: []string{"clone"}, ExitCode: 128, Output: "fatal: repository not found"}}

	_, err := e.EnsureRepository(context.Background(), "acme", "missing", "main")
	var ee *errors.ElkhornError
	if !stderrors.As(err, &ee) || ee.Code != errors.ErrGitFailed {
		t.Fatalf("error = %v, want ErrGitFailed", err)
	}
}

func TestEnsureRepositoryTimeoutIsDistinct(t *testing.T) {
	runner := newFakeRunner(nil)
	e := newTestEngine(t, runner, nil)
	e.runner = &failingRunner{err: &gitrun.TimeoutError{Args: []string{"clone"}, Timeout: time.Second}}

	_, err := e.EnsureRepository(context.Background(), "acme", "slow", "main")
	var ee *errors.ElkhornError
	if !stderrors.As(err, &ee) || ee.Code != errors.ErrGitTimeout {
		t.Fatalf("error = %v, want ErrGitTimeout", err)
	}
}

func TestEnsureRepositoryConcurrentSingleClone(t *testing.T) {
	runner := newFakeRunner(map[string]string{"README.md": "# Widgets\n"})
	runner.cloneDelay = 50 * time.Millisecond
	e := newTestEngine(t, runner, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.EnsureRepository(ctx, "acme", "widgets", "main")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: %v", i, err)
		}
	}
	if got := runner.count("clone"); got != 1 {
		t.Errorf("clone calls = %d, want 1 (concurrent ensures must coalesce)", got)
	}
}

func TestRegistryCapEvictsWorkdir(t *testing.T) {
	runner := newFakeRunner(map[string]string{"README.md": "# r\n"})
	e := newTestEngine(t, runner, func(cfg *config.Config) {
		cfg.Cache.MaxRepos = 1
	})
	ctx := context.Background()

	first, err := e.EnsureRepository(ctx, "acme", "widgets", "main")
	if err != nil {
		t.Fatalf("EnsureRepository(widgets) error: %v", err)
	}
	if _, err := e.EnsureRepository(ctx, "acme", "gadgets", "main"); err != nil {
		t.Fatalf("EnsureRepository(gadgets) error: %v", err)
	}

	if _, err := os.Stat(first.LocalPath); !os.IsNotExist(err) {
		t.Error("evicted repository's working directory should be removed")
	}
	if len(e.Registry()) != 1 {
		t.Errorf("registry size = %d, want 1", len(e.Registry()))
	}
}

// failingRunner always returns its configured error.
type failingRunner struct {
	err error
}

func (f *failingRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	return "", f.err
}
