// Package integration provides integration testing utilities for elkhorn.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/HartBrook/elkhorn/internal/config"
	"github.com/HartBrook/elkhorn/internal/engine"
	"github.com/HartBrook/elkhorn/internal/logging"
)

// TestEnv provides an isolated test environment with overridden paths and
// local fixture remotes, so engine tests exercise the real git binary
// without touching the network.
type TestEnv struct {
	t          *testing.T
	RootDir    string         // t.TempDir() root
	ConfigDir  string         // simulated ~/.config/elkhorn
	CacheRoot  string         // simulated cache root
	RemotesDir string         // local fixture repositories
	Paths      *config.Paths  // configured paths pointing to temp dirs
	Config     *config.Config // defaulted config
}

// NewTestEnv creates an isolated test environment. Tests are skipped when no
// git binary is available on the host.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	rootDir := t.TempDir()
	configDir := filepath.Join(rootDir, "config")
	cacheRoot := filepath.Join(rootDir, "cache")
	remotesDir := filepath.Join(rootDir, "remotes")

	for _, dir := range []string{configDir, cacheRoot, remotesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	return &TestEnv{
		t:          t,
		RootDir:    rootDir,
		ConfigDir:  configDir,
		CacheRoot:  cacheRoot,
		RemotesDir: remotesDir,
		Paths:      config.NewPathsWithOverrides(configDir, cacheRoot),
		Config:     config.NewDefaultConfig(),
	}
}

// NewEngine builds an engine whose clones come from the local fixture
// remotes instead of GitHub.
func (e *TestEnv) NewEngine() *engine.Engine {
	e.t.Helper()

	eng, err := engine.New(e.Config, e.Paths, engine.Options{
		Logger: logging.Discard(),
		CloneURL: func(owner, repo string) string {
			return "file://" + filepath.Join(e.RemotesDir, owner, repo)
		},
	})
	if err != nil {
		e.t.Fatalf("failed to create engine: %v", err)
	}
	e.t.Cleanup(eng.Close)
	return eng
}

// git runs a git command in dir, failing the test on error.
func (e *TestEnv) git(dir string, args ...string) string {
	e.t.Helper()

	base := []string{
		"-c", "user.name=elkhorn-test",
		"-c", "user.email=test@example.com",
		"-c", "protocol.file.allow=always",
	}
	cmd := exec.Command("git", append(base, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}

// CreateRemote creates a local fixture repository with an initial commit on
// main and returns its path.
func (e *TestEnv) CreateRemote(owner, repo string, files map[string]string) string {
	e.t.Helper()

	dir := filepath.Join(e.RemotesDir, owner, repo)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("failed to create remote dir: %v", err)
	}

	e.git(dir, "init")
	e.git(dir, "symbolic-ref", "HEAD", "refs/heads/main")
	e.WriteRemoteFiles(dir, files)
	e.git(dir, "add", "-A")
	e.git(dir, "commit", "-m", "initial commit")
	return dir
}

// WriteRemoteFiles writes files into a fixture repository without
// committing.
func (e *TestEnv) WriteRemoteFiles(remoteDir string, files map[string]string) {
	e.t.Helper()

	for path, content := range files {
		full := filepath.Join(remoteDir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			e.t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			e.t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// CommitToRemote writes files to a fixture repository and commits them on
// the current branch.
func (e *TestEnv) CommitToRemote(remoteDir, message string, files map[string]string) {
	e.t.Helper()

	e.WriteRemoteFiles(remoteDir, files)
	e.git(remoteDir, "add", "-A")
	e.git(remoteDir, "commit", "-m", message)
}

// CreateRemoteBranch creates a branch in a fixture repository with extra
// committed files, then returns to main.
func (e *TestEnv) CreateRemoteBranch(remoteDir, branch string, files map[string]string) {
	e.t.Helper()

	e.git(remoteDir, "checkout", "-b", branch)
	e.CommitToRemote(remoteDir, "branch commit", files)
	e.git(remoteDir, "checkout", "main")
}
