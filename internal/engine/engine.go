// Package engine orchestrates the repository filesystem cache. It keeps
// local working copies of remote repositories and serves reads, searches,
// tree listings, edits, and diffs from them instead of the network API.
package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/HartBrook/elkhorn/internal/config"
	"github.com/HartBrook/elkhorn/internal/content"
	"github.com/HartBrook/elkhorn/internal/errors"
	"github.com/HartBrook/elkhorn/internal/github"
	"github.com/HartBrook/elkhorn/internal/gitrun"
	"github.com/HartBrook/elkhorn/internal/logging"
	"github.com/HartBrook/elkhorn/internal/registry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Options configures optional engine collaborators.
type Options struct {
	// Runner overrides the git subprocess runner. Tests use a scripted one.
	Runner gitrun.Runner

	// Logger overrides the default logger.
	Logger logrus.FieldLogger

	// Token is embedded in clone URLs for private repository access. The
	// engine does not resolve credentials itself; callers hand it one.
	Token string

	// CloneURL overrides how remote URLs are built from (owner, repo).
	// Defaults to the GitHub https URL. Tests point it at local fixtures.
	CloneURL func(owner, repo string) string
}

// Engine is the repository cache orchestrator. Construct once at startup
// and pass by handle; there is no ambient global state, so tests can run
// multiple independent caches.
type Engine struct {
	cfg      *config.Config
	paths    *config.Paths
	runner   gitrun.Runner
	registry *registry.Registry
	content  *content.Cache
	log      logrus.FieldLogger
	cloneURL func(owner, repo string) string

	// ensure coalesces concurrent clone/fetch per repository key.
	ensure singleflight.Group

	// locks serializes working-directory mutation against reads per
	// repository while allowing full parallelism across repositories.
	mu    sync.Mutex
	locks map[string]*sync.RWMutex

	stopSweeper func()
}

// New creates an engine, recovering the registry from the on-disk index and
// starting the housekeeping sweeper. Call Close to stop the sweeper.
func New(cfg *config.Config, paths *config.Paths, opts Options) (*Engine, error) {
	reg, err := registry.Load(paths.IndexFile, cfg.Cache.MaxRepos)
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = gitrun.New(cfg.Git)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	cloneURL := opts.CloneURL
	if cloneURL == nil {
		token := opts.Token
		cloneURL = func(owner, repo string) string {
			return github.CloneURL(owner, repo, token)
		}
	}

	cache := content.NewCache(cfg.Cache.MaxSizeBytes, cfg.Cache.TTLDuration())

	e := &Engine{
		cfg:      cfg,
		paths:    paths,
		runner:   runner,
		registry: reg,
		content:  cache,
		log:      log,
		cloneURL: cloneURL,
		locks:    make(map[string]*sync.RWMutex),
	}
	e.stopSweeper = cache.StartSweeper(cfg.Cache.SweepIntervalDuration(), log)
	return e, nil
}

// Close stops background housekeeping. Safe to call multiple times.
func (e *Engine) Close() {
	if e.stopSweeper != nil {
		e.stopSweeper()
	}
}

// lockFor returns the per-repository lock, creating it on first use.
func (e *Engine) lockFor(owner, repo string) *sync.RWMutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := registry.Key(owner, repo)
	lock, ok := e.locks[key]
	if !ok {
		lock = &sync.RWMutex{}
		e.locks[key] = lock
	}
	return lock
}

// EnsureRepository returns a handle guaranteed to reflect the requested
// branch, cloning if no local copy exists or fetching in place when the
// cached copy is stale or on a different branch. A fresh handle for the same
// branch is returned without any subprocess call.
func (e *Engine) EnsureRepository(ctx context.Context, owner, repo, branch string) (*registry.Handle, error) {
	if owner == "" || repo == "" {
		return nil, errors.InvalidRepo(owner + "/" + repo)
	}
	if branch == "" {
		return nil, errors.New(errors.ErrInvalidRepo, "branch is required", "Pass --branch or resolve the default branch first")
	}

	if h := e.freshHandle(owner, repo, branch); h != nil {
		return h, nil
	}

	// Identical requests coalesce into one flight; requests for a different
	// branch of the same repository serialize on the per-repo lock instead.
	key := registry.Key(owner, repo) + "@" + branch
	v, err, _ := e.ensure.Do(key, func() (interface{}, error) {
		lock := e.lockFor(owner, repo)
		lock.Lock()
		defer lock.Unlock()

		// Re-check under the lock; a concurrent caller may have synced.
		if h := e.freshHandle(owner, repo, branch); h != nil {
			return h, nil
		}
		return e.syncLocked(ctx, owner, repo, branch)
	})
	if err != nil {
		return nil, err
	}
	return v.(*registry.Handle), nil
}

// freshHandle returns the registered handle when it matches the requested
// branch, is within the freshness window, and its working copy still exists.
func (e *Engine) freshHandle(owner, repo, branch string) *registry.Handle {
	h := e.registry.Get(owner, repo)
	if h == nil || h.Branch != branch {
		return nil
	}
	if h.IsStale(e.cfg.Cache.TTLDuration()) {
		return nil
	}
	if !isDir(filepath.Join(h.LocalPath, ".git")) {
		return nil
	}
	return h
}

// syncLocked clones or updates the working copy. Caller holds the
// repository's write lock.
func (e *Engine) syncLocked(ctx context.Context, owner, repo, branch string) (*registry.Handle, error) {
	dir := e.paths.RepoDir(owner, repo)
	repoStr := owner + "/" + repo
	existing := e.registry.Get(owner, repo)

	if !isDir(filepath.Join(dir, ".git")) {
		// Clear any partial checkout before cloning fresh.
		if err := os.RemoveAll(dir); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(dir), config.DefaultDirMode); err != nil {
			return nil, err
		}

		url := e.cloneURL(owner, repo)
		if _, err := e.runner.Run(ctx, "", "clone", "--depth", "1", "--branch", branch, "--single-branch", url, dir); err != nil {
			return nil, e.wrapGitError(repoStr, err)
		}
		existing = nil
	} else {
		if _, err := e.runner.Run(ctx, dir, "fetch", "--depth", "1", "origin", branch); err != nil {
			return nil, e.wrapGitError(repoStr, err)
		}
		if _, err := e.runner.Run(ctx, dir, "checkout", "-B", branch, "FETCH_HEAD"); err != nil {
			return nil, e.wrapGitError(repoStr, err)
		}
	}

	out, err := e.runner.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return nil, e.wrapGitError(repoStr, err)
	}

	h, err := registry.NewHandle(owner, repo, branch, dir)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		h.ClonedAt = existing.ClonedAt
	}
	h.HeadRevision = strings.TrimSpace(out)
	h.FileCount, h.TotalBytes = scanWorkdir(dir)

	evicted, err := e.registry.Set(h)
	for _, victim := range evicted {
		e.log.WithFields(logrus.Fields{
			"repository": victim.RepoString(),
			"synced":     victim.LastSyncedAt,
		}).Info("evicting least-recently-synced repository")
		// Removed without the victim's lock: taking a second repo lock here
		// could deadlock against a concurrent sync evicting in the other
		// direction. An in-flight read of the victim fails and the next
		// ensure re-clones.
		_ = os.RemoveAll(victim.LocalPath)
		e.content.InvalidateRepo(victim.Owner, victim.Repo)
	}
	if err != nil {
		return nil, err
	}

	// The working copy changed; cached file contents may be stale.
	e.content.InvalidateRepo(owner, repo)

	e.log.WithFields(logrus.Fields{
		"repository": repoStr,
		"branch":     branch,
		"revision":   h.HeadRevision,
		"files":      h.FileCount,
	}).Debug("repository synced")
	return h, nil
}

// wrapGitError maps runner faults to the engine's error taxonomy.
func (e *Engine) wrapGitError(repo string, err error) error {
	if _, ok := err.(*gitrun.TimeoutError); ok {
		return errors.GitTimeout(repo, err)
	}
	return errors.GitFailed(repo, err)
}

// scanWorkdir counts files and bytes under dir, excluding git metadata.
func scanWorkdir(dir string) (files int, bytes int64) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == gitMetadataDir {
				return filepath.SkipDir
			}
			return nil
		}
		if info, err := d.Info(); err == nil {
			files++
			bytes += info.Size()
		}
		return nil
	})
	return files, bytes
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
