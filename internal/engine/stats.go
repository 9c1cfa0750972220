package engine

import (
	"os"
	"time"

	"github.com/HartBrook/elkhorn/internal/content"
	"github.com/HartBrook/elkhorn/internal/registry"
	"github.com/hashicorp/go-multierror"
)

// RepoStats is per-repository metadata for stats reporting.
type RepoStats struct {
	Owner        string
	Repo         string
	Branch       string
	LocalPath    string
	HeadRevision string
	FileCount    int
	TotalBytes   int64
	LastSyncedAt time.Time
	Age          string
}

// CacheStats aggregates content cache and registry state.
type CacheStats struct {
	Content      content.Stats
	Repositories []RepoStats
}

// Stats reports live content cache usage and per-repository metadata.
func (e *Engine) Stats() CacheStats {
	stats := CacheStats{Content: e.content.GetStats()}
	for _, h := range e.registry.List() {
		stats.Repositories = append(stats.Repositories, RepoStats{
			Owner:        h.Owner,
			Repo:         h.Repo,
			Branch:       h.Branch,
			LocalPath:    h.LocalPath,
			HeadRevision: h.HeadRevision,
			FileCount:    h.FileCount,
			TotalBytes:   h.TotalBytes,
			LastSyncedAt: h.LastSyncedAt,
			Age:          h.Age(),
		})
	}
	return stats
}

// ClearRepository deletes a repository's working directory and purges its
// registry and content cache entries.
func (e *Engine) ClearRepository(owner, repo string) error {
	lock := e.lockFor(owner, repo)
	lock.Lock()
	defer lock.Unlock()

	dir := e.paths.RepoDir(owner, repo)
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	e.content.InvalidateRepo(owner, repo)
	return e.registry.Delete(owner, repo)
}

// ClearAll deletes every cached working directory and resets the registry
// and content cache. Errors are collected so one failed removal doesn't
// leave the rest behind.
func (e *Engine) ClearAll() error {
	var result *multierror.Error

	for _, h := range e.registry.List() {
		lock := e.lockFor(h.Owner, h.Repo)
		lock.Lock()
		if err := os.RemoveAll(h.LocalPath); err != nil {
			result = multierror.Append(result, err)
		}
		lock.Unlock()
	}
	if err := os.RemoveAll(e.paths.ReposDir); err != nil {
		result = multierror.Append(result, err)
	}
	if err := e.registry.Reset(); err != nil {
		result = multierror.Append(result, err)
	}
	e.content.Purge()

	return result.ErrorOrNil()
}

// Registry exposes read access to registered handles for callers that only
// need metadata (the CLI's stats view).
func (e *Engine) Registry() []*registry.Handle {
	return e.registry.List()
}
