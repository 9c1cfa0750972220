package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/HartBrook/elkhorn/internal/errors"
	"github.com/sirupsen/logrus"
)

// gitMetadataDir is the version-control metadata directory, always excluded
// from listings and scans.
const gitMetadataDir = ".git"

// GetFileContent returns a file's content, serving from the content cache
// when possible and reading the working copy on a miss.
func (e *Engine) GetFileContent(ctx context.Context, owner, repo, path, branch string) (string, error) {
	if cached, ok := e.content.Get(owner, repo, branch, path); ok {
		return string(cached), nil
	}

	h, err := e.EnsureRepository(ctx, owner, repo, branch)
	if err != nil {
		return "", err
	}

	lock := e.lockFor(owner, repo)
	lock.RLock()
	defer lock.RUnlock()

	full, err := e.safePath(h.RepoString(), h.LocalPath, path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.FileNotFound(h.RepoString(), path)
		}
		return "", err
	}

	e.content.Put(owner, repo, branch, path, data)
	return string(data), nil
}

// EditFile replaces the first occurrence of oldContent with newContent in a
// file and returns the new full content. The edit fails without touching the
// file when oldContent is not a literal substring of what is on disk, which
// guards against edits made from a stale view of the file. The change is
// local only; committing and pushing belong to the hosting-API caller.
func (e *Engine) EditFile(ctx context.Context, owner, repo, path, oldContent, newContent, branch string) (string, error) {
	h, err := e.EnsureRepository(ctx, owner, repo, branch)
	if err != nil {
		return "", err
	}

	lock := e.lockFor(owner, repo)
	lock.Lock()
	defer lock.Unlock()

	full, err := e.safePath(h.RepoString(), h.LocalPath, path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.FileNotFound(h.RepoString(), path)
		}
		return "", err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}

	current := string(data)
	if !strings.Contains(current, oldContent) {
		return "", errors.EditMismatch(h.RepoString(), path)
	}

	updated := strings.Replace(current, oldContent, newContent, 1)
	if err := os.WriteFile(full, []byte(updated), info.Mode().Perm()); err != nil {
		return "", err
	}

	// Drop any cached copy so the next read sees the edit.
	e.content.Invalidate(owner, repo, branch, path)
	return updated, nil
}

// InvalidateContent drops any cached content for a file so the next read
// comes from disk.
func (e *Engine) InvalidateContent(owner, repo, path, branch string) {
	e.content.Invalidate(owner, repo, branch, path)
}

// safePath resolves rel inside root, failing closed when the resolution
// escapes the repository sandbox. Violations are logged loudly; they are
// never retried.
func (e *Engine) safePath(repo, root, rel string) (string, error) {
	full, err := safeJoin(root, rel)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"repository": repo,
			"path":       rel,
		}).Warn("blocked path traversal attempt")
		return "", errors.PathTraversal(repo, rel)
	}
	return full, nil
}

// safeJoin joins rel onto root and verifies the cleaned result stays within
// root.
func safeJoin(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", os.ErrPermission
	}
	rootClean := filepath.Clean(root)
	joined := filepath.Join(rootClean, rel)
	if joined != rootClean && !strings.HasPrefix(joined, rootClean+string(filepath.Separator)) {
		return "", os.ErrPermission
	}
	return joined, nil
}
