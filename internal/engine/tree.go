package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/HartBrook/elkhorn/internal/errors"
)

// Entry types for tree listings.
const (
	EntryFile = "file"
	EntryDir  = "dir"
)

// TreeEntry is one item in a single-level directory listing.
type TreeEntry struct {
	Name string
	Path string // repository-relative, forward slashes
	Type string // EntryFile or EntryDir
	Size int64  // bytes, files only
}

// GetFileTree lists the immediate entries of a directory in the working
// copy (non-recursive). Pass dir "" for the repository root. Git metadata is
// always excluded.
func (e *Engine) GetFileTree(ctx context.Context, owner, repo, branch, dir string) ([]TreeEntry, error) {
	h, err := e.EnsureRepository(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	lock := e.lockFor(owner, repo)
	lock.RLock()
	defer lock.RUnlock()

	full, err := e.safePath(h.RepoString(), h.LocalPath, dir)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(h.RepoString(), dir)
		}
		return nil, err
	}

	entries := []TreeEntry{}
	for _, de := range dirEntries {
		name := de.Name()
		if name == gitMetadataDir {
			continue
		}
		entry := TreeEntry{
			Name: name,
			Path: filepath.ToSlash(filepath.Join(dir, name)),
			Type: EntryFile,
		}
		if de.IsDir() {
			entry.Type = EntryDir
		} else if info, err := de.Info(); err == nil {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
