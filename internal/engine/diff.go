package engine

import (
	"context"
	"sort"
	"strings"
)

// FileStatus classifies a working-tree change.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
)

// ModifiedFile is one changed path in the working tree.
type ModifiedFile struct {
	Path   string
	Status FileStatus
}

// GetModifiedFiles diffs the working tree against the last-synced revision
// and returns the cumulative effect of local edits. Untracked files are
// reported as added.
func (e *Engine) GetModifiedFiles(ctx context.Context, owner, repo, branch string) ([]ModifiedFile, error) {
	h, err := e.EnsureRepository(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	lock := e.lockFor(owner, repo)
	lock.RLock()
	defer lock.RUnlock()

	out, err := e.runner.Run(ctx, h.LocalPath, "diff", "--name-status", "HEAD")
	if err != nil {
		return nil, e.wrapGitError(h.RepoString(), err)
	}

	modified := []ModifiedFile{}
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		status, path := fields[0], fields[1]
		switch {
		case strings.HasPrefix(status, "A"):
			modified = append(modified, ModifiedFile{Path: path, Status: StatusAdded})
		case strings.HasPrefix(status, "D"):
			modified = append(modified, ModifiedFile{Path: path, Status: StatusDeleted})
		case strings.HasPrefix(status, "R") && len(fields) >= 3:
			// Renames surface as a modification of the new path.
			modified = append(modified, ModifiedFile{Path: fields[2], Status: StatusModified})
		default:
			modified = append(modified, ModifiedFile{Path: path, Status: StatusModified})
		}
	}

	// git diff does not see untracked files; list them separately.
	out, err = e.runner.Run(ctx, h.LocalPath, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, e.wrapGitError(h.RepoString(), err)
	}
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		modified = append(modified, ModifiedFile{Path: line, Status: StatusAdded})
	}

	sort.Slice(modified, func(i, j int) bool {
		return modified[i].Path < modified[j].Path
	})
	return modified, nil
}
