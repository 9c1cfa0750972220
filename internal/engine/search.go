package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/HartBrook/elkhorn/internal/gitrun"
	"github.com/gobwas/glob"
)

// Match is one search hit. Matches are produced fresh per call and never
// cached; files change under edits and recomputing from the working copy is
// cheap.
type Match struct {
	File    string
	Line    int
	Content string
	Pattern string
}

// SearchFiles runs a line-oriented regular-expression search over the
// working copy. filePattern is an optional glob filter ("" matches all
// files). Zero matches is success with an empty list.
func (e *Engine) SearchFiles(ctx context.Context, owner, repo, pattern, branch, filePattern string) ([]Match, error) {
	var filter glob.Glob
	if filePattern != "" {
		var err error
		filter, err = glob.Compile(filePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", filePattern, err)
		}
	}

	h, err := e.EnsureRepository(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	lock := e.lockFor(owner, repo)
	lock.RLock()
	defer lock.RUnlock()

	out, err := e.runner.Run(ctx, h.LocalPath, "grep", "-n", "-I", "-E", "-e", pattern)
	if err != nil {
		// git grep exits 1 when nothing matched; that's a success case.
		if exitErr, ok := err.(*gitrun.ExitError); ok && exitErr.ExitCode == 1 {
			return []Match{}, nil
		}
		return nil, e.wrapGitError(h.RepoString(), err)
	}

	matches := []Match{}
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			continue
		}
		lineNum, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		file := parts[0]
		if filter != nil && !matchesFilter(filter, filePattern, file) {
			continue
		}
		matches = append(matches, Match{
			File:    file,
			Line:    lineNum,
			Content: parts[2],
			Pattern: pattern,
		})
	}
	return matches, nil
}

// matchesFilter applies the glob to the full path, or to the base name when
// the pattern has no separator so "*.go" matches files in subdirectories.
func matchesFilter(filter glob.Glob, pattern, file string) bool {
	if filter.Match(file) {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			return filter.Match(file[idx+1:])
		}
	}
	return false
}
