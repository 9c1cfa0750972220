// Package config handles elkhorn configuration.
package config

import (
	"regexp"
	"strings"

	"github.com/HartBrook/elkhorn/internal/errors"
)

// repoPattern matches "owner/repo" identifiers. GitHub owner and repo names
// allow alphanumerics, hyphens, underscores, and dots.
var repoPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_.-]*)/([A-Za-z0-9_.-]+)$`)

// ParseRepo parses a repository string into owner and repo.
// Accepts "owner/repo", "github.com/owner/repo", and full https URLs,
// including URLs with trailing paths like owner/repo/tree/main.
func ParseRepo(repoStr string) (owner, repo string, err error) {
	original := repoStr
	if repoStr == "" {
		return "", "", errors.InvalidRepo("(empty)")
	}

	// Strip protocol
	repoStr = strings.TrimPrefix(repoStr, "https://")
	repoStr = strings.TrimPrefix(repoStr, "http://")

	// Strip host (github.com for now, extensible for gitlab.com etc.)
	repoStr = strings.TrimPrefix(repoStr, "github.com/")

	// Strip .git suffix and trailing slashes
	repoStr = strings.TrimSuffix(repoStr, ".git")
	repoStr = strings.TrimSuffix(repoStr, "/")

	// Split by / and take only owner/repo (first two parts)
	// This handles URLs like owner/repo/tree/main or owner/repo/blob/main/file.md
	parts := strings.Split(repoStr, "/")
	if len(parts) >= 2 {
		repoStr = parts[0] + "/" + parts[1]
	}

	matches := repoPattern.FindStringSubmatch(repoStr)
	if matches == nil {
		return "", "", errors.InvalidRepo(original)
	}

	return matches[1], matches[2], nil
}
