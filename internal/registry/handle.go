// Package registry tracks cached repository checkouts.
package registry

import (
	"fmt"
	"time"

	"github.com/HartBrook/elkhorn/internal/errors"
)

// Handle identifies one cached repository checkout and its sync state.
// A repository has exactly one working directory regardless of branch;
// switching branches updates the same directory in place.
type Handle struct {
	Owner        string    `json:"owner"`
	Repo         string    `json:"repo"`
	Branch       string    `json:"branch"`
	LocalPath    string    `json:"local_path"`
	ClonedAt     time.Time `json:"cloned_at"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	HeadRevision string    `json:"head_revision,omitempty"`
	FileCount    int       `json:"file_count"`
	TotalBytes   int64     `json:"total_bytes"`
}

// NewHandle creates a validated Handle.
func NewHandle(owner, repo, branch, localPath string) (*Handle, error) {
	if owner == "" || repo == "" {
		return nil, errors.InvalidRepo(owner + "/" + repo)
	}
	if branch == "" {
		return nil, errors.New(errors.ErrInvalidRepo, "branch is required", "")
	}
	if localPath == "" {
		return nil, errors.New(errors.ErrInvalidRepo, "local path is required", "")
	}
	now := time.Now()
	return &Handle{
		Owner:        owner,
		Repo:         repo,
		Branch:       branch,
		LocalPath:    localPath,
		ClonedAt:     now,
		LastSyncedAt: now,
	}, nil
}

// Key returns the composite "owner/repo" registry key.
func Key(owner, repo string) string {
	return owner + "/" + repo
}

// Key returns the handle's registry key.
func (h *Handle) Key() string {
	return Key(h.Owner, h.Repo)
}

// RepoString returns "owner/repo" format.
func (h *Handle) RepoString() string {
	return fmt.Sprintf("%s/%s", h.Owner, h.Repo)
}

// IsStale returns true if the checkout is at or older than the TTL.
func (h *Handle) IsStale(ttl time.Duration) bool {
	return time.Since(h.LastSyncedAt) >= ttl
}

// Age returns human-readable age string.
func (h *Handle) Age() string {
	duration := time.Since(h.LastSyncedAt)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

// clone returns a copy so callers can't mutate registry state in place.
func (h *Handle) clone() *Handle {
	copied := *h
	return &copied
}
