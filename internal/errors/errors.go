// Package errors provides typed errors for elkhorn.
package errors

import "fmt"

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrGitHubAuthFailed ErrorCode = "GITHUB_AUTH_FAILED"
	ErrGitFailed        ErrorCode = "GIT_FAILED"
	ErrGitTimeout       ErrorCode = "GIT_TIMEOUT"
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"
	ErrPathTraversal    ErrorCode = "PATH_TRAVERSAL"
	ErrEditMismatch     ErrorCode = "EDIT_MISMATCH"
	ErrRepoNotCached    ErrorCode = "REPO_NOT_CACHED"
	ErrInvalidRepo      ErrorCode = "INVALID_REPO"
)

// ElkhornError represents a typed error with user-friendly hints.
type ElkhornError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *ElkhornError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ElkhornError) Unwrap() error {
	return e.Cause
}

// New creates a new ElkhornError.
func New(code ErrorCode, message, hint string) *ElkhornError {
	return &ElkhornError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new ElkhornError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *ElkhornError {
	return &ElkhornError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// ConfigNotFound returns an error for missing config file.
func ConfigNotFound(path string) *ElkhornError {
	return &ElkhornError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("config file not found: %s", path),
		Hint:    "Run `elkhorn init` to create a configuration",
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *ElkhornError {
	return &ElkhornError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check your config file at ~/.config/elkhorn/config.yaml",
	}
}

// GitHubAuthFailed returns an error for authentication failures.
func GitHubAuthFailed(cause error) *ElkhornError {
	return &ElkhornError{
		Code:    ErrGitHubAuthFailed,
		Message: "GitHub authentication failed",
		Hint:    "Run `gh auth login` or set ELKHORN_GITHUB_TOKEN environment variable",
		Cause:   cause,
	}
}

// GitFailed returns an error for a git subprocess that exited non-zero.
func GitFailed(repo string, cause error) *ElkhornError {
	return &ElkhornError{
		Code:    ErrGitFailed,
		Message: fmt.Sprintf("git operation failed for %s", repo),
		Hint:    "Check that the repository exists and you have access",
		Cause:   cause,
	}
}

// GitTimeout returns an error for a git subprocess that exceeded its deadline.
func GitTimeout(repo string, cause error) *ElkhornError {
	return &ElkhornError{
		Code:    ErrGitTimeout,
		Message: fmt.Sprintf("git operation timed out for %s", repo),
		Hint:    "Retry, or raise git.timeout in your config for large repositories",
		Cause:   cause,
	}
}

// FileNotFound returns an error when a file is absent from the working copy.
// Distinct code so callers can offer "create this file" flows.
func FileNotFound(repo, path string) *ElkhornError {
	return &ElkhornError{
		Code:    ErrFileNotFound,
		Message: fmt.Sprintf("file not found in %s: %s", repo, path),
		Hint:    "Run `elkhorn tree` to list available files",
	}
}

// PathTraversal returns an error when a path escapes the repository sandbox.
func PathTraversal(repo, path string) *ElkhornError {
	return &ElkhornError{
		Code:    ErrPathTraversal,
		Message: fmt.Sprintf("path escapes repository %s: %s", repo, path),
		Hint:    "Paths must stay within the repository working copy",
	}
}

// EditMismatch returns an error when an edit's old content is not present in
// the file on disk.
func EditMismatch(repo, path string) *ElkhornError {
	return &ElkhornError{
		Code:    ErrEditMismatch,
		Message: fmt.Sprintf("old content not found in %s: %s", repo, path),
		Hint:    "Re-read the file and retry the edit with current content",
	}
}

// RepoNotCached returns an error when an operation needs a local working copy
// that does not exist.
func RepoNotCached(repo string) *ElkhornError {
	return &ElkhornError{
		Code:    ErrRepoNotCached,
		Message: fmt.Sprintf("no cached working copy for %s", repo),
		Hint:    "Run `elkhorn sync` to clone the repository",
	}
}

// InvalidRepo returns an error for malformed repo strings.
func InvalidRepo(repo string) *ElkhornError {
	return &ElkhornError{
		Code:    ErrInvalidRepo,
		Message: fmt.Sprintf("invalid repository format: %s", repo),
		Hint:    "Use format: github.com/owner/repo or owner/repo",
	}
}
