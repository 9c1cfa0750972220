package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type syncOptions struct {
	branch string
}

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync <owner/repo>",
		Short: "Clone or refresh a repository's local working copy",
		Long: `Ensures a fresh local working copy of the repository. Clones on first
use; fetches and checks out in place when the cached copy is stale or a
different branch is requested. A fresh copy is a no-op.`,
		Example: `  elkhorn sync acme/widgets
  elkhorn sync acme/widgets --branch release-2.0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to check out (default: repository's default branch)")

	return cmd
}

func runSync(ctx context.Context, repoArg string, opts *syncOptions) error {
	owner, repo, err := parseRepoArg(repoArg)
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	branch := resolveBranch(ctx, owner, repo, opts.branch)

	h, err := e.EnsureRepository(ctx, owner, repo, branch)
	if err != nil {
		return err
	}

	printSuccess("%s synced (%s)", h.RepoString(), branch)
	printInfo("revision", h.HeadRevision)
	printInfo("files", fmt.Sprintf("%d", h.FileCount))
	printInfo("size", humanBytes(h.TotalBytes))
	printInfo("path", h.LocalPath)
	return nil
}
