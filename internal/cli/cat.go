package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type catOptions struct {
	branch  string
	noCache bool
}

// NewCatCmd creates the cat command.
func NewCatCmd() *cobra.Command {
	opts := &catOptions{}

	cmd := &cobra.Command{
		Use:   "cat <owner/repo> <path>",
		Short: "Print a file from the cached working copy",
		Example: `  elkhorn cat acme/widgets README.md
  elkhorn cat acme/widgets src/main.go --branch dev`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to read from (default: repository's default branch)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Bypass the content cache and read straight from disk")

	return cmd
}

func runCat(ctx context.Context, repoArg, path string, opts *catOptions) error {
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

	if opts.noCache {
		e.InvalidateContent(owner, repo, path, branch)
	}

	content, err := e.GetFileContent(ctx, owner, repo, path, branch)
	if err != nil {
		return err
	}

	fmt.Print(content)
	return nil
}
