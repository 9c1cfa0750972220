package cli

import (
	"context"
	"fmt"

	"github.com/HartBrook/elkhorn/internal/engine"
	"github.com/spf13/cobra"
)

type treeOptions struct {
	branch string
}

// NewTreeCmd creates the tree command.
func NewTreeCmd() *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree <owner/repo> [dir]",
		Short: "List a directory of the cached working copy",
		Example: `  elkhorn tree acme/widgets
  elkhorn tree acme/widgets src --branch dev`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 2 {
				dir = args[1]
			}
			return runTree(cmd.Context(), args[0], dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to list (default: repository's default branch)")

	return cmd
}

func runTree(ctx context.Context, repoArg, dir string, opts *treeOptions) error {
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

	entries, err := e.GetFileTree(ctx, owner, repo, branch, dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Type == engine.EntryDir {
			fmt.Printf("%s/\n", info(entry.Name))
		} else {
			fmt.Printf("%s %s\n", entry.Name, dim(humanBytes(entry.Size)))
		}
	}
	return nil
}
