package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type editOptions struct {
	branch     string
	oldContent string
	newContent string
}

// NewEditCmd creates the edit command.
func NewEditCmd() *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <owner/repo> <path>",
		Short: "Replace content in a file of the cached working copy",
		Long: `Replaces the first occurrence of --old with --new in the file. The old
content must be a literal substring of the file on disk; if your view of
the file is stale, the edit fails and the file is left untouched.

Edits are local only. Committing and pushing are up to you.`,
		Example: `  elkhorn edit acme/widgets package.json --old '"v1.0.0"' --new '"v1.1.0"'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to edit (default: repository's default branch)")
	cmd.Flags().StringVar(&opts.oldContent, "old", "", "Content to replace (required)")
	cmd.Flags().StringVar(&opts.newContent, "new", "", "Replacement content (required)")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

func runEdit(ctx context.Context, repoArg, path string, opts *editOptions) error {
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

	if _, err := e.EditFile(ctx, owner, repo, path, opts.oldContent, opts.newContent, branch); err != nil {
		return err
	}

	printSuccess("edited %s", path)
	printInfo("repository", owner+"/"+repo)
	printInfo("branch", branch)
	return nil
}
