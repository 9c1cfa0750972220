package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type searchOptions struct {
	branch      string
	filePattern string
}

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <owner/repo> <pattern>",
		Short: "Search file contents in the cached working copy",
		Long: `Runs a line-oriented regular-expression search over the repository's
working copy. Results are always recomputed from the current copy; zero
matches is not an error.`,
		Example: `  elkhorn search acme/widgets "func main"
  elkhorn search acme/widgets "TODO" --files "*.go"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to search (default: repository's default branch)")
	cmd.Flags().StringVar(&opts.filePattern, "files", "", "Glob filter for file paths (e.g., \"*.go\")")

	return cmd
}

func runSearch(ctx context.Context, repoArg, pattern string, opts *searchOptions) error {
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

	matches, err := e.SearchFiles(ctx, owner, repo, pattern, branch, opts.filePattern)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		printWarning("no matches for %q", pattern)
		return nil
	}

	for _, m := range matches {
		fmt.Printf("%s%s %s\n", info(m.File), dim(fmt.Sprintf(":%d", m.Line)), m.Content)
	}
	printSuccess("%d match(es)", len(matches))
	return nil
}
