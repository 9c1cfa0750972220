package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type statusOptions struct {
	branch string
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status <owner/repo>",
		Short: "List locally modified files in the working copy",
		Long: `Diffs the working copy against its last-synced revision and lists the
cumulative effect of local edits: added, modified, and deleted files.`,
		Example: `  elkhorn status acme/widgets`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to diff (default: repository's default branch)")

	return cmd
}

func runStatus(ctx context.Context, repoArg string, opts *statusOptions) error {
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

	modified, err := e.GetModifiedFiles(ctx, owner, repo, branch)
	if err != nil {
		return err
	}

	if len(modified) == 0 {
		printSuccess("%s/%s is clean", owner, repo)
		return nil
	}

	title := cases.Title(language.English)
	for _, m := range modified {
		fmt.Printf("  %s  %s\n", warning(title.String(string(m.Status))), m.Path)
	}
	printWarning("%d file(s) changed locally", len(modified))
	return nil
}
