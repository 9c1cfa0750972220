package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type clearOptions struct {
	all bool
}

// NewClearCmd creates the clear command.
func NewClearCmd() *cobra.Command {
	opts := &clearOptions{}

	cmd := &cobra.Command{
		Use:   "clear [owner/repo]",
		Short: "Delete cached working copies",
		Long: `Deletes a repository's working directory and purges its cache entries.
With --all, every cached repository is removed and the registry is reset.`,
		Example: `  elkhorn clear acme/widgets
  elkhorn clear --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoArg := ""
			if len(args) == 1 {
				repoArg = args[0]
			}
			return runClear(repoArg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.all, "all", false, "Clear every cached repository")

	return cmd
}

func runClear(repoArg string, opts *clearOptions) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	if opts.all {
		if err := e.ClearAll(); err != nil {
			return err
		}
		printSuccess("cleared all cached repositories")
		return nil
	}

	if repoArg == "" {
		return fmt.Errorf("specify a repository to clear, or pass --all")
	}

	owner, repo, err := parseRepoArg(repoArg)
	if err != nil {
		return err
	}

	if err := e.ClearRepository(owner, repo); err != nil {
		return err
	}
	printSuccess("cleared %s/%s", owner, repo)
	return nil
}
