package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Short:   "Show cache usage and per-repository state",
		Example: `  elkhorn stats`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	stats := e.Stats()

	fmt.Printf("%s\n", info("Content cache"))
	printInfo("entries", fmt.Sprintf("%d", stats.Content.Entries))
	printInfo("size", fmt.Sprintf("%s / %s", humanBytes(stats.Content.TotalBytes), humanBytes(stats.Content.MaxBytes)))
	if stats.Content.NearCapacity() {
		printWarning("content cache is near its size cap")
	}

	fmt.Printf("\n%s\n", info("Repositories"))
	if len(stats.Repositories) == 0 {
		printInfo("cached", "none")
		return nil
	}
	for _, r := range stats.Repositories {
		fmt.Printf("  %s/%s (%s)\n", r.Owner, r.Repo, r.Branch)
		printInfo("  revision", shortRevision(r.HeadRevision))
		printInfo("  files", fmt.Sprintf("%d (%s)", r.FileCount, humanBytes(r.TotalBytes)))
		printInfo("  synced", r.Age)
		printInfo("  path", r.LocalPath)
	}
	return nil
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	if rev == "" {
		return "(unknown)"
	}
	return rev
}
